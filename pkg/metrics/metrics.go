// Package metrics records operation counters into an embedded time-series
// store under the application workdir.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

// Metric names recorded by the service.
const (
	MetricApiRequest     = "api_request"
	MetricAuthLogin      = "auth_login"
	MetricProductWrite   = "product_write"
	MetricPurchaseWrite  = "purchase_write"
	MetricFavoriteToggle = "favorite_toggle"
)

var (
	storage tstorage.Storage
	once    sync.Once
	mu      sync.Mutex
)

// InitMetrics opens the metrics store under workdir/data/metrics.
func InitMetrics(workdir string) error {
	var err error
	once.Do(func() {
		storage, err = tstorage.NewStorage(
			tstorage.WithDataPath(filepath.Join(workdir, "data", "metrics")),
			tstorage.WithTimestampPrecision(tstorage.Seconds),
			tstorage.WithRetention(30*24*time.Hour),
		)
	})
	return err
}

// CounterInc records a single occurrence of metric at the current time.
func CounterInc(metric string) {
	if storage == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	err := storage.InsertRows([]tstorage.Row{
		{Metric: metric, DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: 1}},
	})
	if err != nil {
		zap.L().Warn("metrics insert failed", zap.String("metric", metric), zap.Error(err))
	}
}

// CountSince sums occurrences of metric from start to now.
func CountSince(metric string, start time.Time) int64 {
	if storage == nil {
		return 0
	}
	points, err := storage.Select(metric, nil, start.Unix(), time.Now().Unix())
	if err != nil {
		return 0
	}
	var total int64
	for _, p := range points {
		total += int64(p.Value)
	}
	return total
}

// Close flushes and closes the metrics store.
func Close() error {
	if storage == nil {
		return nil
	}
	return storage.Close()
}
