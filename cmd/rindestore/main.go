package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rindelabs/rindestore/config"
	"github.com/rindelabs/rindestore/internal/adminapi"
	"github.com/rindelabs/rindestore/internal/app"
	"github.com/rindelabs/rindestore/internal/blobstore"
	"github.com/rindelabs/rindestore/internal/storeapi"
	"github.com/rindelabs/rindestore/internal/webserver"
	"github.com/rindelabs/rindestore/pkg/common"
)

var (
	h        bool
	initdb   bool
	conffile string
)

func init() {
	flag.BoolVar(&h, "h", false, "help usage")
	flag.StringVar(&conffile, "c", "", "config file")
	flag.BoolVar(&initdb, "initdb", false, "drop and recreate all tables, then exit")
}

func main() {
	flag.Parse()
	if h {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.LoadConfig(conffile)
	common.MustMkdir(cfg.System.Workdir)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if initdb {
		application.InitDb()
		fmt.Println("database initialized")
		return
	}

	maxMB := application.GetSettingsInt64Value("store", "image_max_mb")
	if maxMB <= 0 {
		maxMB = 5
	}
	blob, err := blobstore.NewStore(cfg.System.Workdir, maxMB)
	if err != nil {
		zap.S().Fatalf("image store init failed: %v", err)
	}

	srv := webserver.Init(application, blob)
	storeapi.Init()
	adminapi.Init()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		application.Release()
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		zap.S().Fatalf("web server stopped: %v", err)
	}
}
