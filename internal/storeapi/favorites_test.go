package storeapi

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rindelabs/rindestore/internal/domain"
)

func openFavoriteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Favorite{}))
	return db
}

func countFavorites(t *testing.T, db *gorm.DB, userID, productID int64) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&domain.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).Count(&count).Error)
	return count
}

func TestFlipFavoriteRoundTrip(t *testing.T) {
	db := openFavoriteDB(t)

	on, err := flipFavorite(db, 1, 100)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, int64(1), countFavorites(t, db, 1, 100))

	off, err := flipFavorite(db, 1, 100)
	require.NoError(t, err)
	assert.False(t, off)
	assert.Equal(t, int64(0), countFavorites(t, db, 1, 100))
}

func TestFlipFavoriteIsPerUser(t *testing.T) {
	db := openFavoriteDB(t)

	_, err := flipFavorite(db, 1, 100)
	require.NoError(t, err)
	_, err = flipFavorite(db, 2, 100)
	require.NoError(t, err)

	off, err := flipFavorite(db, 1, 100)
	require.NoError(t, err)
	assert.False(t, off)
	assert.Equal(t, int64(1), countFavorites(t, db, 2, 100))
}

func TestMarkFavoriteAbsorbsDuplicate(t *testing.T) {
	db := openFavoriteDB(t)

	require.NoError(t, markFavorite(db, 1, 100))
	require.NoError(t, markFavorite(db, 1, 100))
	assert.Equal(t, int64(1), countFavorites(t, db, 1, 100))
}

func TestMarkFavoriteSurfacesStoreErrors(t *testing.T) {
	db := openFavoriteDB(t)
	require.NoError(t, db.Migrator().DropTable(&domain.Favorite{}))

	assert.Error(t, markFavorite(db, 1, 100))
}
