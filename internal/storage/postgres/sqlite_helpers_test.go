package postgres

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openSQLiteForTest поднимает файловую SQLite-базу с той же ORM-схемой, что и в PostgreSQL.
func openSQLiteForTest(t *testing.T) *gorm.DB {
	t.Helper()

	logger := log.New()
	logger.SetLevel(log.WarnLevel)

	dsn := filepath.Join(t.TempDir(), "orders.db")
	db, err := gorm.Open(sqlite.Open(dsn), newGormConfig(logger.WithField("test", t.Name())))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&orderRecord{}, &orderItemRecord{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
