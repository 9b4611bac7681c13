package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"burgerreview/internal/config"
	"burgerreview/internal/model"
)

func TestOpenAndMigrate_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "burger.db") + "?_foreign_keys=on"

	db, err := Open(context.Background(), Options{Driver: config.DriverSQLite, DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, Migrate(db))
	for _, m := range model.All() {
		assert.True(t, db.Migrator().HasTable(m), "table for %T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&model.User{}, "Email"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: "app.db", MaxIdleConns: 2, MaxOpenConns: 4},
	}
	opts := OptionsFromConfig(cfg)
	assert.Equal(t, Options{Driver: config.DriverSQLite, DSN: "app.db", MaxIdleConns: 2, MaxOpenConns: 4}, opts)
}

func TestOpen_LogsThroughZapWithoutNotFoundNoise(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := Open(context.Background(), Options{
		Driver: config.DriverSQLite,
		DSN:    "file:gormlog?mode=memory&cache=private&_foreign_keys=on",
		Logger: zap.New(core).Sugar(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	require.NoError(t, Migrate(db))
	logs.TakeAll()

	var user model.User
	err = db.Where("email = ?", "nobody@example.com").First(&user).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len(), "a missing row is not worth a log line")

	err = db.Exec("SELECT * FROM no_such_table").Error
	assert.Error(t, err)
	entries := logs.TakeAll()
	require.NotEmpty(t, entries)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "no_such_table")
}

func TestPingOrClose_ClosesUnreachablePool(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	err = pingOrClose(context.Background(), sqlDB)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPingOrClose_KeepsReachablePool(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mock.ExpectPing()

	require.NoError(t, pingOrClose(context.Background(), sqlDB))
	assert.NoError(t, mock.ExpectationsWereMet())
}
