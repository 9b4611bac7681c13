package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"burgerreview/internal/config"
	"burgerreview/internal/model"
)

type Options struct {
	Driver       string
	DSN          string
	MaxIdleConns int
	MaxOpenConns int
	// Logger receives gorm's warnings, slow queries and errors. Nil discards them.
	Logger *zap.SugaredLogger
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.DSN(),
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}
}

// Open connects with the dialect named by opts.Driver. Driver errors for
// unique and foreign key violations are translated to gorm.ErrDuplicatedKey
// and gorm.ErrForeignKeyViolated.
func Open(ctx context.Context, opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(opts.Logger),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s failed: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get %s sql db failed: %w", opts.Driver, err)
	}

	if opts.Driver == config.DriverSQLite {
		// sqlite serialises writers; one connection also keeps an in-memory
		// database alive for the lifetime of the pool
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(1 * time.Hour)
		sqlDB.SetConnMaxIdleTime(30 * time.Minute)
	}

	if err := pingOrClose(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("ping %s failed: %w", opts.Driver, err)
	}

	return db, nil
}

// pingOrClose releases the pool when the database cannot be reached, since
// the caller never gets a handle to close it.
func pingOrClose(ctx context.Context, sqlDB *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return err
	}
	return nil
}

// zapWriter adapts a SugaredLogger to gorm's logger.Writer.
type zapWriter struct {
	log *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf(format, args...)
}

// newGormLogger reports slow queries and errors through zap. Lookups that
// find no row are an expected outcome for the repositories and stay silent.
func newGormLogger(log *zap.SugaredLogger) logger.Interface {
	if log == nil {
		return logger.Discard
	}
	return logger.New(zapWriter{log: log}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
