package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/employee-tracker-api/internal/config"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations
var embedMigrations embed.FS

const connectAttempts = 30

// Open подключается к БД, выбранной в конфигурации.
// PostgreSQL может стартовать позже приложения, поэтому подключение повторяется.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.SQLiteDSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite допускает одного писателя; одно соединение заодно сохраняет in-memory базу
		sqlDB.SetMaxOpenConns(1)
		return db, nil

	case config.DriverPostgres:
		return connectPostgres(ctx, cfg, gormCfg)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func connectPostgres(ctx context.Context, cfg config.DatabaseConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	var db *gorm.DB
	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewConstant(time.Second))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err != nil {
			return retry.RetryableError(err)
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			return retry.RetryableError(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, err)
	}

	return db, nil
}

// Close закрывает пул соединений
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newMigrationProvider(db *gorm.DB, driver string) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	dialect, dir := goose.DialectPostgres, "migrations/postgres"
	if driver == config.DriverSQLite {
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	}

	fsys, err := fs.Sub(embedMigrations, dir)
	if err != nil {
		return nil, err
	}

	return goose.NewProvider(dialect, sqlDB, fsys)
}

// Migrate применяет все новые миграции и возвращает число применённых
func Migrate(ctx context.Context, db *gorm.DB, driver string) (int, error) {
	provider, err := newMigrationProvider(db, driver)
	if err != nil {
		return 0, fmt.Errorf("failed to init migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	return len(results), nil
}

// Rollback откатывает последнюю применённую миграцию
func Rollback(ctx context.Context, db *gorm.DB, driver string) error {
	provider, err := newMigrationProvider(db, driver)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	if _, err := provider.Down(ctx); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	return nil
}

// Version возвращает текущую версию схемы
func Version(ctx context.Context, db *gorm.DB, driver string) (int64, error) {
	provider, err := newMigrationProvider(db, driver)
	if err != nil {
		return 0, fmt.Errorf("failed to init migrations: %w", err)
	}

	return provider.GetDBVersion(ctx)
}
