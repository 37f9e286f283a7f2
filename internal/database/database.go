package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cookeasy/backend/config"
	"github.com/cookeasy/backend/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm handle with the dialect it was opened for
type DB struct {
	*gorm.DB
	Driver string
}

// Dialector picks the gorm dialect for the configured driver
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres":
		return postgres.Open(cfg.PostgresDSN()), nil
	case "mysql":
		return mysql.Open(cfg.MySQLDSN()), nil
	case "sqlite", "":
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Open connects to the configured database and prepares the model registry.
// Schema changes are left to RunMigrations.
func Open(cfg *config.Config) (*DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"driver": dialector.Name(),
		"host":   cfg.DBHost,
		"name":   cfg.DBName,
	}).Info("connecting to database")

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormLogLevel(cfg),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql handle: %w", err)
	}
	if dialector.Name() == "sqlite" {
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if err := models.Register(gormDB); err != nil {
		return nil, err
	}

	logrus.Info("successfully connected to database")
	return &DB{DB: gormDB, Driver: dialector.Name()}, nil
}

// Wrap adopts an already opened gorm handle, as tests do
func Wrap(gormDB *gorm.DB) (*DB, error) {
	if err := models.Register(gormDB); err != nil {
		return nil, err
	}
	return &DB{DB: gormDB, Driver: gormDB.Dialector.Name()}, nil
}

// HealthCheck checks if the database is accessible
func (db *DB) HealthCheck(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogLevel(cfg *config.Config) logger.Interface {
	if cfg.Environment == config.Development && cfg.LogLevel == "debug" {
		return logger.Default.LogMode(logger.Info)
	}
	return logger.Default.LogMode(logger.Warn)
}
