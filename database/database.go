package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/skssmd/patient-project/internal/config"
)

// Connect opens the database selected by cfg.DBDriver and configures the pool.
func Connect(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLiteDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	dbLog := log.With().Str("component", "gorm").Logger()
	newLogger := gormlogger.New(
		&dbLog,
		gormlogger.Config{
			SlowThreshold:             time.Millisecond * 500, // Log queries slower than 500ms
			LogLevel:                  gormlogger.Warn,
			Colorful:                  false,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newLogger,
		PrepareStmt:            cfg.DBDriver == config.DriverPostgres,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database connection: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite && isMemory(cfg.SQLitePath) {
		// Every connection to :memory: is a separate database.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(15 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	stats := sqlDB.Stats()
	log.Info().
		Str("driver", cfg.DBDriver).
		Int("max_open_conns", stats.MaxOpenConnections).
		Msg("Connected to database successfully")

	return db, nil
}

// Ping reports whether the database answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MonitorDBConnections logs a warning whenever most of the pool is in use.
// It returns when ctx is cancelled.
func MonitorDBConnections(ctx context.Context, db *gorm.DB, log zerolog.Logger, interval time.Duration) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msg("connection monitor disabled")
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				if poolSaturated(stats.InUse, stats.MaxOpenConnections) {
					log.Warn().
						Int("in_use", stats.InUse).
						Int("idle", stats.Idle).
						Int("open", stats.OpenConnections).
						Msg("DB connection pool nearly exhausted")
				}
			}
		}
	}()
}

// poolSaturated is true when at least 75% of a bounded pool is busy.
func poolSaturated(inUse, maxOpen int) bool {
	if maxOpen <= 0 {
		return false
	}
	return inUse*4 >= maxOpen*3
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
