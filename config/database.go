package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Validate reports configuration that cannot open a database.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMySQL:
		if c.DB.Host == "" || c.DB.Name == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for the mysql driver")
		}
	case DriverSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// DSN builds the driver specific connection string. clientFoundRows makes
// MySQL report matched rather than changed rows on UPDATE. SQLite leaves
// foreign keys off unless asked.
func (d DBConfig) DSN() string {
	if d.Driver == DriverSQLite {
		sep := "?"
		if strings.Contains(d.Path, "?") {
			sep = "&"
		}
		return d.Path + sep + "_foreign_keys=on"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// InitDB opens the configured database and tunes its connection pool.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DB.DSN())
	default:
		dialector = mysql.Open(cfg.DB.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(utils.InfoLogger, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DB.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.DB.Driver == DriverSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	utils.InfoLogger.WithField("driver", cfg.DB.Driver).Info("Database connected")
	return db, nil
}
