package config

import (
	"fmt"
	"strings"

	"food-delivery-graphql/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the configured database and migrates all models
func InitDB(cfg *Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.DBDriver, cfg.DBSource)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.DBDriver).Msg("✅ Database connected and migrated successfully")
	return db, nil
}

// Migrate auto-migrates every entity
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func dialectorFor(driver, source string) (gorm.Dialector, error) {
	switch driver {
	case "", "sqlite":
		return sqlite.Open(SQLiteDSN(source)), nil
	case "postgres":
		return postgres.Open(source), nil
	case "mysql":
		return mysql.Open(source), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

// SQLiteDSN adds the pragmas every pooled sqlite connection needs: foreign
// keys on, so ON DELETE rules fire, and a time format the driver can parse back.
func SQLiteDSN(source string) string {
	if source == "" {
		source = ":memory:"
	}
	var params []string
	if !strings.Contains(source, "foreign_keys") {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(source, "_time_format") {
		params = append(params, "_time_format=sqlite")
	}
	if len(params) == 0 {
		return source
	}
	sep := "?"
	if strings.Contains(source, "?") {
		sep = "&"
	}
	return source + sep + strings.Join(params, "&")
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return logger.Info
	case "error", "fatal", "panic":
		return logger.Error
	case "disabled", "silent":
		return logger.Silent
	}
	return logger.Warn
}
