package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"food-delivery-graphql/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2*time.Second, cfg.PromotionSweepInterval)
	assert.Empty(t, cfg.Sinks())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\ndb_driver: postgres\nevent_sinks: kafka\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("PROMOTION_SWEEP_INTERVAL", "1m")
	t.Setenv("EVENT_SINKS", " Kafka, amqp ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, time.Minute, cfg.PromotionSweepInterval)
	assert.Equal(t, []string{"kafka", "amqp"}, cfg.Sinks())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_TTL", "forever")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_TTL")
}

func TestDialectorFor(t *testing.T) {
	for _, d := range []string{"", "sqlite", "postgres", "mysql"} {
		_, err := dialectorFor(d, "x")
		assert.NoError(t, err, d)
	}
	_, err := dialectorFor("oracle", "x")
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	cases := map[string]string{
		"food_delivery.db":                "food_delivery.db?_pragma=foreign_keys(1)&_time_format=sqlite",
		"file:x?mode=memory&cache=shared": "file:x?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite",
		"a.db?_pragma=foreign_keys(1)":    "a.db?_pragma=foreign_keys(1)&_time_format=sqlite",
		"":                                ":memory:?_pragma=foreign_keys(1)&_time_format=sqlite",
		"a.db?_time_format=sqlite&_pragma=foreign_keys(1)": "a.db?_time_format=sqlite&_pragma=foreign_keys(1)",
	}
	for in, want := range cases {
		assert.Equal(t, want, SQLiteDSN(in), in)
	}
}

func TestInitDBEnforcesForeignKeys(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "disabled"
	cfg.DBSource = filepath.Join(t.TempDir(), "food_delivery.db")

	db, err := InitDB(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	owner := &models.User{Email: "owner@example.com", Role: models.RoleOwner}
	owner.SetPassword("secret")
	require.NoError(t, db.Create(owner).Error)
	restaurant := &models.Restaurant{Name: "Pasta Place", Address: "1 Main St", OwnerID: owner.ID}
	require.NoError(t, db.Omit("Owner").Create(restaurant).Error)

	require.NoError(t, db.Delete(owner).Error)
	var left int64
	require.NoError(t, db.Model(&models.Restaurant{}).Count(&left).Error)
	assert.Zero(t, left)
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLogLevel("disabled"))
	assert.Equal(t, logger.Info, gormLogLevel("DEBUG"))
	assert.Equal(t, logger.Error, gormLogLevel("error"))
	assert.Equal(t, logger.Warn, gormLogLevel("info"))
}
