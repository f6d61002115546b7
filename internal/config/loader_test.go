package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/nutrilookup/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "0.0.0.0:3000")
				convey.So(cfg.DBDriver, convey.ShouldEqual, "mysql")
				convey.So(cfg.DBMaxOpenConns, convey.ShouldEqual, 10)
				convey.So(cfg.DBSlowThreshold, convey.ShouldEqual, 200*time.Millisecond)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("NUTRI_ADDR", ":8080")
			_ = os.Setenv("NUTRI_DB_DRIVER", "postgres")
			_ = os.Setenv("NUTRI_DB_MAX_OPEN_CONNS", "25")
			_ = os.Setenv("NUTRI_DB_CONN_MAX_LIFETIME", "5m")
			_ = os.Setenv("NUTRI_LOG_FORMAT", "json")
			_ = os.Setenv("NUTRI_METRICS_ENABLED", "false")
			_ = os.Setenv("NUTRI_METRICS_NAMESPACE", "menu")
			_ = os.Setenv("NUTRI_METRICS_REFRESH_INTERVAL", "30s")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DBDriver, convey.ShouldEqual, "postgres")
				convey.So(cfg.DBMaxOpenConns, convey.ShouldEqual, 25)
				convey.So(cfg.DBConnMaxLifetime, convey.ShouldEqual, 5*time.Minute)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "menu")
				convey.So(cfg.MetricsRefreshInterval, convey.ShouldEqual, 30*time.Second)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
db_driver: sqlite
db_name: /tmp/lookup.db
db_max_idle_conns: 2
shutdown_timeout: 5s
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("NUTRI_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DBDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.DBName, convey.ShouldEqual, "/tmp/lookup.db")
				convey.So(cfg.DBMaxIdleConns, convey.ShouldEqual, 2)
				convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.DBMaxOpenConns, convey.ShouldEqual, 10) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\ndb_name: from_file\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("NUTRI_CONFIG", tmpFile)
			_ = os.Setenv("NUTRI_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")      // Overridden by env
				convey.So(cfg.DBName, convey.ShouldEqual, "from_file") // From file
			})
		})

		convey.Convey("When loading config with a .env file", func() {
			dotenv := filepath.Join(t.TempDir(), "lookup.env")
			err := os.WriteFile(dotenv, []byte("NUTRI_DB_USER=fromdotenv\nNUTRI_DB_PASSWORD=pw\n"), 0o600)
			convey.So(err, convey.ShouldBeNil)
			_ = os.Setenv("NUTRI_ENV_FILE", dotenv)
			_ = os.Setenv("NUTRI_DB_PASSWORD", "already-set")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fill unset variables only", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBUser, convey.ShouldEqual, "fromdotenv")
				convey.So(cfg.DBPassword, convey.ShouldEqual, "already-set")
			})
		})

		convey.Convey("When an explicit .env file does not exist", func() {
			_ = os.Setenv("NUTRI_ENV_FILE", "/non/existent/.env")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("NUTRI_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("NUTRI_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("NUTRI_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("NUTRI_DB_MAX_OPEN_CONNS", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a zero pool size", func() {
			_ = os.Setenv("NUTRI_DB_MAX_OPEN_CONNS", "0")

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation should reject it", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "db_max_open_conns")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"NUTRI_CONFIG",
		"NUTRI_ENV_FILE",
		"NUTRI_ADDR",
		"NUTRI_LOG_FORMAT",
		"NUTRI_DB_DRIVER",
		"NUTRI_DB_USER",
		"NUTRI_DB_PASSWORD",
		"NUTRI_DB_MAX_OPEN_CONNS",
		"NUTRI_DB_CONN_MAX_LIFETIME",
		"NUTRI_METRICS_ENABLED",
		"NUTRI_METRICS_NAMESPACE",
		"NUTRI_METRICS_REFRESH_INTERVAL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "nutri-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
