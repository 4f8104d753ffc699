package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/hirelens/hirestats/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DBDriver, convey.ShouldEqual, "sqlite3")
				convey.So(cfg.PageSize, convey.ShouldEqual, 1000)
				convey.So(cfg.MinJobPostings, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HIRESTATS_ADDR", ":9090")
			_ = os.Setenv("HIRESTATS_DB_DRIVER", "postgres")
			_ = os.Setenv("HIRESTATS_DB_DSN", "postgres://localhost/hirestats?sslmode=disable")
			_ = os.Setenv("HIRESTATS_PAGE_SIZE", "250")
			_ = os.Setenv("HIRESTATS_MIN_JOB_POSTINGS", "10")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DBDriver, convey.ShouldEqual, "postgres")
				convey.So(cfg.DBDSN, convey.ShouldEqual, "postgres://localhost/hirestats?sslmode=disable")
				convey.So(cfg.PageSize, convey.ShouldEqual, 250)
				convey.So(cfg.MinJobPostings, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":7070"
db_driver: "postgres"
db_dsn: "postgres://db:5432/stats"
page_size: 500
min_job_postings: 3
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HIRESTATS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.DBDSN, convey.ShouldEqual, "postgres://db:5432/stats")
				convey.So(cfg.PageSize, convey.ShouldEqual, 500)
				convey.So(cfg.MinJobPostings, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":7070"
page_size: 500
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HIRESTATS_CONFIG", tmpFile)
			_ = os.Setenv("HIRESTATS_ADDR", ":6060") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060") // Overridden by env
				convey.So(cfg.PageSize, convey.ShouldEqual, 500) // From file
			})
		})

		convey.Convey("When loading config with invalid values", func() {
			_ = os.Setenv("HIRESTATS_PAGE_SIZE", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"HIRESTATS_CONFIG",
		"HIRESTATS_ADDR",
		"HIRESTATS_DB_DRIVER",
		"HIRESTATS_DB_DSN",
		"HIRESTATS_PAGE_SIZE",
		"HIRESTATS_MIN_JOB_POSTINGS",
		"HIRESTATS_QUERY_TIMEOUT_MS",
		"HIRESTATS_LOG_LEVEL",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "hirestats-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp config file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("failed to write temp config file: %v", err)
	}
	_ = f.Close()
	return f.Name()
}
