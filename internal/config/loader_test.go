package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/maison/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MAISON_ADDR", ":8080")
			_ = os.Setenv("MAISON_QUEUE_SIZE", "500")
			_ = os.Setenv("MAISON_WORKER_COUNT", "16")
			_ = os.Setenv("MAISON_GAP_THRESHOLD", "3")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.GapThreshold, convey.ShouldEqual, 3.0)
			})
		})

		convey.Convey("When single weights are overridden through env vars", func() {
			_ = os.Setenv("MAISON_WEIGHTS_ROLE_LEVEL", "0.25")
			_ = os.Setenv("MAISON_WEIGHTS_TIMELINE", "0.05")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then only those entries of the weights map change", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Weights["role_level"], convey.ShouldEqual, 0.25)
				convey.So(cfg.Weights["timeline"], convey.ShouldEqual, 0.05)
				convey.So(cfg.Weights["division"], convey.ShouldEqual, 0.15)
				convey.So(cfg.Weights, convey.ShouldNotContainKey, "weights_role_level")
				convey.So(cfg.ScoringPolicy().Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When an env weight breaks the sum", func() {
			_ = os.Setenv("MAISON_WEIGHTS_ROLE_LEVEL", "0.5")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 3000
store_driver: postgres
postgres_dsn: postgres://maison@localhost/maison
weights:
  role_level: 0.25
  timeline: 0.05
recommendation_limit: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv(config.EnvConfigPath, tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values are merged over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 3000)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StorePostgres)
				convey.So(cfg.RecommendationLimit, convey.ShouldEqual, 5)
				convey.So(cfg.Weights["role_level"], convey.ShouldEqual, 0.25)
				convey.So(cfg.Weights["timeline"], convey.ShouldEqual, 0.05)
				convey.So(cfg.Weights["division"], convey.ShouldEqual, 0.15)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nworker_count: 24\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv(config.EnvConfigPath, tmpFile)
			_ = os.Setenv("MAISON_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv(config.EnvConfigPath, tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.LoadFile("/non/existent/file.yaml")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("MAISON_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("MAISON_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a zero worker count", func() {
			_ = os.Setenv("MAISON_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		config.EnvConfigPath,
		"MAISON_ADDR",
		"MAISON_QUEUE_SIZE",
		"MAISON_WORKER_COUNT",
		"MAISON_GAP_THRESHOLD",
		"MAISON_WEIGHTS_ROLE_LEVEL",
		"MAISON_WEIGHTS_TIMELINE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "maison-config-*.yaml")
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
