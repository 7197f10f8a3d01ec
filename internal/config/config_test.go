package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("Defaults fill missing fields", func(t *testing.T) {
		// Given: a config that only sets the driver
		path := writeConfig(t, "storage:\n  driver: bolt\n")

		// When: loading it
		conf := MustLoad(path)

		// Then: everything else has its default
		assert.Equal(t, DriverBolt, conf.Storage.Driver)
		assert.Equal(t, CodecJSON, conf.Storage.Codec)
		assert.Equal(t, "tic-tac-toe:history", conf.Game.KeyPrefix)
		assert.Equal(t, "localhost:6379", conf.Storage.Redis.GetRedisAddr())
	})

	t.Run("Unknown driver panics", func(t *testing.T) {
		path := writeConfig(t, "storage:\n  driver: postgres\n")

		assert.Panics(t, func() { MustLoad(path) })
	})

	t.Run("Missing file panics", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yml")) })
	})
}

func TestConfig_Validate(t *testing.T) {
	conf := Config{
		Storage: Storage{Driver: DriverMemory, Codec: "toml"},
		Game:    Game{KeyPrefix: "p"},
	}

	require.Error(t, conf.Validate())

	conf.Storage.Codec = CodecYAML
	require.NoError(t, conf.Validate())

	conf.Game.KeyPrefix = ""
	require.Error(t, conf.Validate())

	t.Run("Redis driver needs host and port", func(t *testing.T) {
		conf := Config{
			Storage: Storage{Driver: DriverRedis, Codec: CodecJSON, Redis: Redis{Host: "", Port: "6379"}},
			Game:    Game{KeyPrefix: "p"},
		}
		require.Error(t, conf.Validate())

		conf.Storage.Redis.Host = "localhost"
		require.NoError(t, conf.Validate())

		conf.Storage.Redis.Port = ""
		require.Error(t, conf.Validate())
	})
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogLevel("debug"))
	assert.Equal(t, slog.LevelError, LogLevel("error"))
	assert.Equal(t, slog.LevelInfo, LogLevel("verbose"))
}
