package config

import (
	"fmt"
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"

	CodecJSON = "json"
	CodecYAML = "yaml"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7070"`
	Storage    Storage `yaml:"storage"`
	Game       Game    `yaml:"game"`
	TUI        TUI     `yaml:"tui"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	Codec      string `yaml:"codec" env:"STORAGE_CODEC" env-default:"json"`
	Redis      Redis  `yaml:"redis"`
	SQLitePath string `yaml:"sqlite-path" env:"STORAGE_SQLITE_PATH" env-default:"tictactoe.sqlite3"`
	BoltPath   string `yaml:"bolt-path" env:"STORAGE_BOLT_PATH" env-default:"tictactoe.bolt"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	KeyPrefix string `yaml:"key-prefix" env:"GAME_KEY_PREFIX" env-default:"tic-tac-toe:history"`
}

// TUI configures the terminal client. It plays a single game stored under Key.
type TUI struct {
	Key string `yaml:"key" env:"TUI_KEY" env-default:"tic-tac-toe:history"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(err)
	}

	return config
}

// Validate rejects settings the application can't start with.
func (that *Config) Validate() error {
	switch that.Storage.Driver {
	case DriverMemory, DriverRedis, DriverSQLite, DriverBolt:
	default:
		return fmt.Errorf("unknown storage driver %q", that.Storage.Driver)
	}

	switch that.Storage.Codec {
	case CodecJSON, CodecYAML:
	default:
		return fmt.Errorf("unknown storage codec %q", that.Storage.Codec)
	}

	if that.Game.KeyPrefix == "" {
		return fmt.Errorf("game key prefix is empty")
	}

	if that.Storage.Driver == DriverRedis && (that.Storage.Redis.Host == "" || that.Storage.Redis.Port == "") {
		return fmt.Errorf("redis host and port are required, got %q", that.Storage.Redis.GetRedisAddr())
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// LogLevel maps the log-level setting to a slog level. Unknown values mean info.
func LogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
