package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Logger  Logger  `mapstructure:"logger"`
	Server  Server  `mapstructure:"server"`
	Storage Storage `mapstructure:"storage"`
	Journal Journal `mapstructure:"journal"`
	Backup  Backup  `mapstructure:"backup"`
	Client  Client  `mapstructure:"client"`
}

// Server holds the configuration for the API server.
type Server struct {
	Name           string   `mapstructure:"name"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimit      float64  `mapstructure:"rate_limit"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
}

// Storage holds the configuration for the persisted trade collection.
type Storage struct {
	Backend       string `mapstructure:"backend"` // "sqlite", "redis" or "memory"
	DSN           string `mapstructure:"dsn"`
	Key           string `mapstructure:"key"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

// Journal holds view defaults for the trade journal.
type Journal struct {
	RecentLimit int `mapstructure:"recent_limit"`
}

// Backup holds the configuration for scheduled export snapshots.
// An empty Schedule disables backups.
type Backup struct {
	Schedule string `mapstructure:"schedule"`
	Dir      string `mapstructure:"dir"`
	Keep     int    `mapstructure:"keep"`
}

// Client holds the configuration for the API client used by the CLI.
type Client struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and environment apply.
func LoadConfig(path string) (config Config, err error) {
	// Values already present in the environment win over .env
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.file", "")

	v.SetDefault("server.name", "trading-journal")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.rate_limit", 50) // requests per second
	v.SetDefault("server.rate_limit_burst", 20)

	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.dsn", "trading-journal.db")
	v.SetDefault("storage.key", "tradingJournalTrades")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)

	v.SetDefault("journal.recent_limit", 5)

	v.SetDefault("backup.schedule", "") // disabled
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("backup.keep", 14)

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout", 10*time.Second)
	v.SetDefault("client.rate_limit", 10)
	v.SetDefault("client.rate_limit_burst", 5)
}
