package config

import (
	"fmt"
	"sync"

	"deadline-tracker/core/constants"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port     int
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CronConfig struct {
	Secret string
}

type OAuthClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type SyncConfig struct {
	PageSize   int
	WindowDays int
}

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Cron        CronConfig
	GoogleAPI   OAuthClientConfig
	AzureAPI    OAuthClientConfig
	FrontendURL string
	Sync        SyncConfig
}

var (
	mu       sync.RWMutex
	instance *Config
)

// Load reads configuration from environment variables (a .env file, if
// present, has already been loaded by the caller via godotenv).
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 7070)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "deadline_tracker")
	v.SetDefault("DB_SSL_MODE", constants.DatabaseSSLMode)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("SYNC_PAGE_SIZE", constants.DefaultSyncPageSize)
	v.SetDefault("SYNC_WINDOW_DAYS", constants.DefaultSyncWindowDays)

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetInt("PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT:  JWTConfig{Secret: v.GetString("JWT_SECRET")},
		Cron: CronConfig{Secret: v.GetString("CRON_SECRET")},
		GoogleAPI: OAuthClientConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  v.GetString("GOOGLE_REDIRECT_URI"),
		},
		AzureAPI: OAuthClientConfig{
			ClientID:     v.GetString("AZURE_CLIENT_ID"),
			ClientSecret: v.GetString("AZURE_CLIENT_SECRET"),
			RedirectURI:  v.GetString("OUTLOOK_REDIRECT_URI"),
		},
		FrontendURL: v.GetString("FRONTEND_URL"),
		Sync: SyncConfig{
			PageSize:   v.GetInt("SYNC_PAGE_SIZE"),
			WindowDays: v.GetInt("SYNC_WINDOW_DAYS"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

// Get returns the loaded configuration; it panics when Load has not run.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config: Get called before Load")
	}
	return cfg
}

// GetSafe returns the loaded configuration without panicking.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}

// Reset clears the singleton. Test helper.
func Reset() {
	mu.Lock()
	instance = nil
	mu.Unlock()
}
