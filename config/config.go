package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Remote data store configuration.
	StoreBaseURL        string        `mapstructure:"STORE_BASE_URL"`
	StoreAPIKey         string        `mapstructure:"STORE_API_KEY"`
	StoreTimeout        time.Duration `mapstructure:"STORE_TIMEOUT"`
	StoreNetworkRetries int           `mapstructure:"STORE_NETWORK_RETRIES"`

	// Identity provider configuration (credential refresh endpoint).
	IdentityBaseURL      string `mapstructure:"IDENTITY_BASE_URL"`
	IdentityRefreshToken string `mapstructure:"IDENTITY_REFRESH_TOKEN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisFeedDB   int    `mapstructure:"REDIS_FEED_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("STORE_BASE_URL", "http://localhost:9000")
	viper.SetDefault("STORE_API_KEY", "")
	viper.SetDefault("STORE_TIMEOUT", 15*time.Second)
	viper.SetDefault("STORE_NETWORK_RETRIES", 2)
	viper.SetDefault("IDENTITY_BASE_URL", "http://localhost:9100")
	viper.SetDefault("IDENTITY_REFRESH_TOKEN", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_FEED_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
