package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Crypto    CryptoConfig
	Query     QueryConfig
	Broadcast BroadcastConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// AuthConfig holds the single operator credential pair the dashboard
// logs in with. The service has no user registration.
type AuthConfig struct {
	OperatorUsername     string
	OperatorPasswordHash string
}

// CryptoConfig carries the base64-encoded AES key used to encrypt
// patient identity fields at rest. The decoded key must be 16, 24 or
// 32 bytes; the cipher validates this at startup.
type CryptoConfig struct {
	Key string
}

// QueryConfig bounds the limit parameter of the global latest query.
type QueryConfig struct {
	MinLimit     int
	MaxLimit     int
	DefaultLimit int
}

type BroadcastConfig struct {
	QueueSize int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Auth: AuthConfig{
			OperatorUsername:     viper.GetString("OPERATOR_USERNAME"),
			OperatorPasswordHash: viper.GetString("OPERATOR_PASSWORD_HASH"),
		},
		Crypto: CryptoConfig{
			Key: viper.GetString("CRYPTO_KEY"),
		},
		Query: QueryConfig{
			MinLimit:     viper.GetInt("QUERY_MIN_LIMIT"),
			MaxLimit:     viper.GetInt("QUERY_MAX_LIMIT"),
			DefaultLimit: viper.GetInt("QUERY_DEFAULT_LIMIT"),
		},
		Broadcast: BroadcastConfig{
			QueueSize: viper.GetInt("BROADCAST_QUEUE_SIZE"),
		},
	}

	if config.Query.MinLimit <= 0 {
		config.Query.MinLimit = 1
	}
	if config.Query.MaxLimit <= 0 {
		config.Query.MaxLimit = 500
	}
	if config.Query.DefaultLimit <= 0 {
		config.Query.DefaultLimit = 50
	}
	if config.Broadcast.QueueSize <= 0 {
		config.Broadcast.QueueSize = 256
	}

	return config, nil
}
