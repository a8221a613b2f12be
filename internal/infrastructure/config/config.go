package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	DefaultLangKey string `env:"DEFAULT_LANG_KEY, default=en"`
	AnonymousLogin string `env:"ANONYMOUS_LOGIN,  default=anonymoususer"`

	Security SecurityConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Minio    MinioConfig
}

type SecurityConfig struct {
	JWTSecret         string        `env:"JWT_SECRET"`
	TokenTTL          time.Duration `env:"TOKEN_TTL, default=24h"`
	AdminLogin        string        `env:"ADMIN_LOGIN, default=admin"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	// CustomerPolicy selects who may perform customer operations:
	// admin_or_user (default) or admin_only.
	CustomerPolicy string `env:"CUSTOMER_POLICY, default=admin_or_user"`
	// AllowLoginOverwrite enables the legacy admin-update path that can
	// replace a user's login.
	AllowLoginOverwrite bool `env:"ALLOW_LOGIN_OVERWRITE, default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=crm"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT, default=localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `env:"MINIO_USE_SSL, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
