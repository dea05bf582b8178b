package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `envconfig:"SERVER_PORT" default:"5000"`

	// StoreDriver selects the record store: "mysql", "sqlite" (both GORM) or "mongo".
	StoreDriver string `envconfig:"STORE_DRIVER" default:"mysql"`
	MySQLDSN    string `envconfig:"MYSQL_DSN" default:"user:password@tcp(localhost:3306)/directory?charset=utf8mb4&parseTime=True&loc=Local"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"directory.db"`
	MongoURI    string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDB     string `envconfig:"MONGODB_DATABASE" default:"directory"`
	ResetDB     bool   `envconfig:"RESET_DB" default:"false"`

	RedisAddr string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPass string        `envconfig:"REDIS_PASSWORD"`
	RedisDB   int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	JWTSecret           string        `envconfig:"JWT_SECRET" default:"change-me"`
	AccessTokenTTL      time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL     time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`
	ListingRequiresAuth bool          `envconfig:"LISTING_REQUIRES_AUTH" default:"true"`

	StorageType      string `envconfig:"STORAGE_TYPE" default:"local"`
	StorageLocalPath string `envconfig:"STORAGE_LOCAL_PATH" default:"./storage/images"`
	S3Bucket         string `envconfig:"AWS_S3_BUCKET"`
	S3Region         string `envconfig:"AWS_REGION" default:"us-east-1"`
	S3Prefix         string `envconfig:"AWS_S3_PREFIX" default:"images"`
	AWSAccessKey     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey     string `envconfig:"AWS_SECRET_ACCESS_KEY"`

	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"directory.events"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	SwaggerHost string `envconfig:"SWAGGER_HOST"`
}

// Load builds Config from the environment. A .env file in the working
// directory is read first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
