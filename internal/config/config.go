package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	MySQLDSN       string        `envconfig:"MYSQL_DSN" default:"root:root@tcp(localhost:3306)/anonmarket?parseTime=true&multiStatements=true"`
	MySQLMaxOpen   int           `envconfig:"MYSQL_MAX_OPEN_CONNS" default:"50"`
	MySQLMaxIdle   int           `envconfig:"MYSQL_MAX_IDLE_CONNS" default:"25"`
	MySQLMaxLife   time.Duration `envconfig:"MYSQL_CONN_MAX_LIFETIME" default:"5m"`
	MigrationsPath string        `envconfig:"MIGRATIONS_PATH" default:"migrations"`
	MigrateOnServe bool          `envconfig:"MIGRATE_ON_SERVE" default:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPoolSize int    `envconfig:"REDIS_POOL_SIZE" default:"100"`
	RedisEnabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "process env config")
	}
	return &cfg, nil
}
