package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// DriverMongo selects the MongoDB document store.
	DriverMongo = "mongo"
	// DriverMySQL selects the GORM/MySQL store.
	DriverMySQL = "mysql"

	minBcryptCost = 10
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	LogLevel int     `env:"LOG_LEVEL" envDefault:"0"`
	Server   Server  `envPrefix:"SERVER_"`
	Store    Store   `envPrefix:"STORE_"`
	Mongo    Mongo   `envPrefix:"MONGO_"`
	MySQL    MySQL   `envPrefix:"MYSQL_"`
	Redis    Redis   `envPrefix:"REDIS_"`
	JWT      JWT     `envPrefix:"JWT_"`
	Auth     Auth    `envPrefix:"AUTH_"`
	Orders   Orders  `envPrefix:"ORDERS_"`
	Swagger  Swagger `envPrefix:"SWAGGER_"`
}

// Server contains HTTP server parameters.
type Server struct {
	Port      string `env:"PORT" envDefault:"8080"`
	BodyLimit string `env:"BODY_LIMIT" envDefault:"1M"`
}

// Store selects the persistence backend and bounds every call made to it.
type Store struct {
	Driver  string        `env:"DRIVER" envDefault:"mongo"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// Mongo contains document database connection parameters.
type Mongo struct {
	URI          string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database     string `env:"DATABASE" envDefault:"storefront"`
	Transactions bool   `env:"TRANSACTIONS" envDefault:"false"`
}

// MySQL contains relational database connection parameters.
type MySQL struct {
	DSN string `env:"DSN" envDefault:"user:password@tcp(localhost:3306)/storefront?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true"`
}

// Redis contains cache parameters.
type Redis struct {
	Addr     string        `env:"ADDR" envDefault:"localhost:6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"5m"`
}

// JWT contains token signing parameters. There is no default secret.
type JWT struct {
	Secret string `env:"SECRET,required,notEmpty"`
}

// Auth contains credential parameters.
type Auth struct {
	BcryptCost  int      `env:"BCRYPT_COST" envDefault:"10"`
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`
}

// Orders contains order lifecycle switches.
type Orders struct {
	ClearStaleCancellation bool `env:"CLEAR_STALE_CANCELLATION" envDefault:"false"`
}

// Swagger contains documentation parameters.
type Swagger struct {
	Host string `env:"HOST"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverMySQL:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store timeout must be positive, got %s", c.Store.Timeout)
	}
	if c.Auth.BcryptCost < minBcryptCost {
		return fmt.Errorf("bcrypt cost must be at least %d, got %d", minBcryptCost, c.Auth.BcryptCost)
	}
	return nil
}
