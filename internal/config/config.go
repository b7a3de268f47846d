package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	GRPC struct {
		Addr string
	} `mapstructure:"grpc"`

	Store struct {
		Backend string
		Key     string
		Timeout time.Duration
	} `mapstructure:"store"`

	Redis struct {
		Addr     string
		Password string
		DB       int
	} `mapstructure:"redis"`

	MySQL struct {
		DSN string
	} `mapstructure:"mysql"`

	Delivery struct {
		Interval time.Duration
	} `mapstructure:"delivery"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

// Load reads .env (if present), then the optional YAML file at path, then
// STOCKROOM_* environment overrides, e.g. STOCKROOM_REDIS_ADDR.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STOCKROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, c.validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.timezone", "Local")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("grpc.addr", ":50051")
	v.SetDefault("store.backend", BackendRedis)
	v.SetDefault("store.key", "inventoryAppData")
	v.SetDefault("store.timeout", 3*time.Second)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("mysql.dsn", "root:root@tcp(localhost:3306)/stockroom?parseTime=true")
	v.SetDefault("delivery.interval", 24*time.Hour)
	v.SetDefault("metrics.enabled", true)
}

func (c Config) validate() error {
	switch c.Store.Backend {
	case BackendRedis, BackendMySQL, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Key == "" {
		return errors.New("store key must not be empty")
	}
	if c.Delivery.Interval <= 0 {
		return errors.New("delivery interval must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the timezone that defines "today" for deliveries.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}
