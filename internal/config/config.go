package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Env         string
	StoreDriver string // memory | sqlite | redis
	DBDSN       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	LogLevel  string
	LogFormat string
	LogFile   string

	SimulateLatency bool
	SiteURL         string
	BodyLimit       int

	AdminEmail    string
	AdminPassword string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8081")
	v.SetDefault("app_env", "development")
	v.SetDefault("store_driver", "sqlite")
	v.SetDefault("db_dsn", "storefront.db") // sqlite file in project root
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", "storefront:")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("log_file", "")
	v.SetDefault("simulate_latency", true)
	v.SetDefault("site_url", "http://localhost:8081")
	v.SetDefault("body_limit", 1<<20)
	v.SetDefault("admin_email", "admin@storefront.test")
	v.SetDefault("admin_password", "Passw0rd!")
}

// Load reads an optional .env file and then the process environment.
// Environment variables win over .env entries.
func Load() Config {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	driver := strings.ToLower(strings.TrimSpace(v.GetString("store_driver")))
	switch driver {
	case "memory", "sqlite", "redis":
	default:
		driver = "sqlite"
	}
	limit := v.GetInt("body_limit")
	if limit <= 0 {
		limit = 1 << 20
	}
	return Config{
		Port:            v.GetString("port"),
		Env:             v.GetString("app_env"),
		StoreDriver:     driver,
		DBDSN:           v.GetString("db_dsn"),
		RedisAddr:       v.GetString("redis_addr"),
		RedisPassword:   v.GetString("redis_password"),
		RedisDB:         v.GetInt("redis_db"),
		RedisPrefix:     v.GetString("redis_prefix"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		LogFile:         v.GetString("log_file"),
		SimulateLatency: v.GetBool("simulate_latency"),
		SiteURL:         strings.TrimRight(v.GetString("site_url"), "/"),
		BodyLimit:       limit,
		AdminEmail:      v.GetString("admin_email"),
		AdminPassword:   v.GetString("admin_password"),
	}
}
