package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_sec"`
}

type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	HTTP HTTP   `mapstructure:"http"`
}

type FileRotate struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level string     `mapstructure:"level"`
	JSON  bool       `mapstructure:"json"`
	File  FileRotate `mapstructure:"file"`
}

type Auth struct {
	TokenBytes  int `mapstructure:"token_bytes"`
	TokenTTLMin int `mapstructure:"token_ttl_min"` // 0 disables expiry
	BcryptCost  int `mapstructure:"bcrypt_cost"`
}

func (a Auth) TokenTTL() time.Duration { return time.Duration(a.TokenTTLMin) * time.Minute }

type Redis struct {
	Addr     string `mapstructure:"addr"` // empty disables the chart cache
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

type Analytics struct {
	ChartWidth  int `mapstructure:"chart_width"`
	ChartHeight int `mapstructure:"chart_height"`
	CacheTTLSec int `mapstructure:"cache_ttl_sec"`
}

type Limits struct {
	RPS          float64 `mapstructure:"rps"`
	Burst        int     `mapstructure:"burst"`
	PerIPRPS     float64 `mapstructure:"per_ip_rps"`
	PerIPBurst   int     `mapstructure:"per_ip_burst"`
	MaxInflight  int64   `mapstructure:"max_inflight"`
	MaxBodyBytes int64   `mapstructure:"max_body_bytes"`
	TimeoutSec   int     `mapstructure:"timeout_sec"`
}

type Config struct {
	App       App       `mapstructure:"app"`
	Log       Log       `mapstructure:"log"`
	Auth      Auth      `mapstructure:"auth"`
	DB        DB        `mapstructure:"db"`
	Redis     Redis     `mapstructure:"redis"`
	Analytics Analytics `mapstructure:"analytics"`
	Limits    Limits    `mapstructure:"limits"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "task-tracker")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 15)
	v.SetDefault("app.http.idle_timeout_sec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.max_age_days", 14)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("auth.token_bytes", 32)
	v.SetDefault("auth.token_ttl_min", 60*24*7)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:task_tracker.db?_foreign_keys=on")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("analytics.chart_width", 600)
	v.SetDefault("analytics.chart_height", 400)
	v.SetDefault("analytics.cache_ttl_sec", 600)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.per_ip_rps", 20)
	v.SetDefault("limits.per_ip_burst", 40)
	v.SetDefault("limits.max_inflight", 300)
	v.SetDefault("limits.max_body_bytes", 1<<20)
	v.SetDefault("limits.timeout_sec", 10)
}

// Load reads the YAML file at path (CONFIG_PATH, then DefaultPath, when empty) and applies
// APP_* environment overrides, e.g. APP_DB_DSN or APP_APP_HTTP_PORT. A missing default file
// is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := true
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path, explicit = DefaultPath, false
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}
