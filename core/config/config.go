package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	GoogleAPI  GoogleAPIConfig  `mapstructure:"google_api"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres | sqlite3
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"` // sqlite3 only
	Migrate  bool   `mapstructure:"migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type GoogleAPIConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type SchedulingConfig struct {
	// ReminderPolicy is one of "book", "defer", "both".
	ReminderPolicy      string `mapstructure:"reminder_policy"`
	ReminderLeadMinutes int    `mapstructure:"reminder_lead_minutes"`
	ParentModeDefault   bool   `mapstructure:"parent_mode_default"`
	DefaultLocale       string `mapstructure:"default_locale"`
	ICSRefreshMinutes   int    `mapstructure:"ics_refresh_minutes"`
	ImportDaysAhead     int    `mapstructure:"import_days_ahead"`
	WorkerConcurrency   int    `mapstructure:"worker_concurrency"`
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads configuration from an optional .env file, an optional config
// file and SHARED_TIME_* environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SHARED_TIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "pairtime")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "pairtime.db")
	v.SetDefault("database.migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")

	v.SetDefault("google_api.client_id", "")
	v.SetDefault("google_api.client_secret", "")
	v.SetDefault("google_api.redirect_uri", "")

	v.SetDefault("scheduling.reminder_policy", "book")
	v.SetDefault("scheduling.reminder_lead_minutes", 120)
	v.SetDefault("scheduling.parent_mode_default", false)
	v.SetDefault("scheduling.default_locale", "en")
	v.SetDefault("scheduling.ics_refresh_minutes", 15)
	v.SetDefault("scheduling.import_days_ahead", 14)
	v.SetDefault("scheduling.worker_concurrency", 5)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Scheduling.ReminderPolicy {
	case "book", "defer", "both":
	default:
		return fmt.Errorf("unsupported reminder policy %q", c.Scheduling.ReminderPolicy)
	}
	if c.Scheduling.ReminderLeadMinutes < 0 {
		return fmt.Errorf("reminder_lead_minutes must not be negative")
	}
	return nil
}

// Init loads the configuration and stores it as the process-wide instance.
func Init(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

// Get returns the process-wide configuration. It panics if Init was not called.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config not initialized")
	}
	return cfg
}

func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
