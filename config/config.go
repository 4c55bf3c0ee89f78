package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// defaultSigningKey is only good for local runs. Production refuses it.
const defaultSigningKey = "change_me"

type Config struct {
	Environment string
	Name        string
	Version     string
	LogLevel    string
	Location    *time.Location
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Slots       SlotsConfig
	Reminder    ReminderConfig
	Phone       PhoneConfig
}

type HTTPConfig struct {
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	MaxHeaderMB       int
	RequestsPerMinute int
	Burst             int
}

type PostgresConfig struct {
	Host               string
	Port               string
	Username           string
	Password           string
	DBName             string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MaxLifetime        time.Duration
	MigrationsDir      string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	SigningKey     string
	AccessTokenTTL time.Duration
}

type SlotsConfig struct {
	DefaultDuration int
	CacheTTL        time.Duration
}

type ReminderConfig struct {
	Enabled       bool
	Lead          time.Duration
	CheckInterval time.Duration
	BatchSize     int
	PerSecond     float64
}

type PhoneConfig struct {
	DefaultRegion string
}

// NewConfig reads configuration from the environment and an optional config.yaml
// in the working directory or ./config. Environment variables win.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.name", "devtracker")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("log.level", "info")

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("http.max_header_mb", 1)
	v.SetDefault("http.requests_per_minute", 600)
	v.SetDefault("http.burst", 60)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db", "devtracker")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_connections", 10)
	v.SetDefault("postgres.max_idle_connections", 2)
	v.SetDefault("postgres.max_lifetime", "5m")
	v.SetDefault("postgres.migrations_dir", "./migrations")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.signing_key", defaultSigningKey)
	v.SetDefault("jwt.access_token_ttl", "15m")

	v.SetDefault("cache.slots_ttl", "30s")
	v.SetDefault("slots.default_duration", 30)

	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.lead", "24h")
	v.SetDefault("reminder.check_interval", "1m")
	v.SetDefault("reminder.batch_size", 100)
	v.SetDefault("reminder.per_second", 10.0)

	v.SetDefault("phone.default_region", "US")
}

func fromViper(v *viper.Viper) (*Config, error) {
	loc, err := time.LoadLocation(v.GetString("app.timezone"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	durations := map[string]*time.Duration{}
	var (
		readTimeout, writeTimeout, maxLifetime time.Duration
		tokenTTL, slotsTTL                     time.Duration
		reminderLead, reminderInterval         time.Duration
	)
	durations["http.read_timeout"] = &readTimeout
	durations["http.write_timeout"] = &writeTimeout
	durations["postgres.max_lifetime"] = &maxLifetime
	durations["jwt.access_token_ttl"] = &tokenTTL
	durations["cache.slots_ttl"] = &slotsTTL
	durations["reminder.lead"] = &reminderLead
	durations["reminder.check_interval"] = &reminderInterval

	for key, dst := range durations {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid duration for %s: %w", envName(key), err)
		}
		*dst = d
	}

	signingKey := v.GetString("jwt.signing_key")
	if v.GetString("app.env") == "production" && (signingKey == "" || signingKey == defaultSigningKey) {
		return nil, fmt.Errorf("%s must be set to a non-default value in production", envName("jwt.signing_key"))
	}

	defaultDuration := v.GetInt("slots.default_duration")
	if defaultDuration <= 0 {
		return nil, fmt.Errorf("invalid %s: must be positive", envName("slots.default_duration"))
	}

	return &Config{
		Environment: v.GetString("app.env"),
		Name:        v.GetString("app.name"),
		Version:     v.GetString("app.version"),
		LogLevel:    v.GetString("log.level"),
		Location:    loc,
		HTTP: HTTPConfig{
			Port:              v.GetString("http.port"),
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			MaxHeaderMB:       v.GetInt("http.max_header_mb"),
			RequestsPerMinute: v.GetInt("http.requests_per_minute"),
			Burst:             v.GetInt("http.burst"),
		},
		Postgres: PostgresConfig{
			Host:               v.GetString("postgres.host"),
			Port:               v.GetString("postgres.port"),
			Username:           v.GetString("postgres.user"),
			Password:           v.GetString("postgres.password"),
			DBName:             v.GetString("postgres.db"),
			SSLMode:            v.GetString("postgres.ssl_mode"),
			MaxConnections:     v.GetInt("postgres.max_connections"),
			MaxIdleConnections: v.GetInt("postgres.max_idle_connections"),
			MaxLifetime:        maxLifetime,
			MigrationsDir:      v.GetString("postgres.migrations_dir"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SigningKey:     signingKey,
			AccessTokenTTL: tokenTTL,
		},
		Slots: SlotsConfig{
			DefaultDuration: defaultDuration,
			CacheTTL:        slotsTTL,
		},
		Reminder: ReminderConfig{
			Enabled:       v.GetBool("reminder.enabled"),
			Lead:          reminderLead,
			CheckInterval: reminderInterval,
			BatchSize:     v.GetInt("reminder.batch_size"),
			PerSecond:     v.GetFloat64("reminder.per_second"),
		},
		Phone: PhoneConfig{
			DefaultRegion: v.GetString("phone.default_region"),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
