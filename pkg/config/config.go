package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage modes understood by the data-access layer.
const (
	ModeSQLite   = "sqlite"
	ModePostgres = "postgres"
	ModeMemory   = "memory"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Security    SecurityConfig
	Dashboard   DashboardConfig
	FrontendDir string
	EnableDocs  bool
}

type DatabaseConfig struct {
	Driver       string
	URL          string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
	// Production is set by ENV=production or by any non-empty VERCEL marker.
	Production   bool
}

// Mode resolves which backing store the process will use. An explicit driver wins,
// then a connection string, then the production flag (no writable disk), then SQLite.
func (c DatabaseConfig) Mode() string {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case ModeSQLite:
		return ModeSQLite
	case ModePostgres, "postgresql", "pg":
		return ModePostgres
	case ModeMemory:
		return ModeMemory
	}
	if c.URL != "" {
		return ModePostgres
	}
	if c.Production {
		return ModeMemory
	}
	return ModeSQLite
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// SecurityConfig toggles how account passwords are stored.
type SecurityConfig struct {
	PasswordHashing bool
	BcryptCost      int
}

// DashboardConfig governs the optional Redis cache in front of the dashboard counts.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	if cfg.Env == "" {
		cfg.Env = v.GetString("NODE_ENV")
	}
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Driver:       v.GetString("DB_DRIVER"),
		URL:          v.GetString("DATABASE_URL"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		SQLitePath:   v.GetString("SQLITE_PATH"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		Production:   cfg.Env == EnvProduction || v.GetString("VERCEL") != "",
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
		File:   v.GetString("LOG_FILE"),
	}

	cfg.Security = SecurityConfig{
		PasswordHashing: v.GetBool("PASSWORD_HASHING"),
		BcryptCost:      v.GetInt("BCRYPT_COST"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("ENABLE_DASHBOARD_CACHE"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 30*time.Second),
	}

	cfg.FrontendDir = v.GetString("FRONTEND_DIR")
	if v.IsSet("ENABLE_DOCS") {
		cfg.EnableDocs = v.GetBool("ENABLE_DOCS")
	} else {
		cfg.EnableDocs = cfg.Env != EnvProduction
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 3000)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("VERCEL", "")

	v.SetDefault("DB_DRIVER", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_SSL_MODE", "")
	v.SetDefault("SQLITE_PATH", "./data/escola.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "")

	v.SetDefault("PASSWORD_HASHING", false)
	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("ENABLE_DASHBOARD_CACHE", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "30s")

	v.SetDefault("FRONTEND_DIR", "./frontend")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
