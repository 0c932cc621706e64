package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Mongo     MongoConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Directory DirectoryConfig
	Events    EventsConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// IsDevelopment - в ответах об ошибках показывается стек
func (s ServerConfig) IsDevelopment() bool {
	return s.Env == EnvDevelopment
}

type StorageConfig struct {
	Driver string
}

type MongoConfig struct {
	URI                  string
	Database             string
	ServicesCollection   string
	CategoriesCollection string
	ConnectTimeout       time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	Driver        string
	NearbyTTL     time.Duration
	CategoriesTTL time.Duration
	StatsTTL      time.Duration
	MaxEntries    int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type DirectoryConfig struct {
	DefaultCountry string
	Timezone       string
}

type EventsConfig struct {
	Enabled bool
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	ConsumerName  string
	BatchSize     int64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 5000)
	v.SetDefault("API_ENV", EnvDevelopment)

	v.SetDefault("STORAGE_DRIVER", StorageMongo)

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "service_directory")
	v.SetDefault("MONGO_SERVICES_COLLECTION", "services")
	v.SetDefault("MONGO_CATEGORIES_COLLECTION", "categories")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", 10)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "service_directory")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CACHE_DRIVER", CacheMemory)
	v.SetDefault("NEARBY_CACHE_TTL", 300)
	v.SetDefault("CATEGORIES_CACHE_TTL", 3600)
	v.SetDefault("STATS_CACHE_TTL", 60)
	v.SetDefault("CACHE_MAX_ENTRIES", 1000)

	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", 900)

	v.SetDefault("DIRECTORY_DEFAULT_COUNTRY", "Egypt")
	v.SetDefault("DIRECTORY_TIMEZONE", "Africa/Cairo")

	v.SetDefault("EVENTS_ENABLED", false)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WORKER_ENABLED", true)
	v.SetDefault("WORKER_CONSUMER_GROUP", "directory-catalog-workers")
	v.SetDefault("WORKER_BATCH_SIZE", 10)
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile - то же, что Load, с явным путем к env файлу
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		// Отсутствующий .env не ошибка: в контейнере все приходит из окружения
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		},
		Mongo: MongoConfig{
			URI:                  v.GetString("MONGO_URI"),
			Database:             v.GetString("MONGO_DATABASE"),
			ServicesCollection:   v.GetString("MONGO_SERVICES_COLLECTION"),
			CategoriesCollection: v.GetString("MONGO_CATEGORIES_COLLECTION"),
			ConnectTimeout:       time.Duration(v.GetInt("MONGO_CONNECT_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Driver:        strings.ToLower(v.GetString("CACHE_DRIVER")),
			NearbyTTL:     time.Duration(v.GetInt("NEARBY_CACHE_TTL")) * time.Second,
			CategoriesTTL: time.Duration(v.GetInt("CATEGORIES_CACHE_TTL")) * time.Second,
			StatsTTL:      time.Duration(v.GetInt("STATS_CACHE_TTL")) * time.Second,
			MaxEntries:    v.GetInt("CACHE_MAX_ENTRIES"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			Max:    v.GetInt("RATE_LIMIT_MAX"),
			Window: time.Duration(v.GetInt("RATE_LIMIT_WINDOW")) * time.Second,
		},
		Directory: DirectoryConfig{
			DefaultCountry: v.GetString("DIRECTORY_DEFAULT_COUNTRY"),
			Timezone:       v.GetString("DIRECTORY_TIMEZONE"),
		},
		Events: EventsConfig{
			Enabled: v.GetBool("EVENTS_ENABLED"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			ConsumerName:  v.GetString("WORKER_CONSUMER_NAME"),
			BatchSize:     v.GetInt64("WORKER_BATCH_SIZE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMongo, StoragePostgres:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch c.Cache.Driver {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER %q", c.Cache.Driver)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive")
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	if c.Worker.BatchSize <= 0 {
		c.Worker.BatchSize = 10
	}
	return nil
}

// NeedsRedis - Redis нужен для кеша или событий
func (c *Config) NeedsRedis() bool {
	return c.Cache.Driver == CacheRedis || c.Events.Enabled
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
