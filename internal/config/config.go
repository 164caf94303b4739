package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort        string
	StoreDriver     string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	DatabaseURL     string
	DBPoolSize      int
	RedisURL        string
	RedisPoolSize   int
	CacheTTL        int // seconds
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaPartitions int
	LogLevel        string
	LogFormat       string
	CORSOrigins     []string
	TodoAPIURL      string // client only
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Get returns the application config (loads once from env, after .env if present).
func Get() *Config {
	cfgOnce.Do(func() {
		_ = godotenv.Load()
		cfg = Load()
	})
	return cfg
}

// Load reads the config from the current environment without caching it.
func Load() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "5000"),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "todolist"),
		MongoCollection: getEnv("MONGO_COLLECTION", "todos"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBPoolSize:      getIntEnv("DB_POOL_SIZE", 20),
		RedisURL:        os.Getenv("REDIS_URL"),
		RedisPoolSize:   getIntEnv("REDIS_POOL_SIZE", 50),
		CacheTTL:        getIntEnv("CACHE_TTL_SEC", 300),
		KafkaBrokers:    getSliceEnv("KAFKA_BROKERS"),
		KafkaTopic:      getEnv("KAFKA_TODO_TOPIC", "todo-events"),
		KafkaPartitions: getIntEnv("KAFKA_PARTITIONS", 4),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		CORSOrigins:     getSliceEnv("CORS_ORIGINS"),
		TodoAPIURL:      getEnv("TODO_API_URL", "http://localhost:5000/api/todos"),
	}
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool { return c.RedisURL != "" }

// EventsEnabled reports whether Kafka brokers were configured.
func (c *Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 }

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

// getSliceEnv splits a comma separated value; an unset key yields nil.
func getSliceEnv(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
