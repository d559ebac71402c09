package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         string
	Env          string
	RedisURL     string
	MongoURL     string
	MongoDBName  string
	KafkaBrokers string
	KafkaTopic   string

	// MaxChunkSize is the largest serialized payload written under a single
	// key-value entry; anything bigger is split into chunk entries.
	MaxChunkSize int
	// MaxChunks bounds how many chunk entries a single key may own. Saves
	// that would need more fail with ErrTooManyChunks instead of writing.
	MaxChunks int
}

func Load() Config {
	return Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("APP_ENV", "development"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		MongoURL:     getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDBName:  getEnv("MONGO_DB_NAME", "storefront"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order.placed"),
		MaxChunkSize: getEnvInt("MAX_CHUNK_SIZE", 500000),
		MaxChunks:    getEnvInt("MAX_CHUNKS", 20),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}
