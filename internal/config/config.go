package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Host     string
	Port     int
	GRPCAddr string // empty disables the gRPC read API

	// Catalog
	CatalogType    string // memory, sqlite
	CatalogOptions string // sqlite: in-memory database name
	SeedPath       string // empty uses the built-in catalog

	// Local transient content
	ContentType    string // mem, fs
	ContentOptions string // fs: parent directory for the temp dir

	// Upload
	UploadDelay time.Duration

	LogLevel string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Host:           getEnvOrDefault("HOST", "localhost"),
		Port:           getEnvAsIntOrDefault("PORT", 8080),
		GRPCAddr:       getEnvOrDefault("GRPC_ADDR", ""),
		CatalogType:    getEnvOrDefault("CATALOG_TYPE", "memory"),
		CatalogOptions: getEnvOrDefault("CATALOG_OPTIONS", ""),
		SeedPath:       getEnvOrDefault("CATALOG_SEED", ""),
		ContentType:    getEnvOrDefault("CONTENT_TYPE", "mem"),
		ContentOptions: getEnvOrDefault("CONTENT_OPTIONS", ""),
		UploadDelay:    time.Duration(getEnvAsIntOrDefault("UPLOAD_DELAY_MS", 2000)) * time.Millisecond,
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
