package config

import (
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv is a seam for tests. A missing .env file is not an error.
var loadDotEnv = func() { _ = godotenv.Load() }

// parseEnv overlays values from the process environment, after loading a
// .env file from the working directory if one exists. PORT is accepted as a
// bare port number for compatibility with hosting platforms.
func parseEnv(config *Config) {
	loadDotEnv()

	if port := os.Getenv("PORT"); port != "" {
		config.HTTPAddr = ":" + port
	}
	setString(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	setString(&config.MongoURI, os.Getenv("MONGODB_URI"))
	setString(&config.MongoDatabase, os.Getenv("MONGODB_DATABASE"))
	setString(&config.RedisURL, os.Getenv("REDIS_URL"))
	setString(&config.SecretKey, os.Getenv("JWT_SECRET"))
	setString(&config.LogBackend, os.Getenv("LOG_BACKEND"))
}
