// Package config handles configuration for the storefront server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the storefront server.
//
// Fields:
//   - HTTPAddr: bind address for the REST endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx) for the credential store. Empty selects the in-memory store.
//   - MongoURI / MongoDatabase: document store for orders and products. Empty URI selects in-memory.
//   - RedisURL: cart store. Empty selects in-memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - TokenValidityDuration: session token lifetime.
//   - BcryptCost / HashWorkers: password hashing cost and the number of concurrent hashes.
//   - CartTTL: idle expiry of carts kept in Redis.
//   - LogBackend: "slog" or "zap".
//   - CORSAllowedOrigins: "*" allows every origin.
//   - AuthRatePerMinute / AuthRateBurst: per-IP limit on /auth routes.
//   - ProductsSeedFile: JSON array loaded into an empty catalog at startup.
//   - ShutdownTimeout: grace period for in-flight requests on stop.
type Config struct {
	HTTPAddr              string
	DatabaseDSN           string
	MongoURI              string
	MongoDatabase         string
	RedisURL              string
	SecretKey             string
	TokenValidityDuration time.Duration
	BcryptCost            int
	HashWorkers           int
	CartTTL               time.Duration
	LogBackend            string
	CORSAllowedOrigins    []string
	AuthRatePerMinute     int
	AuthRateBurst         int
	ProductsSeedFile      string
	ShutdownTimeout       time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3000"
	c.MongoDatabase = "storefront"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 7 * 24 * time.Hour
	c.BcryptCost = 10
	c.HashWorkers = 4
	c.CartTTL = 30 * 24 * time.Hour
	c.LogBackend = "slog"
	c.CORSAllowedOrigins = []string{"*"}
	c.AuthRatePerMinute = 100
	c.AuthRateBurst = 50
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (and .env) and finally from
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
