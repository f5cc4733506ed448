// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request timeouts. AppConfig is where
// everything specific to ScoreHub lives: backend connection strings,
// credential lifetimes, object-store settings, and mail delivery.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Redis, which backs the short-lived sign-in secrets
	RedisAddr     string // host:port of the Redis server
	RedisPassword string // Redis password (empty for none)

	// Session token configuration
	TokenSecret string        // HMAC key for signing session tokens
	TokenTTL    time.Duration // Session token lifetime
	CookieName  string        // Session cookie name

	// Sign-in secret lifetime (one-time passwords and magic links)
	SecretTTL time.Duration

	// Object storage for sheet files (S3 or any S3-compatible backend)
	S3Region       string // AWS region
	S3Bucket       string // Bucket name
	S3Endpoint     string // Custom endpoint for MinIO etc. (blank for AWS)
	S3AccessKey    string // Static access key (blank for the default chain)
	S3SecretKey    string // Static secret key
	S3UsePathStyle bool   // Path-style addressing, required by MinIO

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host
	MailSMTPPort int    // SMTP server port
	MailSMTPUser string // SMTP username (empty disables auth)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name

	// Base URL for magic sign-in links
	BaseURL string // e.g., "https://scorehub.example.com"
}
