// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/scorehub/internal/app/system/passcode"
	"github.com/dalemusser/scorehub/internal/app/system/token"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devTokenSecret is the development fallback for token_secret. It is
// rejected outside dev mode.
const devTokenSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for ScoreHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, redis_addr, etc.
//   - Environment variables: SCOREHUB_MONGO_URI, SCOREHUB_REDIS_ADDR, etc.
//   - Command-line flags: --mongo_uri, --redis_addr, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "scorehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Redis (sign-in secrets)
	{Name: "redis_addr", Default: "localhost:6379", Desc: "Redis address (host:port)"},
	{Name: "redis_password", Default: "", Desc: "Redis password (blank for none)"},

	// Session tokens
	{Name: "token_secret", Default: devTokenSecret, Desc: "Session token signing key (must be strong in production)"},
	{Name: "token_ttl", Default: "30m", Desc: "Session token lifetime (e.g., 30m, 12h)"},
	{Name: "cookie_name", Default: "scorehub-token", Desc: "Session cookie name"},

	// Sign-in secrets
	{Name: "secret_ttl", Default: "5m", Desc: "One-time password / magic link lifetime"},

	// Object storage for sheet files
	{Name: "s3_region", Default: "us-east-1", Desc: "AWS region for the sheet bucket"},
	{Name: "s3_bucket", Default: "scorehub-sheets", Desc: "Bucket holding sheet files"},
	{Name: "s3_endpoint", Default: "", Desc: "Custom S3 endpoint for MinIO etc. (blank for AWS)"},
	{Name: "s3_access_key", Default: "", Desc: "Static S3 access key (blank for the default chain)"},
	{Name: "s3_secret_key", Default: "", Desc: "Static S3 secret key"},
	{Name: "s3_use_path_style", Default: false, Desc: "Use path-style S3 addressing (required by MinIO)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username (blank disables auth)"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@scorehub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "ScoreHub", Desc: "From display name"},

	// Base URL for magic sign-in links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for magic sign-in links"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SCOREHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),

		TokenSecret: appValues.String("token_secret"),
		TokenTTL:    appValues.Duration("token_ttl", token.DefaultTTL),
		CookieName:  appValues.String("cookie_name"),

		SecretTTL: appValues.Duration("secret_ttl", passcode.DefaultTTL),

		S3Region:       appValues.String("s3_region"),
		S3Bucket:       appValues.String("s3_bucket"),
		S3Endpoint:     appValues.String("s3_endpoint"),
		S3AccessKey:    appValues.String("s3_access_key"),
		S3SecretKey:    appValues.String("s3_secret_key"),
		S3UsePathStyle: appValues.Bool("s3_use_path_style"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL: appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// ScoreHub checks the MongoDB URI format and, outside dev mode, refuses
// the development token secret and short lifetimes that would make
// sign-in links unusable.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env != "dev" && appCfg.TokenSecret == devTokenSecret {
		return fmt.Errorf("token_secret must be set outside dev mode")
	}
	if appCfg.TokenTTL < time.Minute {
		return fmt.Errorf("token_ttl %s is too short (minimum 1m)", appCfg.TokenTTL)
	}
	if appCfg.SecretTTL < 30*time.Second {
		return fmt.Errorf("secret_ttl %s is too short (minimum 30s)", appCfg.SecretTTL)
	}
	if appCfg.S3Bucket == "" {
		return fmt.Errorf("s3_bucket must be set")
	}

	return nil
}
