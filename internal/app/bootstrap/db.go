// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/scorehub/internal/app/store/files"
	"github.com/dalemusser/scorehub/internal/app/store/secrets"
	"github.com/dalemusser/scorehub/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB dials every backend the app depends on: MongoDB for users and
// sheets, Redis for sign-in secrets, and the object store for sheet files.
// Each connection is verified before the next is attempted so a bad
// configuration fails fast with a specific error.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("ping mongodb: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	redisClient, err := secrets.Connect(connectCtx, appCfg.RedisAddr, appCfg.RedisPassword)
	if err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}
	logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr))

	fileStore, err := files.Connect(connectCtx, files.Config{
		Region:       appCfg.S3Region,
		Bucket:       appCfg.S3Bucket,
		Endpoint:     appCfg.S3Endpoint,
		AccessKey:    appCfg.S3AccessKey,
		SecretKey:    appCfg.S3SecretKey,
		UsePathStyle: appCfg.S3UsePathStyle,
	})
	if err != nil {
		_ = redisClient.Close()
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}
	logger.Info("connected to object store", zap.String("bucket", appCfg.S3Bucket))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Secrets:       secrets.New(redisClient),
		Files:         fileStore,
	}, nil
}

// EnsureSchema creates the indexes the stores rely on, including the
// unique constraints on user email and (owner_email, sheet_id).
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("database indexes ensured")
	return nil
}
