// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/scorehub/internal/app/store/files"
	"github.com/dalemusser/scorehub/internal/app/store/secrets"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Secrets       *secrets.Store
	Files         *files.Store
}
