package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dalemusser/scorehub/internal/app/store/secrets"
	"github.com/go-redis/redis/v8"
)

// SetupSecrets starts an in-process Redis and returns a secret store
// backed by it, plus the server for TTL manipulation via FastForward.
func SetupSecrets(t *testing.T) (*secrets.Store, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return secrets.New(client), srv
}
