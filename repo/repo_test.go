package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/htol/libapi/config"
	"github.com/htol/libapi/logger"
)

func init() {
	logger.Init("info")
}

// newTestRepo opens a fresh SQLite database under the test's temp dir
func newTestRepo(t testing.TB) *Repo {
	t.Helper()
	r, err := GetStorage(context.Background(), config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    4,
		MaxIdleConns:    4,
		ConnMaxLifetime: 60,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Logf("Error closing storage: %v", err)
		}
	})
	return r
}

func TestGetStorage_CreatesSchemaIdempotently(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Ping(ctx))
	require.NoError(t, r.CreateSchema(ctx), "re-applying the schema must be a no-op")
	require.Equal(t, config.DriverSQLite, r.Driver())
}

func TestGetStorage_UnsupportedDriver(t *testing.T) {
	_, err := GetStorage(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
}

func TestGetStorage_PostgresNeedsDSN(t *testing.T) {
	_, err := GetStorage(context.Background(), config.DatabaseConfig{Driver: config.DriverPostgres})
	require.ErrorContains(t, err, "DB_DSN")
}
