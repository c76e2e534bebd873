package postgres_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/sagarc03/lanshare"
	"github.com/sagarc03/lanshare/database/postgres"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	sharedDSN  string
	sharedErr  error
	sharedOnce sync.Once
)

// getSharedDSN starts one postgres container for the whole package run.
func getSharedDSN(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	sharedOnce.Do(func() {
		ctx := context.Background()

		container, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			sharedErr = fmt.Errorf("start postgres container: %w", err)
			return
		}

		sharedDSN, sharedErr = container.ConnectionString(ctx, "sslmode=disable")
	})

	require.NoError(t, sharedErr)

	return sharedDSN
}

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// setupTestDB connects with a unique table name and drops it on cleanup.
func setupTestDB(t *testing.T) (*postgres.Database, lanshare.Tables) {
	t.Helper()

	dsn := getSharedDSN(t)
	ctx := context.Background()
	tables := lanshare.Tables{Shares: fmt.Sprintf("shares_%s", getRandomString(t))}

	db, err := postgres.Connect(ctx, dsn, tables)
	require.NoError(t, err, "failed to connect")

	require.NoError(t, db.Migrate(ctx), "failed to migrate")

	t.Cleanup(func() {
		_ = db.DropTables(ctx)
		_ = db.Close()
	})

	return db, tables
}
