package sqlite_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/sagarc03/lanshare"
	"github.com/sagarc03/lanshare/database/sqlite"
	"github.com/stretchr/testify/require"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// setupTestDB returns a migrated in-memory database with a unique table name.
func setupTestDB(t *testing.T) *sqlite.Database {
	t.Helper()

	ctx := context.Background()
	tables := lanshare.Tables{Shares: fmt.Sprintf("shares_%s", getRandomString(t))}

	db, err := sqlite.Connect(ctx, ":memory:", tables)
	require.NoError(t, err, "failed to connect")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx), "failed to migrate")

	return db
}
