package session

import (
	"context"
	"os"
	"testing"
	"time"

	"sales-tracker-scraper/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, database.EnsureSchema(ctx, pool))

	repo := NewPostgresRepository(pool)
	owner := "test-owner-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _ = repo.Delete(context.Background(), owner) })

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Save(ctx, &Session{OwnerID: owner, Cookies: testCookies(), UserAgent: "ua-1", UpdatedAt: now}))
	require.NoError(t, repo.Save(ctx, &Session{OwnerID: owner, Cookies: testCookies()[:1], UserAgent: "ua-2", Platform: "Linux", UpdatedAt: now}))

	got, err := repo.Load(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, got.Cookies, 1)
	assert.Equal(t, "ua-2", got.UserAgent)
	assert.Equal(t, "Linux", got.Platform)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, repo.Save(ctx, &Session{OwnerID: owner, Cookies: testCookies(), UpdatedAt: now, ExpiresAt: &past}))
	_, err = repo.Load(ctx, owner)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := repo.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}
