package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sales-tracker-scraper/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory Repository.
type memRepo struct {
	mu       sync.Mutex
	sessions map[string]*Session
	saveErr  error
	loadErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{sessions: make(map[string]*Session)}
}

func (m *memRepo) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *s
	m.sessions[s.OwnerID] = &cp
	return nil
}

func (m *memRepo) Load(_ context.Context, ownerID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	s, ok := m.sessions[ownerID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memRepo) Delete(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, ownerID)
	return nil
}

func (m *memRepo) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for owner, s := range m.sessions {
		if s.ExpiresAt != nil && !s.ExpiresAt.After(now) {
			delete(m.sessions, owner)
			n++
		}
	}
	return n, nil
}

func testCookies() []Cookie {
	return []Cookie{
		{Name: "li_at", Value: "token-1", Domain: ".linkedin.com", Path: "/", Secure: true, HTTPOnly: true},
		{Name: "JSESSIONID", Value: "ajax:123", Domain: ".www.linkedin.com", Path: "/", SameSite: "None"},
	}
}

func newTestStore(t *testing.T, repo Repository, ttl time.Duration) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return NewStore(repo, NewFileCache(dir, logger.NewNop()), ttl, logger.NewNop()), dir
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	repo := newMemRepo()
	store, _ := newTestStore(t, repo, 0)
	ctx := context.Background()

	_, err := store.Save(ctx, "user-x", testCookies(), "Mozilla/5.0 test", "Linux x86_64")
	require.NoError(t, err)

	got, err := store.Load(ctx, "user-x")
	require.NoError(t, err)
	assert.Equal(t, testCookies(), got.Cookies)
	assert.Equal(t, "Mozilla/5.0 test", got.UserAgent)
	assert.Equal(t, "Linux x86_64", got.Platform)

	_, err = store.Load(ctx, "user-y")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SaveReplacesPreviousSession(t *testing.T) {
	repo := newMemRepo()
	store, _ := newTestStore(t, repo, 0)
	ctx := context.Background()

	_, err := store.Save(ctx, "user-x", testCookies(), "ua-1", "")
	require.NoError(t, err)
	_, err = store.Save(ctx, "user-x", testCookies()[:1], "ua-2", "")
	require.NoError(t, err)

	got, err := store.Load(ctx, "user-x")
	require.NoError(t, err)
	assert.Len(t, got.Cookies, 1)
	assert.Equal(t, "ua-2", got.UserAgent)
	assert.Len(t, repo.sessions, 1)
}

func TestStore_SaveRejectsEmptyCookies(t *testing.T) {
	store, _ := newTestStore(t, newMemRepo(), 0)

	_, err := store.Save(context.Background(), "user-x", nil, "ua", "")
	assert.ErrorIs(t, err, ErrNoCookies)
}

func TestStore_SaveWithOwnerReturnsRepositoryError(t *testing.T) {
	repo := newMemRepo()
	repo.saveErr = errors.New("connection refused")
	store, _ := newTestStore(t, repo, 0)

	_, err := store.Save(context.Background(), "user-x", testCookies(), "ua", "")
	assert.ErrorContains(t, err, "connection refused")
}

func TestStore_FileMirrorFailureDoesNotFailSave(t *testing.T) {
	repo := newMemRepo()
	dir := t.TempDir()
	// a regular file where the mirror directory should be
	require.NoError(t, os.WriteFile(filepath.Join(dir, mirrorDir), []byte("x"), 0o644))
	store := NewStore(repo, NewFileCache(dir, logger.NewNop()), 0, logger.NewNop())

	_, err := store.Save(context.Background(), "user-x", testCookies(), "ua", "")
	require.NoError(t, err)

	got, err := store.Load(context.Background(), "user-x")
	require.NoError(t, err)
	assert.Equal(t, "ua", got.UserAgent)
}

func TestStore_ExpiredSessionIsAbsent(t *testing.T) {
	repo := newMemRepo()
	store, dir := newTestStore(t, repo, time.Hour)
	ctx := context.Background()

	_, err := store.Save(ctx, "user-x", testCookies(), "ua", "")
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = store.Load(ctx, "user-x")
	assert.ErrorIs(t, err, ErrNotFound)

	// the row and the mirror file are still physically there
	assert.Len(t, repo.sessions, 1)
	_, statErr := os.Stat(filepath.Join(dir, mirrorDir, "user-x.json"))
	assert.NoError(t, statErr)

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Empty(t, repo.sessions)
}

func TestStore_LoadFallsBackToFileWhenRepositoryFails(t *testing.T) {
	repo := newMemRepo()
	store, _ := newTestStore(t, repo, 0)
	ctx := context.Background()

	_, err := store.Save(ctx, "user-x", testCookies(), "ua", "")
	require.NoError(t, err)

	repo.loadErr = errors.New("db down")
	got, err := store.Load(ctx, "user-x")
	require.NoError(t, err)
	assert.Equal(t, "user-x", got.OwnerID)
}

func TestStore_OwnerMirrorIsNotServedToOtherOwners(t *testing.T) {
	store, _ := newTestStore(t, newMemRepo(), 0)
	ctx := context.Background()

	_, err := store.Save(ctx, "user-x", testCookies(), "ua", "")
	require.NoError(t, err)

	_, err = store.Load(ctx, "user-y")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Load(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SharedSessionIsFallbackForAnyOwner(t *testing.T) {
	store, _ := newTestStore(t, newMemRepo(), 0)
	ctx := context.Background()

	_, err := store.Save(ctx, "", testCookies(), "shared-ua", "MacIntel")
	require.NoError(t, err)

	got, err := store.Load(ctx, "user-y")
	require.NoError(t, err)
	assert.Equal(t, "shared-ua", got.UserAgent)
	assert.Empty(t, got.OwnerID)
}

func TestStore_LegacyCookiesFile(t *testing.T) {
	store, dir := newTestStore(t, nil, 0)
	legacy := `[
		{"name": "li_at", "value": "abc", "domain": ".linkedin.com", "path": "/", "expires": -1, "httpOnly": true, "secure": true, "sameSite": "None"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, legacyFile), []byte(legacy), 0o600))

	assert.True(t, store.HasSaved())
	got, err := store.Load(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got.Cookies, 1)
	assert.Equal(t, "li_at", got.Cookies[0].Name)
	assert.Empty(t, got.UserAgent)
	assert.Empty(t, got.Platform)
}

func TestStore_EmptyLegacyFileIsAbsent(t *testing.T) {
	store, dir := newTestStore(t, nil, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, legacyFile), []byte(`[]`), 0o600))

	_, err := store.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_WithoutRepositoryUsesFiles(t *testing.T) {
	store, _ := newTestStore(t, nil, 0)
	ctx := context.Background()

	assert.False(t, store.HasSaved())
	_, err := store.Save(ctx, "user-x", testCookies(), "ua", "")
	require.NoError(t, err)
	assert.True(t, store.HasSaved())

	got, err := store.Load(ctx, "user-x")
	require.NoError(t, err)
	assert.Equal(t, "ua", got.UserAgent)
}

func TestStore_ClearRemovesFilesAndOwnerEntry(t *testing.T) {
	repo := newMemRepo()
	store, _ := newTestStore(t, repo, 0)
	ctx := context.Background()

	_, err := store.Save(ctx, "", testCookies(), "shared", "")
	require.NoError(t, err)
	_, err = store.Save(ctx, "user-x", testCookies(), "ua", "")
	require.NoError(t, err)
	_, err = store.Save(ctx, "user-z", testCookies(), "ua-z", "")
	require.NoError(t, err)

	res, err := store.Clear(ctx, "user-x")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Cookies cleared", res.Message)

	_, err = store.Load(ctx, "user-x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotContains(t, repo.sessions, "user-x")

	// other owners keep their sessions
	got, err := store.Load(ctx, "user-z")
	require.NoError(t, err)
	assert.Equal(t, "ua-z", got.UserAgent)
}

func TestStore_ClearWithoutOwnerLeavesRepository(t *testing.T) {
	repo := newMemRepo()
	store, _ := newTestStore(t, repo, 0)
	ctx := context.Background()

	_, err := store.Save(ctx, "user-x", testCookies(), "ua", "")
	require.NoError(t, err)

	res, err := store.Clear(ctx, "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, repo.sessions, "user-x")
}

func TestStore_ClearWhenNothingSaved(t *testing.T) {
	store, _ := newTestStore(t, nil, 0)

	res, err := store.Clear(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "No cookies to clear", res.Message)
}

func TestCookie_UnmarshalExtensionExport(t *testing.T) {
	raw := `{"name": "li_at", "value": "v", "domain": ".linkedin.com", "path": "/",
		"expirationDate": 1893456000.5, "hostOnly": false, "httpOnly": true, "secure": true,
		"sameSite": "no_restriction", "session": false, "storeId": "0"}`

	var c Cookie
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, 1893456000.5, c.Expires)
	assert.Equal(t, "None", c.SameSite)
	assert.True(t, c.HTTPOnly)
}

func TestCookie_UnmarshalSameSiteVariants(t *testing.T) {
	tests := map[string]string{
		"lax":         "Lax",
		"Strict":      "Strict",
		"None":        "None",
		"unspecified": "",
		"":            "",
	}
	for in, want := range tests {
		var c Cookie
		require.NoError(t, json.Unmarshal([]byte(`{"name":"a","sameSite":"`+in+`"}`), &c))
		assert.Equal(t, want, c.SameSite, in)
	}
}

func TestSession_Usable(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (*Session)(nil).Usable(now))
	assert.False(t, (&Session{}).Usable(now))
	assert.True(t, (&Session{Cookies: testCookies()}).Usable(now))
	assert.False(t, (&Session{Cookies: testCookies(), ExpiresAt: &past}).Usable(now))
	assert.True(t, (&Session{Cookies: testCookies(), ExpiresAt: &future}).Usable(now))
}
