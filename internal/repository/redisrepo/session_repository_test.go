package redisrepo

import (
	"context"
	"testing"
	"time"

	"cloudnote-be/internal/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*miniredis.Miniredis, *SessionRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewSessionRepositoryWithClient(client, time.Hour).(*SessionRepository)
	return mr, repo
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	session := entity.NewSession("s1")
	session.SetAuthenticated("trip42", true)
	session.AdminLoggedIn = true
	require.NoError(t, repo.Save(ctx, session))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.IsAuthenticated("trip42"))
	assert.True(t, loaded.AdminLoggedIn)

	missing, err := repo.Get(ctx, "unknown")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPurgeNotebookClearsEverySession(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		session := entity.NewSession(id)
		session.SetAuthenticated("doomed", true)
		session.SetAuthenticated("kept", true)
		require.NoError(t, repo.Save(ctx, session))
	}

	require.NoError(t, repo.PurgeNotebook(ctx, "doomed"))

	for _, id := range []string{"a", "b"} {
		session, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.False(t, session.IsAuthenticated("doomed"))
		assert.True(t, session.IsAuthenticated("kept"))
	}
}

func TestPurgeToleratesStaleIndexEntries(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()

	session := entity.NewSession("s1")
	session.SetAuthenticated("nb", true)
	require.NoError(t, repo.Save(ctx, session))

	// Stale member: a session that expired after being indexed.
	_, err := mr.SetAdd("notebook_sessions:nb", "ghost-session")
	require.NoError(t, err)

	assert.NoError(t, repo.PurgeNotebook(ctx, "nb"))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, loaded.IsAuthenticated("nb"))
}

func TestSessionExpires(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()

	session := entity.NewSession("s1")
	require.NoError(t, repo.Save(ctx, session))

	mr.FastForward(2 * time.Hour)

	loaded, err := repo.Get(ctx, "s1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}
