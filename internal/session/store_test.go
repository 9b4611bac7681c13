package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burgerreview/internal/testutil"
)

func TestStore_IssueResolveRevoke(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	store := NewStore(client, time.Hour)
	ctx := context.Background()

	id, err := store.Issue(ctx, 7)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.True(t, mr.Exists("session:"+id))
	assert.Equal(t, time.Hour, mr.TTL("session:"+id))

	userID, err := store.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)

	require.NoError(t, store.Revoke(ctx, id))
	_, err = store.Resolve(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Revoke(ctx, id))
}

func TestStore_DistinctIDs(t *testing.T) {
	client, _ := testutil.NewRedis(t)
	store := NewStore(client, time.Hour)

	first, err := store.Issue(context.Background(), 1)
	require.NoError(t, err)
	second, err := store.Issue(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestStore_Expiry(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	store := NewStore(client, time.Minute)
	ctx := context.Background()

	id, err := store.Issue(ctx, 3)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Resolve(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RejectsEmpty(t *testing.T) {
	client, _ := testutil.NewRedis(t)
	store := NewStore(client, 0)
	assert.Equal(t, 24*time.Hour, store.TTL())

	_, err := store.Issue(context.Background(), 0)
	assert.Error(t, err)

	_, err = store.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Resolve(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}
