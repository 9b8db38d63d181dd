package auth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/harube/kanban-board-api/internal/constants"
)

func setupTokenStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	return NewTokenStore(client), mr
}

func TestTokenStore_IssueAndConsume(t *testing.T) {
	store, _ := setupTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = store.Consume(ctx, "alice@example.com", token)
	require.NoError(t, err)
}

func TestTokenStore_ConsumeIsSingleUse(t *testing.T) {
	store, _ := setupTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	require.NoError(t, store.Consume(ctx, "alice@example.com", token))

	err = store.Consume(ctx, "alice@example.com", token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenStore_WrongTokenRemovesPending(t *testing.T) {
	store, _ := setupTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	err = store.Consume(ctx, "alice@example.com", "nope")
	require.ErrorIs(t, err, ErrTokenInvalid)

	// A failed attempt burns the pending token.
	err = store.Consume(ctx, "alice@example.com", token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenStore_ReissueReplacesToken(t *testing.T) {
	store, _ := setupTokenStore(t)
	ctx := context.Background()

	first, err := store.Issue(ctx, "alice@example.com")
	require.NoError(t, err)
	second, err := store.Issue(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	err = store.Consume(ctx, "alice@example.com", first)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenStore_TokenExpires(t *testing.T) {
	store, mr := setupTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	mr.FastForward(constants.SignInTokenTTL + 1)

	err = store.Consume(ctx, "alice@example.com", token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenStore_KeyIsCaseInsensitiveOnEmail(t *testing.T) {
	store, _ := setupTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "Alice@Example.com")
	require.NoError(t, err)

	err = store.Consume(ctx, "alice@example.com", token)
	require.NoError(t, err)
}

func TestTokenStore_UnknownEmail(t *testing.T) {
	store, _ := setupTokenStore(t)

	err := store.Consume(context.Background(), "nobody@example.com", "anything")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
