package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestParseIDsSkipsMalformed(t *testing.T) {
	ids, skipped := parseIDs([]string{"4", "x", "12", ""})
	require.Equal(t, []int64{4, 12}, ids)
	require.Equal(t, 2, skipped)
}

func TestSessionKey(t *testing.T) {
	require.Equal(t, "outfit:session:abc", sessionKey(" abc "))
}

func TestSessionRepositoryIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_INTEGRATION_ADDR")
	if addr == "" {
		t.Skip("set REDIS_INTEGRATION_ADDR to run Redis integration tests")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, "", 0, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	repo := NewSessionRepository(client, time.Minute, zaptest.NewLogger(t))
	session := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, sessionKey(session)) })

	ids, err := repo.Load(ctx, session)
	require.NoError(t, err)
	require.Empty(t, ids)

	require.NoError(t, repo.Append(ctx, session, []int64{3, 7}))
	require.NoError(t, repo.Append(ctx, session, []int64{7, 9}))

	ids, err = repo.Load(ctx, session)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{3, 7, 9}, ids)

	ttl, err := client.TTL(ctx, sessionKey(session)).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
}
