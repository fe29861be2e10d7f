package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "outfit:session:"

// SessionRepository stores the product ids shown during a shuffle session
// as a Redis set with a sliding expiry
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewSessionRepository creates a new SessionRepository. A nil logger logs nothing.
func NewSessionRepository(client *redis.Client, ttl time.Duration, log *zap.Logger) *SessionRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionRepository{client: client, ttl: ttl, log: log}
}

// NewRedisClient connects to Redis and pings it
func NewRedisClient(ctx context.Context, addr, password string, db int, log *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	if log != nil {
		log.Info("✓ Redis connection established successfully", zap.String("addr", addr))
	}
	return client, nil
}

// Ensure SessionRepository implements SessionRepositoryInterface
var _ SessionRepositoryInterface = (*SessionRepository)(nil)

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + strings.TrimSpace(sessionID)
}

// Load returns the ids stored for the session; an unknown session is empty
func (r *SessionRepository) Load(ctx context.Context, sessionID string) ([]int64, error) {
	members, err := r.client.SMembers(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	ids, skipped := parseIDs(members)
	if skipped > 0 {
		r.log.Warn("⚠️  Skipped malformed session members", zap.String("session_id", sessionID), zap.Int("skipped", skipped))
	}
	return ids, nil
}

// Append adds ids to the session set and refreshes the expiry
func (r *SessionRepository) Append(ctx context.Context, sessionID string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	key := sessionKey(sessionID)
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = strconv.FormatInt(id, 10)
	}

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

// parseIDs converts set members to ids and counts the malformed ones it skips
func parseIDs(members []string) ([]int64, int) {
	ids := make([]int64, 0, len(members))
	skipped := 0
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			skipped++
			continue
		}
		ids = append(ids, id)
	}
	return ids, skipped
}
