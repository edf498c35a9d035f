package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"secondhand-marketplace/internal/domain"
)

type redisRepo struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedis stores each session under session:<id> with a TTL matching its
// expiry, and indexes ids per user under user_sessions:<userID>.
func NewRedis(client *redis.Client) Repository {
	return &redisRepo{client: client, now: time.Now}
}

func sessionKey(id string) string {
	return "session:" + id
}

func userKey(userID int64) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

func (r *redisRepo) Create(ctx context.Context, s domain.Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.now().UTC()
	}
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, sessionKey(s.ID), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("set session in redis: %w", err)
	}
	if !ok {
		return domain.ErrAlreadyExists
	}

	// The per-user index lives as long as the longest session in it.
	key := userKey(s.UserID)
	if err := r.client.SAdd(ctx, key, s.ID).Err(); err != nil {
		return fmt.Errorf("index session in redis: %w", err)
	}
	current, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("index ttl: %w", err)
	}
	if current < ttl {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return fmt.Errorf("index expire: %w", err)
		}
	}
	return nil
}

func (r *redisRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	val, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session from redis: %w", err)
	}
	var s domain.Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *redisRepo) Delete(ctx context.Context, id string) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, userKey(s.UserID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session from redis: %w", err)
	}
	return nil
}

func (r *redisRepo) DeleteByUser(ctx context.Context, userID int64) error {
	ids, err := r.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userKey(userID))
	return r.client.Del(ctx, keys...).Err()
}
