package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	"github.com/medical-triage/server/internal/agent/model"
	errx "github.com/medical-triage/server/internal/core/error"
	logx "github.com/medical-triage/server/pkg/logger"
)

// RedisSessionRepository stores the session state as a JSON string and the
// transcript as a list of JSON messages. Both keys share the session TTL,
// which is refreshed on every save.
type RedisSessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) stateKey(sessionID string) string {
	return fmt.Sprintf("session:%s:state", sessionID)
}

func (r *RedisSessionRepository) messagesKey(sessionID string) string {
	return fmt.Sprintf("session:%s:messages", sessionID)
}

func (r *RedisSessionRepository) Load(ctx context.Context, sessionID string) (*model.Session, error) {
	key := r.stateKey(sessionID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errx.ErrSessionNotFound
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load session state from redis")
		return nil, errx.WrapRedis(err)
	}

	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to unmarshal session state")
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}

	rows, err := r.rdb.LRange(ctx, r.messagesKey(sessionID), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to load transcript from redis")
		return nil, errx.WrapRedis(err)
	}

	msgs := make([]*schema.Message, 0, len(rows))
	for i, s := range rows {
		var m schema.Message
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			logx.Error().Err(err).Str("session_id", sessionID).Int("index", i).Msg("failed to unmarshal message")
			return nil, fmt.Errorf("unmarshal message at index %d: %w", i, err)
		}
		msgs = append(msgs, &m)
	}
	sess.Restore(msgs)
	return &sess, nil
}

// Save writes the state and appends the transcript entries not yet stored.
// Everything goes out in one MULTI/EXEC block.
func (r *RedisSessionRepository) Save(ctx context.Context, sess *model.Session) error {
	if sess == nil || sess.ID == "" {
		return errors.New("session without id")
	}
	sess.UpdatedAt = time.Now().UTC()

	state, err := json.Marshal(sess)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sess.ID).Msg("failed to marshal session state")
		return fmt.Errorf("marshal session state: %w", err)
	}

	pending := sess.Pending()
	rows := make([]any, 0, len(pending))
	for _, m := range pending {
		b, err := json.Marshal(m)
		if err != nil {
			logx.Error().Err(err).Str("session_id", sess.ID).Msg("failed to marshal message")
			return fmt.Errorf("marshal message: %w", err)
		}
		rows = append(rows, b)
	}

	stateKey, msgKey := r.stateKey(sess.ID), r.messagesKey(sess.ID)
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, stateKey, state, r.ttl)
		if len(rows) > 0 {
			pipe.RPush(ctx, msgKey, rows...)
		}
		// extend TTL on touch
		if r.ttl > 0 {
			pipe.Expire(ctx, msgKey, r.ttl)
		}
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("session_id", sess.ID).Msg("failed to save session to redis")
		return errx.WrapRedis(err)
	}

	sess.MarkPersisted()
	return nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, r.stateKey(sessionID), r.messagesKey(sessionID)).Err(); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to delete session from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)
