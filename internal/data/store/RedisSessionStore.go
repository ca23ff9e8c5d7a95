package store

import (
	"context"
	"encoding/json"

	"docchat/internal/config"
	"docchat/internal/data/redisStore"
	"docchat/internal/domain/chatModel"
	"docchat/pkg/logger_i"
)

type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSessionStore(ctx context.Context) *RedisSessionStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisSessionStore)
	if inner == nil {
		return nil
	}
	return &RedisSessionStore{
		store:  inner,
		logger: logger_i.NewLogger("SessionStore"),
	}
}

func (s *RedisSessionStore) SaveSession(ctx context.Context, session chatModel.Session) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", session.Id)
	log.Debug("saving session")
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, session.Id, data, config.RedisSessionStoreTTL)
	if err == nil {
		log.Debug("Saved session to Redis")
	}
	return err
}

func (s *RedisSessionStore) GetSession(ctx context.Context, sessionId string) (chatModel.Session, bool) {
	var session chatModel.Session
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", sessionId)
	log.Debug("getting session")
	val, err := s.store.Get(ctx, sessionId)
	if s.store.IsNil(err) {
		return session, false
	} else if err != nil {
		log.Error("Failed to read session", "error", err)
		return session, false
	}

	if err = json.Unmarshal([]byte(val), &session); err != nil {
		log.Error("Failed to unmarshal session", "error", err)
		return session, false
	}
	return session, true
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, sessionId string) {
	err := s.store.Del(ctx, sessionId)
	if err != nil {
		s.logger.Error("Error deleting session from Redis", "sessionId", sessionId, "error", err)
		return
	}
	s.logger.Debug("Session deleted from Redis", "sessionId", sessionId)
}

// TestSessionStore exists for _test.go files only.
func TestSessionStore(store *redisStore.Store) *RedisSessionStore {
	return &RedisSessionStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
