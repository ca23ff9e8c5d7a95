package store

import (
	"context"
	"encoding/json"

	"docchat/internal/config"
	"docchat/internal/data/redisStore"
	"docchat/internal/domain/chatModel"
	"docchat/pkg/logger_i"
)

type RedisTranscriptStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisTranscriptStore(ctx context.Context) *RedisTranscriptStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisTranscriptStore)
	if inner == nil {
		return nil
	}
	return &RedisTranscriptStore{
		store:  inner,
		logger: logger_i.NewLogger("TranscriptStore"),
	}
}

func (s *RedisTranscriptStore) AppendTurn(ctx context.Context, sessionId string, turn chatModel.ChatTurn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", sessionId)
	data, err := json.Marshal(turn)
	if err != nil {
		log.Error("Error marshalling turn", "error", err)
		return err
	}
	err = s.store.ListPush(ctx, transcriptKey(sessionId), data)
	if err != nil {
		log.Error("error appending turn", "error:", err)
		return err
	}
	log.Debug("Appended turn")
	return nil
}

func (s *RedisTranscriptStore) GetTranscript(ctx context.Context, sessionId string) ([]chatModel.ChatTurn, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", sessionId)
	log.Debug("Getting transcript")

	raw, err := s.store.ListGetAll(ctx, transcriptKey(sessionId))
	if err != nil {
		log.Error("Error getting transcript", "error:", err)
		return nil, err
	}

	turns := make([]chatModel.ChatTurn, 0, len(raw))
	for _, r := range raw {
		var turn chatModel.ChatTurn
		if err := json.Unmarshal([]byte(r), &turn); err != nil {
			log.Error("Skipping unreadable turn", "error", err)
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *RedisTranscriptStore) ClearTranscript(ctx context.Context, sessionId string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", sessionId)
	log.Debug("Clearing transcript")
	return s.store.Del(ctx, transcriptKey(sessionId))
}

func transcriptKey(sessionId string) string {
	return "transcript:" + sessionId
}

// TestTranscriptStore exists for _test.go files only.
func TestTranscriptStore(store *redisStore.Store) *RedisTranscriptStore {
	return &RedisTranscriptStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
