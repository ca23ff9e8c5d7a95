package store

import (
	"context"
	"sync"

	"docchat/internal/domain/chatModel"
)

type InMemoryTranscriptStore struct {
	mutex         *sync.RWMutex
	transcriptMap map[string][]chatModel.ChatTurn
}

func InitInMemoryTranscriptStore() *InMemoryTranscriptStore {
	return &InMemoryTranscriptStore{
		mutex:         new(sync.RWMutex),
		transcriptMap: make(map[string][]chatModel.ChatTurn),
	}
}

func (store *InMemoryTranscriptStore) AppendTurn(ctx context.Context, sessionId string, turn chatModel.ChatTurn) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.transcriptMap[sessionId] = append(store.transcriptMap[sessionId], turn)
	inMemLogger.Debug("Appended turn", "sessionId", sessionId)
	return nil
}

func (store *InMemoryTranscriptStore) GetTranscript(ctx context.Context, sessionId string) ([]chatModel.ChatTurn, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	turns := store.transcriptMap[sessionId]
	out := make([]chatModel.ChatTurn, len(turns))
	copy(out, turns)
	return out, nil
}

func (store *InMemoryTranscriptStore) ClearTranscript(ctx context.Context, sessionId string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	delete(store.transcriptMap, sessionId)
	return nil
}
