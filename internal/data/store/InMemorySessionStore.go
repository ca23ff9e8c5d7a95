package store

import (
	"context"
	"sync"

	"docchat/internal/domain/chatModel"
	"docchat/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem Store")

type InMemorySessionStore struct {
	mutex      *sync.RWMutex
	sessionMap map[string]chatModel.Session
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		mutex:      new(sync.RWMutex),
		sessionMap: make(map[string]chatModel.Session),
	}
}

func (store *InMemorySessionStore) SaveSession(ctx context.Context, session chatModel.Session) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.sessionMap[session.Id] = session
	return nil
}

func (store *InMemorySessionStore) GetSession(ctx context.Context, sessionId string) (chatModel.Session, bool) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	result, found := store.sessionMap[sessionId]
	return result, found
}

func (store *InMemorySessionStore) DeleteSession(ctx context.Context, sessionId string) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	delete(store.sessionMap, sessionId)
}
