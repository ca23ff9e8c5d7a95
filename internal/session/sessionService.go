package session

import (
	"context"
	"time"

	"docchat/internal/adapter/utils"
	"docchat/internal/config"
	"docchat/internal/domain/chatModel"
)

// Service bundles the two per-session stores behind one handle so the
// handlers stay decoupled from the concrete store implementations.
type Service struct {
	SessionStore    chatModel.SessionStore
	TranscriptStore chatModel.TranscriptStore
}

type ServiceConfig struct {
	SessionStore    chatModel.SessionStore
	TranscriptStore chatModel.TranscriptStore
}

func InitSessionService(cfg ServiceConfig) *Service {
	return &Service{
		SessionStore:    cfg.SessionStore,
		TranscriptStore: cfg.TranscriptStore,
	}
}

// NewSession seeds the config from the environment; both keys stay
// overridable through the config endpoint.
func (s *Service) NewSession(ctx context.Context) (chatModel.Session, error) {
	ses := chatModel.Session{
		Id:          utils.GetNewUUID(),
		State:       chatModel.StateEmpty,
		CreatedTime: time.Now(),
		Config: chatModel.SessionConfig{
			Model:       config.DefaultModel,
			Temperature: config.DefaultTemperature,
			LLMKey:      config.DefaultLLMKey(),
			SearchKey:   config.DefaultSearchKey(),
		},
	}
	return ses, s.SessionStore.SaveSession(ctx, ses)
}
