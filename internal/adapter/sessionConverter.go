package adapter

import (
	"docchat/internal/api"
	"docchat/internal/domain/chatModel"
)

func ToSessionResponse(ses chatModel.Session) api.SessionResponse {
	return api.SessionResponse{
		Id:           ses.Id,
		State:        string(ses.State),
		DocumentName: ses.DocumentName,
		ChunkCount:   ses.ChunkCount,
		LLMKeySet:    ses.Config.LLMKey != "",
		SearchKeySet: ses.Config.SearchKey != "",
		Config: api.SessionConfig{
			Model:       ses.Config.Model,
			Temperature: ses.Config.Temperature,
		},
		CreatedTime: ses.CreatedTime,
	}
}

func ToHistoryResponse(sessionId string, turns []chatModel.ChatTurn) api.HistoryResponse {
	out := make([]api.ChatTurn, 0, len(turns))
	for _, t := range turns {
		out = append(out, api.ChatTurn{Role: string(t.Role), Content: t.Content})
	}
	return api.HistoryResponse{SessionId: sessionId, Turns: out}
}

func BadRequest(id string, kind string, message string, code int) api.SessionResponse {
	return api.SessionResponse{
		Id: id,
		Error: &api.OutgoingError{
			Code:    code,
			Kind:    kind,
			Message: message,
		},
	}
}
