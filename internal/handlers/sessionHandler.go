package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"docchat/internal/adapter"
	"docchat/internal/api"
	"docchat/internal/config"
	"docchat/internal/rag"
	"docchat/internal/session"
	"docchat/pkg/logger_i"
)

var logRH *logger_i.Logger
var sessions *session.Service
var ragService rag.Service
var once sync.Once

func InitHandlers(sessionService *session.Service, ragSvc rag.Service) {
	once.Do(func() {
		logRH = logger_i.NewLogger("Handlers")
		sessions = sessionService
		ragService = ragSvc
	})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// CreateSessionHandler godoc
// @Summary      Create a new session
// @Description  Creates a fresh session with default model config; credentials are seeded from the server environment when present.
// @Tags         Session
// @Produce      json
// @Success      201  {object}  api.SessionResponse  "Session created"
// @Failure      500  {object}  api.SessionResponse  "Session could not be stored"
// @Router       /session [post]
func CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		ses, err := sessions.NewSession(r.Context())
		if err != nil {
			logRH.Error("Error creating session", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "", "Could not create session")
			return
		}
		writeJsonResponse(w, http.StatusCreated, adapter.ToSessionResponse(ses))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// SessionStatusHandler godoc
// @Summary      Get session status
// @Description  Returns the session's document state, chunk count and current config. Key values are never echoed back, only whether they are set.
// @Tags         Session
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  api.SessionResponse  "Current session state"
// @Failure      404  {object}  api.SessionResponse  "Session not found"
// @Router       /session/{id} [get]
func SessionStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		ses, found := requireSession(w, r)
		if !found {
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(ses))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// UpdateConfigHandler godoc
// @Summary      Update session config
// @Description  Partially updates model, temperature or API keys. Omitted fields keep their current values; changes apply from the next question on.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Session ID"
// @Param        request  body      api.ConfigRequest  true  "Fields to update"
// @Success      200  {object}  api.SessionResponse  "Updated session state"
// @Failure      400  {object}  api.SessionResponse  "Unknown model or temperature out of range"
// @Failure      404  {object}  api.SessionResponse  "Session not found"
// @Router       /session/{id}/config [put]
func UpdateConfigHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		ses, found := requireSession(w, r)
		if !found {
			return
		}

		var requestData api.ConfigRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the config reader :", err)
			}
		}(r.Body)
		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
			logRH.Warn("Bad config request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, ses.Id, "", "Bad Request")
			return
		}

		if requestData.Model != nil {
			if !config.IsSupportedModel(*requestData.Model) {
				WriteErrorResponse(w, http.StatusBadRequest, ses.Id, "", "Unknown model: "+*requestData.Model)
				return
			}
			ses.Config.Model = *requestData.Model
		}
		if requestData.Temperature != nil {
			if *requestData.Temperature < 0 || *requestData.Temperature > 1 {
				WriteErrorResponse(w, http.StatusBadRequest, ses.Id, "", "Temperature must be between 0 and 1")
				return
			}
			ses.Config.Temperature = *requestData.Temperature
		}
		if requestData.LLMKey != nil {
			ses.Config.LLMKey = *requestData.LLMKey
		}
		if requestData.SearchKey != nil {
			ses.Config.SearchKey = *requestData.SearchKey
		}

		if err := sessions.SessionStore.SaveSession(r.Context(), ses); err != nil {
			logRH.Error("Error saving session", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, ses.Id, "", "Could not save session")
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(ses))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
