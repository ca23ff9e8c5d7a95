package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"docchat/internal/adapter"
	"docchat/internal/api"
	"docchat/internal/domain/chatModel"
	"docchat/internal/rag/faults"
)

// ChatHandler godoc
// @Summary      Ask a question
// @Description  Searches the indexed document (if any) and the web, synthesizes an answer with the configured model, and appends both turns to the session transcript.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "Session ID"
// @Param        request  body      api.ChatRequest  true  "The question to answer"
// @Success      200  {object}  api.ChatResponse     "Answer with its source tag; pipeline failures surface here as an error turn"
// @Failure      400  {object}  api.SessionResponse  "Missing question or missing API keys"
// @Failure      404  {object}  api.SessionResponse  "Session not found"
// @Router       /session/{id}/chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {
	if validateContext(request.Context()) {
		ses, found := requireSession(w, request)
		if !found {
			return
		}

		var requestData api.ChatRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Chat handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Question == "" {
			logRH.Warn("Bad Chat Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, ses.Id, "", "question is required")
			return
		}

		result, err := ragService.Answer(request.Context(), ses, requestData.Question)
		if err != nil {
			kind := faults.KindOf(err)

			//nothing ran yet, so the transcript stays untouched
			if kind == faults.MissingCredential {
				WriteErrorResponse(w, http.StatusBadRequest, ses.Id, string(kind),
					"Both an LLM API key and a web search API key are required")
				return
			}

			//mid-pipeline failures become part of the conversation
			logRH.Error("Answer pipeline failed", "kind", kind, "error", err)
			errorText := "Error: " + string(kind)
			appendTurns(request, ses.Id, requestData.Question, errorText)
			writeJsonResponse(w, http.StatusOK, api.ChatResponse{
				SessionId: ses.Id,
				Question:  requestData.Question,
				Answer:    errorText,
			})
			return
		}

		appendTurns(request, ses.Id, requestData.Question, result.Text)
		writeJsonResponse(w, http.StatusOK, api.ChatResponse{
			SessionId: ses.Id,
			Question:  requestData.Question,
			Answer:    result.Text,
			Sources:   result.Sources,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

func appendTurns(r *http.Request, sessionId string, question string, answer string) {
	ctx := r.Context()
	if err := sessions.TranscriptStore.AppendTurn(ctx, sessionId, chatModel.ChatTurn{Role: chatModel.RoleUser, Content: question}); err != nil {
		logRH.Error("Error appending user turn", "error", err)
	}
	if err := sessions.TranscriptStore.AppendTurn(ctx, sessionId, chatModel.ChatTurn{Role: chatModel.RoleAssistant, Content: answer}); err != nil {
		logRH.Error("Error appending assistant turn", "error", err)
	}
}

// GetHistoryHandler godoc
// @Summary      Get session history
// @Description  Returns the session's transcript in insertion order.
// @Tags         Chat
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  api.HistoryResponse  "Transcript turns"
// @Failure      404  {object}  api.SessionResponse  "Session not found"
// @Router       /session/{id}/history [get]
func GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		ses, found := requireSession(w, r)
		if !found {
			return
		}

		turns, err := sessions.TranscriptStore.GetTranscript(r.Context(), ses.Id)
		if err != nil {
			logRH.Error("Error reading transcript", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, ses.Id, "", "Could not read history")
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToHistoryResponse(ses.Id, turns))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// ClearHistoryHandler godoc
// @Summary      Clear session history
// @Description  Removes every transcript turn. The indexed document and the session config are untouched.
// @Tags         Chat
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  api.HistoryResponse  "Now-empty transcript"
// @Failure      404  {object}  api.SessionResponse  "Session not found"
// @Router       /session/{id}/history [delete]
func ClearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		ses, found := requireSession(w, r)
		if !found {
			return
		}

		//clearing an already-empty transcript succeeds
		if err := sessions.TranscriptStore.ClearTranscript(r.Context(), ses.Id); err != nil {
			logRH.Error("Error clearing transcript", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, ses.Id, "", "Could not clear history")
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToHistoryResponse(ses.Id, nil))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
