package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"docchat/internal/adapter"
	"docchat/internal/adapter/utils"
	"docchat/internal/config"
	"docchat/internal/domain/chatModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, kind string, message string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, kind, message, httpCode))
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, config.UploadDirName)
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

// requireSession resolves the {id} path parameter; a miss has already been
// written to the response when found is false.
func requireSession(w http.ResponseWriter, r *http.Request) (chatModel.Session, bool) {
	idString := utils.GetChiURLParam(r, "id")
	if idString == "" {
		WriteErrorResponse(w, http.StatusNotFound, idString, "", "Session not found")
		return chatModel.Session{}, false
	}

	ses, found := sessions.SessionStore.GetSession(r.Context(), idString)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, idString, "", "Session not found")
		return chatModel.Session{}, false
	}
	return ses, true
}
