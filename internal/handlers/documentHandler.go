package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"docchat/internal/api"
	"docchat/internal/config"
	"docchat/internal/domain/chatModel"
	"docchat/internal/rag/faults"
)

// UploadDocumentHandler godoc
// @Summary      Upload a document
// @Description  Receives a PDF (or DOCX/TXT/RTF) via multipart/form-data and synchronously chunks, embeds and indexes it, replacing any previously indexed document in the session.
// @Tags         Document
// @Accept       multipart/form-data
// @Produce      json
// @Param        id             path      string  true   "Session ID"
// @Param        document       formData  file    true   "The file to index"
// @Param        document_name  formData  string  false  "Display name; defaults to the uploaded filename"
// @Success      200  {object}  api.UploadResponse   "Document indexed"
// @Failure      400  {object}  api.SessionResponse  "Missing file or file too large"
// @Failure      404  {object}  api.SessionResponse  "Session not found"
// @Failure      422  {object}  api.SessionResponse  "Document empty or unreadable"
// @Failure      500  {object}  api.SessionResponse  "Storage or indexing error"
// @Router       /session/{id}/document [post]
func UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		ses, found := requireSession(w, r)
		if !found {
			return
		}

		targetDir, errString := getTargetDirectory()
		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, ses.Id, "", errString)
			return
		}

		err := r.ParseMultipartForm(config.MaxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, ses.Id, "", "File too large or bad request")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, ses.Id, "", "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		docName := r.FormValue("document_name")
		if docName == "" {
			docName = fileMetadata.Filename
		}

		filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
		tempFilePath := filepath.Join(targetDir, filename)
		destinationFileWriter, err := os.Create(tempFilePath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, ses.Id, "", "Storage error")
			return
		}

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			destinationFileWriter.Close()
			if removeErr := os.Remove(tempFilePath); removeErr != nil {
				logRH.Error("Couldn't remove partial upload", "path", tempFilePath, "error", removeErr)
			}
			WriteErrorResponse(w, http.StatusInternalServerError, ses.Id, "", "Write error")
			return
		}
		destinationFileWriter.Close()

		//the session is visibly Processing while indexing runs
		ses.State = chatModel.StateProcessing
		if err := sessions.SessionStore.SaveSession(r.Context(), ses); err != nil {
			logRH.Error("Error saving session", "error", err)
		}

		updated, err := ragService.IndexDocument(r.Context(), ses, docName, tempFilePath)
		if err != nil {
			//a failed upload leaves the session with no document at all
			ses.State = chatModel.StateEmpty
			ses.DocumentName = ""
			ses.ChunkCount = 0
			if saveErr := sessions.SessionStore.SaveSession(r.Context(), ses); saveErr != nil {
				logRH.Error("Error saving session", "error", saveErr)
			}

			kind := faults.KindOf(err)
			logRH.Error("Document indexing failed", "kind", kind, "error", err)
			switch kind {
			case faults.EmptyDocument:
				WriteErrorResponse(w, http.StatusUnprocessableEntity, ses.Id, string(kind), "Document contains no extractable text")
			case faults.UnreadableDocument:
				WriteErrorResponse(w, http.StatusUnprocessableEntity, ses.Id, string(kind), "Document could not be read")
			default:
				WriteErrorResponse(w, http.StatusInternalServerError, ses.Id, string(kind), "Document could not be indexed")
			}
			return
		}

		if err := sessions.SessionStore.SaveSession(r.Context(), updated); err != nil {
			logRH.Error("Error saving session", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, ses.Id, "", "Could not save session")
			return
		}

		writeJsonResponse(w, http.StatusOK, api.UploadResponse{
			SessionId:    updated.Id,
			DocumentName: updated.DocumentName,
			ChunkCount:   updated.ChunkCount,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
