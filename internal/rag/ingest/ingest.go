package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"docchat/internal/domain/commonModels"
	"docchat/pkg/logger_i"
)

type RawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger *logger_i.Logger
var loggerOnce sync.Once

func initLogger() {
	loggerOnce.Do(func() {
		logger = logger_i.NewLogger("Document Ingestion ")
	})
}

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".txt", ".rtf":
		return commonModels.DOCX
	default:
		return commonModels.ERR
	}
}

// ExtractPages reads the uploaded file and returns its text page by page.
func ExtractPages(docPath string) ([]RawPage, commonModels.DocType, error) {
	initLogger()

	docType := getDocType(docPath)
	logger.Debug("Processing document", "type", docType)

	switch docType {
	case commonModels.PDF:
		pages, err := extractPDF(docPath)
		return pages, docType, err
	case commonModels.DOCX:
		pages, err := extractdocxTxtRtf(docPath)
		return pages, docType, err
	default:
		return nil, commonModels.ERR, fmt.Errorf("unsupported content type: %s", filepath.Ext(docPath))
	}
}
