package middleware

import (
	"net/http"
	"strconv"

	"docchat/internal/handlers"
	"docchat/internal/metrics"
	"docchat/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var HealthHandler = Wrap(handlers.HealthHandler)

var CreateSessionHandler = Wrap(handlers.CreateSessionHandler)
var SessionStatusHandler = Wrap(handlers.SessionStatusHandler)
var UpdateConfigHandler = Wrap(handlers.UpdateConfigHandler)
var UploadDocumentHandler = Wrap(handlers.UploadDocumentHandler)
var ChatHandler = Wrap(handlers.ChatHandler)
var GetHistoryHandler = Wrap(handlers.GetHistoryHandler)
var ClearHistoryHandler = Wrap(handlers.ClearHistoryHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop here if rate limit fails
	}

	return re
}
