package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/zachgliebs/VinylRecorder/core/catalog"
	"github.com/zachgliebs/VinylRecorder/core/events"
	"github.com/zachgliebs/VinylRecorder/core/tracker"
	"github.com/zachgliebs/VinylRecorder/logger"
	"github.com/zachgliebs/VinylRecorder/model"
)

// APIHandler holds the core services the HTTP layer dispatches into.
type APIHandler struct {
	catalog *catalog.Catalog
	tracker *tracker.Tracker
	hub     *events.Hub
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(cat *catalog.Catalog, trk *tracker.Tracker, hub *events.Hub) *APIHandler {
	return &APIHandler{catalog: cat, tracker: trk, hub: hub}
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("failed to encode response", logger.ErrorField(err))
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps core errors onto HTTP status codes. Anything outside
// the known taxonomy is a storage failure and reads as 500 without leaking
// the underlying error.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, model.ErrAlbumNotFound),
		errors.Is(err, model.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrBarcodeConflict),
		errors.Is(err, model.ErrAlreadyPlaying),
		errors.Is(err, model.ErrNoOpenSession):
		status = http.StatusConflict
	case errors.Is(err, model.ErrMalformedTimestamp),
		errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.ErrorField(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	logger.Debug("request rejected",
		logger.String("path", r.URL.Path),
		logger.Int("status", status),
		logger.ErrorField(err),
	)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// requestIDMiddleware tags each request with an id for log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger.Debug("request",
			logger.String("requestId", requestID),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware allows the static frontend to call the API from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
