package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/zachgliebs/VinylRecorder/model"
)

// StartSessionRequest opens a play session. PlayedOn is optional RFC3339;
// empty means now.
type StartSessionRequest struct {
	AlbumID  int64  `json:"album_id"`
	PlayedOn string `json:"played_on"`
}

// FinishSessionRequest closes the album's open session. FinishedOn is
// optional RFC3339; empty means now.
type FinishSessionRequest struct {
	AlbumID    int64  `json:"album_id"`
	FinishedOn string `json:"finished_on"`
}

// LogSessionRequest records a completed play with both timestamps known.
type LogSessionRequest struct {
	AlbumID    int64  `json:"album_id"`
	PlayedOn   string `json:"played_on"`
	FinishedOn string `json:"finished_on"`
}

// StartSessionHandler opens a play session for an album.
func (h *APIHandler) StartSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.tracker.StartSession(r.Context(), req.AlbumID, req.PlayedOn)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// FinishSessionHandler closes the album's open session.
func (h *APIHandler) FinishSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req FinishSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.tracker.FinishSession(r.Context(), req.AlbumID, req.FinishedOn)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// LogSessionHandler records a completed play, bypassing the open/close
// protocol.
func (h *APIHandler) LogSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req LogSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.tracker.LogCompletedSession(r.Context(), req.AlbumID, req.PlayedOn, req.FinishedOn)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// GetHistoryHandler lists play history joined with album details, newest
// first, with the duration label computed per row. An optional albumId
// query parameter narrows the listing to one album.
func (h *APIHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	var albumID *int64
	if raw := r.URL.Query().Get("albumId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid album ID", http.StatusBadRequest)
			return
		}
		albumID = &id
	}

	items, err := h.tracker.ListHistory(r.Context(), albumID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if items == nil {
		items = []model.PlayHistoryItem{}
	}

	writeJSON(w, http.StatusOK, items)
}

// NowPlayingHandler returns the album's open session, or 404 when nothing
// is playing.
func (h *APIHandler) NowPlayingHandler(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid album ID", http.StatusBadRequest)
		return
	}

	session, err := h.tracker.NowPlaying(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "nothing playing"})
		return
	}

	writeJSON(w, http.StatusOK, session)
}
