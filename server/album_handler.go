package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/zachgliebs/VinylRecorder/logger"
	"github.com/zachgliebs/VinylRecorder/model"
)

// CreateAlbumRequest is the payload for adding an album to the catalog.
type CreateAlbumRequest struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	CoverURL string `json:"cover_url"`
	Barcode  string `json:"barcode"`
}

// CreateAlbumHandler adds a new album.
func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	album, err := h.catalog.AddAlbum(r.Context(), req.Title, req.Artist, req.CoverURL, req.Barcode)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, album)
}

// GetAlbumsHandler lists every album in the catalog.
func (h *APIHandler) GetAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	albums, err := h.catalog.ListAlbums(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if albums == nil {
		albums = []*model.Album{}
	}

	logger.Debug("albums listed", logger.Int("count", len(albums)))
	writeJSON(w, http.StatusOK, albums)
}

// GetAlbumHandler returns a single album.
func (h *APIHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid album ID", http.StatusBadRequest)
		return
	}

	album, err := h.catalog.GetAlbum(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, album)
}

// DeleteAlbumHandler removes an album and all of its play sessions.
// Deleting an album that does not exist succeeds.
func (h *APIHandler) DeleteAlbumHandler(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid album ID", http.StatusBadRequest)
		return
	}

	if err := h.catalog.DeleteAlbum(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAlbumByBarcodeHandler looks an album up by its barcode.
func (h *APIHandler) GetAlbumByBarcodeHandler(w http.ResponseWriter, r *http.Request) {
	barcode := mux.Vars(r)["barcode"]

	album, err := h.catalog.FindByBarcode(r.Context(), barcode)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if album == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no album with that barcode"})
		return
	}

	writeJSON(w, http.StatusOK, album)
}
