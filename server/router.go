package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the API routes and static frontend serving.
func NewRouter(apiHandler *APIHandler, webAppDir string) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(requestIDMiddleware)

	// Catalog endpoints
	router.HandleFunc("/api/albums", apiHandler.GetAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums", apiHandler.CreateAlbumHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/albums/barcode/{barcode}", apiHandler.GetAlbumByBarcodeHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums/{id}", apiHandler.GetAlbumHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums/{id}", apiHandler.DeleteAlbumHandler).Methods(http.MethodDelete)

	// Play session endpoints
	router.HandleFunc("/api/sessions/start", apiHandler.StartSessionHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions/finish", apiHandler.FinishSessionHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions", apiHandler.LogSessionHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions/history", apiHandler.GetHistoryHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/sessions/now-playing/{id}", apiHandler.NowPlayingHandler).Methods(http.MethodGet)

	// Session transition event feed
	router.HandleFunc("/ws/events", apiHandler.EventsHandler)

	// Frontend UI serving
	if webAppDir != "" {
		uiFileServer := http.FileServer(http.Dir(webAppDir))
		router.PathPrefix("/").Handler(uiFileServer)
	}

	return router
}
