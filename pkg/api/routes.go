// Package api exposes the engine over HTTP.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type JSON map[string]any

// RegisterRoutes mounts the engine endpoints on a router backed by the given
// SQLite database.
func RegisterRoutes(r *mux.Router, db *sql.DB) {
	h := &Handler{db: db}

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/tables", h.ListTables).Methods(http.MethodGet)
	r.HandleFunc("/query", h.PostQuery).Methods(http.MethodPost)
	r.HandleFunc("/sketches/estimate", h.PostSketchEstimate).Methods(http.MethodPost)
}

type Handler struct {
	db *sql.DB
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
