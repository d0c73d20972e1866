package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Hub routes HTTP traffic to the room.
type Hub struct {
	room   *Room
	router *mux.Router
	log    *zap.Logger
}

// NewHub serves the websocket endpoint at /ws, room stats at /healthz and,
// when staticDir is not empty, the UI files at /.
func NewHub(room *Room, staticDir string, log *zap.Logger) *Hub {
	h := &Hub{
		room:   room,
		router: mux.NewRouter(),
		log:    log,
	}
	h.router.Use(allowAnyOrigin)
	h.router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWebSocket(room, w, r)
	})
	h.router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	if staticDir != "" {
		h.router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}
	return h
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Hub) health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.room.Stats(r.Context())
	if err != nil {
		http.Error(w, "room unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.log.Warn("write health response", zap.Error(err))
	}
}

func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}
