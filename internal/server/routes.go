package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/rooms", s.handleRooms).Methods(http.MethodGet)
	r.HandleFunc("/ws/{roomId}", s.handleWebSocket)

	// Wraps the router itself so preflights are answered even for
	// method-restricted routes.
	return s.corsMiddleware(r)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		// Websocket upgrades skip the preflight handling.
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			next.ServeHTTP(w, r)
			return
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type roomInfo struct {
	Topic    string `json:"topic"`
	Replicas int    `json:"replicas"`
}

// handleRooms lists rooms that currently have at least one connected
// replica, so clients can offer a join menu.
func (s *Server) handleRooms(w http.ResponseWriter, _ *http.Request) {
	topics := s.bus.Topics()
	rooms := make([]roomInfo, 0, len(topics))
	for _, topic := range topics {
		rooms = append(rooms, roomInfo{
			Topic:    topic,
			Replicas: s.bus.SubscriberCount(topic),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
