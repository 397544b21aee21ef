package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yourorg/genwork/internal/events"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// EventsHandler upgrades admin dashboard connections and streams lead events
type EventsHandler struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewEventsHandler creates a new websocket events handler
func NewEventsHandler(hub *events.Hub, logger *slog.Logger) *EventsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboards are served from a separate origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP handles GET /ws/events
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	ch, cancel := h.hub.Subscribe()
	h.logger.Info("events subscriber connected",
		slog.String("remote", r.RemoteAddr),
		slog.Int("subscribers", h.hub.SubscriberCount()),
	)

	// Reader: drains control frames and detects disconnects
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		cancel()
		conn.Close()
		h.logger.Info("events subscriber disconnected", slog.String("remote", r.RemoteAddr))
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Warn("failed to write event", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
