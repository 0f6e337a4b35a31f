package handlers

import (
	"net/http"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/internal/infrastructure/websocket"
	"analytics-dashboard/internal/realtime"
	"analytics-dashboard/pkg/logger"
)

type WebSocketHandlers struct {
	wsHandler *websocket.Handler
}

func NewWebSocketHandlers(verifier domain.TokenVerifier, registry domain.ConnectionRegistry,
	dispatcher *realtime.Dispatcher, sendBuffer int, log logger.Logger) *WebSocketHandlers {
	return &WebSocketHandlers{
		wsHandler: websocket.NewHandler(verifier, registry, dispatcher, sendBuffer, log),
	}
}

func (h *WebSocketHandlers) HandleConnection(w http.ResponseWriter, r *http.Request) {
	h.wsHandler.HandleConnection(w, r)
}
