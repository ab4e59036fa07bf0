package handlers

import (
	"log/slog"
	"net/http"

	"github.com/esportsfed/platform/live"
	"github.com/esportsfed/platform/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks are left to the reverse proxy in front of us.
		return true
	},
}

type WebSocketHandler struct {
	hub                 *live.Hub
	championshipService services.ChampionshipService
}

func NewWebSocketHandler(hub *live.Hub, championshipService services.ChampionshipService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:                 hub,
		championshipService: championshipService,
	}
}

// ServeWs subscribes the caller to live updates of one championship.
// Connect to /ws/championships/{championshipID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.championshipService.GetChampionshipByID(r.Context(), championshipID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	room := chi.URLParam(r, "championshipID")
	h.hub.Register(live.NewClient(h.hub, conn, room))
}
