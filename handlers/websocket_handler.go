package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/sahilkapur/patti-tracker/ranking"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Dashboards connect from arbitrary origins in development; lock
		// this down behind a reverse proxy in production.
		return true
	},
}

type WebSocketHandler struct {
	hub *ranking.Hub
}

func NewWebSocketHandler(hub *ranking.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs upgrades the connection and subscribes the client to leaderboard
// refresh notifications.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket connection: %v", err)
		return
	}

	client := &ranking.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
