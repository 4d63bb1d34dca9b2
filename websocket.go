package main

import (
	"net/http"

	"stockedup/internal/websocket"
)

// handleWebSocket upgrades the connection to the live change feed.
func (app *App) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Serve(app.hub, w, r)
}
