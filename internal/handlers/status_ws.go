package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// statusPushInterval is how often connected clients get a fresh snapshot.
const statusPushInterval = 15 * time.Second

var statusUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// the status feed is public, same as GET /api/server/status
		return true
	},
}

// StatusWebSocket streams server-status snapshots so the landing page does
// not have to poll. Each client gets a snapshot on connect and then one per
// interval; probe failures are skipped, the next tick retries.
func StatusWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := statusUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// drain client frames so pings/close are processed
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(statusPushInterval)
	defer ticker.Stop()

	for {
		if payload, err := statusService.Snapshot(ctx); err == nil {
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(payload); err != nil {
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
