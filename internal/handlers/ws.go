// Copyright (c) 2025 luoxu-web-ai authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Aierlanta/luoxu-web-ai/internal/watcher"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// WsEventsHandler upgrades the connection to a WebSocket and pushes config
// change events as JSON text frames. Client messages are read and discarded.
// @Summary Config events WebSocket
// @ID configEventsWS
// @Tags events
// @Success 101
// @Router /ws/events [get]
func WsEventsHandler(w *watcher.Service) http.HandlerFunc {
	up := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	return func(wResp http.ResponseWriter, r *http.Request) {
		ch := w.Subscribe()
		defer w.Unsubscribe(ch)

		conn, err := up.Upgrade(wResp, r, nil)
		if err != nil {
			// Upgrade already wrote an error response
			log.Printf("[WS] upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// reader: handles pongs and notices the client going away
		closed := make(chan struct{})
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()

		log.Printf("[WS] Client connected: %s", r.RemoteAddr)
		for {
			select {
			case <-closed:
				log.Printf("[WS] Client disconnected: %s", r.RemoteAddr)
				return
			case event, ok := <-ch:
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("[WS] write error: %v", err)
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}
