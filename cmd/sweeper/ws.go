package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
)

// handleConnectWs upgrades the connection and speaks the same line-command
// protocol as the batch endpoint, echoing the session state after every
// message.
func handleConnectWs(w http.ResponseWriter, r *http.Request) {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	session, err := pg.GetSession(context.Background(), sessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	c, err := ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("upgrade: ", err)
		return
	}
	defer c.Close()
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Warn("read: ", err)
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		text := strings.TrimSpace(string(message))
		log.Debug("\t> ", text)
		for _, cmd := range byPiece(text, "\n") {
			if err := executeCommand(session.Grid, cmd); err != nil {
				log.Error("command: ", err)
				return
			}
			if session.Over() {
				session.finish()
				break
			}
		}
		if err := pg.UpdateGameSession(
			context.Background(), session,
		); err != nil {
			log.Error(err)
			break
		}
		if err := c.WriteJSON(session); err != nil {
			log.Error("write: ", err)
			break
		}
	}
}
