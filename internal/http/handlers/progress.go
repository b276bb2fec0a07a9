package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"styleme/internal/session"
)

type progressMessage struct {
	Progress int            `json:"progress"`
	Status   session.Status `json:"status"`
	Error    string         `json:"error,omitempty"`
}

const progressWriteWait = 5 * time.Second

// Progress streams generation progress over a websocket. The first message
// carries the current state; the socket closes once the batch is done or
// has failed.
func (a *App) Progress(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	ticks, stop := sess.Watch()
	defer stop()

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.Logger.Warn().Err(err).Str("session_id", sess.ID()).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// drain client frames so close and ping control messages are handled
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() (bool, error) {
		view := sess.Snapshot()
		msg := progressMessage{Progress: view.Progress, Status: view.Status, Error: view.Error}
		_ = conn.SetWriteDeadline(time.Now().Add(progressWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			return false, err
		}
		return view.Status != session.StatusGenerating, nil
	}

	done, err := send()
	if err != nil || done {
		closeSocket(conn)
		return
	}
	keepalive := time.NewTicker(15 * time.Second)
	defer keepalive.Stop()
	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			_ = conn.SetWriteDeadline(time.Now().Add(progressWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			// a generation may have failed without a final tick
			if sess.Snapshot().Status != session.StatusGenerating {
				_, _ = send()
				closeSocket(conn)
				return
			}
		case _, open := <-ticks:
			if !open {
				return
			}
			done, err := send()
			if err != nil {
				return
			}
			if done {
				closeSocket(conn)
				return
			}
		}
	}
}

func closeSocket(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(progressWriteWait))
}
