package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Grant-Perry/BigWarRoom-sub012/store"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period; must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The API has no browser origin of its own to pin to.
		return true
	},
}

// watchHandler bridges one league subscription onto one WebSocket
// connection. The client gets the league's current state on connect, then
// one JSON snapshot per change until either side hangs up. Closing the
// connection cancels the subscription so the store drops its emitter.
func watchHandler(st store.Store, season int, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := parseLeagueKey(r, season)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("websocket upgrade failed")
			return
		}

		sub := st.ObserveLeague(key)
		wlog := log.WithField("league", key.String())
		wlog.Debug("watch connection opened")

		go readPump(conn, sub)
		writePump(conn, sub, wlog)
	}
}

// readPump drains the connection until the peer goes away, keeping pong
// handling alive. The client never sends meaningful frames.
func readPump(conn *websocket.Conn, sub *store.Subscription) {
	defer func() {
		sub.Cancel()
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards subscription updates to the peer and keeps the
// connection alive with pings. It returns when the subscription ends, the
// league is evicted, or a write fails.
func writePump(conn *websocket.Conn, sub *store.Subscription, log *logrus.Entry) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Cancel()
		conn.Close()
		log.Debug("watch connection closed")
	}()

	for {
		select {
		case snap, ok := <-sub.Updates():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The store evicted the league or shut down.
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "league evicted"))
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
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
