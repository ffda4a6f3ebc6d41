package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Conn adapts a gorilla connection to Channel. gorilla allows a single
// concurrent writer, so every write goes through mu.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteJSON(v)
}

func (c *Conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *Conn) Close() error {
	return c.ws.Close()
}

// Serve registers ws for userID and runs its read loop until the peer goes away,
// then releases the registry entry. Client messages are not interpreted; they
// only prove liveness, as do pongs.
func (r *Registry) Serve(userID uint64, ws *websocket.Conn) {
	conn := NewConn(ws)
	r.Connect(userID, conn)

	done := make(chan struct{})
	defer func() {
		close(done)
		if r.release(userID, conn) {
			r.log.WithField("user_id", userID).Info("Realtime client disconnected")
		}
		_ = conn.Close()
	}()

	go conn.keepAlive(done)

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.log.WithError(err).WithField("user_id", userID).Warn("Realtime read error")
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *Conn) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
