package wsrouter

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Conn wraps a websocket connection with a write lock. gorilla/websocket
// supports a single concurrent writer, but broadcasts fan out from other
// connections' dispatch loops, so every outbound frame takes the lock.
type Conn struct {
	ws *websocket.Conn

	writeMu sync.Mutex
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) WriteJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.ws.WriteJSON(v)
}

// ReadJSON is unlocked: the dispatch loop is the connection's only reader.
func (c *Conn) ReadJSON(v any) error {
	return c.ws.ReadJSON(v)
}

func (c *Conn) Close() error {
	return c.ws.Close()
}
