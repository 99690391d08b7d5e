// Package gateway adapts a net/http server into the session actor
// layer: it upgrades incoming requests to WebSocket connections,
// assigns each one a poker.Player identity, and pumps JSON text frames
// between the socket and a session.Handle.
package gateway

import (
	"log"
	"net/http"
	"sync"
	"time"

	"pokerhall/internal/poker"
	"pokerhall/internal/room"
	"pokerhall/internal/session"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 65536
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to configured origins once auth lands
	},
}

// IdentityFunc resolves the poker.Player a connection authenticates as.
// The gateway has no opinion on auth; bootstrap supplies this, e.g. by
// trusting a query parameter or a cookie-backed session lookup.
type IdentityFunc func(r *http.Request) (poker.Player, error)

// Gateway upgrades HTTP requests to WebSocket connections and bridges
// each one to a freshly created session actor.
type Gateway struct {
	identify IdentityFunc
	rooms    *session.Rooms
	sessions *room.Sessions

	mu          sync.Mutex
	nextConnID  uint64
	connections map[uint64]*connection
}

// New creates a Gateway that authenticates connections with identify,
// routes lobby requests through rooms, and registers each session in
// sessions so a room actor can deliver private messages to it.
func New(identify IdentityFunc, rooms *session.Rooms, sessions *room.Sessions) *Gateway {
	return &Gateway{
		identify:    identify,
		rooms:       rooms,
		sessions:    sessions,
		connections: make(map[uint64]*connection),
	}
}

// connection is one upgraded socket and the session actor bridging it.
type connection struct {
	id      uint64
	player  poker.Player
	conn    *websocket.Conn
	send    chan []byte
	handle  session.Handle
	gateway *Gateway
}

// ServeHTTP upgrades the request and spawns the read/write pumps. It
// satisfies http.Handler so bootstrap can mount it directly at /ws.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	player, err := g.identify(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("gateway: upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	id := g.nextConnID
	g.mu.Unlock()

	c := &connection{
		id:      id,
		player:  player,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		gateway: g,
	}
	c.handle = session.New(player, g.rooms, g.sessions, c.send)

	g.mu.Lock()
	g.connections[id] = c
	g.mu.Unlock()

	log.Printf("gateway: %s connected (conn=%d), total=%d", player.Username, id, len(g.connections))

	go c.writePump()
	go c.readPump()
}

func (c *connection) readPump() {
	defer func() {
		c.gateway.remove(c.id)
		c.handle.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("gateway: read error from %s: %v", c.player.Username, err)
			}
			return
		}
		c.handle.Inbound(message)
	}
}

func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) remove(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, id)
	log.Printf("gateway: connection %d disconnected, total=%d", id, len(g.connections))
}
