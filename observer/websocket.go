// Package observer streams read-only simulation snapshots to external
// consumers (renderers, dashboards) over WebSocket. It never writes back
// into the simulation.
package observer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/cytosoup/sim"
)

// Broadcaster fans simulation snapshots out to connected WebSocket clients.
// A hub goroutine owns the client set; registration, unregistration, and
// broadcast all go through channels.
type Broadcaster struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	broadcast  chan sim.Snapshot
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewBroadcaster creates a broadcaster and starts its hub goroutine.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan sim.Snapshot, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// ServeHTTP upgrades the request and registers the connection.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	select {
	case b.register <- conn:
	case <-b.done:
		conn.Close()
	}
}

// Broadcast queues a snapshot for delivery to all clients. The caller's
// context bounds how long a full queue is waited on.
func (b *Broadcaster) Broadcast(ctx context.Context, snap sim.Snapshot) error {
	select {
	case b.broadcast <- snap:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// run handles client registration/unregistration and snapshot delivery.
func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return

		case conn := <-b.register:
			if conn == nil {
				continue
			}
			b.mu.Lock()
			b.clients[conn] = true
			b.mu.Unlock()

		case conn := <-b.unregister:
			b.mu.Lock()
			if b.clients[conn] {
				delete(b.clients, conn)
				conn.Close()
			}
			b.mu.Unlock()

		case snap := <-b.broadcast:
			data, err := json.Marshal(snap)
			if err != nil {
				slog.Warn("snapshot marshal failed", "error", err)
				continue
			}
			b.mu.Lock()
			for conn := range b.clients {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					delete(b.clients, conn)
					conn.Close()
				}
			}
			b.mu.Unlock()
		}
	}
}

// Close disconnects all clients and stops the hub.
func (b *Broadcaster) Close() {
	close(b.done)
	b.wg.Wait()
	b.mu.Lock()
	for conn := range b.clients {
		conn.Close()
	}
	b.clients = make(map[*websocket.Conn]bool)
	b.mu.Unlock()
}

// Serve starts an HTTP server exposing the broadcaster at /ws. It returns
// immediately; the server runs until the listener fails.
func Serve(addr string, b *Broadcaster) {
	mux := http.NewServeMux()
	mux.Handle("/ws", b)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("observer server stopped", "error", err)
		}
	}()
}
