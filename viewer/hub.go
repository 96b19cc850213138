package viewer

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsMessage is one queued outbound WebSocket frame.
type wsMessage struct {
	binary bool
	data   []byte
}

// hub owns the HTTP server and the single browser connection. Commands
// sent while no browser is attached are queued and flushed on attach; a
// newer browser connection replaces the current one.
type hub struct {
	upgrader websocket.Upgrader
	server   *http.Server

	mu       sync.Mutex
	conn     *websocket.Conn
	pending  []wsMessage
	attached chan struct{}
	closed   bool
}

func newHub(page []byte) *hub {
	h := new(hub)
	h.attached = make(chan struct{})
	h.upgrader = websocket.Upgrader{
		// The control channel is local; the page may be opened from a
		// file:// URL or a different port.
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	})
	mux.HandleFunc("/ws", h.handleSocket)
	h.server = &http.Server{Handler: mux}
	return h
}

// listen starts serving on the given address and returns the bound
// address. Serving continues in the background.
func (h *hub) listen(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := h.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("viewer server: %v", err)
		}
	}()
	return ln.Addr(), nil
}

func (h *hub) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}
	log.Printf("browser connected from %s", r.RemoteAddr)
	h.attach(conn)

	// Inbound messages are only connection liveness and page status
	// notices; read until the connection drops.
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if len(msg) > 0 {
			log.Printf("viewer page: %s", msg)
		}
	}
	h.detach(conn)
	log.Printf("browser disconnected")
}

func (h *hub) attach(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conn != nil {
		h.conn.Close()
	}
	h.conn = conn

	for _, m := range h.pending {
		if err := h.write(m); err != nil {
			log.Printf("flush failed: %v", err)
			break
		}
	}
	h.pending = nil

	select {
	case <-h.attached:
	default:
		close(h.attached)
	}
}

func (h *hub) detach(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.Close()
	if h.conn != conn {
		return
	}
	h.conn = nil
	h.attached = make(chan struct{})
}

// send delivers a frame to the browser, queueing it when none is
// attached.
func (h *hub) send(m wsMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conn == nil {
		h.pending = append(h.pending, m)
		return nil
	}
	return h.write(m)
}

// write assumes h.mu is held.
func (h *hub) write(m wsMessage) error {
	typ := websocket.TextMessage
	if m.binary {
		typ = websocket.BinaryMessage
	}
	h.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return h.conn.WriteMessage(typ, m.data)
}

// waitAttached blocks until a browser connection is present or the
// context ends.
func (h *hub) waitAttached(ctx context.Context) error {
	h.mu.Lock()
	ch := h.attached
	if h.conn != nil {
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *hub) close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	if h.conn != nil {
		h.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		h.conn.Close()
		h.conn = nil
	}
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return h.server.Shutdown(ctx)
}
