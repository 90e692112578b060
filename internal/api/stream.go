package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/pkg/logger"
)

// RunStream pushes pipeline run summaries to connected websocket clients.
// Clients that cannot keep up are dropped rather than blocking a publish.
type RunStream struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]chan contracts.RunReport
}

func NewRunStream(log *logger.Logger) *RunStream {
	return &RunStream{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  log,
		clients: make(map[*websocket.Conn]chan contracts.RunReport),
	}
}

// Handle upgrades the connection and streams run reports until the client
// disconnects.
func (s *RunStream) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	ch := make(chan contracts.RunReport, 4)
	s.mu.Lock()
	s.clients[conn] = ch
	s.mu.Unlock()
	s.logger.WithField("clients", s.ClientCount()).Debug("Run stream client connected")

	go s.writeLoop(conn, ch)
	s.readLoop(conn)
}

// Publish fans a run report out to every connected client.
func (s *RunStream) Publish(run contracts.RunReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn, ch := range s.clients {
		select {
		case ch <- run:
		default:
			// slow consumer, disconnect it
			delete(s.clients, conn)
			close(ch)
			conn.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (s *RunStream) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *RunStream) writeLoop(conn *websocket.Conn, ch chan contracts.RunReport) {
	for run := range ch {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(run); err != nil {
			s.logger.WithError(err).Debug("Run stream write failed")
			s.drop(conn)
			return
		}
	}
}

// readLoop consumes incoming frames to detect disconnects; clients are
// not expected to send anything meaningful.
func (s *RunStream) readLoop(conn *websocket.Conn) {
	defer s.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *RunStream) drop(conn *websocket.Conn) {
	s.mu.Lock()
	if ch, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		close(ch)
	}
	s.mu.Unlock()
	conn.Close()
}
