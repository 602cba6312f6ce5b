package api

import (
	"net/http"
	"sync"
	"time"

	"StockPull/internal/domain/models"
	"StockPull/internal/usecase"
	xlogger "StockPull/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
	streamBuffer = 16
)

// PortfolioStream pushes every view-model publish to WebSocket clients as
// a JSON PortfolioEvent. A client first receives the current snapshot.
// Clients that fall behind by more than streamBuffer events are dropped.
type PortfolioStream struct {
	logger   *xlogger.Logger
	vm       *usecase.PortfolioViewModel
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients int
}

func NewPortfolioStream(logger *xlogger.Logger, vm *usecase.PortfolioViewModel) *PortfolioStream {
	return &PortfolioStream{
		logger: logger,
		vm:     vm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// CORS middleware governs origins for the API as a whole
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Clients returns the number of connected clients.
func (s *PortfolioStream) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

// Serve upgrades the request and streams until the client goes away.
func (s *PortfolioStream) Serve(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		s.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	s.track(1)
	defer s.track(-1)

	events := make(chan *models.PortfolioEvent, streamBuffer)
	lagged := make(chan struct{})
	var lagOnce sync.Once

	unsubscribe := s.vm.Subscribe(func(snap usecase.Snapshot) {
		select {
		case events <- snap.Event(time.Now().UTC()):
		default:
			lagOnce.Do(func() { close(lagged) })
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go s.readPump(conn, closed)

	s.writePump(conn, s.vm.Snapshot().Event(time.Now().UTC()), events, lagged, closed)
	return nil
}

// readPump discards client messages and keeps the read deadline moving on pongs.
func (s *PortfolioStream) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read error", xlogger.Error(err))
			}
			return
		}
	}
}

func (s *PortfolioStream) writePump(
	conn *websocket.Conn,
	first *models.PortfolioEvent,
	events <-chan *models.PortfolioEvent,
	lagged, closed <-chan struct{},
) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	if !s.send(conn, first) {
		return
	}
	for {
		select {
		case ev := <-events:
			if !s.send(conn, ev) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-lagged:
			s.logger.Warn("websocket client too slow, closing")
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too slow"),
				time.Now().Add(writeWait))
			return
		case <-closed:
			return
		}
	}
}

func (s *PortfolioStream) send(conn *websocket.Conn, ev *models.PortfolioEvent) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(ev); err != nil {
		s.logger.Debug("websocket write failed", xlogger.Error(err))
		return false
	}
	return true
}

func (s *PortfolioStream) track(delta int) {
	s.mu.Lock()
	s.clients += delta
	s.mu.Unlock()
}
