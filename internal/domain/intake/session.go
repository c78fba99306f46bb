package intake

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"workflowmonk/internal/domain/wizard"
	"workflowmonk/internal/pkg/validator"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 16 * 1024
	sendBuffer = 32
)

// SessionGauge is told when websocket sessions come and go.
type SessionGauge interface {
	SessionOpened()
	SessionClosed()
}

// Registry tracks live websocket sessions so the server can close them on shutdown.
type Registry struct {
	mu       sync.Mutex
	sessions map[*Session]struct{}
	gauge    SessionGauge
	wg       sync.WaitGroup
}

func NewRegistry(gauge SessionGauge) *Registry {
	return &Registry{
		sessions: make(map[*Session]struct{}),
		gauge:    gauge,
	}
}

func (r *Registry) add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s] = struct{}{}
	r.wg.Add(1)
	if r.gauge != nil {
		r.gauge.SessionOpened()
	}
}

func (r *Registry) remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s]; !ok {
		return
	}
	delete(r.sessions, s)
	r.wg.Done()
	if r.gauge != nil {
		r.gauge.SessionClosed()
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll sends a going-away close frame to every session and waits for
// their loops to finish or ctx to expire.
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	live := make([]*Session, 0, len(r.sessions))
	for s := range r.sessions {
		live = append(live, s)
	}
	r.mu.Unlock()

	for _, s := range live {
		s.shutdown()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type outbound struct {
	data  []byte
	final bool
}

// Session is one websocket connection driving its own wizard controller.
// Transition events run off the read loop so a second trigger during the
// settle delay is answered with TRANSITIONING instead of queueing.
type Session struct {
	id   string
	conn *websocket.Conn
	ctrl *wizard.Controller
	log  *zap.Logger

	send       chan outbound
	writerDone chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	exited atomic.Bool
}

func newSession(conn *websocket.Conn, ctrl *wizard.Controller, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	return &Session{
		id:         id,
		conn:       conn,
		ctrl:       ctrl,
		log:        log.With(zap.String("session_id", id)),
		send:       make(chan outbound, sendBuffer),
		writerDone: make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *Session) ID() string { return s.id }

// run blocks until the client disconnects or the wizard exits.
func (s *Session) run() {
	go s.writePump()

	s.push(NewStateMessage(s.ctrl), false)
	s.readPump()

	s.cancel()
	s.wg.Wait()
	close(s.send)
	<-s.writerDone
}

func (s *Session) readPump() {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseAbnormalClosure) {
				s.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		if s.exited.Load() {
			continue
		}

		var ev wizard.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			s.push(NewErrorMessage("INVALID_JSON", "Failed to parse event"), false)
			continue
		}
		if errs := validator.Validate(&ev); errs != nil {
			s.push(NewErrorMessage("VALIDATION_ERROR", "Event type is required"), false)
			continue
		}

		if isTransition(ev.Type) {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.apply(ev)
			}()
			continue
		}
		s.apply(ev)
	}
}

func isTransition(t wizard.EventType) bool {
	switch t {
	case wizard.EventSelect, wizard.EventContinue, wizard.EventBack,
		wizard.EventSubmit, wizard.EventScheduleLater, wizard.EventExit:
		return true
	}
	return false
}

func (s *Session) apply(ev wizard.Event) {
	exit, err := s.ctrl.Dispatch(s.ctx, ev)
	if exit != wizard.ExitNone {
		if s.exited.CompareAndSwap(false, true) {
			s.log.Info("wizard exited", zap.String("exit", string(exit)))
			s.push(NewExitMessage(exit), true)
		}
		return
	}

	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		status, code := errorCode(err)
		if status >= http.StatusInternalServerError {
			s.log.Error("wizard event failed", zap.String("event", string(ev.Type)), zap.Error(err))
		}
		s.push(NewErrorMessage(code, err.Error()), false)
	}
	s.push(NewStateMessage(s.ctrl), false)
}

func (s *Session) push(msg *ServerMessage, final bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("marshal server message", zap.Error(err))
		return
	}
	select {
	case s.send <- outbound{data: data, final: final}:
	case <-s.writerDone:
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		close(s.writerDone)
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
				return
			}
			if msg.final {
				_ = s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// shutdown tells the peer the server is going away and drops the connection.
func (s *Session) shutdown() {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown")
	err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		s.log.Debug("close frame not sent", zap.Error(err))
	}
	s.conn.Close()
}

// WSHandler upgrades connections into wizard sessions.
type WSHandler struct {
	registry *Registry
	upgrader websocket.Upgrader
	log      *zap.Logger
	opts     []wizard.ControllerOption
}

func NewWSHandler(registry *Registry, checkOrigin func(*http.Request) bool, log *zap.Logger, opts ...wizard.ControllerOption) *WSHandler {
	return &WSHandler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log:  log,
		opts: opts,
	}
}

// HandleWebSocket handles GET /ws/wizard. Connecting starts a fresh run.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s := newSession(conn, wizard.New(h.opts...), h.log)
	h.registry.add(s)
	defer h.registry.remove(s)

	s.log.Info("wizard session opened")
	s.run()
	s.log.Info("wizard session closed")
}
