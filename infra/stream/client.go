package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/CrestNiraj12/sentiscope/app"
	"github.com/CrestNiraj12/sentiscope/domain"
)

// Conn is one established transport channel delivering whole messages in
// order.
type Conn interface {
	ReadMessage(ctx context.Context) ([]byte, error)
	Close() error
}

// Transport dials a Conn. Dial must return promptly once ctx is done.
type Transport interface {
	Name() string
	Dial(ctx context.Context) (Conn, error)
}

// Client implements app.StreamClient over any Transport.
type Client struct {
	transport Transport
	clock     clockwork.Clock
	logger    *slog.Logger
	parseLog  *rate.Sometimes
}

// Option configures a Client.
type Option func(*Client)

// WithClock sets the clock used to stamp received messages.
func WithClock(c clockwork.Clock) Option {
	return func(cl *Client) { cl.clock = c }
}

// WithLogger sets the logger. Sessions add session_id and transport.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// NewClient creates a stream client for the given transport.
func NewClient(t Transport, opts ...Option) *Client {
	c := &Client{
		transport: t,
		clock:     clockwork.NewRealClock(),
		logger:    slog.Default(),
		parseLog:  &rate.Sometimes{First: 5, Interval: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect opens exactly one session and returns immediately; dialing
// happens in the background.
func (c *Client) Connect(h app.StreamHandlers) app.StreamHandle {
	return c.Open(h)
}

// Open is Connect returning the concrete session.
func (c *Client) Open(h app.StreamHandlers) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	s := &Session{
		id:       id,
		client:   c,
		handlers: h,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		logger:   c.logger.With("session_id", id, "transport", c.transport.Name()),
	}
	s.status.Store(int32(domain.Connecting))
	go s.run()
	return s
}

// Session is one push-stream connection.
type Session struct {
	id       string
	client   *Client
	handlers app.StreamHandlers
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	logger   *slog.Logger
	status   atomic.Int32

	// mu serialises callback delivery with Close.
	mu     sync.Mutex
	closed bool

	connMu sync.Mutex
	conn   Conn
}

// ID returns the session id used in logs.
func (s *Session) ID() string { return s.id }

// Status returns the session's connection status.
func (s *Session) Status() domain.ConnectionStatus {
	return domain.ConnectionStatus(s.status.Load())
}

// Done is closed when the session's goroutine has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close ends the session. OnClose fires here if the session had not
// already terminated; nothing is delivered once Close returns.
func (s *Session) Close() {
	s.cancel()
	s.terminate(domain.ErrSessionClosed)
	s.closeConn()
}

func (s *Session) run() {
	defer close(s.done)

	conn, err := s.client.transport.Dial(s.ctx)
	if err != nil {
		s.logger.Warn("stream dial failed", "error", err)
		s.terminate(s.channelError(err))
		return
	}
	if !s.setConn(conn) {
		_ = conn.Close()
		return
	}

	opened := s.deliver(func() {
		s.transition(domain.StreamOpened)
		s.logger.Info("stream connected")
		if s.handlers.OnOpen != nil {
			s.handlers.OnOpen()
		}
	})
	if !opened {
		return
	}

	for {
		data, err := conn.ReadMessage(s.ctx)
		if err != nil {
			s.closeConn()
			s.terminate(s.channelError(err))
			return
		}
		raw, err := parseMessage(data)
		if err != nil {
			s.client.parseLog.Do(func() {
				s.logger.Warn("dropping malformed stream message", "error", err)
			})
			continue
		}
		msg := app.StreamMessage{Raw: raw, ReceivedAt: s.client.clock.Now()}
		if !s.deliver(func() {
			if s.handlers.OnEvent != nil {
				s.handlers.OnEvent(msg)
			}
		}) {
			return
		}
	}
}

// deliver runs fn unless the session has terminated.
func (s *Session) deliver(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	fn()
	return true
}

// terminate marks the session closed and fires OnClose exactly once.
func (s *Session) terminate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.transition(domain.StreamClosed)
	if errors.Is(err, domain.ErrSessionClosed) {
		s.logger.Info("stream closed locally")
	} else {
		s.logger.Info("stream disconnected", "error", err)
	}
	if s.handlers.OnClose != nil {
		s.handlers.OnClose(err)
	}
}

func (s *Session) transition(ev domain.StatusEvent) {
	s.status.Store(int32(s.Status().Next(ev)))
}

func (s *Session) setConn(c Conn) bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.conn = c
	return true
}

func (s *Session) closeConn() {
	s.connMu.Lock()
	c := s.conn
	s.conn = nil
	s.connMu.Unlock()
	if c != nil {
		_ = c.Close()
	}
}

func (s *Session) channelError(err error) error {
	if s.ctx.Err() != nil {
		return domain.ErrSessionClosed
	}
	return &domain.ChannelError{Transport: s.client.transport.Name(), Err: err}
}

// parseMessage decodes one payload as a tagged JSON object.
func parseMessage(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.MessageParseError{Raw: data, Err: err}
	}
	if raw == nil {
		return nil, &domain.MessageParseError{Raw: data, Err: fmt.Errorf("payload is not an object")}
	}
	return raw, nil
}
