package stream

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket dials the backend's /ws/sentiment endpoint.
type WebSocket struct {
	URL              string
	Header           http.Header
	HandshakeTimeout time.Duration
	PingInterval     time.Duration // 0 disables keepalive pings.
	ReadTimeout      time.Duration // Extended on every message and pong.
}

// NewWebSocket returns a websocket transport with default timeouts.
func NewWebSocket(url string, header http.Header) *WebSocket {
	return &WebSocket{
		URL:              url,
		Header:           header,
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     30 * time.Second,
		ReadTimeout:      90 * time.Second,
	}
}

func (w *WebSocket) Name() string { return "websocket" }

func (w *WebSocket) Dial(ctx context.Context) (Conn, error) {
	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: w.HandshakeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, w.URL, w.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial %s: %s: %w", w.URL, resp.Status, err)
		}
		return nil, fmt.Errorf("websocket dial %s: %w", w.URL, err)
	}

	wc := &wsConn{conn: conn, readTimeout: w.ReadTimeout, stop: make(chan struct{})}
	wc.extendDeadline()
	conn.SetPongHandler(func(string) error {
		wc.extendDeadline()
		return nil
	})
	if w.PingInterval > 0 {
		go wc.pingLoop(w.PingInterval)
	}
	return wc, nil
}

type wsConn struct {
	conn        *websocket.Conn
	readTimeout time.Duration
	stop        chan struct{}
	closeOnce   sync.Once
}

// ReadMessage blocks until the next text or binary frame. Cancellation is
// by Close, which unblocks the pending read.
func (c *wsConn) ReadMessage(_ context.Context) ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	c.extendDeadline()
	return data, nil
}

func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		err = c.conn.Close()
	})
	return err
}

func (c *wsConn) extendDeadline() {
	if c.readTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
}

func (c *wsConn) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(interval/2)); err != nil {
				return
			}
		}
	}
}
