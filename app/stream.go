package app

import "time"

// StreamMessage is one parsed push-stream message.
type StreamMessage struct {
	Raw        map[string]any
	ReceivedAt time.Time
}

// StreamHandlers receive a session's callbacks. OnOpen fires at most once,
// OnEvent in arrival order, OnClose exactly once on any termination.
// Callbacks must not call Close on the session delivering them.
type StreamHandlers struct {
	OnOpen  func()
	OnEvent func(StreamMessage)
	OnClose func(err error)
}

// StreamHandle controls one open session.
type StreamHandle interface {
	// Close ends the session. It is idempotent, safe before the channel
	// opened, and no callback runs after it returns.
	Close()
}

// StreamClient opens push-stream sessions.
type StreamClient interface {
	Connect(h StreamHandlers) StreamHandle
}
