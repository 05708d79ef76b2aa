package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnknownTransport indicates a stream URL with an unsupported scheme.
	ErrUnknownTransport = errors.New("unknown stream transport")

	// ErrSessionClosed is reported to OnClose when the local side closed.
	ErrSessionClosed = errors.New("stream session closed")
)

// FetchError is a network or decode failure while loading the snapshot.
type FetchError struct {
	Op  string // "posts", "distribution", ...
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MessageParseError is a malformed stream payload. It never ends a session.
type MessageParseError struct {
	Raw []byte
	Err error
}

func (e *MessageParseError) Error() string {
	return fmt.Sprintf("parse stream message (%d bytes): %v", len(e.Raw), e.Err)
}

func (e *MessageParseError) Unwrap() error { return e.Err }

// ChannelError is a transport-level failure. For status purposes it is
// handled exactly like a clean close.
type ChannelError struct {
	Transport string
	Err       error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s channel: %v", e.Transport, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
