package domain

// ConnectionStatus is the push-stream lifecycle as seen by the UI.
type ConnectionStatus int

const (
	Connecting ConnectionStatus = iota
	Connected
	Disconnected
)

func (s ConnectionStatus) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// StatusEvent drives ConnectionStatus transitions.
type StatusEvent int

const (
	// StreamOpened fires once the channel is established.
	StreamOpened StatusEvent = iota
	// StreamClosed covers server close, network error and local close.
	StreamClosed
	// SnapshotFailed ends the session before a connect is attempted.
	SnapshotFailed
	// Retry starts a new session after a disconnect.
	Retry
)

// Next returns the status after ev. Events that are not legal from the
// current status leave it unchanged, so no state is ever skipped:
// Opened only moves Connecting to Connected and Retry only leaves
// Disconnected.
func (s ConnectionStatus) Next(ev StatusEvent) ConnectionStatus {
	switch ev {
	case StreamOpened:
		if s == Connecting {
			return Connected
		}
	case StreamClosed, SnapshotFailed:
		return Disconnected
	case Retry:
		if s == Disconnected {
			return Connecting
		}
	}
	return s
}
