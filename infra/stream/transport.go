package stream

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/CrestNiraj12/sentiscope/domain"
)

// FromURL picks a transport by URL scheme: ws/wss, redis/rediss or nats.
// topic names the redis channel or NATS subject and is ignored for
// websockets.
func FromURL(rawURL, topic string, header http.Header) (Transport, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing stream url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "ws", "wss":
		return NewWebSocket(rawURL, header), nil
	case "redis", "rediss":
		return NewRedis(rawURL, topic)
	case "nats", "tls":
		return NewNATS(rawURL, topic), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTransport, u.Scheme)
	}
}
