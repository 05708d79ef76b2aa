package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subscribes to a subject carrying the same tagged JSON messages as
// the websocket endpoint.
type NATS struct {
	URL     string
	Subject string
	Timeout time.Duration
}

// NewNATS returns a NATS transport.
func NewNATS(url, subject string) *NATS {
	return &NATS{URL: url, Subject: subject, Timeout: 10 * time.Second}
}

func (n *NATS) Name() string { return "nats" }

func (n *NATS) Dial(ctx context.Context) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nc, err := nats.Connect(n.URL,
		nats.Name("sentiscope"),
		nats.Timeout(n.Timeout),
		// Reconnection is the caller's decision.
		nats.NoReconnect(),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", n.URL, err)
	}
	sub, err := nc.SubscribeSync(n.Subject)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", n.Subject, err)
	}
	if err := nc.FlushWithContext(ctx); err != nil {
		nc.Close()
		return nil, fmt.Errorf("confirming subscription to %s: %w", n.Subject, err)
	}
	return &natsConn{nc: nc, sub: sub}, nil
}

type natsConn struct {
	nc  *nats.Conn
	sub *nats.Subscription
}

func (c *natsConn) ReadMessage(ctx context.Context) ([]byte, error) {
	msg, err := c.sub.NextMsgWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return msg.Data, nil
}

func (c *natsConn) Close() error {
	_ = c.sub.Unsubscribe()
	c.nc.Close()
	return nil
}
