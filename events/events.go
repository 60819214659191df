// Package events publishes each table's state changes so other services can
// follow a game without holding a websocket.
package events

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"gostop-server/game"
)

// Publisher sends a game's state changes, in order, to subscribers.
type Publisher interface {
	Publish(gameID string, changes []game.StateChange) error
	Close()
}

// Subject is the NATS subject a game's changes are published on.
func Subject(gameID string) string {
	return "gostop." + gameID + ".events"
}

// Noop discards everything. It is used when NATS_URL is unset.
type Noop struct{}

func (Noop) Publish(string, []game.StateChange) error { return nil }
func (Noop) Close()                                    {}

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
	Close()
}

// NATSPublisher writes every change as one JSON message.
type NATSPublisher struct {
	conn Conn
}

// Connect dials the NATS server at url.
func Connect(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("gostop-server"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "tag", "events", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats reconnected", "tag", "events", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return NewNATSPublisher(nc), nil
}

// NewNATSPublisher wraps an existing connection.
func NewNATSPublisher(conn Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// Publish sends changes in order and stops at the first failure.
func (p *NATSPublisher) Publish(gameID string, changes []game.StateChange) error {
	subject := Subject(gameID)
	for _, c := range changes {
		data, err := game.EncodeChange(c)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", c.ChangeType(), err)
		}
		if err := p.conn.Publish(subject, data); err != nil {
			return fmt.Errorf("publishing to %s: %w", subject, err)
		}
	}
	return nil
}

// Close flushes pending messages before closing the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		slog.Warn("nats drain failed", "tag", "events", "error", err)
		p.conn.Close()
	}
}
