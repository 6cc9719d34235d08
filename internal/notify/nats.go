// Package notify publishes registry change events to NATS so marketplace
// consumers can react to a new generation without polling the digest file.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/astralkit/regbuilder/internal/logfields"
)

// ChangeEvent is the JSON payload published after a run that produced
// changes.
type ChangeEvent struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Digest      string    `json:"digest"`
	Total       int       `json:"total"`
	Added       []string  `json:"added,omitempty"`
	Removed     []string  `json:"removed,omitempty"`
	Updated     []string  `json:"updated,omitempty"`
}

// Publisher owns a NATS connection for the lifetime of a daemon.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("regbuilder"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}

	slog.Info("NATS publisher connected", logfields.URL(url), logfields.Subject(subject))
	return &Publisher{conn: conn, subject: subject}, nil
}

// Publish sends one change event. Failures are returned, not retried; the
// daemon logs and moves on.
func (p *Publisher) Publish(ev ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return p.conn.Flush()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
