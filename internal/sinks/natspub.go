package sinks

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"milwatch/internal/alert"
)

// NATSPublisher publishes each alert as JSON on a NATS subject for
// downstream consumers (mappers, recorders, other alerters).
type NATSPublisher struct {
	Conn    *nats.Conn
	Subject string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("milwatch-alerts"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return &NATSPublisher{Conn: nc, Subject: subject}, nil
}

func (p *NATSPublisher) Name() string { return "nats" }

func (p *NATSPublisher) Deliver(a alert.Alert) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	if err := p.Conn.Publish(p.Subject, payload); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p.Conn != nil {
		p.Conn.Close()
	}
}
