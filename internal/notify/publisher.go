package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// RegisteredSubject announces service startup on the bus.
const RegisteredSubject = "counsel.agent.registered"

// Publisher is a thin outbound-only NATS connection. Counsel publishes
// lifecycle and transcript events; it never consumes.
type Publisher struct {
	nc *nats.Conn
}

func New(natsURL string) (*Publisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{nc: nc}, nil
}

// Publish sends a message to NATS.
func (p *Publisher) Publish(subject string, data []byte) error {
	return p.nc.Publish(subject, data)
}

// AnnounceStartup emits a registration event so peers can discover the
// service on the bus.
func (p *Publisher) AnnounceStartup(name string, port int) {
	payload, _ := json.Marshal(map[string]any{
		"agent": name,
		"port":  port,
		"time":  time.Now().UTC().Format(time.RFC3339),
	})
	if err := p.nc.Publish(RegisteredSubject, payload); err != nil {
		slog.Warn("failed to announce startup", "error", err)
	}
}

// Close drains the connection, flushing pending publishes.
func (p *Publisher) Close() {
	p.nc.Drain()
}
