package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/waycover/waycover/internal/adapter"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/logger"
	"github.com/waycover/waycover/internal/messaging"
)

// Config holds the NATS JetStream connection settings
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
	json       adapter.JSON
}

// NewPublisher dials NATS and returns a publisher that emits coverage
// events over JetStream
func NewPublisher(cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	nc, js, err := natsJS.Connect(cfg.URL, connectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &publisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
		json:       jsonAdapter,
	}, nil
}

// connectOptions wires reconnect behavior and lifecycle logging into the
// NATS connection
func connectOptions(cfg Config) []nats.Option {
	return []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}
}

// PublishEvent serializes a coverage event and publishes it on the subject
// derived from its type
func (p *publisher) PublishEvent(ctx context.Context, event *domain.CoverageEvent) error {
	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := subjectFor(event)
	logger.Debug("Publishing coverage event",
		zap.String("subject", subject),
		zap.String("event_id", event.ID),
	)

	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// subjectFor maps an event to its NATS subject,
// e.g. coverage.events.ride_added
func subjectFor(event *domain.CoverageEvent) string {
	return fmt.Sprintf("coverage.events.%s", event.Type)
}

// Close shuts the NATS connection down. Safe on a nil connection.
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}
	p.nc.Close()
}
