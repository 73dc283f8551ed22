package adapter

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=NatsConn=MockNatsConn,JetStream=MockJetStream,NatsJetStream=MockNatsJetStream

// NatsConn is the slice of the NATS connection the publisher needs:
// closing, surfacing the last transport error and reporting the
// connected server for diagnostics.
type NatsConn interface {
	Close()
	LastError() error
	ConnectedUrl() string
}

// JetStream narrows the JetStream context to publishing. Coverage events
// are fire-and-forget from the engine's point of view, so nothing here
// consumes.
type JetStream interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NatsJetStream dials a NATS server and hands back the connection plus a
// JetStream context over it.
type NatsJetStream interface {
	Connect(url string, options ...nats.Option) (NatsConn, JetStream, error)
}

// RealNatsJetStream is the production NatsJetStream backed by nats.go
type RealNatsJetStream struct{}

func NewNatsJetStream() NatsJetStream {
	return &RealNatsJetStream{}
}

func (n *RealNatsJetStream) Connect(url string, options ...nats.Option) (NatsConn, JetStream, error) {
	nc, err := nats.Connect(url, options...)
	if err != nil {
		return nil, nil, err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}

	return nc, js, nil
}
