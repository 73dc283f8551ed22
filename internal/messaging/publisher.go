package messaging

import (
	"context"

	"github.com/waycover/waycover/internal/domain"
)

// Publisher emits coverage change events to the message broker so
// downstream consumers can refresh tiles and statistics.
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent emits one coverage event. Implementations own
	// serialization and subject routing.
	PublishEvent(ctx context.Context, event *domain.CoverageEvent) error
	// Close releases the broker connection
	Close()
}
