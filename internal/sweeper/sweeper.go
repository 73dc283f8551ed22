package sweeper

import (
	"context"
)

// Sweeper is a long-running background maintenance loop. The coverage audit
// sweeper is the only implementation today; the interface keeps the runner
// binary decoupled from what each sweep actually repairs.
//
//go:generate mockgen -source=sweeper.go -destination=../mocks/sweeper.go -package=mocks -mock_names=Sweeper=MockSweeper
type Sweeper interface {
	// Start runs the sweep loop. It blocks until the context is canceled
	// or Stop is called.
	Start(ctx context.Context) error

	// Stop shuts the loop down, waiting for an in-flight sweep to finish
	Stop(ctx context.Context) error

	// Name identifies the sweeper in logs
	Name() string
}
