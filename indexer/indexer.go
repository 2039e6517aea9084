// Package indexer wires a listener.Listener to a dispatcher.Dispatcher and
// runs the poll-dispatch-sleep loop spec.md §6 describes. It is kept
// separate from main so the loop itself can be exercised in tests against
// listener.Fake, the way this repo's teacher keeps its processing logic in
// server/ and leaves main.go to flag-parsing and wiring.
package indexer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gnosis/snapp-indexer/dispatcher"
	"github.com/gnosis/snapp-indexer/listener"
)

// Indexer drives events from a Listener into a Dispatcher on a fixed poll
// interval.
type Indexer struct {
	listener     listener.Listener
	dispatcher   *dispatcher.Dispatcher
	pollInterval time.Duration
	logger       *zap.Logger
}

// New constructs an Indexer polling l every pollInterval and dispatching
// through d.
func New(l listener.Listener, d *dispatcher.Dispatcher, pollInterval time.Duration, logger *zap.Logger) *Indexer {
	return &Indexer{listener: l, dispatcher: d, pollInterval: pollInterval, logger: logger}
}

// Run polls and dispatches events in order until ctx is canceled. Events
// within one Poll batch are dispatched strictly in the order returned;
// Dispatch's own drop/fatal distinction determines whether Run continues
// past a given event (spec.md §9: malformed events and settlements are
// dropped and logged, everything else is fatal).
func (idx *Indexer) Run(ctx context.Context) error {
	ticker := time.NewTicker(idx.pollInterval)
	defer ticker.Stop()

	for {
		if err := idx.tick(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (idx *Indexer) tick(ctx context.Context) error {
	events, err := idx.listener.Poll(ctx)
	if err != nil {
		idx.logger.Error("poll failed", zap.Error(err))
		return err
	}
	for _, ev := range events {
		if err := idx.dispatcher.Dispatch(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Stats exposes the dispatcher's running counters for the health endpoint.
func (idx *Indexer) Stats() dispatcher.Stats {
	return idx.dispatcher.Stats()
}
