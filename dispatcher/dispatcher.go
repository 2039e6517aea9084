// Package dispatcher routes a decoded listener.Event to its handler by
// event name, converting raw parameter values into the model.Fields shape
// handlers expect (spec.md §4.4, grounded on generic_event_receiver.py's
// RECEIVER_MAPPING/parse_event).
package dispatcher

import (
	"context"
	"encoding/hex"
	"sync"

	"go.uber.org/zap"

	"github.com/gnosis/snapp-indexer/handlers"
	"github.com/gnosis/snapp-indexer/listener"
	"github.com/gnosis/snapp-indexer/model"
)

// HandlerFunc is the shape every registered handler method has.
type HandlerFunc func(ctx context.Context, fields model.Fields) error

// Stats counts what a Dispatcher has done with the events it has seen.
type Stats struct {
	Dispatched uint64
	Dropped    uint64
	Errored    uint64
}

// Dispatcher maps event names onto handlers and applies parameter
// normalization before invoking them.
type Dispatcher struct {
	logger   *zap.Logger
	handlers map[string]HandlerFunc

	mu    sync.RWMutex
	stats Stats
}

// New builds the name-to-handler table spec.md §4.3 requires, wired to h.
// An event name outside this table is not an error (spec.md §9): Dispatch
// logs a warning and drops it.
func New(h *handlers.Handlers, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		logger: logger,
		handlers: map[string]HandlerFunc{
			"Deposit":                h.HandleDeposit,
			"WithdrawRequest":        h.HandleWithdrawRequest,
			"StateTransition":        h.HandleStateTransition,
			"SnappInitialization":    h.HandleSnappInitialization,
			"SellOrder":              h.HandleSellOrder,
			"AuctionSettlement":      h.HandleAuctionSettlement,
			"AuctionInitialization":  h.HandleAuctionInitialization,
			"StandingSellOrderBatch": h.HandleStandingSellOrderBatch,
		},
	}
}

// Dispatch routes ev to its handler. Malformed-event/settlement errors are
// logged and swallowed (drop+log, spec.md §9); every other error is
// returned to the caller as fatal.
func (d *Dispatcher) Dispatch(ctx context.Context, ev listener.Event) error {
	handler, ok := d.handlers[ev.Raw.Name]
	if !ok {
		d.logger.Warn("unhandled event", zap.String("event", ev.Raw.Name))
		d.recordDropped()
		return nil
	}

	fields := toFields(ev.Raw.Params)
	d.logger.Info("dispatching event", zap.String("event", ev.Raw.Name), zap.Uint64("block", ev.Block.Number))

	err := handler(ctx, fields)
	switch err.(type) {
	case nil:
		d.recordDispatched()
		return nil
	case *model.MalformedEventError, *model.MalformedSettlementError:
		d.logger.Warn("dropping malformed event", zap.String("event", ev.Raw.Name), zap.Error(err))
		d.recordDropped()
		return nil
	default:
		d.logger.Error("event handler failed", zap.String("event", ev.Raw.Name), zap.Error(err))
		d.recordErrored()
		return err
	}
}

// Rollback delegates to l, whose semantics are unimplemented upstream
// (spec.md §9; listener.Listener.Rollback).
func (d *Dispatcher) Rollback(ctx context.Context, l listener.Listener, ev listener.Event) error {
	return l.Rollback(ctx, ev)
}

// Stats returns a snapshot of the dispatch counters.
func (d *Dispatcher) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stats
}

func (d *Dispatcher) recordDispatched() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.Dispatched++
}

func (d *Dispatcher) recordDropped() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.Dropped++
}

func (d *Dispatcher) recordErrored() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.Errored++
}

// toFields converts a RawEvent's parameter list into model.Fields,
// rendering []byte values to lowercase hex the way parse_event does
// upstream.
func toFields(params []listener.RawParam) model.Fields {
	fields := make(model.Fields, len(params))
	for _, p := range params {
		if b, ok := p.Value.([]byte); ok {
			fields[p.Name] = hex.EncodeToString(b)
			continue
		}
		fields[p.Name] = p.Value
	}
	return fields
}
