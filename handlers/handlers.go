// Package handlers implements the per-event-type save logic the dispatcher
// invokes (spec.md §4.3). Each handler decodes its event's Fields with the
// matching model.Parse* function, applies the domain semantics against the
// store, and returns either a model-typed error (malformed event/settlement,
// bad transition, not-found, store, assert-violation) or nil.
package handlers

import (
	"go.uber.org/zap"

	"github.com/gnosis/snapp-indexer/model"
	"github.com/gnosis/snapp-indexer/store"
)

// Handlers holds the store and logger every event handler needs.
type Handlers struct {
	store  store.Store
	logger *zap.Logger
}

// New constructs a Handlers bound to store s, logging through logger.
func New(s store.Store, logger *zap.Logger) *Handlers {
	return &Handlers{store: s, logger: logger}
}
