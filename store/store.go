// Package store defines the capability boundary handlers use to persist and
// query deposits, withdraws, orders, standing orders, account records, and
// system constants (spec.md §4.2). It has two implementations in this repo:
// store/memory (an in-process reference) and store/postgres (a JSONB-backed
// document-collection abstraction).
package store

import (
	"context"

	"github.com/gnosis/snapp-indexer/model"
)

// Store is the minimal contract spec.md §4.2 requires. Implementations are
// interchangeable; handlers depend only on this interface. All reads are
// snapshot-consistent with respect to writes made by earlier calls in the
// same process; the store is not required to be transactional across
// multiple operations (spec.md §4.2).
type Store interface {
	WriteDeposit(ctx context.Context, d model.Deposit) error
	WriteWithdraw(ctx context.Context, w model.Withdraw) (id string, err error)
	// UpdateWithdraw replaces the record keyed by old.ID with new in its
	// entirety. Implementations must treat setting Valid true on an
	// already-valid record as a no-op (spec.md §8).
	UpdateWithdraw(ctx context.Context, old, new model.Withdraw) error
	WriteOrder(ctx context.Context, o model.Order) error
	WriteStandingOrder(ctx context.Context, s model.StandingOrder) error
	// WriteAccountState fails if StateIndex is already present.
	WriteAccountState(ctx context.Context, r model.AccountRecord) error
	// WriteSnappConstants may be called exactly once per store lifetime.
	WriteSnappConstants(ctx context.Context, numTokens, numAccounts uint64) error
	// WriteAuctionConstants may be called exactly once per store lifetime.
	WriteAuctionConstants(ctx context.Context, numOrders, numReservedAccounts, ordersPerReservedAccount uint64) error

	// GetAccountState fails with *model.NotFoundError if index is absent.
	GetAccountState(ctx context.Context, stateIndex uint64) (model.AccountRecord, error)
	GetDeposits(ctx context.Context, slot uint64) ([]model.Deposit, error)
	GetWithdraws(ctx context.Context, slot uint64) ([]model.Withdraw, error)
	// GetOrders returns the one-shot orders for auctionID union the
	// contributed orders of the latest applicable standing-order entry per
	// account (spec.md §4.2, §4.3.6).
	GetOrders(ctx context.Context, auctionID uint64) ([]model.Order, error)

	GetNumTokens(ctx context.Context) (uint64, error)
	GetNumAccounts(ctx context.Context) (uint64, error)
	GetNumOrders(ctx context.Context) (uint64, error)
}
