// Package memory is an in-process, mutex-guarded reference implementation
// of store.Store. It is insertion-ordered (the iteration order spec.md §5
// requires) and suitable both for the handler/dispatcher test suites and as
// a development backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gnosis/snapp-indexer/model"
)

type withdrawRecord struct {
	withdraw model.Withdraw
	slot     uint64
}

type standingOrderEntry struct {
	order model.StandingOrder
	seq   int
}

// Store is an in-memory store.Store implementation.
type Store struct {
	mu sync.RWMutex

	deposits  []model.Deposit
	withdraws []withdrawRecord
	widIndex  map[string]int

	orders         []model.Order
	standingOrders []standingOrderEntry
	nextSeq        int

	accounts map[uint64]model.AccountRecord

	numTokens, numAccounts                                       *uint64
	numOrders, numReservedAccounts, ordersPerReservedAccount *uint64
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		widIndex: make(map[string]int),
		accounts: make(map[uint64]model.AccountRecord),
	}
}

func (s *Store) WriteDeposit(_ context.Context, d model.Deposit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deposits = append(s.deposits, d)
	return nil
}

func (s *Store) WriteWithdraw(_ context.Context, w model.Withdraw) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	w.ID = id
	s.widIndex[id] = len(s.withdraws)
	s.withdraws = append(s.withdraws, withdrawRecord{withdraw: w, slot: w.Slot})
	return id, nil
}

func (s *Store) UpdateWithdraw(_ context.Context, old, new model.Withdraw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.widIndex[old.ID]
	if !ok {
		return &model.NotFoundError{Collection: "withdraws", Key: old.ID}
	}
	new.ID = old.ID
	s.withdraws[idx].withdraw = new
	return nil
}

func (s *Store) WriteOrder(_ context.Context, o model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o)
	return nil
}

func (s *Store) WriteStandingOrder(_ context.Context, so model.StandingOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	so.ID = uuid.New().String()
	s.standingOrders = append(s.standingOrders, standingOrderEntry{order: so, seq: s.nextSeq})
	return nil
}

func (s *Store) WriteAccountState(_ context.Context, r model.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[r.StateIndex]; exists {
		return &model.StoreError{Op: "WriteAccountState", Err: fmt.Errorf("state_index %d already written", r.StateIndex)}
	}
	s.accounts[r.StateIndex] = r
	return nil
}

func (s *Store) WriteSnappConstants(_ context.Context, numTokens, numAccounts uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.numTokens != nil || s.numAccounts != nil {
		return &model.StoreError{Op: "WriteSnappConstants", Err: fmt.Errorf("snapp constants already written")}
	}
	s.numTokens, s.numAccounts = &numTokens, &numAccounts
	return nil
}

func (s *Store) WriteAuctionConstants(_ context.Context, numOrders, numReservedAccounts, ordersPerReservedAccount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.numOrders != nil {
		return &model.StoreError{Op: "WriteAuctionConstants", Err: fmt.Errorf("auction constants already written")}
	}
	s.numOrders, s.numReservedAccounts, s.ordersPerReservedAccount = &numOrders, &numReservedAccounts, &ordersPerReservedAccount
	return nil
}

func (s *Store) GetAccountState(_ context.Context, stateIndex uint64) (model.AccountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.accounts[stateIndex]
	if !ok {
		return model.AccountRecord{}, &model.NotFoundError{Collection: "accounts", Key: stateIndex}
	}
	return r, nil
}

func (s *Store) GetDeposits(_ context.Context, slot uint64) ([]model.Deposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Deposit, 0)
	for _, d := range s.deposits {
		if d.Slot == slot {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) GetWithdraws(_ context.Context, slot uint64) ([]model.Withdraw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Withdraw, 0)
	for _, rec := range s.withdraws {
		if rec.slot == slot {
			out = append(out, rec.withdraw)
		}
	}
	return out, nil
}

// GetOrders implements spec.md §4.3.6: one-shot orders for auctionID union
// the contributed orders of the latest applicable standing-order entry per
// account.
func (s *Store) GetOrders(_ context.Context, auctionID uint64) ([]model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if o.Slot == auctionID {
			out = append(out, o)
		}
	}

	best := make(map[uint64]standingOrderEntry)
	bestOrder := make([]uint64, 0)
	for _, entry := range s.standingOrders {
		if entry.order.ValidFromAuctionID > auctionID {
			continue
		}
		current, exists := best[entry.order.AccountID]
		if !exists {
			best[entry.order.AccountID] = entry
			bestOrder = append(bestOrder, entry.order.AccountID)
			continue
		}
		if entry.order.ValidFromAuctionID > current.order.ValidFromAuctionID ||
			(entry.order.ValidFromAuctionID == current.order.ValidFromAuctionID && entry.seq > current.seq) {
			best[entry.order.AccountID] = entry
		}
	}
	for _, accountID := range bestOrder {
		out = append(out, best[accountID].order.OrdersForAuction(auctionID)...)
	}
	return out, nil
}

func (s *Store) GetNumTokens(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.numTokens == nil {
		return 0, &model.NotFoundError{Collection: "constants", Key: "num_tokens"}
	}
	return *s.numTokens, nil
}

func (s *Store) GetNumAccounts(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.numAccounts == nil {
		return 0, &model.NotFoundError{Collection: "constants", Key: "num_accounts"}
	}
	return *s.numAccounts, nil
}

func (s *Store) GetNumOrders(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.numOrders == nil {
		return 0, &model.NotFoundError{Collection: "constants", Key: "num_orders"}
	}
	return *s.numOrders, nil
}
