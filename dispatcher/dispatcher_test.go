package dispatcher

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/gnosis/snapp-indexer/handlers"
	"github.com/gnosis/snapp-indexer/listener"
	"github.com/gnosis/snapp-indexer/store/memory"
)

// TestDispatchUnknownEvent covers spec scenario S5: an unrecognized event
// name is warned about and dropped, with no store calls and no error.
func TestDispatchUnknownEvent(t *testing.T) {
	s := memory.New()
	h := handlers.New(s, zap.NewNop())
	d := New(h, zap.NewNop())

	ev := listener.Event{Raw: listener.RawEvent{Name: "Foo", Params: nil}}
	if err := d.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch: expected nil error for unknown event, got %v", err)
	}

	stats := d.Stats()
	if stats.Dropped != 1 || stats.Dispatched != 0 || stats.Errored != 0 {
		t.Errorf("Stats = %+v, want {Dispatched:0 Dropped:1 Errored:0}", stats)
	}

	if _, err := s.GetNumTokens(context.Background()); err == nil {
		t.Error("expected no store writes from an unknown event")
	}
}

func TestDispatchDeposit(t *testing.T) {
	s := memory.New()
	h := handlers.New(s, zap.NewNop())
	d := New(h, zap.NewNop())
	ctx := context.Background()

	ev := listener.Event{Raw: listener.RawEvent{
		Name: "Deposit",
		Params: []listener.RawParam{
			{Name: "accountId", Value: uint64(0)},
			{Name: "tokenId", Value: uint64(1)},
			{Name: "amount", Value: "10"},
			{Name: "slot", Value: uint64(3)},
			{Name: "slotIndex", Value: uint64(0)},
		},
	}}
	if err := d.Dispatch(ctx, ev); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	deposits, err := s.GetDeposits(ctx, 3)
	if err != nil {
		t.Fatalf("GetDeposits: %v", err)
	}
	if len(deposits) != 1 || deposits[0].AccountID != 0 || deposits[0].Amount.String() != "10" {
		t.Errorf("unexpected deposits: %+v", deposits)
	}

	stats := d.Stats()
	if stats.Dispatched != 1 {
		t.Errorf("Stats.Dispatched = %d, want 1", stats.Dispatched)
	}
}

func TestDispatchMalformedEventIsDroppedNotFatal(t *testing.T) {
	s := memory.New()
	h := handlers.New(s, zap.NewNop())
	d := New(h, zap.NewNop())

	ev := listener.Event{Raw: listener.RawEvent{
		Name:   "Deposit",
		Params: []listener.RawParam{{Name: "accountId", Value: uint64(0)}}, // missing required fields
	}}
	if err := d.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch: malformed events should be dropped, not returned; got %v", err)
	}
	if d.Stats().Dropped != 1 {
		t.Errorf("Stats.Dropped = %d, want 1", d.Stats().Dropped)
	}
}

func TestDispatchConvertsByteParamsToHex(t *testing.T) {
	s := memory.New()
	h := handlers.New(s, zap.NewNop())
	d := New(h, zap.NewNop())
	ctx := context.Background()

	stateHash := []byte(strings.Repeat("\xab", 32)) // 32 bytes -> 64 hex chars
	ev := listener.Event{Raw: listener.RawEvent{
		Name: "SnappInitialization",
		Params: []listener.RawParam{
			{Name: "stateHash", Value: stateHash},
			{Name: "maxTokens", Value: uint64(10)},
			{Name: "maxAccounts", Value: uint64(10)},
		},
	}}
	if err := d.Dispatch(ctx, ev); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	rec, err := s.GetAccountState(ctx, 0)
	if err != nil {
		t.Fatalf("GetAccountState: %v", err)
	}
	if rec.StateHash != strings.Repeat("ab", 32) {
		t.Errorf("StateHash = %q, want %q", rec.StateHash, strings.Repeat("ab", 32))
	}
}

func TestDispatchWithdrawRequest(t *testing.T) {
	s := memory.New()
	h := handlers.New(s, zap.NewNop())
	d := New(h, zap.NewNop())
	ctx := context.Background()

	ev := listener.Event{Raw: listener.RawEvent{
		Name: "WithdrawRequest",
		Params: []listener.RawParam{
			{Name: "accountId", Value: uint64(0)},
			{Name: "tokenId", Value: uint64(1)},
			{Name: "amount", Value: "10"},
			{Name: "slot", Value: uint64(3)},
			{Name: "slotIndex", Value: uint64(0)},
		},
	}}
	if err := d.Dispatch(ctx, ev); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	withdraws, err := s.GetWithdraws(ctx, 3)
	if err != nil {
		t.Fatalf("GetWithdraws: %v", err)
	}
	if len(withdraws) != 1 || withdraws[0].AccountID != 0 || withdraws[0].Valid {
		t.Errorf("unexpected withdraws: %+v", withdraws)
	}

	if d.Stats().Dispatched != 1 {
		t.Errorf("Stats.Dispatched = %d, want 1", d.Stats().Dispatched)
	}
}

func TestDispatchSellOrder(t *testing.T) {
	s := memory.New()
	h := handlers.New(s, zap.NewNop())
	d := New(h, zap.NewNop())
	ctx := context.Background()

	ev := listener.Event{Raw: listener.RawEvent{
		Name: "SellOrder",
		Params: []listener.RawParam{
			{Name: "auctionId", Value: uint64(5)},
			{Name: "slotIndex", Value: uint64(0)},
			{Name: "accountId", Value: uint64(0)},
			{Name: "buyToken", Value: uint64(1)},
			{Name: "sellToken", Value: uint64(0)},
			{Name: "buyAmount", Value: "10"},
			{Name: "sellAmount", Value: "10"},
		},
	}}
	if err := d.Dispatch(ctx, ev); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	orders, err := s.GetOrders(ctx, 5)
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(orders) != 1 || orders[0].AccountID != 0 || orders[0].BuyToken != 1 {
		t.Errorf("unexpected orders: %+v", orders)
	}
}

func TestDispatchStandingSellOrderBatch(t *testing.T) {
	s := memory.New()
	h := handlers.New(s, zap.NewNop())
	d := New(h, zap.NewNop())
	ctx := context.Background()

	ev := listener.Event{Raw: listener.RawEvent{
		Name: "StandingSellOrderBatch",
		Params: []listener.RawParam{
			{Name: "accountId", Value: uint64(7)},
			{Name: "batchIndex", Value: uint64(0)},
			{Name: "validFromAuctionId", Value: uint64(3)},
			{Name: "orders", Value: []any{
				map[string]any{
					"slotIndex": uint64(0), "buyToken": uint64(1), "sellToken": uint64(0),
					"buyAmount": "10", "sellAmount": "20",
				},
			}},
		},
	}}
	if err := d.Dispatch(ctx, ev); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	orders, err := s.GetOrders(ctx, 5)
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(orders) != 1 || orders[0].AccountID != 7 || orders[0].Slot != 5 {
		t.Errorf("unexpected orders: %+v", orders)
	}

	if d.Stats().Dispatched != 1 {
		t.Errorf("Stats.Dispatched = %d, want 1", d.Stats().Dispatched)
	}
}

func TestDispatchAuctionInitialization(t *testing.T) {
	s := memory.New()
	h := handlers.New(s, zap.NewNop())
	d := New(h, zap.NewNop())
	ctx := context.Background()

	ev := listener.Event{Raw: listener.RawEvent{
		Name: "AuctionInitialization",
		Params: []listener.RawParam{
			{Name: "maxOrders", Value: uint64(100)},
			{Name: "numReservedAccounts", Value: uint64(10)},
			{Name: "ordersPerReservedAccount", Value: uint64(5)},
		},
	}}
	if err := d.Dispatch(ctx, ev); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	numOrders, err := s.GetNumOrders(ctx)
	if err != nil {
		t.Fatalf("GetNumOrders: %v", err)
	}
	if numOrders != 100 {
		t.Errorf("GetNumOrders = %d, want 100", numOrders)
	}

	if d.Stats().Dispatched != 1 {
		t.Errorf("Stats.Dispatched = %d, want 1", d.Stats().Dispatched)
	}
}

// TestDispatchMalformedEventsAreDroppedNotFatal covers the same
// drop-not-fatal contract as TestDispatchMalformedEventIsDroppedNotFatal,
// for the event types that weren't previously exercised end-to-end.
func TestDispatchMalformedEventsAreDroppedNotFatal(t *testing.T) {
	tests := []struct {
		name string
		raw  listener.RawEvent
	}{
		{
			name: "WithdrawRequest missing amount",
			raw: listener.RawEvent{Name: "WithdrawRequest", Params: []listener.RawParam{
				{Name: "accountId", Value: uint64(0)},
				{Name: "tokenId", Value: uint64(1)},
				{Name: "slot", Value: uint64(3)},
				{Name: "slotIndex", Value: uint64(0)},
			}},
		},
		{
			name: "SellOrder equal buy/sell token",
			raw: listener.RawEvent{Name: "SellOrder", Params: []listener.RawParam{
				{Name: "auctionId", Value: uint64(5)},
				{Name: "slotIndex", Value: uint64(0)},
				{Name: "accountId", Value: uint64(0)},
				{Name: "buyToken", Value: uint64(1)},
				{Name: "sellToken", Value: uint64(1)},
				{Name: "buyAmount", Value: "10"},
				{Name: "sellAmount", Value: "10"},
			}},
		},
		{
			name: "StandingSellOrderBatch missing validFromAuctionId",
			raw: listener.RawEvent{Name: "StandingSellOrderBatch", Params: []listener.RawParam{
				{Name: "accountId", Value: uint64(7)},
				{Name: "batchIndex", Value: uint64(0)},
				{Name: "orders", Value: []any{}},
			}},
		},
		{
			name: "AuctionInitialization missing ordersPerReservedAccount",
			raw: listener.RawEvent{Name: "AuctionInitialization", Params: []listener.RawParam{
				{Name: "maxOrders", Value: uint64(100)},
				{Name: "numReservedAccounts", Value: uint64(10)},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memory.New()
			h := handlers.New(s, zap.NewNop())
			d := New(h, zap.NewNop())

			ev := listener.Event{Raw: tt.raw}
			if err := d.Dispatch(context.Background(), ev); err != nil {
				t.Fatalf("Dispatch: malformed events should be dropped, not returned; got %v", err)
			}
			if d.Stats().Dropped != 1 {
				t.Errorf("Stats.Dropped = %d, want 1", d.Stats().Dropped)
			}
		})
	}
}
