package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/gnosis/snapp-indexer/model"
)

// TestHandleAuctionSettlement covers spec scenario S3.
func TestHandleAuctionSettlement(t *testing.T) {
	ctx := context.Background()
	h, s := newTestHandlers(t)

	if err := s.WriteSnappConstants(ctx, 2, 10); err != nil {
		t.Fatalf("WriteSnappConstants: %v", err)
	}
	if err := s.WriteAuctionConstants(ctx, 2, 0, 0); err != nil {
		t.Fatalf("WriteAuctionConstants: %v", err)
	}

	base, err := model.NewAccountRecord(4, stateHashH0, flatBalances(t, 42, 4))
	if err != nil {
		t.Fatalf("NewAccountRecord: %v", err)
	}
	if err := s.WriteAccountState(ctx, base); err != nil {
		t.Fatalf("WriteAccountState: %v", err)
	}

	orders := []model.Order{
		{Slot: 5, SlotIndex: 0, AccountID: 0, BuyToken: 1, SellToken: 0, BuyAmount: mustNat(t, 10), SellAmount: mustNat(t, 10)},
		{Slot: 5, SlotIndex: 1, AccountID: 1, BuyToken: 0, SellToken: 1, BuyAmount: mustNat(t, 8), SellAmount: mustNat(t, 16)},
	}
	for _, o := range orders {
		if err := s.WriteOrder(ctx, o); err != nil {
			t.Fatalf("WriteOrder: %v", err)
		}
	}

	payload := chunk(16) + chunk(10) + chunk(16) + chunk(10) + chunk(10) + chunk(16)
	fields := model.Fields{
		"auctionId":        uint64(5),
		"stateIndex":       uint64(5),
		"stateHash":        stateHashH1,
		"pricesAndVolumes": payload,
	}

	if err := h.HandleAuctionSettlement(ctx, fields); err != nil {
		t.Fatalf("HandleAuctionSettlement: %v", err)
	}

	rec, err := s.GetAccountState(ctx, 5)
	if err != nil {
		t.Fatalf("GetAccountState: %v", err)
	}
	want := []int64{32, 58, 52, 26}
	for i, w := range want {
		if rec.Balances[i].Cmp(mustNat(t, w)) != 0 {
			t.Errorf("balances[%d] = %s, want %d", i, rec.Balances[i].String(), w)
		}
	}
}

func chunk(v uint64) string {
	return fmt.Sprintf("%024x", v)
}
