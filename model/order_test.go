package model

import "testing"

func TestParseOrderRoundTrip(t *testing.T) {
	o := Order{Slot: 5, SlotIndex: 0, AccountID: 0, BuyToken: 1, SellToken: 0}
	o.BuyAmount, _ = NatFromInt64(10)
	o.SellAmount, _ = NatFromInt64(10)

	got, err := ParseOrder(o.Serialize())
	if err != nil {
		t.Fatalf("ParseOrder: %v", err)
	}
	if got.Slot != o.Slot || got.SlotIndex != o.SlotIndex || got.AccountID != o.AccountID ||
		got.BuyToken != o.BuyToken || got.SellToken != o.SellToken {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, o)
	}
	if got.BuyAmount.Cmp(o.BuyAmount) != 0 || got.SellAmount.Cmp(o.SellAmount) != 0 {
		t.Errorf("amount round trip mismatch: got %+v, want %+v", got, o)
	}
}

func TestParseOrderRejectsEqualBuySellToken(t *testing.T) {
	fields := Fields{
		"auctionId": uint64(5), "slotIndex": uint64(0), "accountId": uint64(0),
		"buyToken": uint64(1), "sellToken": uint64(1),
		"buyAmount": "10", "sellAmount": "10",
	}
	if _, err := ParseOrder(fields); err == nil {
		t.Fatal("expected error when buyToken == sellToken")
	}
}

func TestParseOrderRejectsZeroSellAmount(t *testing.T) {
	fields := Fields{
		"auctionId": uint64(5), "slotIndex": uint64(0), "accountId": uint64(0),
		"buyToken": uint64(1), "sellToken": uint64(0),
		"buyAmount": "10", "sellAmount": "0",
	}
	if _, err := ParseOrder(fields); err == nil {
		t.Fatal("expected error when sellAmount is zero")
	}
}
