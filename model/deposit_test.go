package model

import "testing"

func TestParseDepositRoundTrip(t *testing.T) {
	d := Deposit{AccountID: 0, TokenID: 1, Slot: 3, SlotIndex: 0}
	d.Amount, _ = NatFromInt64(10)

	got, err := ParseDeposit(d.Serialize())
	if err != nil {
		t.Fatalf("ParseDeposit: %v", err)
	}
	if got.AccountID != d.AccountID || got.TokenID != d.TokenID || got.Slot != d.Slot || got.SlotIndex != d.SlotIndex {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, d)
	}
	if got.Amount.Cmp(d.Amount) != 0 {
		t.Errorf("amount round trip mismatch: got %s, want %s", got.Amount.String(), d.Amount.String())
	}
}

func TestParseDepositMissingField(t *testing.T) {
	fields := Fields{"accountId": uint64(0), "tokenId": uint64(1), "slot": uint64(3), "slotIndex": uint64(0)}
	_, err := ParseDeposit(fields)
	if err == nil {
		t.Fatal("expected error for missing amount field")
	}
	var malformed *MalformedEventError
	if !asMalformedEvent(err, &malformed) {
		t.Errorf("expected *MalformedEventError, got %T: %v", err, err)
	}
}

func asMalformedEvent(err error, target **MalformedEventError) bool {
	me, ok := err.(*MalformedEventError)
	if !ok {
		return false
	}
	*target = me
	return true
}
