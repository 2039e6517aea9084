package model

import "testing"

func TestParseWithdrawRoundTrip(t *testing.T) {
	w := Withdraw{AccountID: 0, TokenID: 1, Slot: 3, SlotIndex: 0}
	w.Amount, _ = NatFromInt64(10)

	got, err := ParseWithdraw(w.Serialize())
	if err != nil {
		t.Fatalf("ParseWithdraw: %v", err)
	}
	if got.AccountID != w.AccountID || got.TokenID != w.TokenID || got.Slot != w.Slot || got.SlotIndex != w.SlotIndex {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, w)
	}
	if got.Amount.Cmp(w.Amount) != 0 {
		t.Errorf("amount round trip mismatch: got %s, want %s", got.Amount.String(), w.Amount.String())
	}
	if got.Valid {
		t.Error("Valid should default to false")
	}
}

func TestParseWithdrawMissingField(t *testing.T) {
	fields := Fields{"accountId": uint64(0), "tokenId": uint64(1), "slot": uint64(3), "slotIndex": uint64(0)}
	_, err := ParseWithdraw(fields)
	if err == nil {
		t.Fatal("expected error for missing amount field")
	}
	var malformed *MalformedEventError
	if !asMalformedEvent(err, &malformed) {
		t.Errorf("expected *MalformedEventError, got %T: %v", err, err)
	}
}
