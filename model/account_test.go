package model

import (
	"strings"
	"testing"
)

var testStateHash = strings.Repeat("a", 64)

func TestAccountRecordCloneIsIndependent(t *testing.T) {
	b0, _ := NatFromInt64(42)
	rec, err := NewAccountRecord(1, testStateHash, []Nat{b0, b0})
	if err != nil {
		t.Fatalf("NewAccountRecord: %v", err)
	}

	clone := rec.Clone()
	ten, _ := NatFromInt64(10)
	clone[0] = clone[0].Add(ten)

	if rec.Balances[0].Cmp(b0) != 0 {
		t.Errorf("mutating the clone mutated the original: got %s, want %s", rec.Balances[0].String(), b0.String())
	}
	if clone[0].Cmp(b0.Add(ten)) != 0 {
		t.Errorf("clone wasn't mutated as expected: got %s", clone[0].String())
	}
}

func TestNewAccountRecordRejectsShortStateHash(t *testing.T) {
	if _, err := NewAccountRecord(1, "deadbeef", nil); err == nil {
		t.Fatal("expected error for short state hash")
	}
}

func TestBalanceIndex(t *testing.T) {
	tests := []struct {
		name                           string
		numTokens, accountID, tokenID uint64
		want                           uint64
	}{
		{name: "account 0 token 0", numTokens: 10, accountID: 0, tokenID: 0, want: 0},
		{name: "account 0 token 1", numTokens: 10, accountID: 0, tokenID: 1, want: 1},
		{name: "account 6 token 2", numTokens: 10, accountID: 6, tokenID: 2, want: 62},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BalanceIndex(tt.numTokens, tt.accountID, tt.tokenID)
			if got != tt.want {
				t.Errorf("BalanceIndex(%d, %d, %d) = %d, want %d", tt.numTokens, tt.accountID, tt.tokenID, got, tt.want)
			}
		})
	}
}
