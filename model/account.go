package model

import "fmt"

// AccountRecord is one link of the append-only state chain: the full
// balance matrix after applying the transition at StateIndex. Predecessor
// records are never mutated (spec.md §3).
type AccountRecord struct {
	StateIndex uint64
	StateHash  string
	Balances   []Nat
}

// NewAccountRecord validates StateHash's length before returning a record.
func NewAccountRecord(stateIndex uint64, stateHash string, balances []Nat) (AccountRecord, error) {
	if len(stateHash) != 64 {
		return AccountRecord{}, fmt.Errorf("state_hash must be 64 hex characters, got %d", len(stateHash))
	}
	return AccountRecord{StateIndex: stateIndex, StateHash: stateHash, Balances: balances}, nil
}

// Clone returns a deep copy of the balance vector so callers can mutate the
// copy without aliasing the predecessor record (spec.md §9: "Predecessor
// balances must be read, cloned, mutated, and written as a new record —
// never mutated in place").
func (a AccountRecord) Clone() []Nat {
	out := make([]Nat, len(a.Balances))
	copy(out, a.Balances)
	return out
}

// Serialize projects an AccountRecord to its persisted dictionary form.
func (a AccountRecord) Serialize() Fields {
	balances := make([]string, len(a.Balances))
	for i, b := range a.Balances {
		balances[i] = b.String()
	}
	return Fields{
		"stateIndex": a.StateIndex,
		"stateHash":  a.StateHash,
		"balances":   balances,
	}
}

// BalanceIndex computes the row-major index of (accountID, tokenID) in a
// balance vector with the given token stride (spec.md §3: "Balance
// addressing").
func BalanceIndex(numTokens, accountID, tokenID uint64) uint64 {
	return numTokens*accountID + tokenID
}
