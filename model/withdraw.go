package model

// Withdraw is a pending debit request queued against a slot. It carries the
// same required fields as Deposit plus a Valid flag that latches false→true
// at most once, flipped only by the state-transition handler that honors
// it (spec.md §3).
type Withdraw struct {
	AccountID uint64
	TokenID   uint64
	Amount    Nat
	Slot      uint64
	SlotIndex uint64
	Valid     bool
	// ID is the store's opaque identifier for this record, used by
	// update_withdraw to target the exact row. Empty until the record has
	// been written.
	ID string
}

// ParseWithdraw parses a decoded "WithdrawRequest" event dict into a
// Withdraw with Valid defaulted to false.
func ParseWithdraw(fields Fields) (Withdraw, error) {
	d, err := parseDepositLike(fields, "WithdrawRequest")
	if err != nil {
		return Withdraw{}, err
	}
	return Withdraw{
		AccountID: d.AccountID,
		TokenID:   d.TokenID,
		Amount:    d.Amount,
		Slot:      d.Slot,
		SlotIndex: d.SlotIndex,
		Valid:     asBoolDefault(fields, "valid", false),
	}, nil
}

// Serialize projects a Withdraw to its persisted dictionary form.
func (w Withdraw) Serialize() Fields {
	return Fields{
		"accountId": w.AccountID,
		"tokenId":   w.TokenID,
		"amount":    w.Amount.String(),
		"slot":      w.Slot,
		"slotIndex": w.SlotIndex,
		"valid":     w.Valid,
	}
}

// WithValid returns a copy of w with Valid set to true. Withdraw is
// otherwise immutable; the store is the only thing that "mutates" a
// withdraw, by replacing the old record with this one (spec.md §9).
func (w Withdraw) WithValid() Withdraw {
	w.Valid = true
	return w
}
