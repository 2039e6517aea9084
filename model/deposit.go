package model

// Deposit is a pending credit to (account_id, token_id) queued against a
// slot, applied when the slot's Deposit state transition is processed.
// Append-only once emitted.
type Deposit struct {
	AccountID uint64
	TokenID   uint64
	Amount    Nat
	Slot      uint64
	SlotIndex uint64
}

// ParseDeposit parses a decoded "Deposit" or "WithdrawRequest" event dict
// (both share the same required fields) into a Deposit.
func ParseDeposit(fields Fields) (Deposit, error) {
	return parseDepositLike(fields, "Deposit")
}

func parseDepositLike(fields Fields, eventName string) (Deposit, error) {
	accountID, err := asUint(fields, eventName, "accountId")
	if err != nil {
		return Deposit{}, err
	}
	tokenID, err := asUint(fields, eventName, "tokenId")
	if err != nil {
		return Deposit{}, err
	}
	amount, err := asNat(fields, eventName, "amount")
	if err != nil {
		return Deposit{}, err
	}
	slot, err := asUint(fields, eventName, "slot")
	if err != nil {
		return Deposit{}, err
	}
	slotIndex, err := asUint(fields, eventName, "slotIndex")
	if err != nil {
		return Deposit{}, err
	}
	return Deposit{
		AccountID: accountID,
		TokenID:   tokenID,
		Amount:    amount,
		Slot:      slot,
		SlotIndex: slotIndex,
	}, nil
}

// Serialize projects a Deposit to its persisted dictionary form, amounts as
// decimal strings.
func (d Deposit) Serialize() Fields {
	return Fields{
		"accountId": d.AccountID,
		"tokenId":   d.TokenID,
		"amount":    d.Amount.String(),
		"slot":      d.Slot,
		"slotIndex": d.SlotIndex,
	}
}
