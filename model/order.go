package model

import "errors"

// Order is a one-shot sell order submitted into auction Slot at SlotIndex.
// Append-only once emitted.
type Order struct {
	Slot       uint64 // auction_id
	SlotIndex  uint64
	AccountID  uint64
	BuyToken   uint64
	SellToken  uint64
	BuyAmount  Nat
	SellAmount Nat
}

// ParseOrder parses a decoded "SellOrder" event dict into an Order. The
// wire parameter is named "auctionId"; it maps onto Order.Slot.
func ParseOrder(fields Fields) (Order, error) {
	const eventName = "SellOrder"
	auctionID, err := asUint(fields, eventName, "auctionId")
	if err != nil {
		return Order{}, err
	}
	slotIndex, err := asUint(fields, eventName, "slotIndex")
	if err != nil {
		return Order{}, err
	}
	accountID, err := asUint(fields, eventName, "accountId")
	if err != nil {
		return Order{}, err
	}
	buyToken, err := asUint(fields, eventName, "buyToken")
	if err != nil {
		return Order{}, err
	}
	sellToken, err := asUint(fields, eventName, "sellToken")
	if err != nil {
		return Order{}, err
	}
	buyAmount, err := asNat(fields, eventName, "buyAmount")
	if err != nil {
		return Order{}, err
	}
	sellAmount, err := asNat(fields, eventName, "sellAmount")
	if err != nil {
		return Order{}, err
	}
	if buyToken == sellToken {
		return Order{}, &MalformedEventError{Event: eventName, Field: "sellToken", Err: errBuySellTokenEqual}
	}
	if sellAmount.IsZero() {
		return Order{}, &MalformedEventError{Event: eventName, Field: "sellAmount", Err: errZeroSellAmount}
	}
	return Order{
		Slot:       auctionID,
		SlotIndex:  slotIndex,
		AccountID:  accountID,
		BuyToken:   buyToken,
		SellToken:  sellToken,
		BuyAmount:  buyAmount,
		SellAmount: sellAmount,
	}, nil
}

var (
	errBuySellTokenEqual = errors.New("buy_token must not equal sell_token")
	errZeroSellAmount    = errors.New("sell_amount must be > 0")
)

// Serialize projects an Order to its persisted dictionary form.
func (o Order) Serialize() Fields {
	return Fields{
		"auctionId":  o.Slot,
		"slotIndex":  o.SlotIndex,
		"accountId":  o.AccountID,
		"buyToken":   o.BuyToken,
		"sellToken":  o.SellToken,
		"buyAmount":  o.BuyAmount.String(),
		"sellAmount": o.SellAmount.String(),
	}
}
