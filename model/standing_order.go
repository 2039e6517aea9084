package model

import "fmt"

// StandingOrderTemplate is one entry of a standing order's order list: the
// parts of an Order that don't depend on which auction eventually activates
// the template (account and auction id are supplied by the StandingOrder
// and the query respectively).
type StandingOrderTemplate struct {
	SlotIndex  uint64
	BuyToken   uint64
	SellToken  uint64
	BuyAmount  Nat
	SellAmount Nat
}

// StandingOrder is a persistent order template for a reserved account,
// re-used across auctions until a newer entry for the same account
// supersedes it. Append-only per (account_id, batch_index); ID is an
// opaque, random identifier the store assigns on write. Ties between
// entries with the same ValidFromAuctionID are broken by insertion order,
// which the stores track separately (a sequence number), not by ID.
type StandingOrder struct {
	AccountID           uint64
	BatchIndex          uint64
	ValidFromAuctionID  uint64
	Orders              []StandingOrderTemplate
	ID                  string
}

// ParseStandingOrder parses a decoded "StandingSellOrderBatch" event dict.
func ParseStandingOrder(fields Fields) (StandingOrder, error) {
	const eventName = "StandingSellOrderBatch"
	accountID, err := asUint(fields, eventName, "accountId")
	if err != nil {
		return StandingOrder{}, err
	}
	batchIndex, err := asUint(fields, eventName, "batchIndex")
	if err != nil {
		return StandingOrder{}, err
	}
	validFrom, err := asUint(fields, eventName, "validFromAuctionId")
	if err != nil {
		return StandingOrder{}, err
	}
	rawOrders, err := require(fields, eventName, "orders")
	if err != nil {
		return StandingOrder{}, err
	}
	var items []any
	switch v := rawOrders.(type) {
	case []any:
		items = v
	case []Fields:
		items = make([]any, len(v))
		for i, f := range v {
			items[i] = f
		}
	default:
		return StandingOrder{}, &MalformedEventError{Event: eventName, Field: "orders", Err: fmt.Errorf("expected list, got %T", rawOrders)}
	}
	templates := make([]StandingOrderTemplate, 0, len(items))
	for i, item := range items {
		entry, ok := item.(Fields)
		if !ok {
			if m, ok := item.(map[string]any); ok {
				entry = Fields(m)
			} else {
				return StandingOrder{}, &MalformedEventError{Event: eventName, Field: fmt.Sprintf("orders[%d]", i), Err: fmt.Errorf("expected object, got %T", item)}
			}
		}
		tmpl, err := parseStandingOrderTemplate(entry, eventName, i)
		if err != nil {
			return StandingOrder{}, err
		}
		templates = append(templates, tmpl)
	}
	return StandingOrder{
		AccountID:          accountID,
		BatchIndex:         batchIndex,
		ValidFromAuctionID: validFrom,
		Orders:             templates,
	}, nil
}

func parseStandingOrderTemplate(fields Fields, eventName string, index int) (StandingOrderTemplate, error) {
	slotIndex, ok := fields["slotIndex"]
	var slotIdx uint64
	if ok {
		u, err := coerceUint(slotIndex)
		if err != nil {
			return StandingOrderTemplate{}, &MalformedEventError{Event: eventName, Field: fmt.Sprintf("orders[%d].slotIndex", index), Err: err}
		}
		slotIdx = u
	} else {
		slotIdx = uint64(index)
	}
	buyToken, err := asUint(fields, eventName, "buyToken")
	if err != nil {
		return StandingOrderTemplate{}, err
	}
	sellToken, err := asUint(fields, eventName, "sellToken")
	if err != nil {
		return StandingOrderTemplate{}, err
	}
	buyAmount, err := asNat(fields, eventName, "buyAmount")
	if err != nil {
		return StandingOrderTemplate{}, err
	}
	sellAmount, err := asNat(fields, eventName, "sellAmount")
	if err != nil {
		return StandingOrderTemplate{}, err
	}
	return StandingOrderTemplate{
		SlotIndex:  slotIdx,
		BuyToken:   buyToken,
		SellToken:  sellToken,
		BuyAmount:  buyAmount,
		SellAmount: sellAmount,
	}, nil
}

// OrdersForAuction materializes this standing order's templates as full
// Orders for auction id A — the "contributed orders" of spec.md §4.3.6
// step 2/3.
func (s StandingOrder) OrdersForAuction(auctionID uint64) []Order {
	out := make([]Order, 0, len(s.Orders))
	for _, t := range s.Orders {
		out = append(out, Order{
			Slot:       auctionID,
			SlotIndex:  t.SlotIndex,
			AccountID:  s.AccountID,
			BuyToken:   t.BuyToken,
			SellToken:  t.SellToken,
			BuyAmount:  t.BuyAmount,
			SellAmount: t.SellAmount,
		})
	}
	return out
}

// Serialize projects a StandingOrder to its persisted dictionary form.
func (s StandingOrder) Serialize() Fields {
	orders := make([]Fields, 0, len(s.Orders))
	for _, t := range s.Orders {
		orders = append(orders, Fields{
			"slotIndex":  t.SlotIndex,
			"buyToken":   t.BuyToken,
			"sellToken":  t.SellToken,
			"buyAmount":  t.BuyAmount.String(),
			"sellAmount": t.SellAmount.String(),
		})
	}
	return Fields{
		"accountId":          s.AccountID,
		"batchIndex":         s.BatchIndex,
		"validFromAuctionId": s.ValidFromAuctionID,
		"orders":             orders,
	}
}
