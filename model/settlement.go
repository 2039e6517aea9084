package model

import "fmt"

// AuctionResults is the decoded form of a settlement's packed
// prices-and-volumes payload: one price per token, and one executed
// buy/sell amount pair per cleared order (settlement.DecodePricesAndVolumes
// produces this; see that package for the byte layout).
type AuctionResults struct {
	Prices      []Nat
	BuyAmounts  []Nat
	SellAmounts []Nat
}

// Validate enforces spec.md §8 testable property 4: equal buy/sell counts,
// at most numOrders of them, and exactly numTokens prices.
func (r AuctionResults) Validate(numTokens, numOrders int) error {
	if len(r.Prices) != numTokens {
		return fmt.Errorf("expected %d prices, got %d", numTokens, len(r.Prices))
	}
	if len(r.BuyAmounts) != len(r.SellAmounts) {
		return fmt.Errorf("buy_amounts length %d != sell_amounts length %d", len(r.BuyAmounts), len(r.SellAmounts))
	}
	if len(r.BuyAmounts) > numOrders {
		return fmt.Errorf("buy_amounts length %d exceeds num_orders %d", len(r.BuyAmounts), numOrders)
	}
	return nil
}

// AuctionSettlement clears auction AuctionID, writing the AccountRecord at
// StateIndex. PricesAndVolumes is decoded once, by the caller, before this
// value is constructed (spec.md §3: "decoded once at construction").
type AuctionSettlement struct {
	AuctionID         uint64
	StateIndex        uint64
	StateHash         string
	PricesAndVolumes  AuctionResults
}

// NewAuctionSettlement validates StateHash and constructs an
// AuctionSettlement around an already-decoded AuctionResults.
func NewAuctionSettlement(auctionID, stateIndex uint64, stateHash string, results AuctionResults) (AuctionSettlement, error) {
	if len(stateHash) != 64 {
		return AuctionSettlement{}, fmt.Errorf("state_hash must be 64 hex characters, got %d", len(stateHash))
	}
	if len(results.BuyAmounts) != len(results.SellAmounts) {
		return AuctionSettlement{}, fmt.Errorf("buy_amounts length %d != sell_amounts length %d", len(results.BuyAmounts), len(results.SellAmounts))
	}
	return AuctionSettlement{
		AuctionID:        auctionID,
		StateIndex:       stateIndex,
		StateHash:        stateHash,
		PricesAndVolumes: results,
	}, nil
}

// AuctionSettlementHeader is the parsed, not-yet-decoded half of a
// "AuctionSettlement" event: everything except the packed payload, which
// needs num_tokens/num_orders (read from the store) before it can be
// decoded by the settlement package.
type AuctionSettlementHeader struct {
	AuctionID  uint64
	StateIndex uint64
	StateHash  string
	PayloadHex string
}

// ParseAuctionSettlementHeader parses a decoded "AuctionSettlement" event
// dict up to, but not including, decoding the packed payload.
func ParseAuctionSettlementHeader(fields Fields) (AuctionSettlementHeader, error) {
	const eventName = "AuctionSettlement"
	auctionID, err := asUint(fields, eventName, "auctionId")
	if err != nil {
		return AuctionSettlementHeader{}, err
	}
	stateIndex, err := asUint(fields, eventName, "stateIndex")
	if err != nil {
		return AuctionSettlementHeader{}, err
	}
	stateHash, err := asString(fields, eventName, "stateHash")
	if err != nil {
		return AuctionSettlementHeader{}, err
	}
	if len(stateHash) != 64 {
		return AuctionSettlementHeader{}, &MalformedEventError{Event: eventName, Field: "stateHash", Err: fmt.Errorf("expected 64 hex characters, got %d", len(stateHash))}
	}
	payload, err := asString(fields, eventName, "pricesAndVolumes")
	if err != nil {
		return AuctionSettlementHeader{}, err
	}
	return AuctionSettlementHeader{
		AuctionID:  auctionID,
		StateIndex: stateIndex,
		StateHash:  stateHash,
		PayloadHex: payload,
	}, nil
}
