// Package settlement implements the bit-exact decoder for the packed
// prices-and-volumes payload carried by an AuctionSettlement event
// (spec.md §4.3.5a).
package settlement

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/gnosis/snapp-indexer/model"
)

// chunkHexDigits is the width of one packed 96-bit value in hex digits.
const chunkHexDigits = 24

// DecodePricesAndVolumes unpacks a hex payload (optionally "0x"-prefixed)
// into numTokens prices followed by interleaved buy/sell volumes for up to
// numOrders orders. Layout: the first numTokens big-endian 96-bit values
// are prices; the remaining 2*numOrders values are interleaved
// [buy_0, sell_0, buy_1, sell_1, ...]. Even-indexed entries become
// BuyAmounts, odd-indexed entries become SellAmounts.
//
// Fails with model.MalformedSettlementError when the hex payload's digit
// count doesn't equal 24*(numTokens+2*numOrders). Zero prices and zero
// volumes are legal and represent "no clearing".
func DecodePricesAndVolumes(payloadHex string, numTokens, numOrders int) (model.AuctionResults, error) {
	payloadHex = strings.TrimPrefix(payloadHex, "0x")
	payloadHex = strings.TrimPrefix(payloadHex, "0X")

	wantDigits := chunkHexDigits * (numTokens + 2*numOrders)
	if len(payloadHex) != wantDigits {
		return model.AuctionResults{}, &model.MalformedSettlementError{Want: wantDigits, Got: len(payloadHex)}
	}

	raw, err := hex.DecodeString(payloadHex)
	if err != nil {
		return model.AuctionResults{}, &model.MalformedSettlementError{Want: wantDigits, Got: len(payloadHex)}
	}

	chunkBytes := chunkHexDigits / 2 // 96 bits = 12 bytes
	totalChunks := numTokens + 2*numOrders
	values := make([]model.Nat, 0, totalChunks)
	for i := 0; i < totalChunks; i++ {
		start := i * chunkBytes
		chunk := raw[start : start+chunkBytes]
		n := new(big.Int).SetBytes(chunk)
		nat, err := model.NatFromString(n.String())
		if err != nil {
			return model.AuctionResults{}, err
		}
		values = append(values, nat)
	}

	prices := values[:numTokens]
	rest := values[numTokens:]

	buyAmounts := make([]model.Nat, 0, numOrders)
	sellAmounts := make([]model.Nat, 0, numOrders)
	for i := 0; i < len(rest); i += 2 {
		buyAmounts = append(buyAmounts, rest[i])
		sellAmounts = append(sellAmounts, rest[i+1])
	}

	return model.AuctionResults{
		Prices:      prices,
		BuyAmounts:  buyAmounts,
		SellAmounts: sellAmounts,
	}, nil
}
