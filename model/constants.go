package model

import "errors"

// Constants holds the snapp- and auction-wide sizing parameters. Each
// category is written exactly once by its initialization event and is
// immutable thereafter (spec.md §3).
type Constants struct {
	NumTokens               uint64
	NumAccounts             uint64
	NumOrders               uint64
	NumReservedAccounts     uint64
	OrdersPerReservedAccount uint64
}

// SnappInitFields is the decoded "SnappInitialization" event, parsed ahead
// of writing snapp constants and the genesis AccountRecord.
type SnappInitFields struct {
	StateHash   string
	MaxTokens   uint64
	MaxAccounts uint64
}

// ParseSnappInitialization parses a decoded "SnappInitialization" event dict.
func ParseSnappInitialization(fields Fields) (SnappInitFields, error) {
	const eventName = "SnappInitialization"
	stateHash, err := asString(fields, eventName, "stateHash")
	if err != nil {
		return SnappInitFields{}, err
	}
	if len(stateHash) != 64 {
		return SnappInitFields{}, &MalformedEventError{Event: eventName, Field: "stateHash", Err: errStateHashLength}
	}
	maxTokens, err := asUint(fields, eventName, "maxTokens")
	if err != nil {
		return SnappInitFields{}, err
	}
	maxAccounts, err := asUint(fields, eventName, "maxAccounts")
	if err != nil {
		return SnappInitFields{}, err
	}
	return SnappInitFields{StateHash: stateHash, MaxTokens: maxTokens, MaxAccounts: maxAccounts}, nil
}

// AuctionInitFields is the decoded "AuctionInitialization" event.
type AuctionInitFields struct {
	MaxOrders                uint64
	NumReservedAccounts      uint64
	OrdersPerReservedAccount uint64
}

// ParseAuctionInitialization parses a decoded "AuctionInitialization" event dict.
func ParseAuctionInitialization(fields Fields) (AuctionInitFields, error) {
	const eventName = "AuctionInitialization"
	maxOrders, err := asUint(fields, eventName, "maxOrders")
	if err != nil {
		return AuctionInitFields{}, err
	}
	numReserved, err := asUint(fields, eventName, "numReservedAccounts")
	if err != nil {
		return AuctionInitFields{}, err
	}
	ordersPerReserved, err := asUint(fields, eventName, "ordersPerReservedAccount")
	if err != nil {
		return AuctionInitFields{}, err
	}
	return AuctionInitFields{
		MaxOrders:                maxOrders,
		NumReservedAccounts:      numReserved,
		OrdersPerReservedAccount: ordersPerReserved,
	}, nil
}

var errStateHashLength = errors.New("stateHash must be 64 characters")
