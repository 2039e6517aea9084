package model

import "fmt"

// TransitionType is the closed set of state-transition kinds this core
// understands. A historical "Auction" variant existed upstream; auction
// effects flow through AuctionSettlement instead, so it is not part of this
// type (spec.md §9).
type TransitionType int

const (
	TransitionDeposit TransitionType = iota
	TransitionWithdraw
)

func (t TransitionType) String() string {
	switch t {
	case TransitionDeposit:
		return "Deposit"
	case TransitionWithdraw:
		return "Withdraw"
	default:
		return fmt.Sprintf("TransitionType(%d)", int(t))
	}
}

// StateTransition closes a slot's batch of deposits or withdraws into the
// next AccountRecord.
type StateTransition struct {
	TransitionType TransitionType
	StateIndex     uint64
	StateHash      string
	Slot           uint64
}

// ParseStateTransition parses a decoded "StateTransition" event dict.
func ParseStateTransition(fields Fields) (StateTransition, error) {
	const eventName = "StateTransition"
	rawType, err := asUint(fields, eventName, "transitionType")
	if err != nil {
		return StateTransition{}, err
	}
	var transitionType TransitionType
	switch rawType {
	case 0:
		transitionType = TransitionDeposit
	case 1:
		transitionType = TransitionWithdraw
	default:
		return StateTransition{}, &BadTransitionError{Type: TransitionType(rawType)}
	}
	stateIndex, err := asUint(fields, eventName, "stateIndex")
	if err != nil {
		return StateTransition{}, err
	}
	stateHash, err := asString(fields, eventName, "stateHash")
	if err != nil {
		return StateTransition{}, err
	}
	if len(stateHash) != 64 {
		return StateTransition{}, &MalformedEventError{Event: eventName, Field: "stateHash", Err: fmt.Errorf("expected 64 hex characters, got %d", len(stateHash))}
	}
	slot, err := asUint(fields, eventName, "slot")
	if err != nil {
		return StateTransition{}, err
	}
	return StateTransition{
		TransitionType: transitionType,
		StateIndex:     stateIndex,
		StateHash:      stateHash,
		Slot:           slot,
	}, nil
}

// Serialize projects a StateTransition to its persisted dictionary form.
func (s StateTransition) Serialize() Fields {
	return Fields{
		"transitionType": int(s.TransitionType),
		"stateIndex":     s.StateIndex,
		"stateHash":      s.StateHash,
		"slot":           s.Slot,
	}
}
