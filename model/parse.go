package model

import (
	"encoding/json"
	"fmt"
)

// Fields is the decoded-event dictionary handed to each Parse function: the
// dispatcher's name/value parameter list collapsed into a map, byte-string
// values already rendered to lowercase hex (spec.md §4.4/§6).
type Fields map[string]any

func require(fields Fields, event, field string) (any, error) {
	v, ok := fields[field]
	if !ok {
		return nil, &MalformedEventError{Event: event, Field: field, Err: fmt.Errorf("missing required field")}
	}
	return v, nil
}

// asUint coerces a decoded field to a nonnegative uint64. Accepts the
// numeric shapes a JSON-decoded event payload may carry: float64 (bare JSON
// number), json.Number, int/int64/uint64, or a decimal string.
func asUint(fields Fields, event, field string) (uint64, error) {
	v, err := require(fields, event, field)
	if err != nil {
		return 0, err
	}
	u, convErr := coerceUint(v)
	if convErr != nil {
		return 0, &MalformedEventError{Event: event, Field: field, Err: convErr}
	}
	return u, nil
}

func coerceUint(v any) (uint64, error) {
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int64:
		if t < 0 {
			return 0, fmt.Errorf("negative value: %d", t)
		}
		return uint64(t), nil
	case int:
		if t < 0 {
			return 0, fmt.Errorf("negative value: %d", t)
		}
		return uint64(t), nil
	case float64:
		if t < 0 {
			return 0, fmt.Errorf("negative value: %v", t)
		}
		return uint64(t), nil
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, err
		}
		if i < 0 {
			return 0, fmt.Errorf("negative value: %d", i)
		}
		return uint64(i), nil
	case string:
		var n uint64
		_, err := fmt.Sscanf(t, "%d", &n)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// asNat coerces a decoded field into a Nat, permitting the int/decimal-string
// dual representation spec.md §4.1 requires for amounts that may exceed 64
// bits.
func asNat(fields Fields, event, field string) (Nat, error) {
	v, err := require(fields, event, field)
	if err != nil {
		return Nat{}, err
	}
	n, convErr := coerceNat(v)
	if convErr != nil {
		return Nat{}, &MalformedEventError{Event: event, Field: field, Err: convErr}
	}
	return n, nil
}

func coerceNat(v any) (Nat, error) {
	switch t := v.(type) {
	case string:
		return NatFromString(t)
	case float64:
		return NatFromFloat64(t)
	case json.Number:
		return NatFromString(t.String())
	case int64:
		return NatFromInt64(t)
	case int:
		return NatFromInt64(int64(t))
	case uint64:
		if t > 1<<63-1 {
			return NatFromString(fmt.Sprintf("%d", t))
		}
		return NatFromInt64(int64(t))
	default:
		return Nat{}, fmt.Errorf("unsupported amount type %T", v)
	}
}

// asString coerces a decoded field to a string.
func asString(fields Fields, event, field string) (string, error) {
	v, err := require(fields, event, field)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &MalformedEventError{Event: event, Field: field, Err: fmt.Errorf("expected string, got %T", v)}
	}
	return s, nil
}

// asBoolDefault returns the field's bool value, or def if the field is
// absent (used for Withdraw.valid, which defaults to false).
func asBoolDefault(fields Fields, field string, def bool) bool {
	v, ok := fields[field]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}
