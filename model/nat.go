package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Nat is a nonnegative, arbitrary-precision integer. On-chain amounts
// routinely exceed 64 bits, so every amount field in this package is a Nat
// rather than a uint64. It is backed by decimal.Decimal (whose coefficient
// is itself an arbitrary-precision big.Int) restricted to exponent 0 and a
// nonnegative sign, and it always round-trips through its decimal-string
// representation at the store boundary.
type Nat struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Nat{d: decimal.Zero}

// NatFromInt64 builds a Nat from a nonnegative int64.
func NatFromInt64(v int64) (Nat, error) {
	if v < 0 {
		return Nat{}, fmt.Errorf("negative amount: %d", v)
	}
	return Nat{d: decimal.NewFromInt(v)}, nil
}

// NatFromString parses a Nat from a decimal string or an integer literal.
// It rejects negative values and fractional values (on-chain amounts are
// always integral even though they are transmitted as strings).
func NatFromString(s string) (Nat, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Nat{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return natFromDecimal(d)
}

// NatFromFloat64 accepts the float64 shape that encoding/json produces when
// decoding a bare JSON number for an amount field. Values are truncated only
// if they are already integral; a fractional float is rejected.
func NatFromFloat64(v float64) (Nat, error) {
	d := decimal.NewFromFloat(v)
	return natFromDecimal(d)
}

func natFromDecimal(d decimal.Decimal) (Nat, error) {
	if d.Sign() < 0 {
		return Nat{}, fmt.Errorf("negative amount: %s", d.String())
	}
	if !d.Equal(d.Truncate(0)) {
		return Nat{}, fmt.Errorf("non-integer amount: %s", d.String())
	}
	return Nat{d: d.Truncate(0)}, nil
}

// Add returns n + other.
func (n Nat) Add(other Nat) Nat {
	return Nat{d: n.d.Add(other.d)}
}

// Sub returns n - other. Callers are responsible for checking sufficiency
// first (see the withdraw-handling invariant in the state-transition
// handler); Sub itself does not clamp and can produce a negative Nat whose
// String/Cmp behave normally, so a caller that skips the check gets a
// silently-wrong balance rather than a panic. Prefer Cmp before calling Sub
// when the result must stay nonnegative.
func (n Nat) Sub(other Nat) Nat {
	return Nat{d: n.d.Sub(other.d)}
}

// Cmp compares n to other: -1, 0, or 1.
func (n Nat) Cmp(other Nat) int {
	return n.d.Cmp(other.d)
}

// IsZero reports whether n is zero.
func (n Nat) IsZero() bool {
	return n.d.IsZero()
}

// String renders n as a decimal-string integer, the wire/storage form used
// throughout this package.
func (n Nat) String() string {
	return n.d.String()
}

// MarshalJSON renders n as a quoted decimal string, matching the storage
// boundary's "amounts persist as decimal strings" rule even when a document
// store implementation round-trips through JSON.
func (n Nat) MarshalJSON() ([]byte, error) {
	return []byte(`"` + n.d.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON
// number, rejecting negative or fractional values.
func (n *Nat) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := NatFromString(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
