package core

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// decCtx is the arithmetic context for quantization. 34 digits is enough for
// any price/amount a venue accepts and keeps derived values exact.
var decCtx = apd.Context{
	Precision:   34,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Traps:       apd.DefaultTraps,
	Rounding:    apd.RoundDown,
}

// ParseDecimal sets dest from the venue's decimal string. Empty strings parse
// to zero so optional fields never fail.
func ParseDecimal(dest *apd.Decimal, s string) error {
	if s == "" {
		*dest = apd.Decimal{}
		return nil
	}
	if _, _, err := dest.SetString(s); err != nil {
		return fmt.Errorf("set decimal from %q: %w", s, err)
	}
	return nil
}

// MustDecimal parses a decimal literal known to be valid, for descriptor and
// test data.
func MustDecimal(s string) apd.Decimal {
	var d apd.Decimal
	if _, _, err := d.SetString(s); err != nil {
		panic(err)
	}
	return d
}

// AmountToPrecision truncates an order amount to the market's declared
// granularity. Truncation, not rounding: a quantized amount must never exceed
// what the caller asked to trade.
func (m *Market) AmountToPrecision(amount *apd.Decimal) (*apd.Decimal, error) {
	if m.Precision.Mode == PrecisionTickSize && !m.Precision.AmountStep.IsZero() {
		return quantizeToIncrement(amount, &m.Precision.AmountStep)
	}
	return quantizeToPlaces(amount, m.Precision.AmountPlaces)
}

// PriceToPrecision truncates a price to the market's declared granularity.
func (m *Market) PriceToPrecision(price *apd.Decimal) (*apd.Decimal, error) {
	if m.Precision.Mode == PrecisionTickSize && !m.Precision.PriceTick.IsZero() {
		return quantizeToIncrement(price, &m.Precision.PriceTick)
	}
	return quantizeToPlaces(price, m.Precision.PricePlaces)
}

func quantizeToPlaces(value *apd.Decimal, places int32) (*apd.Decimal, error) {
	out := new(apd.Decimal)
	if _, err := decCtx.Quantize(out, value, -places); err != nil {
		return nil, fmt.Errorf("quantize to %d places: %w", places, err)
	}
	return out, nil
}

// quantizeToIncrement floors value to a multiple of step.
func quantizeToIncrement(value, step *apd.Decimal) (*apd.Decimal, error) {
	quotient := new(apd.Decimal)
	if _, err := decCtx.Quo(quotient, value, step); err != nil {
		return nil, fmt.Errorf("divide by increment: %w", err)
	}
	if _, err := decCtx.Floor(quotient, quotient); err != nil {
		return nil, fmt.Errorf("floor quotient: %w", err)
	}
	out := new(apd.Decimal)
	if _, err := decCtx.Mul(out, quotient, step); err != nil {
		return nil, fmt.Errorf("multiply by increment: %w", err)
	}
	if _, _, err := decCtx.Reduce(out, out); err != nil {
		return nil, fmt.Errorf("reduce: %w", err)
	}
	return out, nil
}

// DecimalMul multiplies two decimals with the package context. Used for
// derived values such as cost = price * amount.
func DecimalMul(a, b *apd.Decimal) (*apd.Decimal, error) {
	out := new(apd.Decimal)
	if _, err := decCtx.Mul(out, a, b); err != nil {
		return nil, err
	}
	return out, nil
}

// DecimalQuo divides a by b with the package context. Used for derived
// ratios such as a trailing distance given in percent.
func DecimalQuo(a, b *apd.Decimal) (*apd.Decimal, error) {
	out := new(apd.Decimal)
	if _, err := decCtx.Quo(out, a, b); err != nil {
		return nil, err
	}
	return out, nil
}

// DecimalSub subtracts b from a with the package context. Used for derived
// values such as remaining = amount - filled.
func DecimalSub(a, b *apd.Decimal) (*apd.Decimal, error) {
	out := new(apd.Decimal)
	if _, err := decCtx.Sub(out, a, b); err != nil {
		return nil, err
	}
	return out, nil
}

// PrecisionFromIncrement derives the decimal-places equivalent of a tick-size
// string, e.g. "0.0001" -> 4. Integer ticks yield zero.
func PrecisionFromIncrement(increment string) int32 {
	var d apd.Decimal
	if _, _, err := d.SetString(increment); err != nil {
		return 0
	}
	if d.Exponent < 0 {
		return -d.Exponent
	}
	return 0
}
