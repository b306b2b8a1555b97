package core

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// PrecisionMode declares how a market expresses amount/price granularity.
type PrecisionMode int

// Precision mode constants.
const (
	// PrecisionDecimalPlaces counts digits after the decimal point.
	PrecisionDecimalPlaces PrecisionMode = iota
	// PrecisionTickSize declares the smallest permitted increment directly.
	PrecisionTickSize
)

// MarketPrecision declares the granularity a venue accepts for one market.
// Depending on Mode either the Places or the Tick/Step fields are meaningful.
type MarketPrecision struct {
	// Mode selects between decimal-places and tick-size interpretation.
	Mode PrecisionMode `json:"mode"`
	// AmountPlaces is the number of decimal places for order amounts.
	AmountPlaces int32 `json:"amount_places"`
	// PricePlaces is the number of decimal places for order prices.
	PricePlaces int32 `json:"price_places"`
	// PriceTick is the smallest price increment in tick-size mode.
	PriceTick apd.Decimal `json:"price_tick"`
	// AmountStep is the smallest amount increment in tick-size mode.
	AmountStep apd.Decimal `json:"amount_step"`
}

// MarketLimits bounds the orders a venue accepts for one market.
// Zero decimals mean the venue declares no bound.
type MarketLimits struct {
	MinAmount   apd.Decimal `json:"min_amount"`
	MaxAmount   apd.Decimal `json:"max_amount"`
	MinPrice    apd.Decimal `json:"min_price"`
	MaxPrice    apd.Decimal `json:"max_price"`
	MinCost     apd.Decimal `json:"min_cost"`
	MaxCost     apd.Decimal `json:"max_cost"`
	MaxLeverage int         `json:"max_leverage,omitempty"`
}

// Market is a tradable instrument. It is created once at market-loading time
// and treated as immutable for the lifetime of the session; only an explicit
// reload replaces it.
type Market struct {
	// ID is the venue's native identifier (e.g. "BTC-USDT").
	ID string `json:"id"`
	// Symbol is the canonical "BASE/QUOTE[:SETTLE]" string derived from ID.
	Symbol string `json:"symbol"`
	// Base is the unified base currency code.
	Base string `json:"base"`
	// Quote is the unified quote currency code.
	Quote string `json:"quote"`
	// Settle is the settlement currency of contract markets, empty for spot.
	Settle string `json:"settle,omitempty"`
	// BaseID, QuoteID and SettleID are the venue's native currency codes.
	BaseID   string `json:"base_id"`
	QuoteID  string `json:"quote_id"`
	SettleID string `json:"settle_id,omitempty"`
	// Type is spot, swap or margin.
	Type MarketType `json:"type"`
	// Active reports whether the venue currently allows trading.
	Active bool `json:"active"`
	// Linear is true for contracts settled in the quote currency.
	Linear bool `json:"linear,omitempty"`
	// ContractSize is the base-unit value of one contract, zero for spot.
	ContractSize apd.Decimal `json:"contract_size"`
	// Precision declares the granularity the venue accepts.
	Precision MarketPrecision `json:"precision"`
	// Limits bounds the orders the venue accepts.
	Limits MarketLimits `json:"limits"`
	// Maker and Taker are the fee rates for this market's type.
	Maker apd.Decimal `json:"maker"`
	Taker apd.Decimal `json:"taker"`
	// Info is the raw venue payload this market was parsed from.
	Info json.RawMessage `json:"info,omitempty"`
}

// IsContract reports whether orders on this market are contracts rather than
// spot exchanges of the base asset.
func (m *Market) IsContract() bool {
	return m.Type == MarketTypeSwap
}

// UnifiedSymbol derives the canonical "BASE/QUOTE[:SETTLE]" symbol string.
// The derivation is deterministic: the same inputs always yield the same symbol.
func UnifiedSymbol(base, quote, settle string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('/')
	b.WriteString(quote)
	if settle != "" {
		b.WriteByte(':')
		b.WriteString(settle)
	}
	return b.String()
}

// Currency describes one asset the venue lists, including its transfer networks.
type Currency struct {
	// Code is the unified currency code (e.g. "USDT").
	Code string `json:"code"`
	// ID is the venue's native code.
	ID string `json:"id"`
	// Name is the venue's display name, when reported.
	Name string `json:"name,omitempty"`
	// Precision is the number of decimal places for withdrawal amounts.
	Precision int32 `json:"precision"`
	// Deposit and Withdraw report whether transfers are currently enabled
	// on at least one network.
	Deposit  bool `json:"deposit"`
	Withdraw bool `json:"withdraw"`
	// Networks lists the transfer chains for this currency.
	Networks []CurrencyNetwork `json:"networks,omitempty"`
	// Info is the raw venue payload this currency was parsed from.
	Info json.RawMessage `json:"info,omitempty"`
}

// CurrencyNetwork describes one transfer chain of a currency.
type CurrencyNetwork struct {
	// ID is the venue's chain identifier (e.g. "ERC20").
	ID string `json:"id"`
	// Deposit and Withdraw report whether transfers are enabled on this chain.
	Deposit  bool `json:"deposit"`
	Withdraw bool `json:"withdraw"`
	// WithdrawFee is the flat fee charged for withdrawals on this chain.
	WithdrawFee apd.Decimal `json:"withdraw_fee"`
	// WithdrawMin is the smallest withdrawal the chain accepts.
	WithdrawMin apd.Decimal `json:"withdraw_min"`
	// DepositMin is the smallest deposit the chain credits.
	DepositMin apd.Decimal `json:"deposit_min"`
}
