package model

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var (
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
	countryRe  = regexp.MustCompile(`^[A-Z]{2}$`)
)

// ValidCurrencyCode reports whether code matches the ISO 4217 alpha-3
// format. The currency registry itself is not consulted.
func ValidCurrencyCode(code string) bool {
	return currencyRe.MatchString(code)
}

// ValidCountryCode reports whether code matches the ISO 3166-1 alpha-2
// format. The country registry itself is not consulted.
func ValidCountryCode(code string) bool {
	return countryRe.MatchString(code)
}

// DecimalText renders a decimal preserving its scale: a value parsed
// from "235.6200" prints as "235.6200", not "235.62".
func DecimalText(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

// Money is an amount of money in a specific currency. The decimal amount
// keeps its exponent, so "100.00" and "100" are distinct values on the wire.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney creates a Money value, validating the currency code format.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if !ValidCurrencyCode(currency) {
		return Money{}, NewModelError("currency", fmt.Sprintf("invalid ISO 4217 currency code: %q", currency))
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// MoneyFromString parses the decimal amount from its string form,
// preserving the number of decimal places.
func MoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, NewModelError("amount", fmt.Sprintf("invalid decimal amount: %q", amount))
	}
	return NewMoney(d, currency)
}

// MustMoney is MoneyFromString for statically known values; it panics on
// invalid input.
func MustMoney(amount, currency string) Money {
	m, err := MoneyFromString(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Equal reports value equality including the decimal exponent:
// Money("100.00", EUR) is not equal to Money("100", EUR).
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency &&
		m.Amount.Equal(other.Amount) &&
		m.Amount.Exponent() == other.Amount.Exponent()
}

// Text is the wire form of the amount, scale preserved, no currency.
func (m Money) Text() string {
	return DecimalText(m.Amount)
}

func (m Money) String() string {
	return DecimalText(m.Amount) + " " + m.Currency
}

// Quantity is a decimal amount with a UNECE Rec 20/21 unit code. Basis
// quantities may leave the unit empty.
type Quantity struct {
	Amount decimal.Decimal
	Unit   UnitCode
}

func (q Quantity) String() string {
	if q.Unit == "" {
		return DecimalText(q.Amount)
	}
	return DecimalText(q.Amount) + " " + string(q.Unit)
}

// Identifier is an identifier with an optional ISO/IEC 6523 scheme code.
// Global identifiers carry a mandatory scheme.
type Identifier struct {
	Value  string
	Scheme IdentifierSchemeCode
}

// Period is a date range with inclusive endpoints.
type Period struct {
	Start time.Time
	End   time.Time
}

// Validate checks that the period is ordered.
func (p Period) Validate() error {
	if p.Start.After(p.End) {
		return NewModelError("billing period", "start date must not be after end date")
	}
	return nil
}

// Date constructs a UTC calendar date, the only date precision used by the
// invoice model and the wire format.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
