package domain

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalidCalculationClass indicates an unknown calculation class.
var ErrInvalidCalculationClass = errors.New("invalid calculation class")

// CalculationClass selects the share of income owed as obligation.
type CalculationClass string

// Supported calculation classes.
const (
	TenPercent    CalculationClass = "MAASER"
	TwentyPercent CalculationClass = "CHOMESH"
)

var (
	tenPercentRate    = decimal.New(10, -2)
	twentyPercentRate = decimal.New(20, -2)
)

// Valid reports whether c is a known calculation class.
func (c CalculationClass) Valid() bool {
	return c == TenPercent || c == TwentyPercent
}

// Rate returns the exact obligation rate of the class.
//
// Unknown classes have a zero rate.
func (c CalculationClass) Rate() decimal.Decimal {
	switch c {
	case TenPercent:
		return tenPercentRate
	case TwentyPercent:
		return twentyPercentRate
	}

	return decimal.Zero
}

// ValidCalculationClass validates whether the field holds a known calculation class.
var ValidCalculationClass validator.Func = func(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case string:
		return CalculationClass(v).Valid()
	case CalculationClass:
		return v.Valid()
	}

	return false
}
