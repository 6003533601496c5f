// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCurrency indicates that the currency is not supported.
	ErrInvalidCurrency = errors.New("currency is not supported")
	// ErrNotAdmin indicates that the actor has no administrator rights.
	ErrNotAdmin = errors.New("admin rights required")
	// ErrNotApproved indicates that the account is not approved to use the ledger.
	ErrNotApproved = errors.New("account is not approved")
	// ErrAlreadyApproved indicates that an approved account asked for access again.
	ErrAlreadyApproved = errors.New("account is already approved")
)

// Default preferences assigned to new accounts and restored by data erasure.
const (
	DefaultCalculationClass = TenPercent
	DefaultCurrency         = "ILS"
)

// Profile holds informational data about the person behind an identity.
type Profile struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Account holds a registered identity with its preferences and authorization flags.
type Account struct {
	ID               int64            `json:"id"`
	Identity         string           `json:"identity"`
	Profile          Profile          `json:"profile"`
	CalculationClass CalculationClass `json:"calculation_class"`
	Currency         string           `json:"currency"`
	IsApproved       bool             `json:"is_approved"`
	IsAdmin          bool             `json:"is_admin"`
	CreatedAt        time.Time        `json:"created_at"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	Identity   string
	Profile    Profile
	IsApproved bool
	IsAdmin    bool
}

// UpdatePreferencesParams holds the preferences to change. Nil fields are left untouched.
type UpdatePreferencesParams struct {
	CalculationClass *CalculationClass `json:"calculation_class"`
	Currency         *string           `json:"currency"`
}

// ListAccountsParams filters the account list. A nil Approved lists every account.
type ListAccountsParams struct {
	Approved *bool
}
