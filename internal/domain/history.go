package domain

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidPage indicates a page number or page size out of range.
var ErrInvalidPage = errors.New("invalid page")

// MaxHistoryPageSize is the largest history page a caller may request.
const MaxHistoryPageSize = 100

// EntryKind tags a history entry with the ledger it comes from.
type EntryKind string

// History entry kinds.
const (
	KindIncome  EntryKind = "income"
	KindPayment EntryKind = "payment"
)

// HistoryEntry is one row of the merged income and payment history.
type HistoryEntry struct {
	Kind             EntryKind        `json:"kind"`
	ID               int64            `json:"id"`
	Amount           decimal.Decimal  `json:"amount"`
	CalculationClass CalculationClass `json:"calculation_class,omitempty"`
	Obligation       *decimal.Decimal `json:"obligation,omitempty"`
	Description      string           `json:"description,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// History is one page of the merged history of an account.
type History struct {
	Entries      []HistoryEntry `json:"entries"`
	Page         int32          `json:"page"`
	PageSize     int32          `json:"page_size"`
	TotalEntries int64          `json:"total_entries"`
	TotalPages   int64          `json:"total_pages"`
}

// IncomeHistoryEntry converts an income into a history entry.
func IncomeHistoryEntry(in IncomeEntry) HistoryEntry {
	obligation := in.Obligation()

	return HistoryEntry{
		Kind:             KindIncome,
		ID:               in.ID,
		Amount:           in.Amount,
		CalculationClass: in.CalculationClass,
		Obligation:       &obligation,
		Description:      in.Description,
		CreatedAt:        in.CreatedAt,
	}
}

// PaymentHistoryEntry converts a payment into a history entry.
func PaymentHistoryEntry(p PaymentEntry) HistoryEntry {
	return HistoryEntry{
		Kind:      KindPayment,
		ID:        p.ID,
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
	}
}

// MergeHistory merges incomes and payments newest first.
//
// Ties on created_at are broken by kind, income first, and then by id descending,
// so the order is stable across calls.
func MergeHistory(incomes []IncomeEntry, payments []PaymentEntry) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(incomes)+len(payments))

	for _, in := range incomes {
		entries = append(entries, IncomeHistoryEntry(in))
	}

	for _, p := range payments {
		entries = append(entries, PaymentHistoryEntry(p))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]

		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}

		if a.Kind != b.Kind {
			return a.Kind == KindIncome
		}

		return a.ID > b.ID
	})

	return entries
}

// NewHistory builds the requested page out of the newest page*pageSize entries of each kind.
func NewHistory(incomes []IncomeEntry, payments []PaymentEntry, total int64, page, pageSize int32) History {
	merged := MergeHistory(incomes, payments)

	start := int((page - 1) * pageSize)
	end := start + int(pageSize)

	if start > len(merged) {
		start = len(merged)
	}

	if end > len(merged) {
		end = len(merged)
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}

	return History{
		Entries:      merged[start:end],
		Page:         page,
		PageSize:     pageSize,
		TotalEntries: total,
		TotalPages:   totalPages,
	}
}
