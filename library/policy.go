package library

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds the circulation rules that are not stored per membership type.
type Policy struct {
	// ReservationHoldDays is how long a pending reservation stays valid.
	ReservationHoldDays int
	// MaxRenewals applies to resources whose type allows no fewer renewals
	// than this; a resource type's own max_renewals wins when it is lower.
	MaxRenewals int
}

func DefaultPolicy() Policy {
	return Policy{ReservationHoldDays: 7, MaxRenewals: DefaultMaxRenewals}
}

func (p Policy) renewalLimit(rt *ResourceType) int {
	if rt != nil && rt.MaxRenewals < p.MaxRenewals {
		return rt.MaxRenewals
	}
	return p.MaxRenewals
}

// FineFor returns daysOverdue * perDay rounded to cents. Non-positive days
// cost nothing.
func FineFor(daysOverdue int, perDay float64) float64 {
	if daysOverdue <= 0 {
		return 0
	}
	return decimal.NewFromFloat(perDay).
		Mul(decimal.NewFromInt(int64(daysOverdue))).
		Round(2).
		InexactFloat64()
}

// addMoney sums two amounts at cent precision.
func addMoney(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// DaysOverdue returns how many whole days returned is past due, never negative.
func DaysOverdue(due, returned string) (int, error) {
	d, err := time.Parse(DateLayout, due)
	if err != nil {
		return 0, fmt.Errorf("parse due date %q: %w", due, err)
	}
	r, err := time.Parse(DateLayout, returned)
	if err != nil {
		return 0, fmt.Errorf("parse return date %q: %w", returned, err)
	}
	days := int(r.Sub(d).Hours() / 24)
	if days < 0 {
		return 0, nil
	}
	return days, nil
}

func addDays(date string, n int) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}
