package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFineFor(t *testing.T) {
	tests := []struct {
		days   int
		perDay float64
		want   float64
	}{
		{0, 5, 0},
		{-3, 5, 0},
		{1, 5, 5},
		{3, 0.1, 0.3},
		{7, 1.15, 8.05},
		{30, 2.333, 69.99},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FineFor(tt.days, tt.perDay), "%d days at %.3f", tt.days, tt.perDay)
	}
}

func TestDaysOverdue(t *testing.T) {
	days, err := DaysOverdue("2026-02-15", "2026-02-18")
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	days, err = DaysOverdue("2026-02-15", "2026-02-10")
	require.NoError(t, err)
	assert.Zero(t, days)

	days, err = DaysOverdue("2026-02-27", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	_, err = DaysOverdue("", "2026-02-10")
	assert.Error(t, err)
}

func TestRenewalLimit(t *testing.T) {
	p := Policy{MaxRenewals: 3}
	assert.Equal(t, 3, p.renewalLimit(nil))
	assert.Equal(t, 1, p.renewalLimit(&ResourceType{MaxRenewals: 1}))
	assert.Equal(t, 3, p.renewalLimit(&ResourceType{MaxRenewals: 5}))
}

func TestAddMoneyKeepsCents(t *testing.T) {
	assert.Equal(t, 0.3, addMoney(0.1, 0.2))
	assert.Equal(t, -15.0, addMoney(0, -15))
}
