package company

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeriveFinancialYearAprilStart(t *testing.T) {
	label, start, end := DeriveFinancialYear(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "2025-26", label)
	require.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestDeriveFinancialYearBeforeAprilFallsBack(t *testing.T) {
	label, start, end := DeriveFinancialYear(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "2024-25", label)
	require.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestDeriveFinancialYearMidYear(t *testing.T) {
	label, _, _ := DeriveFinancialYear(time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "2025-26", label)
}

func TestDeriveFinancialYearMarchEdge(t *testing.T) {
	label, _, end := DeriveFinancialYear(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "2025-26", label)
	require.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestDeriveFinancialYearCenturyLabel(t *testing.T) {
	label, _, _ := DeriveFinancialYear(time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "2099-00", label)
}
