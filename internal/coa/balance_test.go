package coa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNatureNormalSide(t *testing.T) {
	require.Equal(t, SideDr, NatureAssets.NormalSide())
	require.Equal(t, SideDr, NatureExpense.NormalSide())
	require.Equal(t, SideCr, NatureLiabilities.NormalSide())
	require.Equal(t, SideCr, NatureIncome.NormalSide())
	require.Equal(t, SideCr, NatureEquity.NormalSide())
}

func TestBalanceApplyIncrease(t *testing.T) {
	b := Balance{Magnitude: 100, Side: SideDr}
	next := b.Apply(NatureAssets, SideDr, 50)
	require.Equal(t, Balance{Magnitude: 150, Side: SideDr}, next)
}

func TestBalanceApplyDecrease(t *testing.T) {
	b := Balance{Magnitude: 100, Side: SideDr}
	next := b.Apply(NatureAssets, SideCr, 40)
	require.Equal(t, Balance{Magnitude: 60, Side: SideDr}, next)
}

func TestBalanceApplyCrossesZeroFlipsSide(t *testing.T) {
	b := Balance{Magnitude: 100, Side: SideDr}
	next := b.Apply(NatureAssets, SideCr, 130)
	require.Equal(t, Balance{Magnitude: 30, Side: SideCr}, next)
}

func TestBalanceApplyZeroTakesNormalSide(t *testing.T) {
	b := Balance{Magnitude: 75, Side: SideCr}
	next := b.Apply(NatureIncome, SideDr, 75)
	require.Equal(t, Balance{Magnitude: 0, Side: SideCr}, next)

	next = Balance{Magnitude: 75, Side: SideDr}.Apply(NatureAssets, SideCr, 75)
	require.Equal(t, Balance{Magnitude: 0, Side: SideDr}, next)
}

func TestBalanceReverseRoundTrips(t *testing.T) {
	cases := []struct {
		name   string
		start  Balance
		nature Nature
		side   Side
		amount float64
	}{
		{"asset debit", Balance{Magnitude: 500, Side: SideDr}, NatureAssets, SideDr, 120},
		{"asset credit past zero", Balance{Magnitude: 50, Side: SideDr}, NatureAssets, SideCr, 80},
		{"income credit", Balance{Magnitude: 200, Side: SideCr}, NatureIncome, SideCr, 300},
		{"zero start", Balance{Magnitude: 0, Side: SideCr}, NatureLiabilities, SideDr, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			applied := tc.start.Apply(tc.nature, tc.side, tc.amount)
			restored := applied.Reverse(tc.nature, tc.side, tc.amount)
			// Magnitude and signed value come back exactly; a zero magnitude
			// settles on the nature's normal side.
			require.InDelta(t, tc.start.Signed(), restored.Signed(), 1e-9)
			if tc.start.Magnitude != 0 {
				require.Equal(t, tc.start, restored)
			}
		})
	}
}

func TestBalanceSigned(t *testing.T) {
	require.InDelta(t, 120.0, Balance{Magnitude: 120, Side: SideDr}.Signed(), 1e-9)
	require.InDelta(t, -120.0, Balance{Magnitude: 120, Side: SideCr}.Signed(), 1e-9)
}
