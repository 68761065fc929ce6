package vouchers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveItemsIntraState(t *testing.T) {
	lines := []InvoiceLine{
		{StockItemID: 1, Quantity: 10, Rate: 100, DiscountPercent: 10, GSTRate: 18},
	}

	items, totals := DeriveItems(lines, false)
	require.Len(t, items, 1)

	require.InDelta(t, 900.0, items[0].TaxableValue, 1e-9)
	require.InDelta(t, 81.0, items[0].CGST, 1e-9)
	require.InDelta(t, 81.0, items[0].SGST, 1e-9)
	require.Zero(t, items[0].IGST)
	require.InDelta(t, 1062.0, items[0].Total, 1e-9)

	require.InDelta(t, 1062.0, totals.GrandTotal, 1e-9)
	require.InDelta(t, 0.0, totals.RoundOff, 1e-9)
}

func TestDeriveItemsInterState(t *testing.T) {
	lines := []InvoiceLine{
		{StockItemID: 1, Quantity: 2, Rate: 500, GSTRate: 12},
	}

	items, totals := DeriveItems(lines, true)
	require.Len(t, items, 1)

	require.InDelta(t, 1000.0, items[0].TaxableValue, 1e-9)
	require.Zero(t, items[0].CGST)
	require.Zero(t, items[0].SGST)
	require.InDelta(t, 120.0, items[0].IGST, 1e-9)
	require.InDelta(t, 120.0, totals.IGST, 1e-9)
}

func TestDeriveItemsRoundOff(t *testing.T) {
	lines := []InvoiceLine{
		{StockItemID: 1, Quantity: 3, Rate: 33.33, GSTRate: 18},
	}

	_, totals := DeriveItems(lines, false)

	raw := totals.TaxableValue + totals.CGST + totals.SGST + totals.IGST
	require.InDelta(t, 117.9882, raw, 1e-6)
	require.InDelta(t, 118.0, totals.GrandTotal, 1e-9)
	require.InDelta(t, totals.GrandTotal-raw, totals.RoundOff, 1e-9)
}

func TestDeriveItemsMultipleLines(t *testing.T) {
	lines := []InvoiceLine{
		{StockItemID: 1, Quantity: 1, Rate: 100, GSTRate: 18},
		{StockItemID: 2, Quantity: 2, Rate: 50, DiscountPercent: 50, GSTRate: 5},
	}

	items, totals := DeriveItems(lines, false)
	require.Len(t, items, 2)
	require.InDelta(t, 150.0, totals.TaxableValue, 1e-9)
	// 18% of 100 split evenly plus 5% of 50 split evenly.
	require.InDelta(t, 9.0+1.25, totals.CGST, 1e-9)
	require.Equal(t, totals.CGST, totals.SGST)
}
