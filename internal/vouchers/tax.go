package vouchers

import "math"

// InvoiceLine is the pre-tax input for one stock line of a sales or
// purchase voucher.
type InvoiceLine struct {
	StockItemID     int64   `json:"stock_item_id" validate:"required,gt=0"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	Rate            float64 `json:"rate" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	GSTRate         float64 `json:"gst_rate" validate:"gte=0,lte=100"`
}

// InvoiceTotals aggregates the derived figures of an invoice. RoundOff is
// the adjustment that brings GrandTotal to a whole currency unit; it gets
// its own voucher entry so the ledger balances to the rounded figure.
type InvoiceTotals struct {
	TaxableValue float64 `json:"taxable_value"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	IGST         float64 `json:"igst"`
	RoundOff     float64 `json:"round_off"`
	GrandTotal   float64 `json:"grand_total"`
}

// DeriveItems computes the tax split for each invoice line. Intra-state tax
// splits evenly into CGST and SGST; inter-state tax goes entirely to IGST.
func DeriveItems(lines []InvoiceLine, interState bool) ([]Item, InvoiceTotals) {
	items := make([]Item, 0, len(lines))
	var totals InvoiceTotals
	for _, line := range lines {
		taxable := line.Quantity * line.Rate * (1 - line.DiscountPercent/100)
		tax := taxable * line.GSTRate / 100
		item := Item{
			StockItemID:     line.StockItemID,
			Quantity:        line.Quantity,
			Rate:            line.Rate,
			DiscountPercent: line.DiscountPercent,
			GSTRate:         line.GSTRate,
			TaxableValue:    taxable,
			Total:           taxable + tax,
		}
		if interState {
			item.IGST = tax
		} else {
			item.CGST = tax / 2
			item.SGST = tax / 2
		}
		items = append(items, item)
		totals.TaxableValue += taxable
		totals.CGST += item.CGST
		totals.SGST += item.SGST
		totals.IGST += item.IGST
	}
	raw := totals.TaxableValue + totals.CGST + totals.SGST + totals.IGST
	totals.GrandTotal = math.Round(raw)
	totals.RoundOff = totals.GrandTotal - raw
	return items, totals
}
