package vouchers

import (
	"time"

	"github.com/insuite-dev/insuite/internal/coa"
)

// Type enumerates voucher kinds.
type Type string

const (
	TypeSales      Type = "sales"
	TypePurchase   Type = "purchase"
	TypePayment    Type = "payment"
	TypeReceipt    Type = "receipt"
	TypeContra     Type = "contra"
	TypeJournal    Type = "journal"
	TypeDebitNote  Type = "debit_note"
	TypeCreditNote Type = "credit_note"
)

// Valid reports whether the voucher type is known.
func (t Type) Valid() bool {
	switch t {
	case TypeSales, TypePurchase, TypePayment, TypeReceipt, TypeContra, TypeJournal, TypeDebitNote, TypeCreditNote:
		return true
	}
	return false
}

// BalanceTolerance is the maximum permitted |ΣDr - ΣCr| for a voucher.
const BalanceTolerance = 0.01

// Voucher is one atomic accounting transaction.
type Voucher struct {
	ID            int64     `json:"id"`
	CompanyID     int64     `json:"company_id"`
	FinancialYear int64     `json:"fy_id"`
	Type          Type      `json:"voucher_type"`
	Number        int64     `json:"voucher_number"`
	Date          time.Time `json:"date"`
	Narration     string    `json:"narration,omitempty"`
	PartyLedgerID *int64    `json:"party_ledger_id,omitempty"`
	Entries       []Entry   `json:"entries"`
	Items         []Item    `json:"items,omitempty"`
	TotalDebit    float64   `json:"total_debit"`
	TotalCredit   float64   `json:"total_credit"`
	IsLocked      bool      `json:"is_locked"`
	IsCancelled   bool      `json:"is_cancelled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Entry is a single debit or credit against a ledger.
type Entry struct {
	ID       int64    `json:"id"`
	LedgerID int64    `json:"ledger_id"`
	Side     coa.Side `json:"type"`
	Amount   float64  `json:"amount"`
}

// Item is a stock line carried by sales/purchase vouchers. The tax split is
// derived before posting; the entries must already account for it.
type Item struct {
	ID              int64   `json:"id"`
	StockItemID     int64   `json:"stock_item_id"`
	Quantity        float64 `json:"quantity"`
	Rate            float64 `json:"rate"`
	DiscountPercent float64 `json:"discount_percent"`
	GSTRate         float64 `json:"gst_rate"`
	TaxableValue    float64 `json:"taxable_value"`
	CGST            float64 `json:"cgst"`
	SGST            float64 `json:"sgst"`
	IGST            float64 `json:"igst"`
	Total           float64 `json:"total"`
}

// Totals recomputes the voucher's debit and credit sums from its entries.
func Totals(entries []Entry) (debit, credit float64) {
	for _, e := range entries {
		if e.Side == coa.SideDr {
			debit += e.Amount
		} else {
			credit += e.Amount
		}
	}
	return debit, credit
}
