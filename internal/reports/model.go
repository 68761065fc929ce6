package reports

import (
	"time"

	"github.com/insuite-dev/insuite/internal/coa"
)

// TrialBalanceRow is one ledger's running balance with its group context.
type TrialBalanceRow struct {
	GroupID    int64      `json:"group_id"`
	GroupName  string     `json:"group_name"`
	Nature     coa.Nature `json:"nature"`
	LedgerID   int64      `json:"ledger_id"`
	LedgerName string     `json:"ledger_name"`
	Amount     float64    `json:"amount"`
	Side       coa.Side   `json:"side"`
}

// TrialBalance lists every active ledger's balance. For consistent books the
// debit and credit totals agree.
type TrialBalance struct {
	CompanyID   int64             `json:"company_id"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  float64           `json:"total_debit"`
	TotalCredit float64           `json:"total_credit"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// DayBookLine is one voucher entry joined with its ledger name.
type DayBookLine struct {
	LedgerID   int64    `json:"ledger_id"`
	LedgerName string   `json:"ledger_name"`
	Side       coa.Side `json:"type"`
	Amount     float64  `json:"amount"`
}

// DayBookVoucher summarises one voucher for the day listing.
type DayBookVoucher struct {
	ID          int64         `json:"id"`
	Type        string        `json:"voucher_type"`
	Number      int64         `json:"voucher_number"`
	Narration   string        `json:"narration,omitempty"`
	TotalDebit  float64       `json:"total_debit"`
	TotalCredit float64       `json:"total_credit"`
	IsCancelled bool          `json:"is_cancelled"`
	Lines       []DayBookLine `json:"lines"`
}

// DayBook lists the vouchers posted on one date.
type DayBook struct {
	CompanyID   int64            `json:"company_id"`
	Date        time.Time        `json:"date"`
	Vouchers    []DayBookVoucher `json:"vouchers"`
	GeneratedAt time.Time        `json:"generated_at"`
}
