package vouchers

import (
	"fmt"
	"math"
	"time"

	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/shared"
)

// EntryInput is one debit or credit line of a posting request.
type EntryInput struct {
	LedgerID int64    `json:"ledger_id" validate:"required,gt=0"`
	Side     coa.Side `json:"type" validate:"required,oneof=Dr Cr"`
	Amount   float64  `json:"amount" validate:"required,gt=0"`
}

// PostingInput groups fields required to post a voucher.
type PostingInput struct {
	CompanyID     int64        `json:"company_id" validate:"required,gt=0"`
	FinancialYear int64        `json:"fy_id" validate:"required,gt=0"`
	Type          Type         `json:"voucher_type" validate:"required"`
	Date          time.Time    `json:"date" validate:"required"`
	Narration     string       `json:"narration,omitempty" validate:"omitempty,max=1000"`
	PartyLedgerID *int64       `json:"party_ledger_id,omitempty" validate:"omitempty,gt=0"`
	Entries       []EntryInput `json:"entries" validate:"required,min=2,dive"`
	Items         []Item       `json:"items,omitempty"`
	ActorID       int64        `json:"-"`
}

// Validate enforces the double-entry invariant before any storage access.
func (in PostingInput) Validate() error {
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown voucher type %q", shared.ErrValidation, in.Type)
	}
	if len(in.Entries) < 2 {
		return fmt.Errorf("%w: voucher requires at least two entries", shared.ErrValidation)
	}
	var debit, credit float64
	for idx, e := range in.Entries {
		if e.LedgerID == 0 {
			return fmt.Errorf("%w: entry %d missing ledger", shared.ErrValidation, idx)
		}
		if !e.Side.Valid() {
			return fmt.Errorf("%w: entry %d side must be Dr or Cr", shared.ErrValidation, idx)
		}
		if e.Amount <= 0 {
			return fmt.Errorf("%w: entry %d amount must be positive", shared.ErrValidation, idx)
		}
		if e.Side == coa.SideDr {
			debit += e.Amount
		} else {
			credit += e.Amount
		}
	}
	if math.Abs(debit-credit) > BalanceTolerance {
		return fmt.Errorf("%w: Dr %.2f vs Cr %.2f", shared.ErrUnbalancedVoucher, debit, credit)
	}
	return nil
}

// ListFilter narrows voucher listings.
type ListFilter struct {
	CompanyID     int64
	FinancialYear *int64
	Type          *Type
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// DeriveRequest asks for the GST split of invoice lines without posting.
type DeriveRequest struct {
	Lines      []InvoiceLine `json:"lines" validate:"required,min=1,dive"`
	InterState bool          `json:"inter_state"`
}
