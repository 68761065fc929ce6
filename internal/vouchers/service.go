package vouchers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/insuite-dev/insuite/internal/shared"
)

// AuditPort records posting activity.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheInvalidator drops cached report aggregates after a balance mutation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, companyID int64) error
}

type Service struct {
	repo  Repository
	audit AuditPort
	cache CacheInvalidator
	now   func() time.Time
}

func NewService(repo Repository, audit AuditPort, cache CacheInvalidator) *Service {
	return &Service{repo: repo, audit: audit, cache: cache, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Voucher, error) {
	return s.repo.List(ctx, filter)
}

// ListPage lists vouchers for one page and returns the pagination metadata
// alongside.
func (s *Service) ListPage(ctx context.Context, filter ListFilter, page, perPage int) ([]Voucher, shared.Pagination, error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	p := shared.NewPagination(page, perPage, total)
	filter.Limit = p.PerPage
	filter.Offset = p.Offset()
	vouchers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return vouchers, p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Voucher, error) {
	return s.repo.Get(ctx, id)
}

// Post validates the double-entry invariant, applies every entry to its
// ledger's running balance under normal-balance rules and appends the
// voucher to the journal. The whole effect commits or none of it does.
func (s *Service) Post(ctx context.Context, input PostingInput) (Voucher, error) {
	if err := input.Validate(); err != nil {
		return Voucher{}, err
	}
	debit, credit := totalsFromInput(input.Entries)

	var posted Voucher
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		fy, err := tx.GetFinancialYear(ctx, input.FinancialYear)
		if err != nil {
			return fmt.Errorf("%w: financial year %d", err, input.FinancialYear)
		}
		if fy.IsClosed || fy.IsFrozen {
			return fmt.Errorf("%w: financial year %d is closed", shared.ErrValidation, input.FinancialYear)
		}

		for _, entry := range input.Entries {
			ledger, err := tx.GetLedgerForUpdate(ctx, entry.LedgerID)
			if err != nil {
				return fmt.Errorf("%w: ledger %d", err, entry.LedgerID)
			}
			next := ledger.Balance.Apply(ledger.Nature, entry.Side, entry.Amount)
			if err := tx.UpdateLedgerBalance(ctx, ledger.ID, next); err != nil {
				return err
			}
		}

		number, err := tx.NextVoucherNumber(ctx, input.CompanyID, input.FinancialYear, input.Type)
		if err != nil {
			return err
		}
		inserted, err := tx.InsertVoucher(ctx, Voucher{
			CompanyID:     input.CompanyID,
			FinancialYear: input.FinancialYear,
			Type:          input.Type,
			Number:        number,
			Date:          input.Date,
			Narration:     input.Narration,
			PartyLedgerID: input.PartyLedgerID,
			TotalDebit:    debit,
			TotalCredit:   credit,
		})
		if err != nil {
			return err
		}
		entries := make([]Entry, 0, len(input.Entries))
		for _, e := range input.Entries {
			entries = append(entries, Entry{LedgerID: e.LedgerID, Side: e.Side, Amount: e.Amount})
		}
		if err := tx.InsertEntries(ctx, inserted.ID, entries); err != nil {
			return err
		}
		if len(input.Items) > 0 {
			if err := tx.InsertItems(ctx, inserted.ID, input.Items); err != nil {
				return err
			}
		}
		inserted.Entries = entries
		inserted.Items = input.Items
		posted = inserted
		return nil
	})
	if err != nil {
		return Voucher{}, err
	}

	s.invalidate(ctx, posted.CompanyID)
	s.record(ctx, posted.CompanyID, input.ActorID, "voucher.post", posted.ID, map[string]any{
		"type":   posted.Type,
		"number": posted.Number,
		"debit":  posted.TotalDebit,
		"credit": posted.TotalCredit,
	})
	return posted, nil
}

// Cancel marks the voucher cancelled and applies the inverse deltas so every
// touched ledger returns to its prior position.
func (s *Service) Cancel(ctx context.Context, voucherID, actorID int64) error {
	var companyID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		voucher, err := tx.GetVoucherForUpdate(ctx, voucherID)
		if err != nil {
			return err
		}
		if voucher.IsLocked {
			return fmt.Errorf("%w: voucher %d", shared.ErrLockedVoucher, voucherID)
		}
		if voucher.IsCancelled {
			return fmt.Errorf("%w: voucher %d is already cancelled", shared.ErrValidation, voucherID)
		}
		for _, entry := range voucher.Entries {
			ledger, err := tx.GetLedgerForUpdate(ctx, entry.LedgerID)
			if err != nil {
				return fmt.Errorf("%w: ledger %d", err, entry.LedgerID)
			}
			next := ledger.Balance.Reverse(ledger.Nature, entry.Side, entry.Amount)
			if err := tx.UpdateLedgerBalance(ctx, ledger.ID, next); err != nil {
				return err
			}
		}
		if err := tx.MarkCancelled(ctx, voucherID); err != nil {
			return err
		}
		companyID = voucher.CompanyID
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, companyID)
	s.record(ctx, companyID, actorID, "voucher.cancel", voucherID, nil)
	return nil
}

// Derive computes the GST split for invoice lines without touching storage.
func (s *Service) Derive(lines []InvoiceLine, interState bool) ([]Item, InvoiceTotals) {
	return DeriveItems(lines, interState)
}

func totalsFromInput(entries []EntryInput) (debit, credit float64) {
	converted := make([]Entry, 0, len(entries))
	for _, e := range entries {
		converted = append(converted, Entry{LedgerID: e.LedgerID, Side: e.Side, Amount: e.Amount})
	}
	return Totals(converted)
}

func (s *Service) invalidate(ctx context.Context, companyID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, companyID)
}

func (s *Service) record(ctx context.Context, companyID, actorID int64, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		CompanyID: companyID,
		ActorID:   actorID,
		Action:    action,
		Entity:    "voucher",
		EntityID:  strconv.FormatInt(id, 10),
		Meta:      meta,
		At:        s.now(),
	})
}
