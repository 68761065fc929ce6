package company

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/shared"
)

// AuditPort records lifecycle events.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	repo  Repository
	audit AuditPort
	now   func() time.Time
}

func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) List(ctx context.Context) ([]Company, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Company, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts the company, derives its first financial year from the
// books-beginning date and seeds the default groups, units and bootstrap
// ledgers. Everything happens in one transaction.
func (s *Service) Create(ctx context.Context, in CreateCompanyRequest) (Company, error) {
	if in.Name == "" {
		return Company{}, fmt.Errorf("%w: company name required", shared.ErrValidation)
	}
	var created Company
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		company, err := tx.InsertCompany(ctx, Company{
			Name:               in.Name,
			Address:            in.Address,
			State:              in.State,
			GSTIN:              in.GSTIN,
			PAN:                in.PAN,
			Email:              in.Email,
			Phone:              in.Phone,
			BooksBeginningDate: in.BooksBeginningDate,
		})
		if err != nil {
			return err
		}

		label, start, end := DeriveFinancialYear(in.BooksBeginningDate)
		if _, err := tx.InsertFinancialYear(ctx, FinancialYear{
			CompanyID: company.ID,
			Label:     label,
			StartDate: start,
			EndDate:   end,
		}); err != nil {
			return err
		}

		if err := s.seedDefaults(ctx, tx, company.ID); err != nil {
			return err
		}

		created = company
		return nil
	})
	if err != nil {
		return Company{}, err
	}
	s.record(ctx, created.ID, "company.create", created.ID, map[string]any{"name": created.Name})
	return created, nil
}

// seedDefaults inserts the fixed ledger groups, stock groups and units, then
// the bootstrap ledgers. Bootstrap groups are resolved by name against the
// rows just inserted; an absent name skips the ledger silently.
func (s *Service) seedDefaults(ctx context.Context, tx TxRepository, companyID int64) error {
	groupIDs := make(map[string]int64, len(defaultLedgerGroups))
	for i, g := range defaultLedgerGroups {
		var parentID *int64
		if g.Parent != "" {
			if id, ok := groupIDs[strings.ToLower(g.Parent)]; ok {
				parentID = &id
			}
		}
		inserted, err := tx.InsertLedgerGroup(ctx, coa.LedgerGroup{
			CompanyID:          companyID,
			Name:               g.Name,
			ParentID:           parentID,
			Nature:             g.Nature,
			IsDefault:          true,
			AffectsGrossProfit: g.AffectsGrossProfit,
			SortOrder:          i + 1,
		})
		if err != nil {
			return err
		}
		groupIDs[strings.ToLower(g.Name)] = inserted.ID
	}

	stockGroupIDs := make(map[string]int64, len(defaultStockGroups))
	for _, sg := range defaultStockGroups {
		var parentID *int64
		if sg.Parent != "" {
			if id, ok := stockGroupIDs[strings.ToLower(sg.Parent)]; ok {
				parentID = &id
			}
		}
		id, err := tx.InsertStockGroup(ctx, companyID, sg.Name, parentID, true)
		if err != nil {
			return err
		}
		stockGroupIDs[strings.ToLower(sg.Name)] = id
	}

	for _, u := range defaultUnits {
		if _, err := tx.InsertUnit(ctx, companyID, u.Name, u.Symbol, u.DecimalPlaces, true); err != nil {
			return err
		}
	}

	for _, bl := range bootstrapLedgers {
		groupID, ok := groupIDs[strings.ToLower(bl.Group)]
		if !ok {
			continue
		}
		nature := coa.NatureAssets
		for _, g := range defaultLedgerGroups {
			if g.Name == bl.Group {
				nature = g.Nature
				break
			}
		}
		if _, err := tx.InsertLedger(ctx, coa.Ledger{
			CompanyID:          companyID,
			Name:               bl.Name,
			GroupID:            groupID,
			BalanceType:        nature.NormalSide(),
			CurrentBalanceType: nature.NormalSide(),
			IsActive:           true,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateCompanyRequest) (Company, error) {
	company, err := s.repo.Get(ctx, id)
	if err != nil {
		return Company{}, err
	}
	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&company.Name, in.Name)
	applyString(&company.Address, in.Address)
	applyString(&company.State, in.State)
	applyString(&company.GSTIN, in.GSTIN)
	applyString(&company.PAN, in.PAN)
	applyString(&company.Email, in.Email)
	applyString(&company.Phone, in.Phone)
	if company.Name == "" {
		return Company{}, fmt.Errorf("%w: company name required", shared.ErrValidation)
	}
	if err := s.repo.Update(ctx, company); err != nil {
		return Company{}, err
	}
	s.record(ctx, company.ID, "company.update", company.ID, nil)
	return company, nil
}

// Delete removes the company and every dependent record atomically.
func (s *Service) Delete(ctx context.Context, id int64) error {
	company, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteCompanyData(ctx, id)
	})
	if err != nil {
		return err
	}
	// Audit is recorded without a company scope; the tenant rows are gone.
	s.record(ctx, 0, "company.delete", id, map[string]any{"name": company.Name})
	return nil
}

func (s *Service) ListFinancialYears(ctx context.Context, companyID int64) ([]FinancialYear, error) {
	return s.repo.ListFinancialYears(ctx, companyID)
}

// CreateFinancialYear adds a follow-on year derived from its start date.
func (s *Service) CreateFinancialYear(ctx context.Context, in CreateFinancialYearRequest) (FinancialYear, error) {
	if _, err := s.repo.Get(ctx, in.CompanyID); err != nil {
		return FinancialYear{}, err
	}
	existing, err := s.repo.ListFinancialYears(ctx, in.CompanyID)
	if err != nil {
		return FinancialYear{}, err
	}
	label, start, end := DeriveFinancialYear(in.StartDate)
	for _, fy := range existing {
		if fy.Label == label {
			return FinancialYear{}, fmt.Errorf("%w: financial year %s already exists", shared.ErrValidation, label)
		}
	}
	var created FinancialYear
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		fy, err := tx.InsertFinancialYear(ctx, FinancialYear{
			CompanyID: in.CompanyID,
			Label:     label,
			StartDate: start,
			EndDate:   end,
		})
		if err != nil {
			return err
		}
		created = fy
		return nil
	})
	if err != nil {
		return FinancialYear{}, err
	}
	s.record(ctx, in.CompanyID, "company.fy.create", created.ID, map[string]any{"label": label})
	return created, nil
}

// CloseFinancialYear marks the year closed; the posting engine rejects
// vouchers against closed years.
func (s *Service) CloseFinancialYear(ctx context.Context, fyID int64) (FinancialYear, error) {
	fy, err := s.repo.GetFinancialYear(ctx, fyID)
	if err != nil {
		return FinancialYear{}, err
	}
	if fy.IsClosed {
		return FinancialYear{}, fmt.Errorf("%w: financial year already closed", shared.ErrValidation)
	}
	fy.IsClosed = true
	if err := s.repo.UpdateFinancialYear(ctx, fy); err != nil {
		return FinancialYear{}, err
	}
	s.record(ctx, fy.CompanyID, "company.fy.close", fy.ID, map[string]any{"label": fy.Label})
	return fy, nil
}

func (s *Service) record(ctx context.Context, companyID int64, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		CompanyID: companyID,
		Action:    action,
		Entity:    "company",
		EntityID:  strconv.FormatInt(id, 10),
		Meta:      meta,
		At:        s.now(),
	})
}
