package coa

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/insuite-dev/insuite/internal/shared"
)

// AuditPort records administrative mutations.
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

func (s *Service) ListGroups(ctx context.Context, companyID int64) ([]LedgerGroup, error) {
	return s.repo.ListGroups(ctx, companyID)
}

// GroupTree returns the company's groups as a hierarchy.
func (s *Service) GroupTree(ctx context.Context, companyID int64) ([]*GroupNode, error) {
	groups, err := s.repo.ListGroups(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return BuildTree(groups), nil
}

func (s *Service) GetGroup(ctx context.Context, id int64) (LedgerGroup, error) {
	return s.repo.GetGroup(ctx, id)
}

func (s *Service) CreateGroup(ctx context.Context, in CreateGroupRequest) (LedgerGroup, error) {
	if !in.Nature.Valid() {
		return LedgerGroup{}, fmt.Errorf("%w: unknown nature %q", shared.ErrValidation, in.Nature)
	}
	if in.ParentID != nil {
		if _, err := s.repo.GetGroup(ctx, *in.ParentID); err != nil {
			return LedgerGroup{}, fmt.Errorf("%w: parent group %d", err, *in.ParentID)
		}
	}
	dup, err := s.repo.GroupNameExists(ctx, in.CompanyID, in.ParentID, in.Name, 0)
	if err != nil {
		return LedgerGroup{}, err
	}
	if dup {
		return LedgerGroup{}, fmt.Errorf("%w: group %q already exists under the same parent", shared.ErrValidation, in.Name)
	}
	group, err := s.repo.InsertGroup(ctx, LedgerGroup{
		CompanyID:          in.CompanyID,
		Name:               in.Name,
		ParentID:           in.ParentID,
		Nature:             in.Nature,
		AffectsGrossProfit: in.AffectsGrossProfit,
		SortOrder:          in.SortOrder,
	})
	if err != nil {
		return LedgerGroup{}, err
	}
	s.record(ctx, group.CompanyID, "coa.group.create", "ledger_group", group.ID, map[string]any{"name": group.Name})
	return group, nil
}

func (s *Service) UpdateGroup(ctx context.Context, id int64, in UpdateGroupRequest) (LedgerGroup, error) {
	group, err := s.repo.GetGroup(ctx, id)
	if err != nil {
		return LedgerGroup{}, err
	}
	if group.IsDefault {
		return LedgerGroup{}, fmt.Errorf("%w: default group cannot be modified", shared.ErrConflict)
	}
	if in.Name != nil && *in.Name != group.Name {
		dup, err := s.repo.GroupNameExists(ctx, group.CompanyID, group.ParentID, *in.Name, group.ID)
		if err != nil {
			return LedgerGroup{}, err
		}
		if dup {
			return LedgerGroup{}, fmt.Errorf("%w: group %q already exists under the same parent", shared.ErrValidation, *in.Name)
		}
		group.Name = *in.Name
	}
	if in.ParentID != nil {
		if *in.ParentID == group.ID {
			return LedgerGroup{}, fmt.Errorf("%w: group cannot be its own parent", shared.ErrValidation)
		}
		if err := s.checkGroupCycle(ctx, group.ID, *in.ParentID); err != nil {
			return LedgerGroup{}, err
		}
		group.ParentID = in.ParentID
	}
	if in.Nature != nil {
		if !in.Nature.Valid() {
			return LedgerGroup{}, fmt.Errorf("%w: unknown nature %q", shared.ErrValidation, *in.Nature)
		}
		group.Nature = *in.Nature
	}
	if in.AffectsGrossProfit != nil {
		group.AffectsGrossProfit = *in.AffectsGrossProfit
	}
	if in.SortOrder != nil {
		group.SortOrder = *in.SortOrder
	}
	if err := s.repo.UpdateGroup(ctx, group); err != nil {
		return LedgerGroup{}, err
	}
	s.record(ctx, group.CompanyID, "coa.group.update", "ledger_group", group.ID, nil)
	return group, nil
}

// checkGroupCycle walks the proposed parent's ancestor chain. Finding the
// group itself means the move would put the group under its own descendant.
func (s *Service) checkGroupCycle(ctx context.Context, groupID, parentID int64) error {
	seen := make(map[int64]bool)
	cur := parentID
	for {
		if seen[cur] {
			return nil
		}
		seen[cur] = true
		ancestor, err := s.repo.GetGroup(ctx, cur)
		if err != nil {
			return fmt.Errorf("%w: parent group %d", err, parentID)
		}
		if ancestor.ParentID == nil {
			return nil
		}
		if *ancestor.ParentID == groupID {
			return fmt.Errorf("%w: group cannot be moved under its own descendant", shared.ErrValidation)
		}
		cur = *ancestor.ParentID
	}
}

// DeleteGroup removes a group. Guards are checked children first, then
// referencing ledgers, then the default flag, so the error names the exact
// blocker.
func (s *Service) DeleteGroup(ctx context.Context, id int64) error {
	group, err := s.repo.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	children, err := s.repo.CountChildGroups(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: group has %d child groups", shared.ErrConflict, children)
	}
	ledgers, err := s.repo.CountGroupLedgers(ctx, id)
	if err != nil {
		return err
	}
	if ledgers > 0 {
		return fmt.Errorf("%w: group has %d ledgers", shared.ErrConflict, ledgers)
	}
	if group.IsDefault {
		return fmt.Errorf("%w: default group cannot be deleted", shared.ErrConflict)
	}
	if err := s.repo.DeleteGroup(ctx, id); err != nil {
		return err
	}
	s.record(ctx, group.CompanyID, "coa.group.delete", "ledger_group", id, map[string]any{"name": group.Name})
	return nil
}

func (s *Service) ListLedgers(ctx context.Context, filter ListLedgersFilter) ([]Ledger, error) {
	return s.repo.ListLedgers(ctx, filter)
}

func (s *Service) GetLedger(ctx context.Context, id int64) (Ledger, error) {
	return s.repo.GetLedger(ctx, id)
}

func (s *Service) CreateLedger(ctx context.Context, in CreateLedgerRequest) (Ledger, error) {
	if !in.BalanceType.Valid() {
		return Ledger{}, fmt.Errorf("%w: balance type must be Dr or Cr", shared.ErrValidation)
	}
	if in.OpeningBalance < 0 {
		return Ledger{}, fmt.Errorf("%w: opening balance must be non-negative", shared.ErrValidation)
	}
	if _, err := s.repo.GetGroup(ctx, in.GroupID); err != nil {
		return Ledger{}, fmt.Errorf("%w: group %d", err, in.GroupID)
	}
	dup, err := s.repo.LedgerNameExists(ctx, in.CompanyID, in.Name, 0)
	if err != nil {
		return Ledger{}, err
	}
	if dup {
		return Ledger{}, fmt.Errorf("%w: ledger %q already exists", shared.ErrValidation, in.Name)
	}
	ledger, err := s.repo.InsertLedger(ctx, Ledger{
		CompanyID:      in.CompanyID,
		Name:           in.Name,
		GroupID:        in.GroupID,
		OpeningBalance: in.OpeningBalance,
		BalanceType:    in.BalanceType,
		// Current balance starts at the opening position.
		CurrentBalance:     in.OpeningBalance,
		CurrentBalanceType: in.BalanceType,
		IsActive:           true,
		ContactPerson:      in.ContactPerson,
		Phone:              in.Phone,
		Email:              in.Email,
		Address:            in.Address,
		GSTIN:              in.GSTIN,
		PAN:                in.PAN,
		BankName:           in.BankName,
		BankAccountNo:      in.BankAccountNo,
		BankIFSC:           in.BankIFSC,
	})
	if err != nil {
		return Ledger{}, err
	}
	s.record(ctx, ledger.CompanyID, "coa.ledger.create", "ledger", ledger.ID, map[string]any{"name": ledger.Name})
	return ledger, nil
}

func (s *Service) UpdateLedger(ctx context.Context, id int64, in UpdateLedgerRequest) (Ledger, error) {
	ledger, err := s.repo.GetLedger(ctx, id)
	if err != nil {
		return Ledger{}, err
	}
	if in.Name != nil && *in.Name != ledger.Name {
		dup, err := s.repo.LedgerNameExists(ctx, ledger.CompanyID, *in.Name, ledger.ID)
		if err != nil {
			return Ledger{}, err
		}
		if dup {
			return Ledger{}, fmt.Errorf("%w: ledger %q already exists", shared.ErrValidation, *in.Name)
		}
		ledger.Name = *in.Name
	}
	if in.GroupID != nil {
		if _, err := s.repo.GetGroup(ctx, *in.GroupID); err != nil {
			return Ledger{}, fmt.Errorf("%w: group %d", err, *in.GroupID)
		}
		ledger.GroupID = *in.GroupID
	}
	if in.IsActive != nil {
		ledger.IsActive = *in.IsActive
	}
	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&ledger.ContactPerson, in.ContactPerson)
	applyString(&ledger.Phone, in.Phone)
	applyString(&ledger.Email, in.Email)
	applyString(&ledger.Address, in.Address)
	applyString(&ledger.GSTIN, in.GSTIN)
	applyString(&ledger.PAN, in.PAN)
	applyString(&ledger.BankName, in.BankName)
	applyString(&ledger.BankAccountNo, in.BankAccountNo)
	applyString(&ledger.BankIFSC, in.BankIFSC)
	if err := s.repo.UpdateLedger(ctx, ledger); err != nil {
		return Ledger{}, err
	}
	s.record(ctx, ledger.CompanyID, "coa.ledger.update", "ledger", ledger.ID, nil)
	return ledger, nil
}

// AdjustBalance is the administrative balance edit. It bypasses the posting
// engine on purpose; the audit log keeps the old and new positions.
func (s *Service) AdjustBalance(ctx context.Context, id int64, in AdjustBalanceRequest) (Ledger, error) {
	if !in.CurrentBalanceType.Valid() {
		return Ledger{}, fmt.Errorf("%w: balance type must be Dr or Cr", shared.ErrValidation)
	}
	if in.CurrentBalance < 0 {
		return Ledger{}, fmt.Errorf("%w: balance must be non-negative", shared.ErrValidation)
	}
	ledger, err := s.repo.GetLedger(ctx, id)
	if err != nil {
		return Ledger{}, err
	}
	prev := map[string]any{"balance": ledger.CurrentBalance, "side": ledger.CurrentBalanceType}
	ledger.CurrentBalance = in.CurrentBalance
	ledger.CurrentBalanceType = in.CurrentBalanceType
	if err := s.repo.UpdateLedger(ctx, ledger); err != nil {
		return Ledger{}, err
	}
	s.record(ctx, ledger.CompanyID, "coa.ledger.adjust_balance", "ledger", ledger.ID, map[string]any{
		"previous": prev,
		"balance":  ledger.CurrentBalance,
		"side":     ledger.CurrentBalanceType,
	})
	return ledger, nil
}

func (s *Service) DeleteLedger(ctx context.Context, id int64) error {
	ledger, err := s.repo.GetLedger(ctx, id)
	if err != nil {
		return err
	}
	entries, err := s.repo.CountLedgerEntries(ctx, id)
	if err != nil {
		return err
	}
	if entries > 0 {
		return fmt.Errorf("%w: ledger is referenced by %d voucher entries", shared.ErrConflict, entries)
	}
	if err := s.repo.DeleteLedger(ctx, id); err != nil {
		return err
	}
	s.record(ctx, ledger.CompanyID, "coa.ledger.delete", "ledger", id, map[string]any{"name": ledger.Name})
	return nil
}

func (s *Service) record(ctx context.Context, companyID int64, action, entity string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		CompanyID: companyID,
		Action:    action,
		Entity:    entity,
		EntityID:  strconv.FormatInt(id, 10),
		Meta:      meta,
		At:        s.now(),
	})
}
