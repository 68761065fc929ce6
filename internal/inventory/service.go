package inventory

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/insuite-dev/insuite/internal/shared"
)

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

func (s *Service) ListStockGroups(ctx context.Context, companyID int64) ([]StockGroup, error) {
	return s.repo.ListStockGroups(ctx, companyID)
}

func (s *Service) StockGroupTree(ctx context.Context, companyID int64) ([]*StockGroupNode, error) {
	groups, err := s.repo.ListStockGroups(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return BuildStockTree(groups), nil
}

func (s *Service) CreateStockGroup(ctx context.Context, in CreateStockGroupRequest) (StockGroup, error) {
	if in.ParentID != nil {
		if _, err := s.repo.GetStockGroup(ctx, *in.ParentID); err != nil {
			return StockGroup{}, fmt.Errorf("%w: parent stock group %d", err, *in.ParentID)
		}
	}
	dup, err := s.repo.StockGroupNameExists(ctx, in.CompanyID, in.ParentID, in.Name)
	if err != nil {
		return StockGroup{}, err
	}
	if dup {
		return StockGroup{}, fmt.Errorf("%w: stock group %q already exists under the same parent", shared.ErrValidation, in.Name)
	}
	group, err := s.repo.InsertStockGroup(ctx, StockGroup{CompanyID: in.CompanyID, Name: in.Name, ParentID: in.ParentID})
	if err != nil {
		return StockGroup{}, err
	}
	s.record(ctx, group.CompanyID, "inventory.stock_group.create", "stock_group", group.ID)
	return group, nil
}

// DeleteStockGroup mirrors the ledger group guard order: children first,
// then referencing items, then the default flag.
func (s *Service) DeleteStockGroup(ctx context.Context, id int64) error {
	group, err := s.repo.GetStockGroup(ctx, id)
	if err != nil {
		return err
	}
	children, err := s.repo.CountChildStockGroups(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: stock group has %d child groups", shared.ErrConflict, children)
	}
	items, err := s.repo.CountStockGroupItems(ctx, id)
	if err != nil {
		return err
	}
	if items > 0 {
		return fmt.Errorf("%w: stock group has %d items", shared.ErrConflict, items)
	}
	if group.IsDefault {
		return fmt.Errorf("%w: default stock group cannot be deleted", shared.ErrConflict)
	}
	if err := s.repo.DeleteStockGroup(ctx, id); err != nil {
		return err
	}
	s.record(ctx, group.CompanyID, "inventory.stock_group.delete", "stock_group", id)
	return nil
}

func (s *Service) ListUnits(ctx context.Context, companyID int64) ([]Unit, error) {
	return s.repo.ListUnits(ctx, companyID)
}

func (s *Service) CreateUnit(ctx context.Context, in CreateUnitRequest) (Unit, error) {
	dup, err := s.repo.UnitNameExists(ctx, in.CompanyID, in.Name)
	if err != nil {
		return Unit{}, err
	}
	if dup {
		return Unit{}, fmt.Errorf("%w: unit %q already exists", shared.ErrValidation, in.Name)
	}
	unit, err := s.repo.InsertUnit(ctx, Unit{CompanyID: in.CompanyID, Name: in.Name, Symbol: in.Symbol, DecimalPlaces: in.DecimalPlaces})
	if err != nil {
		return Unit{}, err
	}
	s.record(ctx, unit.CompanyID, "inventory.unit.create", "unit", unit.ID)
	return unit, nil
}

func (s *Service) DeleteUnit(ctx context.Context, id int64) error {
	unit, err := s.repo.GetUnit(ctx, id)
	if err != nil {
		return err
	}
	items, err := s.repo.CountUnitItems(ctx, id)
	if err != nil {
		return err
	}
	if items > 0 {
		return fmt.Errorf("%w: unit is used by %d stock items", shared.ErrConflict, items)
	}
	if unit.IsDefault {
		return fmt.Errorf("%w: default unit cannot be deleted", shared.ErrConflict)
	}
	if err := s.repo.DeleteUnit(ctx, id); err != nil {
		return err
	}
	s.record(ctx, unit.CompanyID, "inventory.unit.delete", "unit", id)
	return nil
}

func (s *Service) ListStockItems(ctx context.Context, companyID int64) ([]StockItem, error) {
	return s.repo.ListStockItems(ctx, companyID)
}

func (s *Service) GetStockItem(ctx context.Context, id int64) (StockItem, error) {
	return s.repo.GetStockItem(ctx, id)
}

func (s *Service) CreateStockItem(ctx context.Context, in CreateStockItemRequest) (StockItem, error) {
	if _, err := s.repo.GetStockGroup(ctx, in.StockGroupID); err != nil {
		return StockItem{}, fmt.Errorf("%w: stock group %d", err, in.StockGroupID)
	}
	if _, err := s.repo.GetUnit(ctx, in.UnitID); err != nil {
		return StockItem{}, fmt.Errorf("%w: unit %d", err, in.UnitID)
	}
	dup, err := s.repo.StockItemNameExists(ctx, in.CompanyID, in.Name, 0)
	if err != nil {
		return StockItem{}, err
	}
	if dup {
		return StockItem{}, fmt.Errorf("%w: stock item %q already exists", shared.ErrValidation, in.Name)
	}
	item, err := s.repo.InsertStockItem(ctx, StockItem{
		CompanyID:    in.CompanyID,
		Name:         in.Name,
		StockGroupID: in.StockGroupID,
		UnitID:       in.UnitID,
		HSNCode:      in.HSNCode,
		GSTRate:      in.GSTRate,
		OpeningQty:   in.OpeningQty,
		Rate:         in.Rate,
		IsActive:     true,
	})
	if err != nil {
		return StockItem{}, err
	}
	s.record(ctx, item.CompanyID, "inventory.stock_item.create", "stock_item", item.ID)
	return item, nil
}

func (s *Service) UpdateStockItem(ctx context.Context, id int64, in UpdateStockItemRequest) (StockItem, error) {
	item, err := s.repo.GetStockItem(ctx, id)
	if err != nil {
		return StockItem{}, err
	}
	if in.Name != nil && *in.Name != item.Name {
		dup, err := s.repo.StockItemNameExists(ctx, item.CompanyID, *in.Name, item.ID)
		if err != nil {
			return StockItem{}, err
		}
		if dup {
			return StockItem{}, fmt.Errorf("%w: stock item %q already exists", shared.ErrValidation, *in.Name)
		}
		item.Name = *in.Name
	}
	if in.StockGroupID != nil {
		if _, err := s.repo.GetStockGroup(ctx, *in.StockGroupID); err != nil {
			return StockItem{}, fmt.Errorf("%w: stock group %d", err, *in.StockGroupID)
		}
		item.StockGroupID = *in.StockGroupID
	}
	if in.UnitID != nil {
		if _, err := s.repo.GetUnit(ctx, *in.UnitID); err != nil {
			return StockItem{}, fmt.Errorf("%w: unit %d", err, *in.UnitID)
		}
		item.UnitID = *in.UnitID
	}
	if in.HSNCode != nil {
		item.HSNCode = *in.HSNCode
	}
	if in.GSTRate != nil {
		item.GSTRate = *in.GSTRate
	}
	if in.Rate != nil {
		item.Rate = *in.Rate
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if err := s.repo.UpdateStockItem(ctx, item); err != nil {
		return StockItem{}, err
	}
	s.record(ctx, item.CompanyID, "inventory.stock_item.update", "stock_item", item.ID)
	return item, nil
}

func (s *Service) DeleteStockItem(ctx context.Context, id int64) error {
	item, err := s.repo.GetStockItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteStockItem(ctx, id); err != nil {
		return err
	}
	s.record(ctx, item.CompanyID, "inventory.stock_item.delete", "stock_item", id)
	return nil
}

func (s *Service) record(ctx context.Context, companyID int64, action, entity string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		CompanyID: companyID,
		Action:    action,
		Entity:    entity,
		EntityID:  strconv.FormatInt(id, 10),
		At:        s.now(),
	})
}
