package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/company"
	"github.com/insuite-dev/insuite/internal/shared"
)

// Lifecycle is the slice of the company service the importer needs: a fresh
// company created through the normal seeding path.
type Lifecycle interface {
	Create(ctx context.Context, in company.CreateCompanyRequest) (company.Company, error)
}

type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service implements export and import of encrypted company backups.
type Service struct {
	repo      Repository
	lifecycle Lifecycle
	audit     AuditPort
	now       func() time.Time
}

func NewService(repo Repository, lifecycle Lifecycle, audit AuditPort) *Service {
	return &Service{repo: repo, lifecycle: lifecycle, audit: audit, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) ListLogs(ctx context.Context, companyID int64) ([]Log, error) {
	return s.repo.ListLogs(ctx, companyID)
}

// Export snapshots the company, marshals it and seals it into the backup
// format. The returned file name embeds the company name and export date.
func (s *Service) Export(ctx context.Context, companyID int64) ([]byte, string, error) {
	archive, err := s.repo.Snapshot(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	archive.Version = ArchiveVersion
	archive.ExportID = uuid.NewString()
	archive.ExportedAt = s.now()

	plaintext, err := json.Marshal(archive)
	if err != nil {
		return nil, "", err
	}
	sealed, err := Encrypt(plaintext)
	if err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("%s-%s.insuite", slugify(archive.Company.Name), archive.ExportedAt.Format("2006-01-02"))
	_ = s.repo.InsertLog(ctx, Log{
		CompanyID: companyID,
		ExportID:  archive.ExportID,
		Kind:      "export",
		FileName:  name,
		SizeBytes: int64(len(sealed)),
	})
	s.record(ctx, companyID, "backup.export", archive.ExportID)
	return sealed, name, nil
}

// Import restores a backup into a freshly created company. The company is
// created through the lifecycle service so it gets the standard seed; archive
// rows then merge into the seeded chart by name, and everything else is
// re-keyed from old IDs to the new ones.
func (s *Service) Import(ctx context.Context, data []byte) (company.Company, error) {
	plaintext, err := Decrypt(data)
	if err != nil {
		return company.Company{}, err
	}
	var archive Archive
	if err := json.Unmarshal(plaintext, &archive); err != nil {
		return company.Company{}, fmt.Errorf("%w: payload is not valid JSON", shared.ErrInvalidFormat)
	}
	if archive.Version != ArchiveVersion {
		return company.Company{}, fmt.Errorf("%w: unsupported archive version %d", shared.ErrInvalidFormat, archive.Version)
	}
	if archive.Company.Name == "" {
		return company.Company{}, fmt.Errorf("%w: archive has no company record", shared.ErrInvalidFormat)
	}

	created, err := s.lifecycle.Create(ctx, company.CreateCompanyRequest{
		Name:               archive.Company.Name,
		Address:            archive.Company.Address,
		State:              archive.Company.State,
		GSTIN:              archive.Company.GSTIN,
		PAN:                archive.Company.PAN,
		Email:              archive.Company.Email,
		Phone:              archive.Company.Phone,
		BooksBeginningDate: archive.Company.BooksBeginningDate,
	})
	if err != nil {
		return company.Company{}, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return s.restore(ctx, tx, created.ID, archive)
	})
	if err != nil {
		return company.Company{}, err
	}
	_ = s.repo.InsertLog(ctx, Log{
		CompanyID: created.ID,
		ExportID:  archive.ExportID,
		Kind:      "import",
		SizeBytes: int64(len(data)),
	})
	s.record(ctx, created.ID, "backup.import", archive.ExportID)
	return created, nil
}

func (s *Service) restore(ctx context.Context, tx TxRepository, companyID int64, archive Archive) error {
	fyMap, err := s.restoreFinancialYears(ctx, tx, companyID, archive)
	if err != nil {
		return err
	}
	groupMap, err := s.restoreLedgerGroups(ctx, tx, companyID, archive)
	if err != nil {
		return err
	}
	ledgerMap, err := s.restoreLedgers(ctx, tx, companyID, archive, groupMap)
	if err != nil {
		return err
	}
	stockGroupMap, unitMap, err := s.restoreInventoryMasters(ctx, tx, companyID, archive)
	if err != nil {
		return err
	}
	stockItemMap, err := s.restoreStockItems(ctx, tx, companyID, archive, stockGroupMap, unitMap)
	if err != nil {
		return err
	}
	if err := s.restoreVouchers(ctx, tx, companyID, archive, fyMap, ledgerMap, stockItemMap); err != nil {
		return err
	}
	for _, u := range archive.Users {
		if err := tx.InsertUser(ctx, companyID, u); err != nil {
			return err
		}
	}
	return nil
}

// restoreFinancialYears maps archive years onto the seeded first year by
// label and inserts the rest, returning oldID -> newID.
func (s *Service) restoreFinancialYears(ctx context.Context, tx TxRepository, companyID int64, archive Archive) (map[int64]int64, error) {
	existing, err := tx.FinancialYearIDsByLabel(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int64, len(archive.FinancialYears))
	for _, fy := range archive.FinancialYears {
		if id, ok := existing[strings.ToLower(fy.Label)]; ok {
			out[fy.ID] = id
			continue
		}
		oldID := fy.ID
		fy.CompanyID = companyID
		newID, err := tx.InsertFinancialYear(ctx, fy)
		if err != nil {
			return nil, err
		}
		out[oldID] = newID
	}
	return out, nil
}

// restoreLedgerGroups walks groups parents-before-children. A group whose
// name already exists (the seeded defaults) merges onto the existing row.
func (s *Service) restoreLedgerGroups(ctx context.Context, tx TxRepository, companyID int64, archive Archive) (map[int64]int64, error) {
	existing, err := tx.GroupIDsByName(ctx, companyID)
	if err != nil {
		return nil, err
	}
	groups := make([]coa.LedgerGroup, len(archive.LedgerGroups))
	copy(groups, archive.LedgerGroups)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })

	out := make(map[int64]int64, len(groups))
	pending := groups
	for len(pending) > 0 {
		var next []coa.LedgerGroup
		progressed := false
		for _, g := range pending {
			if id, ok := existing[strings.ToLower(g.Name)]; ok {
				out[g.ID] = id
				progressed = true
				continue
			}
			var parentID *int64
			if g.ParentID != nil {
				mapped, ok := out[*g.ParentID]
				if !ok {
					next = append(next, g)
					continue
				}
				parentID = &mapped
			}
			oldID := g.ID
			g.CompanyID = companyID
			g.ParentID = parentID
			newID, err := tx.InsertLedgerGroup(ctx, g)
			if err != nil {
				return nil, err
			}
			out[oldID] = newID
			progressed = true
		}
		if !progressed {
			// Remaining parents are dangling in the archive; attach at root.
			for _, g := range next {
				oldID := g.ID
				g.CompanyID = companyID
				g.ParentID = nil
				newID, err := tx.InsertLedgerGroup(ctx, g)
				if err != nil {
					return nil, err
				}
				out[oldID] = newID
			}
			break
		}
		pending = next
	}
	return out, nil
}

func (s *Service) restoreLedgers(ctx context.Context, tx TxRepository, companyID int64, archive Archive, groupMap map[int64]int64) (map[int64]int64, error) {
	existing, err := tx.LedgerIDsByName(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int64, len(archive.Ledgers))
	for _, l := range archive.Ledgers {
		groupID, ok := groupMap[l.GroupID]
		if !ok {
			return nil, fmt.Errorf("%w: ledger %q references unknown group %d", shared.ErrInvalidFormat, l.Name, l.GroupID)
		}
		oldID := l.ID
		l.CompanyID = companyID
		l.GroupID = groupID
		if id, ok := existing[strings.ToLower(l.Name)]; ok {
			// Name collision with a seeded ledger: the archived row wins so
			// balances and contact details survive the round trip.
			l.ID = id
			if err := tx.UpdateLedger(ctx, l); err != nil {
				return nil, err
			}
			out[oldID] = id
			continue
		}
		newID, err := tx.InsertLedger(ctx, l)
		if err != nil {
			return nil, err
		}
		out[oldID] = newID
	}
	return out, nil
}

func (s *Service) restoreInventoryMasters(ctx context.Context, tx TxRepository, companyID int64, archive Archive) (map[int64]int64, map[int64]int64, error) {
	existingGroups, err := tx.StockGroupIDsByName(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	groupMap := make(map[int64]int64, len(archive.StockGroups))
	for _, g := range archive.StockGroups {
		if id, ok := existingGroups[strings.ToLower(g.Name)]; ok {
			groupMap[g.ID] = id
			continue
		}
		var parentID *int64
		if g.ParentID != nil {
			if mapped, ok := groupMap[*g.ParentID]; ok {
				parentID = &mapped
			}
		}
		oldID := g.ID
		g.CompanyID = companyID
		g.ParentID = parentID
		newID, err := tx.InsertStockGroup(ctx, g)
		if err != nil {
			return nil, nil, err
		}
		groupMap[oldID] = newID
	}

	existingUnits, err := tx.UnitIDsByName(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	unitMap := make(map[int64]int64, len(archive.Units))
	for _, u := range archive.Units {
		if id, ok := existingUnits[strings.ToLower(u.Name)]; ok {
			unitMap[u.ID] = id
			continue
		}
		oldID := u.ID
		u.CompanyID = companyID
		newID, err := tx.InsertUnit(ctx, u)
		if err != nil {
			return nil, nil, err
		}
		unitMap[oldID] = newID
	}
	return groupMap, unitMap, nil
}

func (s *Service) restoreStockItems(ctx context.Context, tx TxRepository, companyID int64, archive Archive, stockGroupMap, unitMap map[int64]int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(archive.StockItems))
	for _, item := range archive.StockItems {
		groupID, ok := stockGroupMap[item.StockGroupID]
		if !ok {
			return nil, fmt.Errorf("%w: stock item %q references unknown group %d", shared.ErrInvalidFormat, item.Name, item.StockGroupID)
		}
		unitID, ok := unitMap[item.UnitID]
		if !ok {
			return nil, fmt.Errorf("%w: stock item %q references unknown unit %d", shared.ErrInvalidFormat, item.Name, item.UnitID)
		}
		oldID := item.ID
		item.CompanyID = companyID
		item.StockGroupID = groupID
		item.UnitID = unitID
		newID, err := tx.InsertStockItem(ctx, item)
		if err != nil {
			return nil, err
		}
		out[oldID] = newID
	}
	return out, nil
}

func (s *Service) restoreVouchers(ctx context.Context, tx TxRepository, companyID int64, archive Archive, fyMap, ledgerMap, stockItemMap map[int64]int64) error {
	for _, v := range archive.Vouchers {
		fyID, ok := fyMap[v.FinancialYear]
		if !ok {
			return fmt.Errorf("%w: voucher %d references unknown financial year %d", shared.ErrInvalidFormat, v.ID, v.FinancialYear)
		}
		v.CompanyID = companyID
		v.FinancialYear = fyID
		if v.PartyLedgerID != nil {
			if mapped, ok := ledgerMap[*v.PartyLedgerID]; ok {
				v.PartyLedgerID = &mapped
			} else {
				v.PartyLedgerID = nil
			}
		}
		newID, err := tx.InsertVoucher(ctx, v)
		if err != nil {
			return err
		}
		entries := v.Entries
		for i := range entries {
			mapped, ok := ledgerMap[entries[i].LedgerID]
			if !ok {
				return fmt.Errorf("%w: voucher entry references unknown ledger %d", shared.ErrInvalidFormat, entries[i].LedgerID)
			}
			entries[i].LedgerID = mapped
		}
		if err := tx.InsertEntries(ctx, newID, entries); err != nil {
			return err
		}
		items := v.Items
		for i := range items {
			mapped, ok := stockItemMap[items[i].StockItemID]
			if !ok {
				return fmt.Errorf("%w: voucher item references unknown stock item %d", shared.ErrInvalidFormat, items[i].StockItemID)
			}
			items[i].StockItemID = mapped
		}
		if err := tx.InsertItems(ctx, newID, items); err != nil {
			return err
		}
	}
	return nil
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if s := b.String(); s != "" && !strings.HasSuffix(s, "-") {
				b.WriteRune('-')
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "company"
	}
	return out
}

func (s *Service) record(ctx context.Context, companyID int64, action, exportID string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		CompanyID: companyID,
		Action:    action,
		Entity:    "backup",
		EntityID:  exportID,
		Meta:      map[string]any{"company_id": strconv.FormatInt(companyID, 10)},
		At:        s.now(),
	})
}
