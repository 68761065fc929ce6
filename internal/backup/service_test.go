package backup

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/company"
	"github.com/insuite-dev/insuite/internal/inventory"
	"github.com/insuite-dev/insuite/internal/shared"
	"github.com/insuite-dev/insuite/internal/vouchers"
)

// fakeStore plays both Repository and TxRepository, recording every insert.
type fakeStore struct {
	nextID   int64
	snapshot *Archive

	groups      map[int64]coa.LedgerGroup
	ledgers     map[int64]coa.Ledger
	stockGroups map[int64]inventory.StockGroup
	units       map[int64]inventory.Unit
	stockItems  map[int64]inventory.StockItem
	years       map[int64]company.FinancialYear
	vouchersIn  []vouchers.Voucher
	entriesIn   map[int64][]vouchers.Entry
	itemsIn     map[int64][]vouchers.Item
	usersIn     []ArchiveUser
	logs        []Log
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		groups:      make(map[int64]coa.LedgerGroup),
		ledgers:     make(map[int64]coa.Ledger),
		stockGroups: make(map[int64]inventory.StockGroup),
		units:       make(map[int64]inventory.Unit),
		stockItems:  make(map[int64]inventory.StockItem),
		years:       make(map[int64]company.FinancialYear),
		entriesIn:   make(map[int64][]vouchers.Entry),
		itemsIn:     make(map[int64][]vouchers.Item),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) Snapshot(ctx context.Context, companyID int64) (Archive, error) {
	if f.snapshot == nil {
		return Archive{}, shared.ErrNotFound
	}
	return *f.snapshot, nil
}

func (f *fakeStore) InsertLog(ctx context.Context, log Log) error {
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeStore) ListLogs(ctx context.Context, companyID int64) ([]Log, error) {
	return f.logs, nil
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, f)
}

func lowerNames[T any](m map[int64]T, name func(T) string) map[string]int64 {
	out := make(map[string]int64, len(m))
	for id, v := range m {
		out[strings.ToLower(name(v))] = id
	}
	return out
}

func (f *fakeStore) GroupIDsByName(ctx context.Context, companyID int64) (map[string]int64, error) {
	return lowerNames(f.groups, func(g coa.LedgerGroup) string { return g.Name }), nil
}

func (f *fakeStore) LedgerIDsByName(ctx context.Context, companyID int64) (map[string]int64, error) {
	return lowerNames(f.ledgers, func(l coa.Ledger) string { return l.Name }), nil
}

func (f *fakeStore) StockGroupIDsByName(ctx context.Context, companyID int64) (map[string]int64, error) {
	return lowerNames(f.stockGroups, func(g inventory.StockGroup) string { return g.Name }), nil
}

func (f *fakeStore) UnitIDsByName(ctx context.Context, companyID int64) (map[string]int64, error) {
	return lowerNames(f.units, func(u inventory.Unit) string { return u.Name }), nil
}

func (f *fakeStore) FinancialYearIDsByLabel(ctx context.Context, companyID int64) (map[string]int64, error) {
	return lowerNames(f.years, func(fy company.FinancialYear) string { return fy.Label }), nil
}

func (f *fakeStore) InsertFinancialYear(ctx context.Context, fy company.FinancialYear) (int64, error) {
	fy.ID = f.id()
	f.years[fy.ID] = fy
	return fy.ID, nil
}

func (f *fakeStore) InsertLedgerGroup(ctx context.Context, g coa.LedgerGroup) (int64, error) {
	g.ID = f.id()
	f.groups[g.ID] = g
	return g.ID, nil
}

func (f *fakeStore) InsertLedger(ctx context.Context, l coa.Ledger) (int64, error) {
	l.ID = f.id()
	f.ledgers[l.ID] = l
	return l.ID, nil
}

func (f *fakeStore) UpdateLedger(ctx context.Context, l coa.Ledger) error {
	if _, ok := f.ledgers[l.ID]; !ok {
		return shared.ErrNotFound
	}
	f.ledgers[l.ID] = l
	return nil
}

func (f *fakeStore) InsertStockGroup(ctx context.Context, g inventory.StockGroup) (int64, error) {
	g.ID = f.id()
	f.stockGroups[g.ID] = g
	return g.ID, nil
}

func (f *fakeStore) InsertUnit(ctx context.Context, u inventory.Unit) (int64, error) {
	u.ID = f.id()
	f.units[u.ID] = u
	return u.ID, nil
}

func (f *fakeStore) InsertStockItem(ctx context.Context, item inventory.StockItem) (int64, error) {
	item.ID = f.id()
	f.stockItems[item.ID] = item
	return item.ID, nil
}

func (f *fakeStore) InsertVoucher(ctx context.Context, v vouchers.Voucher) (int64, error) {
	v.ID = f.id()
	f.vouchersIn = append(f.vouchersIn, v)
	return v.ID, nil
}

func (f *fakeStore) InsertEntries(ctx context.Context, voucherID int64, entries []vouchers.Entry) error {
	f.entriesIn[voucherID] = entries
	return nil
}

func (f *fakeStore) InsertItems(ctx context.Context, voucherID int64, items []vouchers.Item) error {
	f.itemsIn[voucherID] = items
	return nil
}

func (f *fakeStore) InsertUser(ctx context.Context, companyID int64, u ArchiveUser) error {
	f.usersIn = append(f.usersIn, u)
	return nil
}

// fakeLifecycle creates the company and pre-seeds the rows the real
// lifecycle service would: one financial year and a couple of default groups.
type fakeLifecycle struct {
	store   *fakeStore
	created *company.Company
}

func (f *fakeLifecycle) Create(ctx context.Context, in company.CreateCompanyRequest) (company.Company, error) {
	c := company.Company{ID: 100, Name: in.Name, BooksBeginningDate: in.BooksBeginningDate}
	f.created = &c

	label, start, end := company.DeriveFinancialYear(in.BooksBeginningDate)
	_, _ = f.store.InsertFinancialYear(ctx, company.FinancialYear{CompanyID: c.ID, Label: label, StartDate: start, EndDate: end})
	_, _ = f.store.InsertLedgerGroup(ctx, coa.LedgerGroup{CompanyID: c.ID, Name: "Sundry Debtors", Nature: coa.NatureAssets, IsDefault: true})
	_, _ = f.store.InsertLedgerGroup(ctx, coa.LedgerGroup{CompanyID: c.ID, Name: "Sales Accounts", Nature: coa.NatureIncome, IsDefault: true})
	cashGroup, _ := f.store.InsertLedgerGroup(ctx, coa.LedgerGroup{CompanyID: c.ID, Name: "Cash-in-Hand", Nature: coa.NatureAssets, IsDefault: true})
	_, _ = f.store.InsertLedger(ctx, coa.Ledger{CompanyID: c.ID, Name: "Cash", GroupID: cashGroup, BalanceType: coa.SideDr, CurrentBalanceType: coa.SideDr, IsActive: true})
	_, _ = f.store.InsertStockGroup(ctx, inventory.StockGroup{CompanyID: c.ID, Name: "Primary", IsDefault: true})
	_, _ = f.store.InsertUnit(ctx, inventory.Unit{CompanyID: c.ID, Name: "Numbers", Symbol: "Nos", IsDefault: true})
	return c, nil
}

func testArchive() Archive {
	fyID := int64(900)
	groupDebtors := int64(901)
	groupCustom := int64(902)
	ledgerAcme := int64(903)
	stockGroupPrimary := int64(904)
	unitNos := int64(905)
	itemWidget := int64(906)
	groupCash := int64(907)
	ledgerCash := int64(908)

	return Archive{
		Version:    ArchiveVersion,
		ExportID:   "11111111-2222-3333-4444-555555555555",
		ExportedAt: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		Company: company.Company{
			ID:                 7,
			Name:               "Acme Traders",
			BooksBeginningDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		FinancialYears: []company.FinancialYear{
			{ID: fyID, CompanyID: 7, Label: "2025-26"},
		},
		LedgerGroups: []coa.LedgerGroup{
			{ID: groupDebtors, CompanyID: 7, Name: "Sundry Debtors", Nature: coa.NatureAssets, IsDefault: true},
			{ID: groupCustom, CompanyID: 7, Name: "Export Customers", ParentID: &groupDebtors, Nature: coa.NatureAssets},
			{ID: groupCash, CompanyID: 7, Name: "Cash-in-Hand", Nature: coa.NatureAssets, IsDefault: true},
		},
		Ledgers: []coa.Ledger{
			{ID: ledgerAcme, CompanyID: 7, Name: "Acme Retail", GroupID: groupCustom, BalanceType: coa.SideDr, CurrentBalanceType: coa.SideDr, CurrentBalance: 1180, IsActive: true},
			{ID: ledgerCash, CompanyID: 7, Name: "Cash", GroupID: groupCash, OpeningBalance: 1000, BalanceType: coa.SideDr, CurrentBalance: 5000, CurrentBalanceType: coa.SideDr, IsActive: true},
		},
		StockGroups: []inventory.StockGroup{
			{ID: stockGroupPrimary, CompanyID: 7, Name: "Primary", IsDefault: true},
		},
		Units: []inventory.Unit{
			{ID: unitNos, CompanyID: 7, Name: "Numbers", Symbol: "Nos", IsDefault: true},
		},
		StockItems: []inventory.StockItem{
			{ID: itemWidget, CompanyID: 7, Name: "Widget", StockGroupID: stockGroupPrimary, UnitID: unitNos, IsActive: true},
		},
		Vouchers: []vouchers.Voucher{
			{
				ID:            950,
				CompanyID:     7,
				FinancialYear: fyID,
				Type:          vouchers.TypeSales,
				Number:        1,
				Date:          time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
				TotalDebit:    1180,
				TotalCredit:   1180,
				Entries: []vouchers.Entry{
					{ID: 1, LedgerID: ledgerAcme, Side: coa.SideDr, Amount: 1180},
				},
				Items: []vouchers.Item{
					{ID: 1, StockItemID: itemWidget, Quantity: 10, Rate: 100, GSTRate: 18, TaxableValue: 1000, CGST: 90, SGST: 90, Total: 1180},
				},
			},
		},
		Users: []ArchiveUser{
			{ID: 1, Email: "owner@acme.test", Name: "Owner", Role: "admin", PasswordHash: "$2a$10$hash", IsActive: true},
		},
	}
}

func sealedArchive(t *testing.T, a Archive) []byte {
	t.Helper()
	raw, err := json.Marshal(a)
	require.NoError(t, err)
	sealed, err := Encrypt(raw)
	require.NoError(t, err)
	return sealed
}

func TestImportRestoresCompany(t *testing.T) {
	store := newFakeStore()
	lifecycle := &fakeLifecycle{store: store}
	svc := NewService(store, lifecycle, nil)

	created, err := svc.Import(context.Background(), sealedArchive(t, testArchive()))
	require.NoError(t, err)
	require.NotNil(t, lifecycle.created)
	require.Equal(t, "Acme Traders", created.Name)

	// The archive's "Sundry Debtors" merges onto the seeded row instead of
	// duplicating it; "Export Customers" is new and hangs under it.
	var debtors, export *coa.LedgerGroup
	for id := range store.groups {
		g := store.groups[id]
		switch g.Name {
		case "Sundry Debtors":
			require.Nil(t, debtors)
			debtors = &g
		case "Export Customers":
			export = &g
		}
	}
	require.NotNil(t, debtors)
	require.NotNil(t, export)
	require.NotNil(t, export.ParentID)
	require.Equal(t, debtors.ID, *export.ParentID)

	// Archive FY label matches the seeded year, so no second year appears.
	require.Len(t, store.years, 1)
	require.Len(t, store.stockGroups, 1)
	require.Len(t, store.units, 1)
}

func TestImportRekeysVoucherReferences(t *testing.T) {
	store := newFakeStore()
	lifecycle := &fakeLifecycle{store: store}
	svc := NewService(store, lifecycle, nil)

	_, err := svc.Import(context.Background(), sealedArchive(t, testArchive()))
	require.NoError(t, err)

	require.Len(t, store.vouchersIn, 1)
	v := store.vouchersIn[0]
	require.Equal(t, int64(100), v.CompanyID)

	var acme coa.Ledger
	for _, l := range store.ledgers {
		if l.Name == "Acme Retail" {
			acme = l
		}
	}
	require.NotZero(t, acme.ID)

	entries := store.entriesIn[v.ID]
	require.Len(t, entries, 1)
	require.Equal(t, acme.ID, entries[0].LedgerID, "entry re-keyed to the imported ledger")

	items := store.itemsIn[v.ID]
	require.Len(t, items, 1)
	var widget inventory.StockItem
	for _, it := range store.stockItems {
		if it.Name == "Widget" {
			widget = it
		}
	}
	require.Equal(t, widget.ID, items[0].StockItemID)

	require.Len(t, store.usersIn, 1)
	require.Equal(t, "$2a$10$hash", store.usersIn[0].PasswordHash)
}

func TestImportMergesSeededLedgerBalances(t *testing.T) {
	store := newFakeStore()
	lifecycle := &fakeLifecycle{store: store}
	svc := NewService(store, lifecycle, nil)

	_, err := svc.Import(context.Background(), sealedArchive(t, testArchive()))
	require.NoError(t, err)

	// The lifecycle seeds a zero-balance "Cash" ledger; the archived Cash must
	// win the name collision so its balances survive the round trip.
	var cash []coa.Ledger
	for _, l := range store.ledgers {
		if l.Name == "Cash" {
			cash = append(cash, l)
		}
	}
	require.Len(t, cash, 1, "name collision must not duplicate the ledger")
	require.Equal(t, float64(5000), cash[0].CurrentBalance)
	require.Equal(t, coa.SideDr, cash[0].CurrentBalanceType)
	require.Equal(t, float64(1000), cash[0].OpeningBalance)

	// Its group reference points at the merged Cash-in-Hand row, not the
	// archive's old id.
	g, ok := store.groups[cash[0].GroupID]
	require.True(t, ok)
	require.Equal(t, "Cash-in-Hand", g.Name)
}

func TestExportFileName(t *testing.T) {
	store := newFakeStore()
	a := testArchive()
	store.snapshot = &a
	svc := NewService(store, &fakeLifecycle{store: store}, nil)
	svc.WithNow(func() time.Time { return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC) })

	sealed, name, err := svc.Export(context.Background(), 7)
	require.NoError(t, err)
	require.NotEmpty(t, sealed)
	require.Equal(t, "acme-traders-2025-08-01.insuite", name)

	require.Len(t, store.logs, 1)
	require.Equal(t, name, store.logs[0].FileName)
}

func TestImportRejectsGarbage(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeLifecycle{store: store}, nil)

	_, err := svc.Import(context.Background(), []byte("not a backup at all"))
	require.ErrorIs(t, err, shared.ErrInvalidFormat)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeLifecycle{store: store}, nil)

	a := testArchive()
	a.Version = 99
	_, err := svc.Import(context.Background(), sealedArchive(t, a))
	require.ErrorIs(t, err, shared.ErrInvalidFormat)
}
