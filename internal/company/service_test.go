package company

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/shared"
)

type fakeTx struct {
	nextID       int64
	companies    []Company
	years        []FinancialYear
	ledgerGroups []coa.LedgerGroup
	stockGroups  []string
	units        []string
	ledgers      []coa.Ledger
	deleted      []int64
}

func (f *fakeTx) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeTx) InsertCompany(ctx context.Context, c Company) (Company, error) {
	c.ID = f.id()
	f.companies = append(f.companies, c)
	return c, nil
}

func (f *fakeTx) InsertFinancialYear(ctx context.Context, fy FinancialYear) (FinancialYear, error) {
	fy.ID = f.id()
	f.years = append(f.years, fy)
	return fy, nil
}

func (f *fakeTx) InsertLedgerGroup(ctx context.Context, g coa.LedgerGroup) (coa.LedgerGroup, error) {
	g.ID = f.id()
	f.ledgerGroups = append(f.ledgerGroups, g)
	return g, nil
}

func (f *fakeTx) InsertStockGroup(ctx context.Context, companyID int64, name string, parentID *int64, isDefault bool) (int64, error) {
	f.stockGroups = append(f.stockGroups, name)
	return f.id(), nil
}

func (f *fakeTx) InsertUnit(ctx context.Context, companyID int64, name, symbol string, decimalPlaces int, isDefault bool) (int64, error) {
	f.units = append(f.units, name)
	return f.id(), nil
}

func (f *fakeTx) InsertLedger(ctx context.Context, l coa.Ledger) (coa.Ledger, error) {
	l.ID = f.id()
	f.ledgers = append(f.ledgers, l)
	return l, nil
}

func (f *fakeTx) DeleteCompanyData(ctx context.Context, companyID int64) error {
	f.deleted = append(f.deleted, companyID)
	return nil
}

type fakeRepo struct {
	tx        *fakeTx
	companies map[int64]Company
	years     map[int64]FinancialYear
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tx:        &fakeTx{},
		companies: make(map[int64]Company),
		years:     make(map[int64]FinancialYear),
	}
}

func (f *fakeRepo) List(ctx context.Context) ([]Company, error) {
	var out []Company
	for _, c := range f.companies {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return Company{}, shared.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) Update(ctx context.Context, c Company) error {
	if _, ok := f.companies[c.ID]; !ok {
		return shared.ErrNotFound
	}
	f.companies[c.ID] = c
	return nil
}

func (f *fakeRepo) ListFinancialYears(ctx context.Context, companyID int64) ([]FinancialYear, error) {
	var out []FinancialYear
	for _, fy := range f.years {
		if fy.CompanyID == companyID {
			out = append(out, fy)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetFinancialYear(ctx context.Context, id int64) (FinancialYear, error) {
	fy, ok := f.years[id]
	if !ok {
		return FinancialYear{}, shared.ErrNotFound
	}
	return fy, nil
}

func (f *fakeRepo) UpdateFinancialYear(ctx context.Context, fy FinancialYear) error {
	if _, ok := f.years[fy.ID]; !ok {
		return shared.ErrNotFound
	}
	f.years[fy.ID] = fy
	return nil
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if err := fn(ctx, f.tx); err != nil {
		return err
	}
	for _, c := range f.tx.companies {
		f.companies[c.ID] = c
	}
	for _, fy := range f.tx.years {
		f.years[fy.ID] = fy
	}
	return nil
}

func createRequest() CreateCompanyRequest {
	return CreateCompanyRequest{
		Name:               "Acme Traders",
		State:              "Karnataka",
		BooksBeginningDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateCompanySeedsDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	require.Len(t, repo.tx.ledgerGroups, 27)
	require.Len(t, repo.tx.stockGroups, 8)
	require.Len(t, repo.tx.units, 9)
	require.Len(t, repo.tx.ledgers, 2)

	for _, g := range repo.tx.ledgerGroups {
		require.True(t, g.IsDefault)
		require.Equal(t, created.ID, g.CompanyID)
		require.True(t, g.Nature.Valid())
	}
}

func TestCreateCompanySeedParentsResolved(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	byName := make(map[string]coa.LedgerGroup)
	for _, g := range repo.tx.ledgerGroups {
		byName[g.Name] = g
	}

	bank := byName["Bank Accounts"]
	require.NotNil(t, bank.ParentID)
	require.Equal(t, byName["Current Assets"].ID, *bank.ParentID)

	duties := byName["Duties & Taxes"]
	require.NotNil(t, duties.ParentID)
	require.Equal(t, byName["Current Liabilities"].ID, *duties.ParentID)

	require.Nil(t, byName["Capital Account"].ParentID)
}

func TestCreateCompanyBootstrapLedgers(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	byName := make(map[string]coa.Ledger)
	for _, l := range repo.tx.ledgers {
		byName[l.Name] = l
	}
	require.Contains(t, byName, "Cash")
	require.Contains(t, byName, "Sales Account")
	// Cash sits under an asset group, Sales under income.
	require.Equal(t, coa.SideDr, byName["Cash"].BalanceType)
	require.Equal(t, coa.SideCr, byName["Sales Account"].BalanceType)
}

func TestCreateCompanyDerivesFirstYear(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	req := createRequest()
	req.BooksBeginningDate = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, repo.tx.years, 1)
	require.Equal(t, "2024-25", repo.tx.years[0].Label)
}

func TestCreateCompanyRequiresName(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateCompanyRequest{})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Empty(t, repo.tx.companies)
}

func TestDeleteCompanyCascades(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	require.Equal(t, []int64{created.ID}, repo.tx.deleted)
}

func TestDeleteMissingCompany(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	err := svc.Delete(context.Background(), 404)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateFinancialYearRejectsDuplicateLabel(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	_, err = svc.CreateFinancialYear(context.Background(), CreateFinancialYearRequest{
		CompanyID: created.ID,
		StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), // same 2025-26 span
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	next, err := svc.CreateFinancialYear(context.Background(), CreateFinancialYearRequest{
		CompanyID: created.ID,
		StartDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "2026-27", next.Label)
}

func TestCloseFinancialYear(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)
	years, err := repo.ListFinancialYears(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, years, 1)

	closed, err := svc.CloseFinancialYear(context.Background(), years[0].ID)
	require.NoError(t, err)
	require.True(t, closed.IsClosed)

	_, err = svc.CloseFinancialYear(context.Background(), years[0].ID)
	require.ErrorIs(t, err, shared.ErrValidation)
}
