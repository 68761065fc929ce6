package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/insuite-dev/insuite/internal/coa"
)

type countingRepo struct {
	trialBalanceCalls int
	dayBookCalls      int
	rows              []TrialBalanceRow
	vouchers          []DayBookVoucher
}

func (r *countingRepo) TrialBalanceRows(ctx context.Context, companyID int64) ([]TrialBalanceRow, error) {
	r.trialBalanceCalls++
	return r.rows, nil
}

func (r *countingRepo) DayBookVouchers(ctx context.Context, companyID int64, date time.Time) ([]DayBookVoucher, error) {
	r.dayBookCalls++
	return r.vouchers, nil
}

func newTestService(t *testing.T) (*Service, *countingRepo, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	repo := &countingRepo{
		rows: []TrialBalanceRow{
			{GroupID: 1, GroupName: "Sundry Debtors", Nature: coa.NatureAssets, LedgerID: 10, LedgerName: "Acme Retail", Amount: 1180, Side: coa.SideDr},
			{GroupID: 2, GroupName: "Sales Accounts", Nature: coa.NatureIncome, LedgerID: 11, LedgerName: "Sales Account", Amount: 1000, Side: coa.SideCr},
			{GroupID: 3, GroupName: "Duties & Taxes", Nature: coa.NatureLiabilities, LedgerID: 12, LedgerName: "Output CGST", Amount: 180, Side: coa.SideCr},
		},
	}
	svc := NewService(repo, cache)
	return svc, repo, cache
}

func TestTrialBalanceTotals(t *testing.T) {
	svc, _, _ := newTestService(t)

	tb, err := svc.TrialBalance(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tb.Rows, 3)
	require.Equal(t, float64(1180), tb.TotalDebit)
	require.Equal(t, float64(1180), tb.TotalCredit)
}

func TestTrialBalanceServedFromCache(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.TrialBalance(context.Background(), 1)
	require.NoError(t, err)
	cached, err := svc.TrialBalance(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, 1, repo.trialBalanceCalls)
	require.Equal(t, float64(1180), cached.TotalDebit)
}

func TestInvalidateForcesReload(t *testing.T) {
	svc, repo, cache := newTestService(t)

	_, err := svc.TrialBalance(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background(), 1))

	repo.rows = append(repo.rows, TrialBalanceRow{
		GroupID: 4, GroupName: "Cash-in-Hand", Nature: coa.NatureAssets, LedgerID: 13, LedgerName: "Cash", Amount: 500, Side: coa.SideDr,
	})
	tb, err := svc.TrialBalance(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, 2, repo.trialBalanceCalls)
	require.Len(t, tb.Rows, 4)
}

func TestInvalidateScopedToCompany(t *testing.T) {
	svc, repo, cache := newTestService(t)

	_, err := svc.TrialBalance(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.TrialBalance(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 2, repo.trialBalanceCalls)

	require.NoError(t, cache.Invalidate(context.Background(), 2))

	_, err = svc.TrialBalance(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, repo.trialBalanceCalls, "company 1 still cached")

	_, err = svc.TrialBalance(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 3, repo.trialBalanceCalls, "company 2 reloaded")
}

func TestDayBookCachedPerDate(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.vouchers = []DayBookVoucher{{ID: 1, Type: "sales", Number: 1, TotalDebit: 1180, TotalCredit: 1180}}

	day := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	_, err := svc.DayBook(context.Background(), 1, day)
	require.NoError(t, err)
	_, err = svc.DayBook(context.Background(), 1, day)
	require.NoError(t, err)
	require.Equal(t, 1, repo.dayBookCalls)

	_, err = svc.DayBook(context.Background(), 1, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Equal(t, 2, repo.dayBookCalls)
}

func TestNilCachePassesThrough(t *testing.T) {
	repo := &countingRepo{rows: []TrialBalanceRow{
		{GroupID: 1, GroupName: "Cash-in-Hand", Nature: coa.NatureAssets, LedgerID: 1, LedgerName: "Cash", Amount: 50, Side: coa.SideDr},
	}}
	svc := NewService(repo, nil)

	_, err := svc.TrialBalance(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.TrialBalance(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, repo.trialBalanceCalls)
}
