package reports

import (
	"context"
	"time"

	"github.com/insuite-dev/insuite/internal/coa"
)

// Service assembles reports from the running ledger balances, caching them in
// Redis keyed by the company's cache version.
type Service struct {
	repo  Repository
	cache *Cache
	now   func() time.Time
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) TrialBalance(ctx context.Context, companyID int64) (TrialBalance, error) {
	key, err := s.cache.BuildKey(ctx, companyID, keyTrialBalance(companyID)...)
	if err != nil {
		return TrialBalance{}, err
	}
	var tb TrialBalance
	err = s.cache.FetchJSON(ctx, key, &tb, func(ctx context.Context) (interface{}, error) {
		return s.buildTrialBalance(ctx, companyID)
	})
	return tb, err
}

func (s *Service) buildTrialBalance(ctx context.Context, companyID int64) (TrialBalance, error) {
	rows, err := s.repo.TrialBalanceRows(ctx, companyID)
	if err != nil {
		return TrialBalance{}, err
	}
	tb := TrialBalance{CompanyID: companyID, Rows: rows, GeneratedAt: s.now()}
	for _, row := range rows {
		if row.Side == coa.SideDr {
			tb.TotalDebit += row.Amount
		} else {
			tb.TotalCredit += row.Amount
		}
	}
	return tb, nil
}

func (s *Service) DayBook(ctx context.Context, companyID int64, date time.Time) (DayBook, error) {
	key, err := s.cache.BuildKey(ctx, companyID, keyDayBook(companyID, date)...)
	if err != nil {
		return DayBook{}, err
	}
	var db DayBook
	err = s.cache.FetchJSON(ctx, key, &db, func(ctx context.Context) (interface{}, error) {
		vouchers, err := s.repo.DayBookVouchers(ctx, companyID, date)
		if err != nil {
			return nil, err
		}
		return DayBook{CompanyID: companyID, Date: date, Vouchers: vouchers, GeneratedAt: s.now()}, nil
	})
	return db, err
}
