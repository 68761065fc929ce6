package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads report rows straight from the posted books.
type Repository interface {
	TrialBalanceRows(ctx context.Context, companyID int64) ([]TrialBalanceRow, error)
	DayBookVouchers(ctx context.Context, companyID int64, date time.Time) ([]DayBookVoucher, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) TrialBalanceRows(ctx context.Context, companyID int64) ([]TrialBalanceRow, error) {
	rows, err := r.db.Query(ctx, `SELECT g.id, g.name, g.nature, l.id, l.name, l.current_balance, l.current_balance_type
FROM ledgers l JOIN ledger_groups g ON g.id = l.group_id
WHERE l.company_id=$1 AND l.is_active
ORDER BY g.sort_order, g.id, l.name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TrialBalanceRow
	for rows.Next() {
		var row TrialBalanceRow
		if err := rows.Scan(&row.GroupID, &row.GroupName, &row.Nature, &row.LedgerID, &row.LedgerName, &row.Amount, &row.Side); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) DayBookVouchers(ctx context.Context, companyID int64, date time.Time) ([]DayBookVoucher, error) {
	rows, err := r.db.Query(ctx, `SELECT id, voucher_type, voucher_number, narration, total_debit, total_credit, is_cancelled
FROM vouchers WHERE company_id=$1 AND date=$2 ORDER BY id`, companyID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DayBookVoucher
	index := make(map[int64]int)
	for rows.Next() {
		var v DayBookVoucher
		if err := rows.Scan(&v.ID, &v.Type, &v.Number, &v.Narration, &v.TotalDebit, &v.TotalCredit, &v.IsCancelled); err != nil {
			return nil, err
		}
		index[v.ID] = len(out)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lrows, err := r.db.Query(ctx, `SELECT e.voucher_id, e.ledger_id, l.name, e.entry_type, e.amount
FROM voucher_entries e
JOIN vouchers v ON v.id = e.voucher_id
JOIN ledgers l ON l.id = e.ledger_id
WHERE v.company_id=$1 AND v.date=$2 ORDER BY e.id`, companyID, date)
	if err != nil {
		return nil, err
	}
	defer lrows.Close()
	for lrows.Next() {
		var voucherID int64
		var line DayBookLine
		if err := lrows.Scan(&voucherID, &line.LedgerID, &line.LedgerName, &line.Side, &line.Amount); err != nil {
			return nil, err
		}
		if i, ok := index[voucherID]; ok {
			out[i].Lines = append(out[i].Lines, line)
		}
	}
	return out, lrows.Err()
}
