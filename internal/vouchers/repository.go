package vouchers

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/shared"
)

// PostingLedger is the slice of a ledger the posting engine needs: the
// running balance plus the owning group's nature.
type PostingLedger struct {
	ID      int64
	Name    string
	Nature  coa.Nature
	Balance coa.Balance
}

// FinancialYearInfo carries the posting guards of a financial year.
type FinancialYearInfo struct {
	ID       int64
	IsClosed bool
	IsFrozen bool
}

// Repository encapsulates DB operations for vouchers.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Voucher, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Get(ctx context.Context, id int64) (Voucher, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations available inside a posting transaction.
type TxRepository interface {
	GetFinancialYear(ctx context.Context, fyID int64) (FinancialYearInfo, error)
	GetLedgerForUpdate(ctx context.Context, ledgerID int64) (PostingLedger, error)
	UpdateLedgerBalance(ctx context.Context, ledgerID int64, balance coa.Balance) error
	NextVoucherNumber(ctx context.Context, companyID, fyID int64, vtype Type) (int64, error)
	InsertVoucher(ctx context.Context, v Voucher) (Voucher, error)
	InsertEntries(ctx context.Context, voucherID int64, entries []Entry) error
	InsertItems(ctx context.Context, voucherID int64, items []Item) error
	GetVoucherForUpdate(ctx context.Context, id int64) (Voucher, error)
	MarkCancelled(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const voucherColumns = `id, company_id, fy_id, voucher_type, voucher_number, date, narration, party_ledger_id,
total_debit, total_credit, is_locked, is_cancelled, created_at, updated_at`

func scanVoucher(row pgx.Row) (Voucher, error) {
	var v Voucher
	err := row.Scan(&v.ID, &v.CompanyID, &v.FinancialYear, &v.Type, &v.Number, &v.Date, &v.Narration, &v.PartyLedgerID,
		&v.TotalDebit, &v.TotalCredit, &v.IsLocked, &v.IsCancelled, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

// filterClause renders the WHERE conditions shared by List and Count.
func filterClause(filter ListFilter) (string, []any) {
	clause := ` WHERE company_id=$1`
	args := []any{filter.CompanyID}
	appendArg := func(cond string, val any) {
		args = append(args, val)
		clause += ` AND ` + cond + `$` + strconv.Itoa(len(args))
	}
	if filter.FinancialYear != nil {
		appendArg("fy_id=", *filter.FinancialYear)
	}
	if filter.Type != nil {
		appendArg("voucher_type=", *filter.Type)
	}
	if filter.From != nil {
		appendArg("date>=", *filter.From)
	}
	if filter.To != nil {
		appendArg("date<=", *filter.To)
	}
	return clause, args
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Voucher, error) {
	clause, args := filterClause(filter)
	query := `SELECT ` + voucherColumns + ` FROM vouchers` + clause + ` ORDER BY date DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var vouchers []Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

func (r *repository) Count(ctx context.Context, filter ListFilter) (int, error) {
	clause, args := filterClause(filter)
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vouchers`+clause, args...).Scan(&total)
	return total, err
}

func (r *repository) Get(ctx context.Context, id int64) (Voucher, error) {
	v, err := scanVoucher(r.db.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Voucher{}, shared.ErrNotFound
		}
		return Voucher{}, err
	}
	entries, items, err := loadLines(ctx, r.db, id)
	if err != nil {
		return Voucher{}, err
	}
	v.Entries = entries
	v.Items = items
	return v, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadLines(ctx context.Context, q queryer, voucherID int64) ([]Entry, []Item, error) {
	rows, err := q.Query(ctx, `SELECT id, ledger_id, entry_type, amount FROM voucher_entries WHERE voucher_id=$1 ORDER BY id`, voucherID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.LedgerID, &e.Side, &e.Amount); err != nil {
			return nil, nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	itemRows, err := q.Query(ctx, `SELECT id, stock_item_id, quantity, rate, discount_percent, gst_rate, taxable_value, cgst, sgst, igst, total
FROM voucher_items WHERE voucher_id=$1 ORDER BY id`, voucherID)
	if err != nil {
		return nil, nil, err
	}
	defer itemRows.Close()
	var items []Item
	for itemRows.Next() {
		var it Item
		if err := itemRows.Scan(&it.ID, &it.StockItemID, &it.Quantity, &it.Rate, &it.DiscountPercent, &it.GSTRate, &it.TaxableValue, &it.CGST, &it.SGST, &it.IGST, &it.Total); err != nil {
			return nil, nil, err
		}
		items = append(items, it)
	}
	return entries, items, itemRows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetFinancialYear(ctx context.Context, fyID int64) (FinancialYearInfo, error) {
	var fy FinancialYearInfo
	err := r.tx.QueryRow(ctx, `SELECT id, is_closed, is_frozen FROM financial_years WHERE id=$1`, fyID).
		Scan(&fy.ID, &fy.IsClosed, &fy.IsFrozen)
	if errors.Is(err, pgx.ErrNoRows) {
		return FinancialYearInfo{}, shared.ErrNotFound
	}
	return fy, err
}

// GetLedgerForUpdate locks the ledger row for the duration of the posting
// transaction and joins the group nature needed for normal-balance rules.
func (r *txRepository) GetLedgerForUpdate(ctx context.Context, ledgerID int64) (PostingLedger, error) {
	var l PostingLedger
	err := r.tx.QueryRow(ctx, `SELECT l.id, l.name, g.nature, l.current_balance, l.current_balance_type
FROM ledgers l JOIN ledger_groups g ON g.id = l.group_id
WHERE l.id=$1 FOR UPDATE OF l`, ledgerID).
		Scan(&l.ID, &l.Name, &l.Nature, &l.Balance.Magnitude, &l.Balance.Side)
	if errors.Is(err, pgx.ErrNoRows) {
		return PostingLedger{}, shared.ErrNotFound
	}
	return l, err
}

func (r *txRepository) UpdateLedgerBalance(ctx context.Context, ledgerID int64, balance coa.Balance) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE ledgers SET current_balance=$2, current_balance_type=$3, updated_at=NOW() WHERE id=$1`,
		ledgerID, balance.Magnitude, balance.Side)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) NextVoucherNumber(ctx context.Context, companyID, fyID int64, vtype Type) (int64, error) {
	var next int64
	err := r.tx.QueryRow(ctx, `SELECT COALESCE(MAX(voucher_number), 0) + 1 FROM vouchers WHERE company_id=$1 AND fy_id=$2 AND voucher_type=$3`,
		companyID, fyID, vtype).Scan(&next)
	return next, err
}

func (r *txRepository) InsertVoucher(ctx context.Context, v Voucher) (Voucher, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO vouchers (company_id, fy_id, voucher_type, voucher_number, date, narration, party_ledger_id, total_debit, total_credit, is_locked, is_cancelled)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,false,false) RETURNING id, created_at, updated_at`,
		v.CompanyID, v.FinancialYear, v.Type, v.Number, v.Date, v.Narration, v.PartyLedgerID, v.TotalDebit, v.TotalCredit)
	if err := row.Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return Voucher{}, err
	}
	return v, nil
}

func (r *txRepository) InsertEntries(ctx context.Context, voucherID int64, entries []Entry) error {
	for _, e := range entries {
		if _, err := r.tx.Exec(ctx, `INSERT INTO voucher_entries (voucher_id, ledger_id, entry_type, amount) VALUES ($1,$2,$3,$4)`,
			voucherID, e.LedgerID, e.Side, e.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) InsertItems(ctx context.Context, voucherID int64, items []Item) error {
	for _, it := range items {
		if _, err := r.tx.Exec(ctx, `INSERT INTO voucher_items (voucher_id, stock_item_id, quantity, rate, discount_percent, gst_rate, taxable_value, cgst, sgst, igst, total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			voucherID, it.StockItemID, it.Quantity, it.Rate, it.DiscountPercent, it.GSTRate, it.TaxableValue, it.CGST, it.SGST, it.IGST, it.Total); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetVoucherForUpdate(ctx context.Context, id int64) (Voucher, error) {
	v, err := scanVoucher(r.tx.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Voucher{}, shared.ErrNotFound
		}
		return Voucher{}, err
	}
	entries, items, err := loadLines(ctx, r.tx, id)
	if err != nil {
		return Voucher{}, err
	}
	v.Entries = entries
	v.Items = items
	return v, nil
}

func (r *txRepository) MarkCancelled(ctx context.Context, id int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE vouchers SET is_cancelled=true, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
