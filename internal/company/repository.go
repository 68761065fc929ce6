package company

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/shared"
)

// Repository encapsulates DB operations for companies and financial years.
type Repository interface {
	List(ctx context.Context) ([]Company, error)
	Get(ctx context.Context, id int64) (Company, error)
	Update(ctx context.Context, c Company) error
	ListFinancialYears(ctx context.Context, companyID int64) ([]FinancialYear, error)
	GetFinancialYear(ctx context.Context, id int64) (FinancialYear, error)
	UpdateFinancialYear(ctx context.Context, fy FinancialYear) error
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations available inside a lifecycle
// transaction: seeding a new company's defaults and the cascade delete.
type TxRepository interface {
	InsertCompany(ctx context.Context, c Company) (Company, error)
	InsertFinancialYear(ctx context.Context, fy FinancialYear) (FinancialYear, error)
	InsertLedgerGroup(ctx context.Context, g coa.LedgerGroup) (coa.LedgerGroup, error)
	InsertStockGroup(ctx context.Context, companyID int64, name string, parentID *int64, isDefault bool) (int64, error)
	InsertUnit(ctx context.Context, companyID int64, name, symbol string, decimalPlaces int, isDefault bool) (int64, error)
	InsertLedger(ctx context.Context, l coa.Ledger) (coa.Ledger, error)
	DeleteCompanyData(ctx context.Context, companyID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const companyColumns = `id, name, address, state, gstin, pan, email, phone, books_beginning_date, created_at, updated_at`

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.State, &c.GSTIN, &c.PAN, &c.Email, &c.Phone, &c.BooksBeginningDate, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context) ([]Company, error) {
	rows, err := r.db.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Company, error) {
	c, err := scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) Update(ctx context.Context, c Company) error {
	cmd, err := r.db.Exec(ctx, `UPDATE companies SET name=$2, address=$3, state=$4, gstin=$5, pan=$6, email=$7, phone=$8, updated_at=NOW() WHERE id=$1`,
		c.ID, c.Name, c.Address, c.State, c.GSTIN, c.PAN, c.Email, c.Phone)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

const fyColumns = `id, company_id, label, start_date, end_date, is_closed, is_frozen, created_at, updated_at`

func scanFY(row pgx.Row) (FinancialYear, error) {
	var fy FinancialYear
	err := row.Scan(&fy.ID, &fy.CompanyID, &fy.Label, &fy.StartDate, &fy.EndDate, &fy.IsClosed, &fy.IsFrozen, &fy.CreatedAt, &fy.UpdatedAt)
	return fy, err
}

func (r *repository) ListFinancialYears(ctx context.Context, companyID int64) ([]FinancialYear, error) {
	rows, err := r.db.Query(ctx, `SELECT `+fyColumns+` FROM financial_years WHERE company_id=$1 ORDER BY start_date`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var years []FinancialYear
	for rows.Next() {
		fy, err := scanFY(rows)
		if err != nil {
			return nil, err
		}
		years = append(years, fy)
	}
	return years, rows.Err()
}

func (r *repository) GetFinancialYear(ctx context.Context, id int64) (FinancialYear, error) {
	fy, err := scanFY(r.db.QueryRow(ctx, `SELECT `+fyColumns+` FROM financial_years WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return FinancialYear{}, shared.ErrNotFound
	}
	return fy, err
}

func (r *repository) UpdateFinancialYear(ctx context.Context, fy FinancialYear) error {
	cmd, err := r.db.Exec(ctx, `UPDATE financial_years SET is_closed=$2, is_frozen=$3, updated_at=NOW() WHERE id=$1`,
		fy.ID, fy.IsClosed, fy.IsFrozen)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
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

func (r *txRepository) InsertCompany(ctx context.Context, c Company) (Company, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO companies (name, address, state, gstin, pan, email, phone, books_beginning_date)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id, created_at, updated_at`,
		c.Name, c.Address, c.State, c.GSTIN, c.PAN, c.Email, c.Phone, c.BooksBeginningDate)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Company{}, err
	}
	return c, nil
}

func (r *txRepository) InsertFinancialYear(ctx context.Context, fy FinancialYear) (FinancialYear, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO financial_years (company_id, label, start_date, end_date, is_closed, is_frozen)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at, updated_at`,
		fy.CompanyID, fy.Label, fy.StartDate, fy.EndDate, fy.IsClosed, fy.IsFrozen)
	if err := row.Scan(&fy.ID, &fy.CreatedAt, &fy.UpdatedAt); err != nil {
		return FinancialYear{}, err
	}
	return fy, nil
}

// InsertLedgerGroup mirrors the coa repository insert; duplicated here so
// seeding stays inside the lifecycle transaction.
func (r *txRepository) InsertLedgerGroup(ctx context.Context, g coa.LedgerGroup) (coa.LedgerGroup, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO ledger_groups (company_id, name, parent_id, nature, is_default, affects_gross_profit, sort_order)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at`,
		g.CompanyID, g.Name, g.ParentID, g.Nature, g.IsDefault, g.AffectsGrossProfit, g.SortOrder)
	if err := row.Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return coa.LedgerGroup{}, err
	}
	return g, nil
}

func (r *txRepository) InsertStockGroup(ctx context.Context, companyID int64, name string, parentID *int64, isDefault bool) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO stock_groups (company_id, name, parent_id, is_default) VALUES ($1,$2,$3,$4) RETURNING id`,
		companyID, name, parentID, isDefault).Scan(&id)
	return id, err
}

func (r *txRepository) InsertUnit(ctx context.Context, companyID int64, name, symbol string, decimalPlaces int, isDefault bool) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO units (company_id, name, symbol, decimal_places, is_default) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		companyID, name, symbol, decimalPlaces, isDefault).Scan(&id)
	return id, err
}

func (r *txRepository) InsertLedger(ctx context.Context, l coa.Ledger) (coa.Ledger, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO ledgers (company_id, name, group_id, opening_balance, balance_type, current_balance, current_balance_type, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id, created_at, updated_at`,
		l.CompanyID, l.Name, l.GroupID, l.OpeningBalance, l.BalanceType, l.CurrentBalance, l.CurrentBalanceType, l.IsActive)
	if err := row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return coa.Ledger{}, err
	}
	return l, nil
}

// DeleteCompanyData removes every dependent table's rows before the company
// record itself. The embedded store has no FK cascade, so the order is
// explicit: children before the tables they reference.
func (r *txRepository) DeleteCompanyData(ctx context.Context, companyID int64) error {
	statements := []string{
		`DELETE FROM voucher_items WHERE voucher_id IN (SELECT id FROM vouchers WHERE company_id=$1)`,
		`DELETE FROM voucher_entries WHERE voucher_id IN (SELECT id FROM vouchers WHERE company_id=$1)`,
		`DELETE FROM vouchers WHERE company_id=$1`,
		`DELETE FROM ledgers WHERE company_id=$1`,
		`DELETE FROM ledger_groups WHERE company_id=$1`,
		`DELETE FROM stock_items WHERE company_id=$1`,
		`DELETE FROM units WHERE company_id=$1`,
		`DELETE FROM stock_groups WHERE company_id=$1`,
		`DELETE FROM users WHERE company_id=$1`,
		`DELETE FROM audit_logs WHERE company_id=$1`,
		`DELETE FROM backup_logs WHERE company_id=$1`,
		`DELETE FROM financial_years WHERE company_id=$1`,
		`DELETE FROM companies WHERE id=$1`,
	}
	for _, stmt := range statements {
		if _, err := r.tx.Exec(ctx, stmt, companyID); err != nil {
			return err
		}
	}
	return nil
}
