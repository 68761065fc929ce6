package coa

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/insuite-dev/insuite/internal/shared"
)

// Repository encapsulates DB operations for the chart of accounts.
type Repository interface {
	ListGroups(ctx context.Context, companyID int64) ([]LedgerGroup, error)
	GetGroup(ctx context.Context, id int64) (LedgerGroup, error)
	InsertGroup(ctx context.Context, g LedgerGroup) (LedgerGroup, error)
	UpdateGroup(ctx context.Context, g LedgerGroup) error
	DeleteGroup(ctx context.Context, id int64) error
	GroupNameExists(ctx context.Context, companyID int64, parentID *int64, name string, excludeID int64) (bool, error)
	CountChildGroups(ctx context.Context, id int64) (int, error)
	CountGroupLedgers(ctx context.Context, groupID int64) (int, error)

	ListLedgers(ctx context.Context, filter ListLedgersFilter) ([]Ledger, error)
	GetLedger(ctx context.Context, id int64) (Ledger, error)
	InsertLedger(ctx context.Context, l Ledger) (Ledger, error)
	UpdateLedger(ctx context.Context, l Ledger) error
	DeleteLedger(ctx context.Context, id int64) error
	LedgerNameExists(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error)
	CountLedgerEntries(ctx context.Context, ledgerID int64) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const groupColumns = `id, company_id, name, parent_id, nature, is_default, affects_gross_profit, sort_order, created_at, updated_at`

func scanGroup(row pgx.Row) (LedgerGroup, error) {
	var g LedgerGroup
	err := row.Scan(&g.ID, &g.CompanyID, &g.Name, &g.ParentID, &g.Nature, &g.IsDefault, &g.AffectsGrossProfit, &g.SortOrder, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func (r *repository) ListGroups(ctx context.Context, companyID int64) ([]LedgerGroup, error) {
	rows, err := r.db.Query(ctx, `SELECT `+groupColumns+` FROM ledger_groups WHERE company_id=$1 ORDER BY sort_order, id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []LedgerGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *repository) GetGroup(ctx context.Context, id int64) (LedgerGroup, error) {
	g, err := scanGroup(r.db.QueryRow(ctx, `SELECT `+groupColumns+` FROM ledger_groups WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return LedgerGroup{}, shared.ErrNotFound
	}
	return g, err
}

func (r *repository) InsertGroup(ctx context.Context, g LedgerGroup) (LedgerGroup, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO ledger_groups (company_id, name, parent_id, nature, is_default, affects_gross_profit, sort_order)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at`,
		g.CompanyID, g.Name, g.ParentID, g.Nature, g.IsDefault, g.AffectsGrossProfit, g.SortOrder)
	if err := row.Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return LedgerGroup{}, err
	}
	return g, nil
}

func (r *repository) UpdateGroup(ctx context.Context, g LedgerGroup) error {
	cmd, err := r.db.Exec(ctx, `UPDATE ledger_groups SET name=$2, parent_id=$3, nature=$4, affects_gross_profit=$5, sort_order=$6, updated_at=NOW() WHERE id=$1`,
		g.ID, g.Name, g.ParentID, g.Nature, g.AffectsGrossProfit, g.SortOrder)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteGroup(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM ledger_groups WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) GroupNameExists(ctx context.Context, companyID int64, parentID *int64, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(
SELECT 1 FROM ledger_groups
WHERE company_id=$1 AND parent_id IS NOT DISTINCT FROM $2 AND LOWER(name)=$3 AND id<>$4)`,
		companyID, parentID, strings.ToLower(name), excludeID).Scan(&exists)
	return exists, err
}

func (r *repository) CountChildGroups(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_groups WHERE parent_id=$1`, id).Scan(&count)
	return count, err
}

func (r *repository) CountGroupLedgers(ctx context.Context, groupID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ledgers WHERE group_id=$1`, groupID).Scan(&count)
	return count, err
}

const ledgerColumns = `id, company_id, name, group_id, opening_balance, balance_type, current_balance, current_balance_type, is_active,
contact_person, phone, email, address, gstin, pan, bank_name, bank_account_no, bank_ifsc, created_at, updated_at`

func scanLedger(row pgx.Row) (Ledger, error) {
	var l Ledger
	err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.GroupID, &l.OpeningBalance, &l.BalanceType, &l.CurrentBalance, &l.CurrentBalanceType, &l.IsActive,
		&l.ContactPerson, &l.Phone, &l.Email, &l.Address, &l.GSTIN, &l.PAN, &l.BankName, &l.BankAccountNo, &l.BankIFSC, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *repository) ListLedgers(ctx context.Context, filter ListLedgersFilter) ([]Ledger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE company_id=$1`
	args := []any{filter.CompanyID}
	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		query += ` AND group_id=$2`
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += ` AND is_active=$` + itoa(len(args))
	}
	query += ` ORDER BY name`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + itoa(len(args))
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ledgers []Ledger
	for rows.Next() {
		l, err := scanLedger(rows)
		if err != nil {
			return nil, err
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, rows.Err()
}

func (r *repository) GetLedger(ctx context.Context, id int64) (Ledger, error) {
	l, err := scanLedger(r.db.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM ledgers WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Ledger{}, shared.ErrNotFound
	}
	return l, err
}

func (r *repository) InsertLedger(ctx context.Context, l Ledger) (Ledger, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO ledgers (company_id, name, group_id, opening_balance, balance_type, current_balance, current_balance_type, is_active,
contact_person, phone, email, address, gstin, pan, bank_name, bank_account_no, bank_ifsc)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17) RETURNING id, created_at, updated_at`,
		l.CompanyID, l.Name, l.GroupID, l.OpeningBalance, l.BalanceType, l.CurrentBalance, l.CurrentBalanceType, l.IsActive,
		l.ContactPerson, l.Phone, l.Email, l.Address, l.GSTIN, l.PAN, l.BankName, l.BankAccountNo, l.BankIFSC)
	if err := row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return Ledger{}, err
	}
	return l, nil
}

func (r *repository) UpdateLedger(ctx context.Context, l Ledger) error {
	cmd, err := r.db.Exec(ctx, `UPDATE ledgers SET name=$2, group_id=$3, current_balance=$4, current_balance_type=$5, is_active=$6,
contact_person=$7, phone=$8, email=$9, address=$10, gstin=$11, pan=$12, bank_name=$13, bank_account_no=$14, bank_ifsc=$15, updated_at=NOW() WHERE id=$1`,
		l.ID, l.Name, l.GroupID, l.CurrentBalance, l.CurrentBalanceType, l.IsActive,
		l.ContactPerson, l.Phone, l.Email, l.Address, l.GSTIN, l.PAN, l.BankName, l.BankAccountNo, l.BankIFSC)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteLedger(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM ledgers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) LedgerNameExists(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM ledgers WHERE company_id=$1 AND LOWER(name)=$2 AND id<>$3)`,
		companyID, strings.ToLower(name), excludeID).Scan(&exists)
	return exists, err
}

func (r *repository) CountLedgerEntries(ctx context.Context, ledgerID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM voucher_entries WHERE ledger_id=$1`, ledgerID).Scan(&count)
	return count, err
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
