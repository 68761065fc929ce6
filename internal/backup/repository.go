package backup

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/company"
	"github.com/insuite-dev/insuite/internal/inventory"
	"github.com/insuite-dev/insuite/internal/vouchers"
)

// Repository reads full company snapshots and writes backup logs. Import
// inserts run inside one transaction via WithTx.
type Repository interface {
	Snapshot(ctx context.Context, companyID int64) (Archive, error)
	InsertLog(ctx context.Context, log Log) error
	ListLogs(ctx context.Context, companyID int64) ([]Log, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the import-side inserts plus lookups over the rows the
// lifecycle seeding just created, so archive rows can merge by name.
type TxRepository interface {
	GroupIDsByName(ctx context.Context, companyID int64) (map[string]int64, error)
	LedgerIDsByName(ctx context.Context, companyID int64) (map[string]int64, error)
	StockGroupIDsByName(ctx context.Context, companyID int64) (map[string]int64, error)
	UnitIDsByName(ctx context.Context, companyID int64) (map[string]int64, error)
	FinancialYearIDsByLabel(ctx context.Context, companyID int64) (map[string]int64, error)

	InsertFinancialYear(ctx context.Context, fy company.FinancialYear) (int64, error)
	InsertLedgerGroup(ctx context.Context, g coa.LedgerGroup) (int64, error)
	InsertLedger(ctx context.Context, l coa.Ledger) (int64, error)
	UpdateLedger(ctx context.Context, l coa.Ledger) error
	InsertStockGroup(ctx context.Context, g inventory.StockGroup) (int64, error)
	InsertUnit(ctx context.Context, u inventory.Unit) (int64, error)
	InsertStockItem(ctx context.Context, item inventory.StockItem) (int64, error)
	InsertVoucher(ctx context.Context, v vouchers.Voucher) (int64, error)
	InsertEntries(ctx context.Context, voucherID int64, entries []vouchers.Entry) error
	InsertItems(ctx context.Context, voucherID int64, items []vouchers.Item) error
	InsertUser(ctx context.Context, companyID int64, u ArchiveUser) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Snapshot(ctx context.Context, companyID int64) (Archive, error) {
	var a Archive

	err := r.db.QueryRow(ctx, `SELECT id, name, address, state, gstin, pan, email, phone, books_beginning_date, created_at, updated_at FROM companies WHERE id=$1`, companyID).
		Scan(&a.Company.ID, &a.Company.Name, &a.Company.Address, &a.Company.State, &a.Company.GSTIN, &a.Company.PAN,
			&a.Company.Email, &a.Company.Phone, &a.Company.BooksBeginningDate, &a.Company.CreatedAt, &a.Company.UpdatedAt)
	if err != nil {
		return Archive{}, err
	}

	if err := r.snapshotFinancialYears(ctx, companyID, &a); err != nil {
		return Archive{}, err
	}
	if err := r.snapshotChart(ctx, companyID, &a); err != nil {
		return Archive{}, err
	}
	if err := r.snapshotInventory(ctx, companyID, &a); err != nil {
		return Archive{}, err
	}
	if err := r.snapshotVouchers(ctx, companyID, &a); err != nil {
		return Archive{}, err
	}
	if err := r.snapshotUsers(ctx, companyID, &a); err != nil {
		return Archive{}, err
	}
	return a, nil
}

func (r *repository) snapshotFinancialYears(ctx context.Context, companyID int64, a *Archive) error {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, label, start_date, end_date, is_closed, is_frozen, created_at, updated_at FROM financial_years WHERE company_id=$1 ORDER BY start_date`, companyID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var fy company.FinancialYear
		if err := rows.Scan(&fy.ID, &fy.CompanyID, &fy.Label, &fy.StartDate, &fy.EndDate, &fy.IsClosed, &fy.IsFrozen, &fy.CreatedAt, &fy.UpdatedAt); err != nil {
			return err
		}
		a.FinancialYears = append(a.FinancialYears, fy)
	}
	return rows.Err()
}

func (r *repository) snapshotChart(ctx context.Context, companyID int64, a *Archive) error {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, name, parent_id, nature, is_default, affects_gross_profit, sort_order, created_at, updated_at FROM ledger_groups WHERE company_id=$1 ORDER BY id`, companyID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var g coa.LedgerGroup
		if err := rows.Scan(&g.ID, &g.CompanyID, &g.Name, &g.ParentID, &g.Nature, &g.IsDefault, &g.AffectsGrossProfit, &g.SortOrder, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return err
		}
		a.LedgerGroups = append(a.LedgerGroups, g)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	lrows, err := r.db.Query(ctx, `SELECT id, company_id, name, group_id, opening_balance, balance_type, current_balance, current_balance_type, is_active,
contact_person, phone, email, address, gstin, pan, bank_name, bank_account_no, bank_ifsc, created_at, updated_at
FROM ledgers WHERE company_id=$1 ORDER BY id`, companyID)
	if err != nil {
		return err
	}
	defer lrows.Close()
	for lrows.Next() {
		var l coa.Ledger
		if err := lrows.Scan(&l.ID, &l.CompanyID, &l.Name, &l.GroupID, &l.OpeningBalance, &l.BalanceType, &l.CurrentBalance, &l.CurrentBalanceType, &l.IsActive,
			&l.ContactPerson, &l.Phone, &l.Email, &l.Address, &l.GSTIN, &l.PAN, &l.BankName, &l.BankAccountNo, &l.BankIFSC, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return err
		}
		a.Ledgers = append(a.Ledgers, l)
	}
	return lrows.Err()
}

func (r *repository) snapshotInventory(ctx context.Context, companyID int64, a *Archive) error {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, name, parent_id, is_default, created_at, updated_at FROM stock_groups WHERE company_id=$1 ORDER BY id`, companyID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var g inventory.StockGroup
		if err := rows.Scan(&g.ID, &g.CompanyID, &g.Name, &g.ParentID, &g.IsDefault, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return err
		}
		a.StockGroups = append(a.StockGroups, g)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	urows, err := r.db.Query(ctx, `SELECT id, company_id, name, symbol, decimal_places, is_default, created_at, updated_at FROM units WHERE company_id=$1 ORDER BY id`, companyID)
	if err != nil {
		return err
	}
	defer urows.Close()
	for urows.Next() {
		var u inventory.Unit
		if err := urows.Scan(&u.ID, &u.CompanyID, &u.Name, &u.Symbol, &u.DecimalPlaces, &u.IsDefault, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		a.Units = append(a.Units, u)
	}
	if err := urows.Err(); err != nil {
		return err
	}

	irows, err := r.db.Query(ctx, `SELECT id, company_id, name, stock_group_id, unit_id, hsn_code, gst_rate, opening_qty, rate, is_active, created_at, updated_at FROM stock_items WHERE company_id=$1 ORDER BY id`, companyID)
	if err != nil {
		return err
	}
	defer irows.Close()
	for irows.Next() {
		var it inventory.StockItem
		if err := irows.Scan(&it.ID, &it.CompanyID, &it.Name, &it.StockGroupID, &it.UnitID, &it.HSNCode, &it.GSTRate, &it.OpeningQty, &it.Rate, &it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return err
		}
		a.StockItems = append(a.StockItems, it)
	}
	return irows.Err()
}

func (r *repository) snapshotVouchers(ctx context.Context, companyID int64, a *Archive) error {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, fy_id, voucher_type, voucher_number, date, narration, party_ledger_id, total_debit, total_credit, is_locked, is_cancelled, created_at, updated_at
FROM vouchers WHERE company_id=$1 ORDER BY id`, companyID)
	if err != nil {
		return err
	}
	defer rows.Close()
	index := make(map[int64]int)
	for rows.Next() {
		var v vouchers.Voucher
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.FinancialYear, &v.Type, &v.Number, &v.Date, &v.Narration, &v.PartyLedgerID,
			&v.TotalDebit, &v.TotalCredit, &v.IsLocked, &v.IsCancelled, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return err
		}
		index[v.ID] = len(a.Vouchers)
		a.Vouchers = append(a.Vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	erows, err := r.db.Query(ctx, `SELECT e.id, e.voucher_id, e.ledger_id, e.entry_type, e.amount
FROM voucher_entries e JOIN vouchers v ON v.id = e.voucher_id WHERE v.company_id=$1 ORDER BY e.id`, companyID)
	if err != nil {
		return err
	}
	defer erows.Close()
	for erows.Next() {
		var voucherID int64
		var e vouchers.Entry
		if err := erows.Scan(&e.ID, &voucherID, &e.LedgerID, &e.Side, &e.Amount); err != nil {
			return err
		}
		if i, ok := index[voucherID]; ok {
			a.Vouchers[i].Entries = append(a.Vouchers[i].Entries, e)
		}
	}
	if err := erows.Err(); err != nil {
		return err
	}

	irows, err := r.db.Query(ctx, `SELECT i.id, i.voucher_id, i.stock_item_id, i.quantity, i.rate, i.discount_percent, i.gst_rate, i.taxable_value, i.cgst, i.sgst, i.igst, i.total
FROM voucher_items i JOIN vouchers v ON v.id = i.voucher_id WHERE v.company_id=$1 ORDER BY i.id`, companyID)
	if err != nil {
		return err
	}
	defer irows.Close()
	for irows.Next() {
		var voucherID int64
		var it vouchers.Item
		if err := irows.Scan(&it.ID, &voucherID, &it.StockItemID, &it.Quantity, &it.Rate, &it.DiscountPercent, &it.GSTRate, &it.TaxableValue, &it.CGST, &it.SGST, &it.IGST, &it.Total); err != nil {
			return err
		}
		if i, ok := index[voucherID]; ok {
			a.Vouchers[i].Items = append(a.Vouchers[i].Items, it)
		}
	}
	return irows.Err()
}

func (r *repository) snapshotUsers(ctx context.Context, companyID int64, a *Archive) error {
	rows, err := r.db.Query(ctx, `SELECT id, email, name, role, password_hash, is_active FROM users WHERE company_id=$1 ORDER BY id`, companyID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var u ArchiveUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.IsActive); err != nil {
			return err
		}
		a.Users = append(a.Users, u)
	}
	return rows.Err()
}

func (r *repository) InsertLog(ctx context.Context, log Log) error {
	_, err := r.db.Exec(ctx, `INSERT INTO backup_logs (company_id, export_id, kind, file_name, size_bytes) VALUES ($1,$2,$3,$4,$5)`,
		log.CompanyID, log.ExportID, log.Kind, log.FileName, log.SizeBytes)
	return err
}

func (r *repository) ListLogs(ctx context.Context, companyID int64) ([]Log, error) {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, export_id, kind, file_name, size_bytes, created_at FROM backup_logs WHERE company_id=$1 ORDER BY id DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var logs []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.ExportID, &l.Kind, &l.FileName, &l.SizeBytes, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
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

func (r *txRepository) namesToIDs(ctx context.Context, query string, companyID int64) (map[string]int64, error) {
	rows, err := r.tx.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[strings.ToLower(name)] = id
	}
	return out, rows.Err()
}

func (r *txRepository) GroupIDsByName(ctx context.Context, companyID int64) (map[string]int64, error) {
	return r.namesToIDs(ctx, `SELECT id, name FROM ledger_groups WHERE company_id=$1`, companyID)
}

func (r *txRepository) LedgerIDsByName(ctx context.Context, companyID int64) (map[string]int64, error) {
	return r.namesToIDs(ctx, `SELECT id, name FROM ledgers WHERE company_id=$1`, companyID)
}

func (r *txRepository) StockGroupIDsByName(ctx context.Context, companyID int64) (map[string]int64, error) {
	return r.namesToIDs(ctx, `SELECT id, name FROM stock_groups WHERE company_id=$1`, companyID)
}

func (r *txRepository) UnitIDsByName(ctx context.Context, companyID int64) (map[string]int64, error) {
	return r.namesToIDs(ctx, `SELECT id, name FROM units WHERE company_id=$1`, companyID)
}

func (r *txRepository) FinancialYearIDsByLabel(ctx context.Context, companyID int64) (map[string]int64, error) {
	return r.namesToIDs(ctx, `SELECT id, label FROM financial_years WHERE company_id=$1`, companyID)
}

func (r *txRepository) InsertFinancialYear(ctx context.Context, fy company.FinancialYear) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO financial_years (company_id, label, start_date, end_date, is_closed, is_frozen) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		fy.CompanyID, fy.Label, fy.StartDate, fy.EndDate, fy.IsClosed, fy.IsFrozen).Scan(&id)
	return id, err
}

func (r *txRepository) InsertLedgerGroup(ctx context.Context, g coa.LedgerGroup) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO ledger_groups (company_id, name, parent_id, nature, is_default, affects_gross_profit, sort_order) VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		g.CompanyID, g.Name, g.ParentID, g.Nature, g.IsDefault, g.AffectsGrossProfit, g.SortOrder).Scan(&id)
	return id, err
}

func (r *txRepository) InsertLedger(ctx context.Context, l coa.Ledger) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO ledgers (company_id, name, group_id, opening_balance, balance_type, current_balance, current_balance_type, is_active,
contact_person, phone, email, address, gstin, pan, bank_name, bank_account_no, bank_ifsc)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17) RETURNING id`,
		l.CompanyID, l.Name, l.GroupID, l.OpeningBalance, l.BalanceType, l.CurrentBalance, l.CurrentBalanceType, l.IsActive,
		l.ContactPerson, l.Phone, l.Email, l.Address, l.GSTIN, l.PAN, l.BankName, l.BankAccountNo, l.BankIFSC).Scan(&id)
	return id, err
}

func (r *txRepository) UpdateLedger(ctx context.Context, l coa.Ledger) error {
	_, err := r.tx.Exec(ctx, `UPDATE ledgers SET group_id=$2, opening_balance=$3, balance_type=$4, current_balance=$5, current_balance_type=$6, is_active=$7,
contact_person=$8, phone=$9, email=$10, address=$11, gstin=$12, pan=$13, bank_name=$14, bank_account_no=$15, bank_ifsc=$16, updated_at=NOW()
WHERE id=$1`,
		l.ID, l.GroupID, l.OpeningBalance, l.BalanceType, l.CurrentBalance, l.CurrentBalanceType, l.IsActive,
		l.ContactPerson, l.Phone, l.Email, l.Address, l.GSTIN, l.PAN, l.BankName, l.BankAccountNo, l.BankIFSC)
	return err
}

func (r *txRepository) InsertStockGroup(ctx context.Context, g inventory.StockGroup) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO stock_groups (company_id, name, parent_id, is_default) VALUES ($1,$2,$3,$4) RETURNING id`,
		g.CompanyID, g.Name, g.ParentID, g.IsDefault).Scan(&id)
	return id, err
}

func (r *txRepository) InsertUnit(ctx context.Context, u inventory.Unit) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO units (company_id, name, symbol, decimal_places, is_default) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		u.CompanyID, u.Name, u.Symbol, u.DecimalPlaces, u.IsDefault).Scan(&id)
	return id, err
}

func (r *txRepository) InsertStockItem(ctx context.Context, item inventory.StockItem) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO stock_items (company_id, name, stock_group_id, unit_id, hsn_code, gst_rate, opening_qty, rate, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
		item.CompanyID, item.Name, item.StockGroupID, item.UnitID, item.HSNCode, item.GSTRate, item.OpeningQty, item.Rate, item.IsActive).Scan(&id)
	return id, err
}

func (r *txRepository) InsertVoucher(ctx context.Context, v vouchers.Voucher) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO vouchers (company_id, fy_id, voucher_type, voucher_number, date, narration, party_ledger_id, total_debit, total_credit, is_locked, is_cancelled)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id`,
		v.CompanyID, v.FinancialYear, v.Type, v.Number, v.Date, v.Narration, v.PartyLedgerID, v.TotalDebit, v.TotalCredit, v.IsLocked, v.IsCancelled).Scan(&id)
	return id, err
}

func (r *txRepository) InsertEntries(ctx context.Context, voucherID int64, entries []vouchers.Entry) error {
	for _, e := range entries {
		if _, err := r.tx.Exec(ctx, `INSERT INTO voucher_entries (voucher_id, ledger_id, entry_type, amount) VALUES ($1,$2,$3,$4)`,
			voucherID, e.LedgerID, e.Side, e.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) InsertItems(ctx context.Context, voucherID int64, items []vouchers.Item) error {
	for _, it := range items {
		if _, err := r.tx.Exec(ctx, `INSERT INTO voucher_items (voucher_id, stock_item_id, quantity, rate, discount_percent, gst_rate, taxable_value, cgst, sgst, igst, total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			voucherID, it.StockItemID, it.Quantity, it.Rate, it.DiscountPercent, it.GSTRate, it.TaxableValue, it.CGST, it.SGST, it.IGST, it.Total); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) InsertUser(ctx context.Context, companyID int64, u ArchiveUser) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO users (company_id, email, name, role, password_hash, is_active) VALUES ($1,$2,$3,$4,$5,$6)`,
		companyID, u.Email, u.Name, u.Role, u.PasswordHash, u.IsActive)
	return err
}
