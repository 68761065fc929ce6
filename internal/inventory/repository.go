package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/insuite-dev/insuite/internal/shared"
)

// Repository encapsulates DB operations for inventory masters.
type Repository interface {
	ListStockGroups(ctx context.Context, companyID int64) ([]StockGroup, error)
	GetStockGroup(ctx context.Context, id int64) (StockGroup, error)
	InsertStockGroup(ctx context.Context, g StockGroup) (StockGroup, error)
	DeleteStockGroup(ctx context.Context, id int64) error
	StockGroupNameExists(ctx context.Context, companyID int64, parentID *int64, name string) (bool, error)
	CountChildStockGroups(ctx context.Context, id int64) (int, error)
	CountStockGroupItems(ctx context.Context, id int64) (int, error)

	ListUnits(ctx context.Context, companyID int64) ([]Unit, error)
	GetUnit(ctx context.Context, id int64) (Unit, error)
	InsertUnit(ctx context.Context, u Unit) (Unit, error)
	DeleteUnit(ctx context.Context, id int64) error
	UnitNameExists(ctx context.Context, companyID int64, name string) (bool, error)
	CountUnitItems(ctx context.Context, id int64) (int, error)

	ListStockItems(ctx context.Context, companyID int64) ([]StockItem, error)
	GetStockItem(ctx context.Context, id int64) (StockItem, error)
	InsertStockItem(ctx context.Context, item StockItem) (StockItem, error)
	UpdateStockItem(ctx context.Context, item StockItem) error
	DeleteStockItem(ctx context.Context, id int64) error
	StockItemNameExists(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListStockGroups(ctx context.Context, companyID int64) ([]StockGroup, error) {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, name, parent_id, is_default, created_at, updated_at FROM stock_groups WHERE company_id=$1 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []StockGroup
	for rows.Next() {
		var g StockGroup
		if err := rows.Scan(&g.ID, &g.CompanyID, &g.Name, &g.ParentID, &g.IsDefault, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *repository) GetStockGroup(ctx context.Context, id int64) (StockGroup, error) {
	var g StockGroup
	err := r.db.QueryRow(ctx, `SELECT id, company_id, name, parent_id, is_default, created_at, updated_at FROM stock_groups WHERE id=$1`, id).
		Scan(&g.ID, &g.CompanyID, &g.Name, &g.ParentID, &g.IsDefault, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return StockGroup{}, shared.ErrNotFound
	}
	return g, err
}

func (r *repository) InsertStockGroup(ctx context.Context, g StockGroup) (StockGroup, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO stock_groups (company_id, name, parent_id, is_default) VALUES ($1,$2,$3,$4) RETURNING id, created_at, updated_at`,
		g.CompanyID, g.Name, g.ParentID, g.IsDefault)
	if err := row.Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return StockGroup{}, err
	}
	return g, nil
}

func (r *repository) DeleteStockGroup(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM stock_groups WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) StockGroupNameExists(ctx context.Context, companyID int64, parentID *int64, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM stock_groups WHERE company_id=$1 AND parent_id IS NOT DISTINCT FROM $2 AND LOWER(name)=$3)`,
		companyID, parentID, strings.ToLower(name)).Scan(&exists)
	return exists, err
}

func (r *repository) CountChildStockGroups(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stock_groups WHERE parent_id=$1`, id).Scan(&count)
	return count, err
}

func (r *repository) CountStockGroupItems(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stock_items WHERE stock_group_id=$1`, id).Scan(&count)
	return count, err
}

func (r *repository) ListUnits(ctx context.Context, companyID int64) ([]Unit, error) {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, name, symbol, decimal_places, is_default, created_at, updated_at FROM units WHERE company_id=$1 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var units []Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Name, &u.Symbol, &u.DecimalPlaces, &u.IsDefault, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (r *repository) GetUnit(ctx context.Context, id int64) (Unit, error) {
	var u Unit
	err := r.db.QueryRow(ctx, `SELECT id, company_id, name, symbol, decimal_places, is_default, created_at, updated_at FROM units WHERE id=$1`, id).
		Scan(&u.ID, &u.CompanyID, &u.Name, &u.Symbol, &u.DecimalPlaces, &u.IsDefault, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Unit{}, shared.ErrNotFound
	}
	return u, err
}

func (r *repository) InsertUnit(ctx context.Context, u Unit) (Unit, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO units (company_id, name, symbol, decimal_places, is_default) VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at, updated_at`,
		u.CompanyID, u.Name, u.Symbol, u.DecimalPlaces, u.IsDefault)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return Unit{}, err
	}
	return u, nil
}

func (r *repository) DeleteUnit(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM units WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) UnitNameExists(ctx context.Context, companyID int64, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM units WHERE company_id=$1 AND LOWER(name)=$2)`,
		companyID, strings.ToLower(name)).Scan(&exists)
	return exists, err
}

func (r *repository) CountUnitItems(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stock_items WHERE unit_id=$1`, id).Scan(&count)
	return count, err
}

const stockItemColumns = `id, company_id, name, stock_group_id, unit_id, hsn_code, gst_rate, opening_qty, rate, is_active, created_at, updated_at`

func scanStockItem(row pgx.Row) (StockItem, error) {
	var it StockItem
	err := row.Scan(&it.ID, &it.CompanyID, &it.Name, &it.StockGroupID, &it.UnitID, &it.HSNCode, &it.GSTRate, &it.OpeningQty, &it.Rate, &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (r *repository) ListStockItems(ctx context.Context, companyID int64) ([]StockItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+stockItemColumns+` FROM stock_items WHERE company_id=$1 ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StockItem
	for rows.Next() {
		it, err := scanStockItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) GetStockItem(ctx context.Context, id int64) (StockItem, error) {
	it, err := scanStockItem(r.db.QueryRow(ctx, `SELECT `+stockItemColumns+` FROM stock_items WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return StockItem{}, shared.ErrNotFound
	}
	return it, err
}

func (r *repository) InsertStockItem(ctx context.Context, item StockItem) (StockItem, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO stock_items (company_id, name, stock_group_id, unit_id, hsn_code, gst_rate, opening_qty, rate, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id, created_at, updated_at`,
		item.CompanyID, item.Name, item.StockGroupID, item.UnitID, item.HSNCode, item.GSTRate, item.OpeningQty, item.Rate, item.IsActive)
	if err := row.Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return StockItem{}, err
	}
	return item, nil
}

func (r *repository) UpdateStockItem(ctx context.Context, item StockItem) error {
	cmd, err := r.db.Exec(ctx, `UPDATE stock_items SET name=$2, stock_group_id=$3, unit_id=$4, hsn_code=$5, gst_rate=$6, rate=$7, is_active=$8, updated_at=NOW() WHERE id=$1`,
		item.ID, item.Name, item.StockGroupID, item.UnitID, item.HSNCode, item.GSTRate, item.Rate, item.IsActive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteStockItem(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM stock_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) StockItemNameExists(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM stock_items WHERE company_id=$1 AND LOWER(name)=$2 AND id<>$3)`,
		companyID, strings.ToLower(name), excludeID).Scan(&exists)
	return exists, err
}
