package users

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/insuite-dev/insuite/internal/shared"
)

// Repository defines data access for user accounts.
type Repository interface {
	List(ctx context.Context, companyID int64) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	FindByEmail(ctx context.Context, companyID int64, email string) (User, error)
	Insert(ctx context.Context, u User) (User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	SetActive(ctx context.Context, id int64, active bool) error
	EmailExists(ctx context.Context, companyID int64, email string) (bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const userColumns = `id, company_id, email, name, role, password_hash, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.CompanyID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *repository) List(ctx context.Context, companyID int64) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE company_id=$1 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, shared.ErrNotFound
	}
	return u, err
}

func (r *repository) FindByEmail(ctx context.Context, companyID int64, email string) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE company_id=$1 AND LOWER(email)=$2`,
		companyID, strings.ToLower(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, shared.ErrNotFound
	}
	return u, err
}

func (r *repository) Insert(ctx context.Context, u User) (User, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO users (company_id, email, name, role, password_hash, is_active)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at, updated_at`,
		u.CompanyID, u.Email, u.Name, u.Role, u.PasswordHash, u.IsActive)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1`, id, hash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET is_active=$2, updated_at=NOW() WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) EmailExists(ctx context.Context, companyID int64, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE company_id=$1 AND LOWER(email)=$2)`,
		companyID, strings.ToLower(email)).Scan(&exists)
	return exists, err
}
