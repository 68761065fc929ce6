package audit

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the audit trail written by the shared audit logger.
type Repository interface {
	List(ctx context.Context, filter Filter, limit, offset int) ([]Entry, error)
	Count(ctx context.Context, filter Filter) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func filterClause(filter Filter) (string, []any) {
	clause := ` WHERE company_id=$1`
	args := []any{filter.CompanyID}
	appendArg := func(cond string, val any) {
		args = append(args, val)
		clause += ` AND ` + cond + `$` + strconv.Itoa(len(args))
	}
	if filter.Entity != "" {
		appendArg("entity=", filter.Entity)
	}
	if filter.Action != "" {
		appendArg("action=", filter.Action)
	}
	if filter.From != nil {
		appendArg("occurred_at>=", *filter.From)
	}
	if filter.To != nil {
		appendArg("occurred_at<=", *filter.To)
	}
	return clause, args
}

func (r *repository) List(ctx context.Context, filter Filter, limit, offset int) ([]Entry, error) {
	clause, args := filterClause(filter)
	query := `SELECT id, company_id, actor_id, action, entity, entity_id, meta, occurred_at FROM audit_logs` +
		clause + ` ORDER BY occurred_at DESC, id DESC`
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &e.Meta, &e.OccurredAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) Count(ctx context.Context, filter Filter) (int, error) {
	clause, args := filterClause(filter)
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+clause, args...).Scan(&total)
	return total, err
}
