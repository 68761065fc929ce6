package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/insuite-dev/insuite/internal/coa"
	jobmetrics "github.com/insuite-dev/insuite/internal/jobs"
	"github.com/insuite-dev/insuite/internal/vouchers"
)

// NewLedgerIntegrityHandler returns the handler for TaskLedgerIntegrity. Each
// ledger's balance is recomputed from its opening balance plus the entries of
// non-cancelled vouchers; any drift beyond the posting tolerance is logged.
func NewLedgerIntegrityHandler(db *pgxpool.Pool, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LedgerIntegrityPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		tracker := metrics.Track(TaskLedgerIntegrity)
		mismatches, checked, err := runLedgerIntegrity(ctx, db, payload.CompanyID)
		if err != nil {
			logger.Error("ledger integrity failed", slog.Any("error", err))
			return tracker.End(err)
		}
		byCompany := make(map[int64]int)
		for _, m := range mismatches {
			byCompany[m.CompanyID]++
			logger.Warn("ledger balance drift",
				slog.Int64("company_id", m.CompanyID),
				slog.Int64("ledger_id", m.LedgerID),
				slog.String("ledger", m.Name),
				slog.Float64("stored", m.Stored),
				slog.Float64("computed", m.Computed))
		}
		for companyID, count := range byCompany {
			metrics.AddDrift(companyID, count)
		}
		logger.Info("ledger integrity check done",
			slog.Int64("company_id", payload.CompanyID),
			slog.Int("ledgers", checked),
			slog.Int("mismatches", len(mismatches)))
		return tracker.End(nil)
	}
}

type ledgerDrift struct {
	CompanyID int64
	LedgerID  int64
	Name      string
	Stored    float64
	Computed  float64
}

// runLedgerIntegrity compares stored running balances against ones recomputed
// from scratch. Signed convention: Dr positive.
func runLedgerIntegrity(ctx context.Context, db *pgxpool.Pool, companyID int64) ([]ledgerDrift, int, error) {
	query := `SELECT l.id, l.company_id, l.name, l.opening_balance, l.balance_type, l.current_balance, l.current_balance_type,
COALESCE(SUM(CASE WHEN e.entry_type=$1 THEN e.amount WHEN e.entry_type=$2 THEN -e.amount END) FILTER (WHERE NOT v.is_cancelled), 0)
FROM ledgers l
LEFT JOIN voucher_entries e ON e.ledger_id = l.id
LEFT JOIN vouchers v ON v.id = e.voucher_id
WHERE ($3 = 0 OR l.company_id = $3)
GROUP BY l.id`
	rows, err := db.Query(ctx, query, coa.SideDr, coa.SideCr, companyID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var drifts []ledgerDrift
	checked := 0
	for rows.Next() {
		var (
			id, company                     int64
			name                            string
			opening, current, entriesSigned float64
			openingSide, currentSide        coa.Side
		)
		if err := rows.Scan(&id, &company, &name, &opening, &openingSide, &current, &currentSide, &entriesSigned); err != nil {
			return nil, 0, err
		}
		checked++
		stored := coa.Balance{Magnitude: current, Side: currentSide}.Signed()
		computed := coa.Balance{Magnitude: opening, Side: openingSide}.Signed() + entriesSigned
		if math.Abs(stored-computed) > vouchers.BalanceTolerance {
			drifts = append(drifts, ledgerDrift{CompanyID: company, LedgerID: id, Name: name, Stored: stored, Computed: computed})
		}
	}
	return drifts, checked, rows.Err()
}
