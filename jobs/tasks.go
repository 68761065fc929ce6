package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBackupRun exports one company's encrypted backup to disk.
	TaskBackupRun = "backup:run"
	// TaskLedgerIntegrity recomputes ledger balances from the posted entries
	// and reports drift.
	TaskLedgerIntegrity = "ledger:integrity"
)

// BackupRunPayload selects the company to back up.
type BackupRunPayload struct {
	CompanyID int64 `json:"company_id"`
}

// NewBackupRunTask constructs an Asynq task.
func NewBackupRunTask(payload BackupRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBackupRun, data), nil
}

// LedgerIntegrityPayload scopes the check; CompanyID 0 means every company.
type LedgerIntegrityPayload struct {
	CompanyID int64 `json:"company_id"`
}

// NewLedgerIntegrityTask constructs an Asynq task.
func NewLedgerIntegrityTask(payload LedgerIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}
