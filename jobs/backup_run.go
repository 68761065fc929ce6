package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hibiken/asynq"

	"github.com/insuite-dev/insuite/internal/backup"
	jobmetrics "github.com/insuite-dev/insuite/internal/jobs"
)

// NewBackupRunHandler returns the handler for TaskBackupRun. The export is
// written to dir with the service-generated file name.
func NewBackupRunHandler(svc *backup.Service, dir string, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload BackupRunPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		tracker := metrics.Track(TaskBackupRun)
		data, name, err := svc.Export(ctx, payload.CompanyID)
		if err != nil {
			logger.Error("backup run failed",
				slog.Int64("company_id", payload.CompanyID),
				slog.Any("error", err))
			return tracker.End(err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return tracker.End(err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return tracker.End(err)
		}
		logger.Info("backup written",
			slog.Int64("company_id", payload.CompanyID),
			slog.String("path", path),
			slog.Int("size_bytes", len(data)))
		return tracker.End(nil)
	}
}
