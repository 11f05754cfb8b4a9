package progressqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	progressservice "github.com/platina-lab/platina-lab/app/modules/progress/application"
)

// SweepWorker runs the progress sweep when a SweepJob fires.
type SweepWorker struct {
	river.WorkerDefaults[SweepJob]

	logger  *slog.Logger
	service progressservice.Service
}

// NewSweepWorker creates a new SweepWorker.
func NewSweepWorker(logger *slog.Logger, service progressservice.Service) *SweepWorker {
	return &SweepWorker{logger: logger, service: service}
}

func (w *SweepWorker) Work(ctx context.Context, job *river.Job[SweepJob]) error {
	w.logger.InfoContext(ctx, "Progress sweep job started", slog.Int64("job_id", job.ID))

	report, err := w.service.Sweep(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Progress sweep job failed", slog.Int64("job_id", job.ID), slog.Any("error", err))
		return fmt.Errorf("progress sweep: %w", err)
	}

	w.logger.InfoContext(ctx, "Progress sweep job finished",
		slog.Int64("job_id", job.ID),
		slog.Int("decoders", report.Decoders),
		slog.Int("appended", report.Appended),
		slog.Int("failed", report.Failed),
	)
	return nil
}
