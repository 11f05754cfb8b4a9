package progressqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	progressservice "github.com/platina-lab/platina-lab/app/modules/progress/application"
)

// QueueService schedules the periodic progress sweep.
type QueueService interface {
	// TriggerSweep enqueues an immediate sweep in addition to the periodic one.
	TriggerSweep(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Service runs the sweep on a River periodic job over its own pgx pool.
// River requires pgx directly, not database/sql.
type Service struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ QueueService = (*Service)(nil)

// NewService creates the progress queue service. interval is how often the
// sweep fires; RunOnStart is set so a fresh deployment gets a baseline
// snapshot without waiting a full interval.
func NewService(ctx context.Context, dsn string, interval time.Duration, logger *slog.Logger, progress progressservice.Service) (*Service, error) {
	ctxLogger := logger.With(slog.String("component", "progress_queue"))

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewSweepWorker(ctxLogger, progress))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			"progress":         {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(interval),
				func() (river.JobArgs, *river.InsertOpts) {
					return SweepJob{}, &river.InsertOpts{Queue: "progress"}
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	ctxLogger.Info("Progress queue service initialized", slog.Duration("interval", interval))
	return &Service{client: client, pool: pool, logger: ctxLogger}, nil
}

func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting progress queue service")
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping progress queue service")
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.pool.Close()
	return nil
}

func (s *Service) TriggerSweep(ctx context.Context) error {
	_, err := s.client.Insert(ctx, SweepJob{}, &river.InsertOpts{
		Queue: "progress",
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue sweep job: %w", err)
	}
	return nil
}
