package progressservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"golang.org/x/sync/errgroup"

	progressdb "github.com/platina-lab/platina-lab/app/modules/progress/infrastructure/repositories"
)

func (s *ProgressService) RecordIfImproved(ctx context.Context, decoder sharedtypes.DecoderName) (map[sharedtypes.LineLabel]sharedtypes.ProgressPoint, error) {
	ctx, span := s.tracer.Start(ctx, "RecordIfImproved")
	defer span.End()

	points, _, err := s.recordIfImproved(ctx, decoder)
	return points, err
}

func (s *ProgressService) recordIfImproved(ctx context.Context, decoder sharedtypes.DecoderName) (map[sharedtypes.LineLabel]sharedtypes.ProgressPoint, int, error) {
	latest, err := s.repo.Latest(ctx, s.db, decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("RecordIfImproved: %w", err)
	}

	now := time.Now().UTC()
	points := make(map[sharedtypes.LineLabel]sharedtypes.ProgressPoint, len(sharedtypes.AllLineLabels))
	appended := 0

	for _, label := range sharedtypes.AllLineLabels {
		line, isPlus := label.Parts()
		total, err := s.ranking.Top50PatchSum(ctx, decoder, line, isPlus)
		if err != nil {
			return nil, appended, fmt.Errorf("RecordIfImproved: %w", err)
		}

		prev, seen := latest[label]
		if seen && total <= prev.TotalPatch {
			points[label] = sharedtypes.ProgressPoint{Total: prev.TotalPatch, RecordedAt: prev.RecordedAt}
			continue
		}

		snapshot := &progressdb.Snapshot{
			Decoder:    decoder,
			Label:      label,
			TotalPatch: total,
			RecordedAt: now,
		}
		if err := s.repo.Append(ctx, s.db, snapshot); err != nil {
			return nil, appended, fmt.Errorf("RecordIfImproved: %w", err)
		}
		s.metrics.RecordSnapshotAppended(ctx, string(label))
		s.logger.InfoContext(ctx, "Progress snapshot appended",
			slog.String("decoder", decoder.String()),
			slog.String("label", string(label)),
			slog.Float64("total_patch", float64(total)),
		)
		appended++
		points[label] = sharedtypes.ProgressPoint{Total: total, RecordedAt: now}
	}

	return points, appended, nil
}

func (s *ProgressService) Latest(ctx context.Context, decoder sharedtypes.DecoderName) (map[sharedtypes.LineLabel]sharedtypes.ProgressPoint, error) {
	latest, err := s.repo.Latest(ctx, s.db, decoder)
	if err != nil {
		return nil, fmt.Errorf("Latest: %w", err)
	}

	points := make(map[sharedtypes.LineLabel]sharedtypes.ProgressPoint, len(latest))
	for label, snapshot := range latest {
		points[label] = sharedtypes.ProgressPoint{Total: snapshot.TotalPatch, RecordedAt: snapshot.RecordedAt}
	}
	return points, nil
}

func (s *ProgressService) History(ctx context.Context, decoder sharedtypes.DecoderName, label sharedtypes.LineLabel) ([]sharedtypes.ProgressPoint, error) {
	if !label.IsValid() {
		return nil, fmt.Errorf("History: %w: %q", ErrUnknownLabel, label)
	}

	rows, err := s.repo.History(ctx, s.db, decoder, label)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}

	points := make([]sharedtypes.ProgressPoint, len(rows))
	for i, row := range rows {
		points[i] = sharedtypes.ProgressPoint{Total: row.TotalPatch, RecordedAt: row.RecordedAt}
	}
	return points, nil
}

// Sweep recomputes progress for every registered decoder. A decoder whose
// recompute fails is logged and counted, not fatal to the rest of the sweep.
func (s *ProgressService) Sweep(ctx context.Context) (SweepReport, error) {
	ctx, span := s.tracer.Start(ctx, "Sweep")
	defer span.End()

	start := time.Now()

	names, err := s.decoders.ListNames(ctx)
	if err != nil {
		return SweepReport{}, fmt.Errorf("Sweep: %w", err)
	}

	var (
		mu     sync.Mutex
		report = SweepReport{Decoders: len(names)}
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, name := range names {
		g.Go(func() error {
			_, appended, err := s.recordIfImproved(ctx, name)
			if err != nil {
				s.logger.ErrorContext(ctx, "Sweep skipped decoder", slog.String("decoder", name.String()), slog.Any("error", err))
				mu.Lock()
				report.Failed++
				mu.Unlock()
				return nil
			}

			s.metrics.RecordSweepDecoder(ctx)
			mu.Lock()
			report.Appended += appended
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("Sweep: %w", err)
	}

	duration := time.Since(start)
	s.metrics.RecordSweepDuration(ctx, duration)
	s.logger.InfoContext(ctx, "Progress sweep finished",
		slog.Int("decoders", report.Decoders),
		slog.Int("appended", report.Appended),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", duration),
	)
	return report, nil
}
