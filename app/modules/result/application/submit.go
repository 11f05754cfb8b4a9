package resultservice

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	resultevents "github.com/platina-lab/platina-lab/app/modules/result/domain/events"
	resultdb "github.com/platina-lab/platina-lab/app/modules/result/infrastructure/repositories"
	"github.com/platina-lab/platina-lab/app/shared/results"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
)

func validateSubmission(sub sharedtypes.SubmittedResult) []string {
	var reasons []string
	if !sub.Line.IsValid() {
		reasons = append(reasons, fmt.Sprintf("line must be 4 or 6, got %d", sub.Line))
	}
	if !sub.Difficulty.IsValid() {
		reasons = append(reasons, fmt.Sprintf("difficulty must be one of EASY, HARD, OVER, PLUS, got %q", sub.Difficulty))
	}
	if !sub.Judge.IsValid() {
		reasons = append(reasons, fmt.Sprintf("judge must be between 0 and 100, got %v", float64(sub.Judge)))
	}
	if sub.Score < 0 {
		reasons = append(reasons, fmt.Sprintf("score must not be negative, got %d", sub.Score))
	}
	if sub.Patch < 0 {
		reasons = append(reasons, fmt.Sprintf("patch must not be negative, got %v", float64(sub.Patch)))
	}
	return reasons
}

// SubmitResult runs the full accept/reject pipeline for a play result. All
// validation happens before any write; rejected submissions never mutate the
// ledger, and resubmitting an identical play a second time leaves the shadow
// columns untouched because the comparison gate fails.
func (s *ResultService) SubmitResult(ctx context.Context, decoder sharedtypes.DecoderName, submission sharedtypes.SubmittedResult, now time.Time) (SubmitResultOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "SubmitResult")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordSubmissionDuration(ctx, time.Since(start))
	}()

	if reasons := validateSubmission(submission); len(reasons) > 0 {
		s.metrics.RecordSubmission(ctx, "invalid_input")
		return results.Fail[SubmitAccepted](SubmitRejected{
			Category: CategoryInvalidInput,
			Reasons:  reasons,
		}), nil
	}

	exists, err := s.catalog.SongExists(ctx, submission.SongID)
	if err != nil {
		return SubmitResultOutcome{}, fmt.Errorf("SubmitResult: %w", err)
	}
	if !exists {
		s.metrics.RecordSubmission(ctx, "not_found")
		return results.Fail[SubmitAccepted](SubmitRejected{
			Category: CategoryNotFound,
			Reasons:  []string{fmt.Sprintf("song %d does not exist", submission.SongID)},
		}), nil
	}

	levels, err := s.catalog.AvailableLevels(ctx, submission.SongID, submission.Line, submission.Difficulty)
	if err != nil {
		return SubmitResultOutcome{}, fmt.Errorf("SubmitResult: %w", err)
	}
	if !slices.Contains(levels, submission.Level) {
		s.metrics.RecordSubmission(ctx, "invalid_input")
		return results.Fail[SubmitAccepted](SubmitRejected{
			Category: CategoryInvalidInput,
			Reasons: []string{fmt.Sprintf("level %d is not defined for song %d %dL %s",
				submission.Level, submission.SongID, submission.Line, submission.Difficulty)},
		}), nil
	}

	candidate := &resultdb.DecodeResult{
		Decoder:     decoder,
		SongID:      submission.SongID,
		Line:        submission.Line,
		Difficulty:  submission.Difficulty,
		Level:       submission.Level,
		Judge:       submission.Judge,
		Score:       submission.Score,
		Patch:       submission.Patch,
		DecodedAt:   now,
		IsFullCombo: submission.IsFullCombo,
		IsMaxPatch:  submission.IsMaxPatch,
	}

	outcome, err := s.repo.Upsert(ctx, s.db, candidate)
	if err != nil {
		s.metrics.RecordSubmission(ctx, "storage_error")
		// Single-row transaction: the caller may retry without double-applying.
		return SubmitResultOutcome{}, fmt.Errorf("SubmitResult: %w", err)
	}

	if !outcome.Accepted {
		s.metrics.RecordSubmission(ctx, "not_improved")
		current := outcome.Current
		return results.Fail[SubmitAccepted](SubmitRejected{
			Category:    CategoryNotImproved,
			Reasons:     []string{"submitted play does not beat the stored best"},
			CurrentBest: &current,
		}), nil
	}

	s.metrics.RecordSubmission(ctx, "accepted")
	s.logger.InfoContext(ctx, "Result recorded",
		slog.String("decoder", decoder.String()),
		slog.Int64("song_id", submission.SongID),
		slog.Int("line", int(submission.Line)),
		slog.String("difficulty", string(submission.Difficulty)),
		slog.Int("level", submission.Level),
		slog.Float64("judge", float64(submission.Judge)),
	)

	event := resultevents.ResultRecordedPayload{
		Decoder:     decoder,
		Chart:       candidate.ChartKey(),
		Judge:       candidate.Judge,
		Score:       candidate.Score,
		Patch:       candidate.Patch,
		IsFullCombo: candidate.IsFullCombo,
		IsMaxPatch:  candidate.IsMaxPatch,
		DecodedAt:   candidate.DecodedAt,
		FirstClear:  outcome.Previous == nil,
	}
	if err := s.eventBus.Publish(ctx, resultevents.TopicResultRecorded, event); err != nil {
		// The ledger write already committed; a lost notification is not a
		// reason to fail the submission.
		s.logger.ErrorContext(ctx, "Failed to publish result event", slog.Any("error", err))
	}

	return results.OK[SubmitAccepted, SubmitRejected](SubmitAccepted{
		Decoder:  decoder,
		Chart:    candidate.ChartKey(),
		Current:  outcome.Current,
		Previous: outcome.Previous,
	}), nil
}
