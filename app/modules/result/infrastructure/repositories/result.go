package resultdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// ResultDBImpl is the bun-backed decode result repository.
type ResultDBImpl struct{}

var _ Repository = (*ResultDBImpl)(nil)

func bestValues(r *DecodeResult) BestValues {
	return BestValues{
		Judge:       r.Judge,
		Score:       r.Score,
		Patch:       r.Patch,
		IsFullCombo: r.IsFullCombo,
		IsMaxPatch:  r.IsMaxPatch,
		DecodedAt:   r.DecodedAt,
	}
}

// Upsert records the candidate as the stored best iff it improves on the
// current one. The read, compare, and write happen inside a single
// transaction with the row locked, so concurrent submissions for the same
// chart cannot lose updates; a rejected candidate leaves the row byte-for-byte
// untouched.
func (r *ResultDBImpl) Upsert(ctx context.Context, db bun.IDB, candidate *DecodeResult) (*UpsertOutcome, error) {
	var outcome *UpsertOutcome

	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		existing := new(DecodeResult)
		err := tx.NewSelect().
			Model(existing).
			Where("decoder = ?", candidate.Decoder).
			Where("song_id = ?", candidate.SongID).
			Where("line = ?", candidate.Line).
			Where("difficulty = ?", candidate.Difficulty).
			Where("level = ?", candidate.Level).
			For("UPDATE").
			Scan(ctx)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.NewInsert().Model(candidate).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert result: %w", err)
			}
			outcome = &UpsertOutcome{Accepted: true, Current: bestValues(candidate)}
			return nil

		case err != nil:
			return fmt.Errorf("failed to load existing result: %w", err)
		}

		if !existing.ImprovedBy(candidate.Judge, candidate.Score) {
			outcome = &UpsertOutcome{Accepted: false, Current: bestValues(existing)}
			return nil
		}

		previous := bestValues(existing)
		existing.archive()
		existing.Judge = candidate.Judge
		existing.Score = candidate.Score
		existing.Patch = candidate.Patch
		existing.DecodedAt = candidate.DecodedAt
		existing.IsFullCombo = candidate.IsFullCombo
		existing.IsMaxPatch = candidate.IsMaxPatch

		if _, err := tx.NewUpdate().Model(existing).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("failed to update result: %w", err)
		}

		outcome = &UpsertOutcome{Accepted: true, Previous: &previous, Current: bestValues(existing)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (r *ResultDBImpl) GetArchive(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName) ([]DecodeResult, error) {
	var archive []DecodeResult
	err := db.NewSelect().
		Model(&archive).
		Where("decoder = ?", decoder).
		Order("decoded_at DESC", "song_id ASC", "line ASC", "difficulty ASC", "level ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive for %q: %w", decoder, err)
	}
	return archive, nil
}

// TopPatch returns the decoder's results for the (line, plus) filter ordered
// by patch descending, chart identity as the tie-break so repeated calls over
// unchanged data return the same order.
func (r *ResultDBImpl) TopPatch(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool, limit int) ([]DecodeResult, error) {
	var top []DecodeResult
	q := db.NewSelect().
		Model(&top).
		Where("decoder = ?", decoder).
		Where("line = ?", line)
	q = applyPlusFilter(q, isPlus)

	err := q.
		Order("patch DESC", "song_id ASC", "difficulty ASC", "level ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load top patch for %q: %w", decoder, err)
	}
	return top, nil
}

func (r *ResultDBImpl) StatusCounts(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (StatusCounts, error) {
	q := db.NewSelect().
		Model((*DecodeResult)(nil)).
		ColumnExpr("count(*) AS cleared").
		ColumnExpr("count(*) FILTER (WHERE is_full_combo) AS full_combo").
		ColumnExpr("count(*) FILTER (WHERE judge = 100) AS perfect_decode").
		ColumnExpr("count(*) FILTER (WHERE is_max_patch) AS max_patch").
		Where("decoder = ?", decoder).
		Where("line = ?", line)
	q = applyPlusFilter(q, isPlus)

	var counts StatusCounts
	err := q.Scan(ctx, &counts.Cleared, &counts.FullCombo, &counts.PerfectDecode, &counts.MaxPatch)
	if err != nil {
		return StatusCounts{}, fmt.Errorf("failed to load status counts for %q: %w", decoder, err)
	}
	return counts, nil
}

func applyPlusFilter(q *bun.SelectQuery, isPlus bool) *bun.SelectQuery {
	if isPlus {
		return q.Where("difficulty = ?", sharedtypes.DifficultyPlus)
	}
	return q.Where("difficulty != ?", sharedtypes.DifficultyPlus)
}
