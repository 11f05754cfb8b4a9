package catalogdb

import (
	"context"
	"fmt"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// CatalogDBImpl is the bun-backed catalog repository.
type CatalogDBImpl struct{}

var _ Repository = (*CatalogDBImpl)(nil)

func (r *CatalogDBImpl) ListSongs(ctx context.Context, db bun.IDB) ([]Song, error) {
	var songs []Song
	err := db.NewSelect().
		Model(&songs).
		Order("song_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return songs, nil
}

func (r *CatalogDBImpl) ListPatterns(ctx context.Context, db bun.IDB) ([]Pattern, error) {
	var patterns []Pattern
	err := db.NewSelect().
		Model(&patterns).
		Order("song_id ASC", "line ASC", "difficulty ASC", "level ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	return patterns, nil
}

func (r *CatalogDBImpl) SongExists(ctx context.Context, db bun.IDB, songID int64) (bool, error) {
	exists, err := db.NewSelect().
		Model((*Song)(nil)).
		Where("song_id = ?", songID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check song %d: %w", songID, err)
	}
	return exists, nil
}

func (r *CatalogDBImpl) AvailableLevels(ctx context.Context, db bun.IDB, songID int64, line sharedtypes.Line, difficulty sharedtypes.Difficulty) ([]int, error) {
	var levels []int
	err := db.NewSelect().
		Model((*Pattern)(nil)).
		Column("level").
		Where("song_id = ?", songID).
		Where("line = ?", line).
		Where("difficulty = ?", difficulty).
		Order("level ASC").
		Scan(ctx, &levels)
	if err != nil {
		return nil, fmt.Errorf("failed to load levels for song %d: %w", songID, err)
	}
	return levels, nil
}

func (r *CatalogDBImpl) CountPatterns(ctx context.Context, db bun.IDB, line sharedtypes.Line, isPlus bool) (int, error) {
	q := db.NewSelect().
		Model((*Pattern)(nil)).
		Where("line = ?", line)
	if isPlus {
		q = q.Where("difficulty = ?", sharedtypes.DifficultyPlus)
	} else {
		q = q.Where("difficulty != ?", sharedtypes.DifficultyPlus)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count patterns: %w", err)
	}
	return count, nil
}

// ReplaceAll swaps the whole reference dataset in one transaction. Used by the
// catalog import command after a new spreadsheet drop.
func (r *CatalogDBImpl) ReplaceAll(ctx context.Context, db bun.IDB, songs []Song, patterns []Pattern) error {
	if _, err := db.NewDelete().Model((*Pattern)(nil)).Where("TRUE").Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear patterns: %w", err)
	}
	if _, err := db.NewDelete().Model((*Song)(nil)).Where("TRUE").Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear songs: %w", err)
	}
	if len(songs) > 0 {
		if _, err := db.NewInsert().Model(&songs).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert songs: %w", err)
		}
	}
	if len(patterns) > 0 {
		if _, err := db.NewInsert().Model(&patterns).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert patterns: %w", err)
		}
	}
	return nil
}
