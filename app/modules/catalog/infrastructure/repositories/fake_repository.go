package catalogdb

import (
	"context"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	ListSongsFn       func(ctx context.Context, db bun.IDB) ([]Song, error)
	ListPatternsFn    func(ctx context.Context, db bun.IDB) ([]Pattern, error)
	SongExistsFn      func(ctx context.Context, db bun.IDB, songID int64) (bool, error)
	AvailableLevelsFn func(ctx context.Context, db bun.IDB, songID int64, line sharedtypes.Line, difficulty sharedtypes.Difficulty) ([]int, error)
	CountPatternsFn   func(ctx context.Context, db bun.IDB, line sharedtypes.Line, isPlus bool) (int, error)
	ReplaceAllFn      func(ctx context.Context, db bun.IDB, songs []Song, patterns []Pattern) error
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) ListSongs(ctx context.Context, db bun.IDB) ([]Song, error) {
	if f.ListSongsFn != nil {
		return f.ListSongsFn(ctx, db)
	}
	return nil, nil
}

func (f *FakeRepository) ListPatterns(ctx context.Context, db bun.IDB) ([]Pattern, error) {
	if f.ListPatternsFn != nil {
		return f.ListPatternsFn(ctx, db)
	}
	return nil, nil
}

func (f *FakeRepository) SongExists(ctx context.Context, db bun.IDB, songID int64) (bool, error) {
	if f.SongExistsFn != nil {
		return f.SongExistsFn(ctx, db, songID)
	}
	return false, nil
}

func (f *FakeRepository) AvailableLevels(ctx context.Context, db bun.IDB, songID int64, line sharedtypes.Line, difficulty sharedtypes.Difficulty) ([]int, error) {
	if f.AvailableLevelsFn != nil {
		return f.AvailableLevelsFn(ctx, db, songID, line, difficulty)
	}
	return nil, nil
}

func (f *FakeRepository) CountPatterns(ctx context.Context, db bun.IDB, line sharedtypes.Line, isPlus bool) (int, error) {
	if f.CountPatternsFn != nil {
		return f.CountPatternsFn(ctx, db, line, isPlus)
	}
	return 0, nil
}

func (f *FakeRepository) ReplaceAll(ctx context.Context, db bun.IDB, songs []Song, patterns []Pattern) error {
	if f.ReplaceAllFn != nil {
		return f.ReplaceAllFn(ctx, db, songs, patterns)
	}
	return nil
}
