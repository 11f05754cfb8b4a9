package resultdb

import (
	"context"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	UpsertFn       func(ctx context.Context, db bun.IDB, candidate *DecodeResult) (*UpsertOutcome, error)
	GetArchiveFn   func(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName) ([]DecodeResult, error)
	TopPatchFn     func(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool, limit int) ([]DecodeResult, error)
	StatusCountsFn func(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (StatusCounts, error)
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) Upsert(ctx context.Context, db bun.IDB, candidate *DecodeResult) (*UpsertOutcome, error) {
	if f.UpsertFn != nil {
		return f.UpsertFn(ctx, db, candidate)
	}
	return &UpsertOutcome{Accepted: true, Current: BestValues{}}, nil
}

func (f *FakeRepository) GetArchive(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName) ([]DecodeResult, error) {
	if f.GetArchiveFn != nil {
		return f.GetArchiveFn(ctx, db, decoder)
	}
	return nil, nil
}

func (f *FakeRepository) TopPatch(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool, limit int) ([]DecodeResult, error) {
	if f.TopPatchFn != nil {
		return f.TopPatchFn(ctx, db, decoder, line, isPlus, limit)
	}
	return nil, nil
}

func (f *FakeRepository) StatusCounts(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (StatusCounts, error) {
	if f.StatusCountsFn != nil {
		return f.StatusCountsFn(ctx, db, decoder, line, isPlus)
	}
	return StatusCounts{}, nil
}
