package progressdb

import (
	"context"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// FakeRepository is a test double for Repository.
type FakeRepository struct {
	LatestFn  func(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName) (map[sharedtypes.LineLabel]Snapshot, error)
	AppendFn  func(ctx context.Context, db bun.IDB, snapshot *Snapshot) error
	HistoryFn func(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, label sharedtypes.LineLabel) ([]Snapshot, error)
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) Latest(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName) (map[sharedtypes.LineLabel]Snapshot, error) {
	if f.LatestFn != nil {
		return f.LatestFn(ctx, db, decoder)
	}
	return map[sharedtypes.LineLabel]Snapshot{}, nil
}

func (f *FakeRepository) Append(ctx context.Context, db bun.IDB, snapshot *Snapshot) error {
	if f.AppendFn != nil {
		return f.AppendFn(ctx, db, snapshot)
	}
	return nil
}

func (f *FakeRepository) History(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, label sharedtypes.LineLabel) ([]Snapshot, error) {
	if f.HistoryFn != nil {
		return f.HistoryFn(ctx, db, decoder, label)
	}
	return nil, nil
}
