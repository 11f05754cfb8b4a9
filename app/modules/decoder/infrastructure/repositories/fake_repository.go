package decoderdb

import (
	"context"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// FakeRepository is a fake implementation of Repository for testing.
type FakeRepository struct {
	GetByNameFn    func(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName) (*Decoder, error)
	CreateFn       func(ctx context.Context, db bun.IDB, decoder *Decoder) error
	UpdateSecretFn func(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName, hashedSecret string) error
	ListNamesFn    func(ctx context.Context, db bun.IDB) ([]sharedtypes.DecoderName, error)
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) GetByName(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName) (*Decoder, error) {
	if f.GetByNameFn != nil {
		return f.GetByNameFn(ctx, db, name)
	}
	return nil, ErrDecoderNotFound
}

func (f *FakeRepository) Create(ctx context.Context, db bun.IDB, decoder *Decoder) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, db, decoder)
	}
	return nil
}

func (f *FakeRepository) UpdateSecret(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName, hashedSecret string) error {
	if f.UpdateSecretFn != nil {
		return f.UpdateSecretFn(ctx, db, name, hashedSecret)
	}
	return nil
}

func (f *FakeRepository) ListNames(ctx context.Context, db bun.IDB) ([]sharedtypes.DecoderName, error) {
	if f.ListNamesFn != nil {
		return f.ListNamesFn(ctx, db)
	}
	return nil, nil
}
