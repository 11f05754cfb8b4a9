package decoderdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DecoderDBImpl is the bun-backed decoder repository.
type DecoderDBImpl struct{}

var _ Repository = (*DecoderDBImpl)(nil)

func (r *DecoderDBImpl) GetByName(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName) (*Decoder, error) {
	decoder := new(Decoder)
	err := db.NewSelect().
		Model(decoder).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDecoderNotFound
		}
		return nil, fmt.Errorf("failed to get decoder %q: %w", name, err)
	}
	return decoder, nil
}

func (r *DecoderDBImpl) Create(ctx context.Context, db bun.IDB, decoder *Decoder) error {
	_, err := db.NewInsert().
		Model(decoder).
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ErrNameTaken
		}
		return fmt.Errorf("failed to create decoder %q: %w", decoder.Name, err)
	}
	return nil
}

func (r *DecoderDBImpl) UpdateSecret(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName, hashedSecret string) error {
	res, err := db.NewUpdate().
		Model((*Decoder)(nil)).
		Set("hashed_secret = ?", hashedSecret).
		Where("name = ?", name).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update secret for %q: %w", name, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result for %q: %w", name, err)
	}
	if rows == 0 {
		return ErrDecoderNotFound
	}
	return nil
}

func (r *DecoderDBImpl) ListNames(ctx context.Context, db bun.IDB) ([]sharedtypes.DecoderName, error) {
	var names []sharedtypes.DecoderName
	err := db.NewSelect().
		Model((*Decoder)(nil)).
		Column("name").
		Order("name ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("failed to list decoder names: %w", err)
	}
	return names, nil
}
