package decoderdb

import (
	"context"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// Repository defines database operations over decoder accounts.
type Repository interface {
	GetByName(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName) (*Decoder, error)
	Create(ctx context.Context, db bun.IDB, decoder *Decoder) error
	UpdateSecret(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName, hashedSecret string) error
	ListNames(ctx context.Context, db bun.IDB) ([]sharedtypes.DecoderName, error)
}
