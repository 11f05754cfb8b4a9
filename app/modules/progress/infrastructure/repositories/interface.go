package progressdb

import (
	"context"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// Repository handles database operations for progress snapshots.
type Repository interface {
	// Latest returns the most recent snapshot per label for the decoder.
	// Labels with no snapshot yet are absent from the map.
	Latest(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName) (map[sharedtypes.LineLabel]Snapshot, error)
	// Append inserts a new snapshot row. The row's RecordedAt is filled by
	// the database when zero.
	Append(ctx context.Context, db bun.IDB, snapshot *Snapshot) error
	// History returns every snapshot for the decoder and label, oldest first.
	History(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, label sharedtypes.LineLabel) ([]Snapshot, error)
}
