package progressdb

import (
	"time"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// Snapshot is one append-only row of a decoder's top-50 patch total for a
// single line label. Rows are never updated or deleted; the history of a
// (decoder, label) pair is the decoder's progress curve.
type Snapshot struct {
	bun.BaseModel `bun:"table:decoder_progress"`

	ID         int64                  `bun:"id,pk,autoincrement" json:"id"`
	Decoder    sharedtypes.DecoderName `bun:"decoder,notnull" json:"decoder"`
	Label      sharedtypes.LineLabel   `bun:"label,notnull" json:"label"`
	TotalPatch sharedtypes.Patch       `bun:"total_patch,notnull" json:"total_patch"`
	RecordedAt time.Time              `bun:"recorded_at,notnull,default:current_timestamp" json:"recorded_at"`
}
