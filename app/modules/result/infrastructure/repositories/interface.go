package resultdb

import (
	"context"
	"time"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// BestValues is a snapshot of one stored best, used both for the archived
// previous values on acceptance and the untouched current best on rejection.
type BestValues struct {
	Judge       sharedtypes.Judge `json:"judge"`
	Score       sharedtypes.Score `json:"score"`
	Patch       sharedtypes.Patch `json:"patch"`
	IsFullCombo bool              `json:"is_full_combo"`
	IsMaxPatch  bool              `json:"is_max_patch"`
	DecodedAt   time.Time         `json:"decoded_at"`
}

// UpsertOutcome reports what the conditional write decided.
type UpsertOutcome struct {
	// Accepted is true when the candidate replaced the stored best (or was
	// the first result for the chart).
	Accepted bool
	// Previous holds the archived values when an existing best was replaced.
	// Nil on first insert.
	Previous *BestValues
	// Current holds the stored best after the call: the candidate when
	// accepted, the untouched existing row when not.
	Current BestValues
}

// Repository defines database operations over decode results. Upsert is the
// single write path; everything else is read-only and also serves the ranking
// engine.
type Repository interface {
	Upsert(ctx context.Context, db bun.IDB, candidate *DecodeResult) (*UpsertOutcome, error)
	GetArchive(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName) ([]DecodeResult, error)
	TopPatch(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool, limit int) ([]DecodeResult, error)
	StatusCounts(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (StatusCounts, error)
}

// StatusCounts are the per-predicate tallies over a decoder's results for one
// (line, plus-mode) filter. The predicates are independent: a single result
// can contribute to several buckets.
type StatusCounts struct {
	Cleared       int `json:"cleared_patterns"`
	FullCombo     int `json:"full_combo_patterns"`
	PerfectDecode int `json:"perfect_decode_patterns"`
	MaxPatch      int `json:"max_patch_patterns"`
}
