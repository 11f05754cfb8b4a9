package resultdb

import (
	"time"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// DecodeResult is the personal best a decoder holds on one chart. At most one
// row exists per (decoder, song, line, difficulty, level). When a better play
// replaces the stored best, the replaced values are archived into the prev_*
// columns for "what changed" reporting; they hold the immediately preceding
// best, not a full history.
type DecodeResult struct {
	bun.BaseModel `bun:"table:decode_results,alias:r"`

	Decoder    sharedtypes.DecoderName `bun:"decoder,pk" json:"decoder"`
	SongID     int64                   `bun:"song_id,pk" json:"song_id"`
	Line       sharedtypes.Line        `bun:"line,pk" json:"line"`
	Difficulty sharedtypes.Difficulty  `bun:"difficulty,pk" json:"difficulty"`
	Level      int                     `bun:"level,pk" json:"level"`

	Judge       sharedtypes.Judge `bun:"judge,notnull" json:"judge"`
	Score       sharedtypes.Score `bun:"score,notnull" json:"score"`
	Patch       sharedtypes.Patch `bun:"patch,notnull" json:"patch"`
	DecodedAt   time.Time         `bun:"decoded_at,notnull" json:"decoded_at"`
	IsFullCombo bool              `bun:"is_full_combo,notnull,default:false" json:"is_full_combo"`
	IsMaxPatch  bool              `bun:"is_max_patch,notnull,default:false" json:"is_max_patch"`

	PrevJudge     *sharedtypes.Judge `bun:"prev_judge" json:"prev_judge,omitempty"`
	PrevScore     *sharedtypes.Score `bun:"prev_score" json:"prev_score,omitempty"`
	PrevPatch     *sharedtypes.Patch `bun:"prev_patch" json:"prev_patch,omitempty"`
	PrevFullCombo *bool              `bun:"prev_full_combo" json:"prev_full_combo,omitempty"`
	PrevMaxPatch  *bool              `bun:"prev_max_patch" json:"prev_max_patch,omitempty"`
	PrevDecodedAt *time.Time         `bun:"prev_decoded_at" json:"prev_decoded_at,omitempty"`
}

// ImprovedBy reports whether a play with the given judge and score beats the
// stored best: judge strictly improves, or judge ties and score strictly
// improves. Equal plays do not improve, which keeps resubmissions idempotent.
func (r *DecodeResult) ImprovedBy(judge sharedtypes.Judge, score sharedtypes.Score) bool {
	if judge != r.Judge {
		return judge > r.Judge
	}
	return score > r.Score
}

// ChartKey returns the chart this result is recorded against.
func (r *DecodeResult) ChartKey() sharedtypes.ChartKey {
	return sharedtypes.ChartKey{
		SongID:     r.SongID,
		Line:       r.Line,
		Difficulty: r.Difficulty,
		Level:      r.Level,
	}
}

// archive moves the current values into the shadow columns. Called right
// before an accepted play overwrites them.
func (r *DecodeResult) archive() {
	judge, score, patch := r.Judge, r.Score, r.Patch
	fullCombo, maxPatch, decodedAt := r.IsFullCombo, r.IsMaxPatch, r.DecodedAt
	r.PrevJudge = &judge
	r.PrevScore = &score
	r.PrevPatch = &patch
	r.PrevFullCombo = &fullCombo
	r.PrevMaxPatch = &maxPatch
	r.PrevDecodedAt = &decodedAt
}
