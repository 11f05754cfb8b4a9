package sharedtypes

import (
	"fmt"
	"time"
)

// DecoderName is the unique account name of a registered player.
type DecoderName string

func (n DecoderName) String() string {
	return string(n)
}

// Line is the lane-count variant of a chart, 4 or 6.
type Line int

const (
	Line4 Line = 4
	Line6 Line = 6
)

// IsValid reports whether the line is one of the playable lane counts.
func (l Line) IsValid() bool {
	return l == Line4 || l == Line6
}

// Difficulty is the named difficulty slot of a chart.
type Difficulty string

const (
	DifficultyEasy Difficulty = "EASY"
	DifficultyHard Difficulty = "HARD"
	DifficultyOver Difficulty = "OVER"
	DifficultyPlus Difficulty = "PLUS"
)

// IsValid reports whether the difficulty is one of the four chart slots.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyHard, DifficultyOver, DifficultyPlus:
		return true
	}
	return false
}

// IsPlus reports whether the difficulty belongs to plus mode, which is
// ranked separately from EASY/HARD/OVER.
func (d Difficulty) IsPlus() bool {
	return d == DifficultyPlus
}

// LineLabel identifies one of the four ranked (line, plus-mode) combinations
// as stored in progress snapshots: 4L, 4L+, 6L, 6L+.
type LineLabel string

const (
	Label4L     LineLabel = "4L"
	Label4LPlus LineLabel = "4L+"
	Label6L     LineLabel = "6L"
	Label6LPlus LineLabel = "6L+"
)

// AllLineLabels lists the four ranked combinations in display order.
var AllLineLabels = []LineLabel{Label4L, Label4LPlus, Label6L, Label6LPlus}

// NewLineLabel builds the label for a line and plus-mode flag.
func NewLineLabel(line Line, isPlus bool) LineLabel {
	label := fmt.Sprintf("%dL", int(line))
	if isPlus {
		label += "+"
	}
	return LineLabel(label)
}

// IsValid reports whether the label is one of the four ranked combinations.
func (l LineLabel) IsValid() bool {
	switch l {
	case Label4L, Label4LPlus, Label6L, Label6LPlus:
		return true
	}
	return false
}

// Parts returns the line and plus-mode flag encoded in the label.
func (l LineLabel) Parts() (Line, bool) {
	switch l {
	case Label4L:
		return Line4, false
	case Label4LPlus:
		return Line4, true
	case Label6L:
		return Line6, false
	case Label6LPlus:
		return Line6, true
	}
	return 0, false
}

// Judge is the accuracy percentage of a play, 0 to 100.
type Judge float64

// IsValid reports whether the judge value is inside the percentage range.
func (j Judge) IsValid() bool {
	return j >= 0 && j <= 100
}

// Perfect reports whether the play was a perfect decode.
func (j Judge) Perfect() bool {
	return j == 100
}

// Score is the raw in-game score of a play.
type Score int64

// Patch is the P.A.T.C.H. metric used for ranking and emblem aggregation.
type Patch float64

// SubmittedResult is a play result as handed to the score ledger after
// transport-level decoding, before any domain validation.
type SubmittedResult struct {
	SongID      int64      `json:"song_id"`
	Line        Line       `json:"line"`
	Difficulty  Difficulty `json:"difficulty"`
	Level       int        `json:"level"`
	Judge       Judge      `json:"judge"`
	Score       Score      `json:"score"`
	Patch       Patch      `json:"patch"`
	IsFullCombo bool       `json:"is_full_combo"`
	IsMaxPatch  bool       `json:"is_max_patch"`
}

// ChartKey identifies a single chart a result can be recorded against.
type ChartKey struct {
	SongID     int64      `json:"song_id"`
	Line       Line       `json:"line"`
	Difficulty Difficulty `json:"difficulty"`
	Level      int        `json:"level"`
}

// ProgressPoint is one appended snapshot of a decoder's top-50 patch total.
type ProgressPoint struct {
	Total      Patch     `json:"total"`
	RecordedAt time.Time `json:"recorded_at"`
}
