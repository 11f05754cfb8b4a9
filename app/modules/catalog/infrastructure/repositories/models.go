package catalogdb

import (
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// Song is one row of the immutable song reference table. The two perceptual
// hashes identify the base and plus-mode jacket for client-side matching.
type Song struct {
	bun.BaseModel `bun:"table:platina_songs,alias:s"`

	SongID    int64  `bun:"song_id,pk,autoincrement" json:"songID"`
	Title     string `bun:"title,notnull" json:"title"`
	Artist    string `bun:"artist,notnull" json:"artist"`
	BPM       string `bun:"bpm,notnull" json:"BPM"`
	DLC       string `bun:"dlc,notnull" json:"DLC"`
	PHash     string `bun:"p_hash,notnull" json:"pHash"`
	PlusPHash string `bun:"plus_p_hash,notnull" json:"plusPHash"`
}

// Pattern is one chart of a song. The composite key allows multiple PLUS
// levels per (song, line).
type Pattern struct {
	bun.BaseModel `bun:"table:platina_patterns,alias:p"`

	SongID     int64                  `bun:"song_id,pk" json:"songID"`
	Line       sharedtypes.Line       `bun:"line,pk" json:"line"`
	Difficulty sharedtypes.Difficulty `bun:"difficulty,pk" json:"difficulty"`
	Level      int                    `bun:"level,pk" json:"level"`
	Designer   string                 `bun:"designer" json:"designer"`
}
