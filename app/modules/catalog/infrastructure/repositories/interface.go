package catalogdb

import (
	"context"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// Repository defines read operations over the song/pattern reference tables.
// Callers pass the bun.IDB explicitly so reads can join an outer transaction.
type Repository interface {
	ListSongs(ctx context.Context, db bun.IDB) ([]Song, error)
	ListPatterns(ctx context.Context, db bun.IDB) ([]Pattern, error)
	SongExists(ctx context.Context, db bun.IDB, songID int64) (bool, error)
	AvailableLevels(ctx context.Context, db bun.IDB, songID int64, line sharedtypes.Line, difficulty sharedtypes.Difficulty) ([]int, error)
	CountPatterns(ctx context.Context, db bun.IDB, line sharedtypes.Line, isPlus bool) (int, error)
	ReplaceAll(ctx context.Context, db bun.IDB, songs []Song, patterns []Pattern) error
}
