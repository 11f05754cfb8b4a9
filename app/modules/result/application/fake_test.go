package resultservice

import (
	"context"
	"sync"

	catalogdb "github.com/platina-lab/platina-lab/app/modules/catalog/infrastructure/repositories"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
)

// fakeCatalog provides a programmable stub for the catalog service.
type fakeCatalog struct {
	songs  map[int64]bool
	levels map[sharedtypes.ChartKey]bool
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		songs:  map[int64]bool{},
		levels: map[sharedtypes.ChartKey]bool{},
	}
}

func (f *fakeCatalog) addChart(songID int64, line sharedtypes.Line, difficulty sharedtypes.Difficulty, level int) {
	f.songs[songID] = true
	f.levels[sharedtypes.ChartKey{SongID: songID, Line: line, Difficulty: difficulty, Level: level}] = true
}

func (f *fakeCatalog) ListSongs(ctx context.Context) ([]catalogdb.Song, error) {
	return nil, nil
}

func (f *fakeCatalog) ListPatterns(ctx context.Context) ([]catalogdb.Pattern, error) {
	return nil, nil
}

func (f *fakeCatalog) SongExists(ctx context.Context, songID int64) (bool, error) {
	return f.songs[songID], nil
}

func (f *fakeCatalog) AvailableLevels(ctx context.Context, songID int64, line sharedtypes.Line, difficulty sharedtypes.Difficulty) ([]int, error) {
	var levels []int
	for key := range f.levels {
		if key.SongID == songID && key.Line == line && key.Difficulty == difficulty {
			levels = append(levels, key.Level)
		}
	}
	return levels, nil
}

func (f *fakeCatalog) CountPatterns(ctx context.Context, line sharedtypes.Line, isPlus bool) (int, error) {
	count := 0
	for key := range f.levels {
		if key.Line == line && key.Difficulty.IsPlus() == isPlus {
			count++
		}
	}
	return count, nil
}

// recordingEventBus captures published events for assertions.
type recordingEventBus struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (b *recordingEventBus) Publish(ctx context.Context, topic string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, topic)
	b.events = append(b.events, payload)
	return nil
}

func (b *recordingEventBus) Close() error { return nil }
