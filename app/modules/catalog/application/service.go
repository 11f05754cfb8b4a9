package catalogservice

import (
	"context"
	"fmt"
	"log/slog"

	catalogdb "github.com/platina-lab/platina-lab/app/modules/catalog/infrastructure/repositories"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Service exposes the read-only song/pattern catalog.
type Service interface {
	ListSongs(ctx context.Context) ([]catalogdb.Song, error)
	ListPatterns(ctx context.Context) ([]catalogdb.Pattern, error)
	SongExists(ctx context.Context, songID int64) (bool, error)
	AvailableLevels(ctx context.Context, songID int64, line sharedtypes.Line, difficulty sharedtypes.Difficulty) ([]int, error)
	CountPatterns(ctx context.Context, line sharedtypes.Line, isPlus bool) (int, error)
}

// CatalogService implements Service over the catalog repository.
type CatalogService struct {
	repo   catalogdb.Repository
	db     *bun.DB
	logger *slog.Logger
	tracer trace.Tracer
}

var _ Service = (*CatalogService)(nil)

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo catalogdb.Repository, db *bun.DB, logger *slog.Logger, tracer trace.Tracer) *CatalogService {
	return &CatalogService{
		repo:   repo,
		db:     db,
		logger: logger,
		tracer: tracer,
	}
}

func (s *CatalogService) ListSongs(ctx context.Context) ([]catalogdb.Song, error) {
	ctx, span := s.tracer.Start(ctx, "ListSongs")
	defer span.End()

	songs, err := s.repo.ListSongs(ctx, s.db)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list songs", slog.Any("error", err))
		return nil, fmt.Errorf("ListSongs: %w", err)
	}
	return songs, nil
}

func (s *CatalogService) ListPatterns(ctx context.Context) ([]catalogdb.Pattern, error) {
	ctx, span := s.tracer.Start(ctx, "ListPatterns")
	defer span.End()

	patterns, err := s.repo.ListPatterns(ctx, s.db)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list patterns", slog.Any("error", err))
		return nil, fmt.Errorf("ListPatterns: %w", err)
	}
	return patterns, nil
}

func (s *CatalogService) SongExists(ctx context.Context, songID int64) (bool, error) {
	return s.repo.SongExists(ctx, s.db, songID)
}

// AvailableLevels returns the chart levels defined for the song/line/difficulty
// combination, sorted ascending. An empty slice means no such chart exists and
// any submission against it must be rejected.
func (s *CatalogService) AvailableLevels(ctx context.Context, songID int64, line sharedtypes.Line, difficulty sharedtypes.Difficulty) ([]int, error) {
	return s.repo.AvailableLevels(ctx, s.db, songID, line, difficulty)
}

func (s *CatalogService) CountPatterns(ctx context.Context, line sharedtypes.Line, isPlus bool) (int, error) {
	return s.repo.CountPatterns(ctx, s.db, line, isPlus)
}
