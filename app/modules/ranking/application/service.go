package rankingservice

import (
	"context"
	"fmt"
	"log/slog"

	catalogservice "github.com/platina-lab/platina-lab/app/modules/catalog/application"
	rankingdomain "github.com/platina-lab/platina-lab/app/modules/ranking/domain"
	resultdb "github.com/platina-lab/platina-lab/app/modules/result/infrastructure/repositories"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// topPatchLimit is how many results count toward ranking aggregates.
const topPatchLimit = 50

// Status is the per-filter progress summary: how many charts exist and how
// many of them the decoder has cleared, full-comboed, perfect-decoded, or
// max-patched. The four played buckets are independent predicates, not a
// partition.
type Status struct {
	TotalPatterns   int `json:"total_patterns"`
	ClearedPatterns int `json:"cleared_patterns"`
	FullComboCount  int `json:"full_combo_patterns"`
	PerfectDecodes  int `json:"perfect_decode_patterns"`
	MaxPatchCount   int `json:"max_patch_patterns"`
}

// Emblem pairs a top-50 patch total with its tier.
type Emblem struct {
	TotalPatch sharedtypes.Patch        `json:"total_patch"`
	Tier       rankingdomain.EmblemTier `json:"tier"`
	Label      string                   `json:"label"`
}

// Service exposes the ranking engine.
type Service interface {
	Top50Patch(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) ([]resultdb.DecodeResult, error)
	Top50PatchSum(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (sharedtypes.Patch, error)
	Status(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (Status, error)
	Emblem(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (Emblem, error)
}

// RankingService implements Service over the result repository and catalog.
type RankingService struct {
	results resultdb.Repository
	catalog catalogservice.Service
	db      *bun.DB
	logger  *slog.Logger
	tracer  trace.Tracer
}

var _ Service = (*RankingService)(nil)

// NewRankingService creates a new RankingService.
func NewRankingService(
	results resultdb.Repository,
	catalog catalogservice.Service,
	db *bun.DB,
	logger *slog.Logger,
	tracer trace.Tracer,
) *RankingService {
	return &RankingService{
		results: results,
		catalog: catalog,
		db:      db,
		logger:  logger,
		tracer:  tracer,
	}
}

// Top50Patch returns the decoder's 50 highest-patch results for the filter,
// ordered patch descending with a deterministic chart-identity tie-break.
func (s *RankingService) Top50Patch(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) ([]resultdb.DecodeResult, error) {
	ctx, span := s.tracer.Start(ctx, "Top50Patch")
	defer span.End()

	top, err := s.results.TopPatch(ctx, s.db, decoder, line, isPlus, topPatchLimit)
	if err != nil {
		return nil, fmt.Errorf("Top50Patch: %w", err)
	}
	return top, nil
}

// Top50PatchSum sums patch over Top50Patch.
func (s *RankingService) Top50PatchSum(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (sharedtypes.Patch, error) {
	top, err := s.Top50Patch(ctx, decoder, line, isPlus)
	if err != nil {
		return 0, err
	}

	var sum sharedtypes.Patch
	for _, result := range top {
		sum += result.Patch
	}
	return sum, nil
}

// Status reports the chart counts for the filter alongside the decoder's
// played buckets. TotalPatterns comes from the catalog and is the same for
// every decoder.
func (s *RankingService) Status(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (Status, error) {
	ctx, span := s.tracer.Start(ctx, "Status")
	defer span.End()

	total, err := s.catalog.CountPatterns(ctx, line, isPlus)
	if err != nil {
		return Status{}, fmt.Errorf("Status: %w", err)
	}
	counts, err := s.results.StatusCounts(ctx, s.db, decoder, line, isPlus)
	if err != nil {
		return Status{}, fmt.Errorf("Status: %w", err)
	}

	return Status{
		TotalPatterns:   total,
		ClearedPatterns: counts.Cleared,
		FullComboCount:  counts.FullCombo,
		PerfectDecodes:  counts.PerfectDecode,
		MaxPatchCount:   counts.MaxPatch,
	}, nil
}

// Emblem classifies the decoder's top-50 patch total into its tier.
func (s *RankingService) Emblem(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (Emblem, error) {
	total, err := s.Top50PatchSum(ctx, decoder, line, isPlus)
	if err != nil {
		return Emblem{}, fmt.Errorf("Emblem: %w", err)
	}

	tier := rankingdomain.TierForTotal(total)
	return Emblem{TotalPatch: total, Tier: tier, Label: tier.Label()}, nil
}
