package progressservice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	decoderservice "github.com/platina-lab/platina-lab/app/modules/decoder/application"
	progressdb "github.com/platina-lab/platina-lab/app/modules/progress/infrastructure/repositories"
	rankingservice "github.com/platina-lab/platina-lab/app/modules/ranking/application"
)

// ErrUnknownLabel means a caller asked for a line label outside the four
// ranked combinations.
var ErrUnknownLabel = errors.New("unknown line label")

// Metrics is the narrow metrics surface used by the progress module.
type Metrics interface {
	RecordSnapshotAppended(ctx context.Context, lineLabel string)
	RecordSweepDuration(ctx context.Context, d time.Duration)
	RecordSweepDecoder(ctx context.Context)
}

// SweepReport summarizes one pass over every registered decoder.
type SweepReport struct {
	Decoders int `json:"decoders"`
	Appended int `json:"appended"`
	Failed   int `json:"failed"`
}

// Service tracks decoder progress over time.
type Service interface {
	// RecordIfImproved recomputes the decoder's top-50 patch totals and
	// appends a snapshot for every label whose total strictly improved
	// (or that had no snapshot yet). It returns the current totals.
	RecordIfImproved(ctx context.Context, decoder sharedtypes.DecoderName) (map[sharedtypes.LineLabel]sharedtypes.ProgressPoint, error)
	// Latest returns the most recent snapshot per label without recomputing.
	Latest(ctx context.Context, decoder sharedtypes.DecoderName) (map[sharedtypes.LineLabel]sharedtypes.ProgressPoint, error)
	// History returns the decoder's snapshots for one label, oldest first.
	History(ctx context.Context, decoder sharedtypes.DecoderName, label sharedtypes.LineLabel) ([]sharedtypes.ProgressPoint, error)
	// Sweep runs RecordIfImproved for every registered decoder.
	Sweep(ctx context.Context) (SweepReport, error)
}

// ProgressService implements Service.
type ProgressService struct {
	repo        progressdb.Repository
	ranking     rankingservice.Service
	decoders    decoderservice.Service
	db          *bun.DB
	logger      *slog.Logger
	metrics     Metrics
	tracer      trace.Tracer
	concurrency int
}

var _ Service = (*ProgressService)(nil)

// NewProgressService creates a new ProgressService. concurrency caps how
// many decoders a sweep recomputes at once.
func NewProgressService(
	repo progressdb.Repository,
	ranking rankingservice.Service,
	decoders decoderservice.Service,
	db *bun.DB,
	logger *slog.Logger,
	metrics Metrics,
	tracer trace.Tracer,
	concurrency int,
) *ProgressService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ProgressService{
		repo:        repo,
		ranking:     ranking,
		decoders:    decoders,
		db:          db,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
		concurrency: concurrency,
	}
}
