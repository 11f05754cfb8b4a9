package resultservice

import (
	"context"
	"log/slog"
	"time"

	catalogservice "github.com/platina-lab/platina-lab/app/modules/catalog/application"
	resultdb "github.com/platina-lab/platina-lab/app/modules/result/infrastructure/repositories"
	"github.com/platina-lab/platina-lab/app/shared/results"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/platina-lab/platina-lab/internal/eventbus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Metrics is the subset of service metrics the result module records.
type Metrics interface {
	RecordSubmission(ctx context.Context, outcome string)
	RecordSubmissionDuration(ctx context.Context, d time.Duration)
}

// RejectionCategory classifies why a submission was rejected. The request
// layer maps each category to an HTTP status.
type RejectionCategory string

const (
	// CategoryInvalidInput covers malformed enum or range fields.
	CategoryInvalidInput RejectionCategory = "invalid_input"
	// CategoryNotFound covers references to songs that do not exist.
	CategoryNotFound RejectionCategory = "not_found"
	// CategoryNotImproved means the play did not beat the stored best.
	CategoryNotImproved RejectionCategory = "not_improved"
)

// SubmitAccepted reports an accepted submission. Previous is nil when this
// was the decoder's first result on the chart.
type SubmitAccepted struct {
	Decoder  sharedtypes.DecoderName `json:"decoder"`
	Chart    sharedtypes.ChartKey    `json:"chart"`
	Current  resultdb.BestValues     `json:"current"`
	Previous *resultdb.BestValues    `json:"previous,omitempty"`
}

// SubmitRejected reports a rejected submission. Reasons lists one entry per
// failed field for invalid input; CurrentBest is set when the rejection is a
// not-improved comparison against the stored best.
type SubmitRejected struct {
	Category    RejectionCategory    `json:"category"`
	Reasons     []string             `json:"reasons"`
	CurrentBest *resultdb.BestValues `json:"current_best,omitempty"`
}

// SubmitResultOutcome is the outcome of a SubmitResult call.
type SubmitResultOutcome = results.OperationResult[SubmitAccepted, SubmitRejected]

// Service exposes the score ledger.
type Service interface {
	SubmitResult(ctx context.Context, decoder sharedtypes.DecoderName, submission sharedtypes.SubmittedResult, now time.Time) (SubmitResultOutcome, error)
	GetArchive(ctx context.Context, decoder sharedtypes.DecoderName) ([]resultdb.DecodeResult, error)
}

// ResultService implements Service.
type ResultService struct {
	repo     resultdb.Repository
	catalog  catalogservice.Service
	db       *bun.DB
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  Metrics
	tracer   trace.Tracer
}

var _ Service = (*ResultService)(nil)

// NewResultService creates a new ResultService.
func NewResultService(
	repo resultdb.Repository,
	catalog catalogservice.Service,
	db *bun.DB,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics Metrics,
	tracer trace.Tracer,
) *ResultService {
	return &ResultService{
		repo:     repo,
		catalog:  catalog,
		db:       db,
		eventBus: eventBus,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

// GetArchive returns the decoder's full personal-best archive, most recent
// play first.
func (s *ResultService) GetArchive(ctx context.Context, decoder sharedtypes.DecoderName) ([]resultdb.DecodeResult, error) {
	ctx, span := s.tracer.Start(ctx, "GetArchive")
	defer span.End()

	return s.repo.GetArchive(ctx, s.db, decoder)
}
