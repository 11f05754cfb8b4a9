package decoderservice

import (
	"context"
	"log/slog"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/platina-lab/platina-lab/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	decoderdb "github.com/platina-lab/platina-lab/app/modules/decoder/infrastructure/repositories"
)

// Metrics is the subset of service metrics the decoder module records.
type Metrics interface {
	RecordRegistration(ctx context.Context)
	RecordKeyVerification(ctx context.Context, ok bool)
}

// RegisterSucceeded carries the plaintext API key back to the caller. The key
// is shown once at registration and never stored.
type RegisterSucceeded struct {
	Name sharedtypes.DecoderName `json:"name"`
	Key  string                  `json:"key"`
}

// RegisterFailed reports why a registration was rejected.
type RegisterFailed struct {
	Reason string `json:"reason"`
}

// RegisterResult is the outcome of a Register call.
type RegisterResult = results.OperationResult[RegisterSucceeded, RegisterFailed]

// ReissueSucceeded carries a freshly issued API key. The previous key stops
// verifying the moment this returns.
type ReissueSucceeded struct {
	Name sharedtypes.DecoderName `json:"name"`
	Key  string                  `json:"key"`
}

// ReissueFailed reports why a key reissue was rejected.
type ReissueFailed struct {
	Reason string `json:"reason"`
}

// ReissueResult is the outcome of a ReissueKey call.
type ReissueResult = results.OperationResult[ReissueSucceeded, ReissueFailed]

// Service exposes decoder account operations.
type Service interface {
	Register(ctx context.Context, name sharedtypes.DecoderName, password string) (RegisterResult, error)
	VerifyKey(ctx context.Context, presentedKey string) (sharedtypes.DecoderName, bool, error)
	VerifyPassword(ctx context.Context, name sharedtypes.DecoderName, password string) (bool, error)
	ReissueKey(ctx context.Context, name sharedtypes.DecoderName, password string) (ReissueResult, error)
	ListNames(ctx context.Context) ([]sharedtypes.DecoderName, error)
}

// DecoderService implements Service.
type DecoderService struct {
	repo    decoderdb.Repository
	db      *bun.DB
	logger  *slog.Logger
	metrics Metrics
	tracer  trace.Tracer
}

var _ Service = (*DecoderService)(nil)

// NewDecoderService creates a new DecoderService.
func NewDecoderService(
	repo decoderdb.Repository,
	db *bun.DB,
	logger *slog.Logger,
	metrics Metrics,
	tracer trace.Tracer,
) *DecoderService {
	return &DecoderService{
		repo:    repo,
		db:      db,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// ListNames returns every registered decoder name. Used by the progress sweep.
func (s *DecoderService) ListNames(ctx context.Context) ([]sharedtypes.DecoderName, error) {
	return s.repo.ListNames(ctx, s.db)
}
