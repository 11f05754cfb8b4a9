package decoderservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/platina-lab/platina-lab/app/modules/decoder/infrastructure/credentials"
	decoderdb "github.com/platina-lab/platina-lab/app/modules/decoder/infrastructure/repositories"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/platina-lab/platina-lab/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(repo decoderdb.Repository) *DecoderService {
	tracer := noop.NewTracerProvider().Tracer("test")
	return NewDecoderService(repo, nil, observability.NoOpLogger, observability.NoOpMetrics{}, tracer)
}

func TestRegister_IssuesVerifiableKey(t *testing.T) {
	var stored *decoderdb.Decoder
	repo := &decoderdb.FakeRepository{
		CreateFn: func(ctx context.Context, db bun.IDB, decoder *decoderdb.Decoder) error {
			stored = decoder
			return nil
		},
	}

	result, err := newTestService(repo).Register(context.Background(), "Ada", "hunter2hunter2")
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	require.NotNil(t, stored)

	key := result.Success.Key
	assert.True(t, strings.HasPrefix(key, "Ada::"))

	// The persisted digest matches the secret embedded in the key.
	_, secret, ok := credentials.SplitKey(key)
	require.True(t, ok)
	assert.True(t, credentials.SecretMatches(secret, stored.HashedSecret))

	// The password digest is slow-hashed, not the plaintext.
	assert.NotEqual(t, "hunter2hunter2", stored.HashedPass)
	assert.True(t, credentials.VerifyPassword("hunter2hunter2", stored.HashedPass))
}

func TestRegister_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		decoder    sharedtypes.DecoderName
		password   string
		createErr  error
		wantReason string
	}{
		{
			name:       "empty name",
			decoder:    "",
			password:   "longenough",
			wantReason: "name must not be empty",
		},
		{
			name:       "name contains separator",
			decoder:    "Ada::Lovelace",
			password:   "longenough",
			wantReason: "name must not contain '::'",
		},
		{
			name:       "name too long",
			decoder:    sharedtypes.DecoderName(strings.Repeat("a", 33)),
			password:   "longenough",
			wantReason: "name must be at most 32 characters",
		},
		{
			name:       "short password",
			decoder:    "Ada",
			password:   "short",
			wantReason: "password must be at least 8 characters",
		},
		{
			name:       "name already taken",
			decoder:    "Ada",
			password:   "longenough",
			createErr:  decoderdb.ErrNameTaken,
			wantReason: "name already taken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &decoderdb.FakeRepository{
				CreateFn: func(ctx context.Context, db bun.IDB, decoder *decoderdb.Decoder) error {
					return tt.createErr
				},
			}

			result, err := newTestService(repo).Register(context.Background(), tt.decoder, tt.password)
			require.NoError(t, err)
			require.True(t, result.IsFailure())
			assert.Equal(t, tt.wantReason, result.Failure.Reason)
		})
	}
}

func TestRegister_StorageError(t *testing.T) {
	repo := &decoderdb.FakeRepository{
		CreateFn: func(ctx context.Context, db bun.IDB, decoder *decoderdb.Decoder) error {
			return errors.New("connection reset")
		},
	}

	_, err := newTestService(repo).Register(context.Background(), "Ada", "longenough")
	assert.Error(t, err)
}

func TestVerifyKey(t *testing.T) {
	secret, digest, err := credentials.NewSecret()
	require.NoError(t, err)

	repo := &decoderdb.FakeRepository{
		GetByNameFn: func(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName) (*decoderdb.Decoder, error) {
			if name == "Ada" {
				return &decoderdb.Decoder{Name: "Ada", HashedSecret: digest}, nil
			}
			return nil, decoderdb.ErrDecoderNotFound
		},
	}
	svc := newTestService(repo)

	tests := []struct {
		name     string
		key      string
		wantName sharedtypes.DecoderName
		wantOK   bool
	}{
		{name: "correct key", key: credentials.ComposeKey("Ada", secret), wantName: "Ada", wantOK: true},
		{name: "wrong secret", key: "Ada::wrongsecret"},
		{name: "unknown decoder", key: credentials.ComposeKey("Babbage", secret)},
		{name: "malformed key", key: "no-separator-here"},
		{name: "empty key", key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := svc.VerifyKey(context.Background(), tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, got)
		})
	}
}

func TestVerifyKey_StorageError(t *testing.T) {
	repo := &decoderdb.FakeRepository{
		GetByNameFn: func(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName) (*decoderdb.Decoder, error) {
			return nil, errors.New("connection reset")
		},
	}

	_, _, err := newTestService(repo).VerifyKey(context.Background(), "Ada::whatever")
	assert.Error(t, err)
}

func TestReissueKey_InvalidatesOldSecret(t *testing.T) {
	oldSecret, oldDigest, err := credentials.NewSecret()
	require.NoError(t, err)
	passDigest, err := credentials.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	storedDigest := oldDigest
	repo := &decoderdb.FakeRepository{
		GetByNameFn: func(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName) (*decoderdb.Decoder, error) {
			return &decoderdb.Decoder{Name: "Ada", HashedPass: passDigest, HashedSecret: storedDigest}, nil
		},
		UpdateSecretFn: func(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName, hashedSecret string) error {
			storedDigest = hashedSecret
			return nil
		},
	}
	svc := newTestService(repo)

	result, err := svc.ReissueKey(context.Background(), "Ada", "hunter2hunter2")
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	// The old key no longer verifies, the new one does.
	_, ok, err := svc.VerifyKey(context.Background(), credentials.ComposeKey("Ada", oldSecret))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.VerifyKey(context.Background(), result.Success.Key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReissueKey_WrongPassword(t *testing.T) {
	passDigest, err := credentials.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	repo := &decoderdb.FakeRepository{
		GetByNameFn: func(ctx context.Context, db bun.IDB, name sharedtypes.DecoderName) (*decoderdb.Decoder, error) {
			return &decoderdb.Decoder{Name: "Ada", HashedPass: passDigest}, nil
		},
	}

	result, err := newTestService(repo).ReissueKey(context.Background(), "Ada", "wrong")
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Equal(t, "invalid credentials", result.Failure.Reason)
}
