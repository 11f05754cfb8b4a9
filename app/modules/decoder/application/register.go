package decoderservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/platina-lab/platina-lab/app/modules/decoder/infrastructure/credentials"
	decoderdb "github.com/platina-lab/platina-lab/app/modules/decoder/infrastructure/repositories"
	"github.com/platina-lab/platina-lab/app/shared/results"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
)

const (
	maxNameLength     = 32
	minPasswordLength = 8
)

func validateName(name sharedtypes.DecoderName) string {
	switch {
	case name == "":
		return "name must not be empty"
	case len(name) > maxNameLength:
		return fmt.Sprintf("name must be at most %d characters", maxNameLength)
	case strings.Contains(string(name), credentials.KeySeparator):
		return "name must not contain '::'"
	}
	return ""
}

// Register creates a decoder account and issues its first API key. The
// plaintext key is returned exactly once; only digests are persisted.
func (s *DecoderService) Register(ctx context.Context, name sharedtypes.DecoderName, password string) (RegisterResult, error) {
	ctx, span := s.tracer.Start(ctx, "Register")
	defer span.End()

	if reason := validateName(name); reason != "" {
		return results.Fail[RegisterSucceeded](RegisterFailed{Reason: reason}), nil
	}
	if len(password) < minPasswordLength {
		return results.Fail[RegisterSucceeded](RegisterFailed{
			Reason: fmt.Sprintf("password must be at least %d characters", minPasswordLength),
		}), nil
	}

	hashedPass, err := credentials.HashPassword(password)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("Register: %w", err)
	}
	secret, hashedSecret, err := credentials.NewSecret()
	if err != nil {
		return RegisterResult{}, fmt.Errorf("Register: %w", err)
	}

	decoder := &decoderdb.Decoder{
		Name:         name,
		HashedPass:   hashedPass,
		HashedSecret: hashedSecret,
	}
	if err := s.repo.Create(ctx, s.db, decoder); err != nil {
		if errors.Is(err, decoderdb.ErrNameTaken) {
			return results.Fail[RegisterSucceeded](RegisterFailed{Reason: "name already taken"}), nil
		}
		return RegisterResult{}, fmt.Errorf("Register: %w", err)
	}

	s.metrics.RecordRegistration(ctx)
	s.logger.InfoContext(ctx, "Decoder registered", slog.String("decoder", name.String()))

	return results.OK[RegisterSucceeded, RegisterFailed](RegisterSucceeded{
		Name: name,
		Key:  credentials.ComposeKey(name.String(), secret),
	}), nil
}

// ReissueKey replaces the decoder's API key secret after checking the account
// password. The previous key is invalidated by the overwrite.
func (s *DecoderService) ReissueKey(ctx context.Context, name sharedtypes.DecoderName, password string) (ReissueResult, error) {
	ctx, span := s.tracer.Start(ctx, "ReissueKey")
	defer span.End()

	ok, err := s.VerifyPassword(ctx, name, password)
	if err != nil {
		return ReissueResult{}, fmt.Errorf("ReissueKey: %w", err)
	}
	if !ok {
		return results.Fail[ReissueSucceeded](ReissueFailed{Reason: "invalid credentials"}), nil
	}

	secret, hashedSecret, err := credentials.NewSecret()
	if err != nil {
		return ReissueResult{}, fmt.Errorf("ReissueKey: %w", err)
	}
	if err := s.repo.UpdateSecret(ctx, s.db, name, hashedSecret); err != nil {
		return ReissueResult{}, fmt.Errorf("ReissueKey: %w", err)
	}

	s.logger.InfoContext(ctx, "Decoder key reissued", slog.String("decoder", name.String()))

	return results.OK[ReissueSucceeded, ReissueFailed](ReissueSucceeded{
		Name: name,
		Key:  credentials.ComposeKey(name.String(), secret),
	}), nil
}
