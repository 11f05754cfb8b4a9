package decoderservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/platina-lab/platina-lab/app/modules/decoder/infrastructure/credentials"
	decoderdb "github.com/platina-lab/platina-lab/app/modules/decoder/infrastructure/repositories"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
)

// VerifyKey resolves a presented API key to a decoder identity. A malformed
// key, an unknown name, and a digest mismatch are all reported as the same
// unauthenticated result so callers cannot probe which part failed. An error
// is returned only for storage problems.
func (s *DecoderService) VerifyKey(ctx context.Context, presentedKey string) (sharedtypes.DecoderName, bool, error) {
	ctx, span := s.tracer.Start(ctx, "VerifyKey")
	defer span.End()

	name, secret, ok := credentials.SplitKey(presentedKey)
	if !ok {
		s.metrics.RecordKeyVerification(ctx, false)
		return "", false, nil
	}

	decoder, err := s.repo.GetByName(ctx, s.db, sharedtypes.DecoderName(name))
	if err != nil {
		if errors.Is(err, decoderdb.ErrDecoderNotFound) {
			s.metrics.RecordKeyVerification(ctx, false)
			return "", false, nil
		}
		return "", false, fmt.Errorf("VerifyKey: %w", err)
	}

	if !credentials.SecretMatches(secret, decoder.HashedSecret) {
		s.metrics.RecordKeyVerification(ctx, false)
		return "", false, nil
	}

	s.metrics.RecordKeyVerification(ctx, true)
	return decoder.Name, true, nil
}

// VerifyPassword checks the account password for a decoder. Unknown decoders
// verify as false without error, matching the key verification behavior.
func (s *DecoderService) VerifyPassword(ctx context.Context, name sharedtypes.DecoderName, password string) (bool, error) {
	decoder, err := s.repo.GetByName(ctx, s.db, name)
	if err != nil {
		if errors.Is(err, decoderdb.ErrDecoderNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("VerifyPassword: %w", err)
	}
	return credentials.VerifyPassword(password, decoder.HashedPass), nil
}
