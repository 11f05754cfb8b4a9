package api

import (
	"context"
	"time"

	catalogservice "github.com/platina-lab/platina-lab/app/modules/catalog/application"
	catalogdb "github.com/platina-lab/platina-lab/app/modules/catalog/infrastructure/repositories"
	decoderservice "github.com/platina-lab/platina-lab/app/modules/decoder/application"
	progressservice "github.com/platina-lab/platina-lab/app/modules/progress/application"
	rankingservice "github.com/platina-lab/platina-lab/app/modules/ranking/application"
	resultservice "github.com/platina-lab/platina-lab/app/modules/result/application"
	resultdb "github.com/platina-lab/platina-lab/app/modules/result/infrastructure/repositories"
	"github.com/platina-lab/platina-lab/app/shared/results"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
)

type fakeDecoders struct {
	keys       map[string]sharedtypes.DecoderName
	registerFn func(name sharedtypes.DecoderName, password string) (decoderservice.RegisterResult, error)
	reissueFn  func(name sharedtypes.DecoderName, password string) (decoderservice.ReissueResult, error)
}

var _ decoderservice.Service = (*fakeDecoders)(nil)

func (f *fakeDecoders) Register(ctx context.Context, name sharedtypes.DecoderName, password string) (decoderservice.RegisterResult, error) {
	if f.registerFn != nil {
		return f.registerFn(name, password)
	}
	return decoderservice.RegisterResult{}, nil
}

func (f *fakeDecoders) VerifyKey(ctx context.Context, presentedKey string) (sharedtypes.DecoderName, bool, error) {
	name, ok := f.keys[presentedKey]
	return name, ok, nil
}

func (f *fakeDecoders) VerifyPassword(ctx context.Context, name sharedtypes.DecoderName, password string) (bool, error) {
	return false, nil
}

func (f *fakeDecoders) ReissueKey(ctx context.Context, name sharedtypes.DecoderName, password string) (decoderservice.ReissueResult, error) {
	if f.reissueFn != nil {
		return f.reissueFn(name, password)
	}
	return decoderservice.ReissueResult{}, nil
}

func (f *fakeDecoders) ListNames(ctx context.Context) ([]sharedtypes.DecoderName, error) {
	return nil, nil
}

type fakeCatalog struct {
	songs    []catalogdb.Song
	patterns []catalogdb.Pattern
}

var _ catalogservice.Service = (*fakeCatalog)(nil)

func (f *fakeCatalog) ListSongs(ctx context.Context) ([]catalogdb.Song, error) {
	return f.songs, nil
}

func (f *fakeCatalog) ListPatterns(ctx context.Context) ([]catalogdb.Pattern, error) {
	return f.patterns, nil
}

func (f *fakeCatalog) SongExists(ctx context.Context, songID int64) (bool, error) {
	return false, nil
}

func (f *fakeCatalog) AvailableLevels(ctx context.Context, songID int64, line sharedtypes.Line, difficulty sharedtypes.Difficulty) ([]int, error) {
	return nil, nil
}

func (f *fakeCatalog) CountPatterns(ctx context.Context, line sharedtypes.Line, isPlus bool) (int, error) {
	return 0, nil
}

type fakeResults struct {
	submitFn  func(decoder sharedtypes.DecoderName, submission sharedtypes.SubmittedResult) (resultservice.SubmitResultOutcome, error)
	archiveFn func(decoder sharedtypes.DecoderName) ([]resultdb.DecodeResult, error)
}

var _ resultservice.Service = (*fakeResults)(nil)

func (f *fakeResults) SubmitResult(ctx context.Context, decoder sharedtypes.DecoderName, submission sharedtypes.SubmittedResult, now time.Time) (resultservice.SubmitResultOutcome, error) {
	if f.submitFn != nil {
		return f.submitFn(decoder, submission)
	}
	return results.OK[resultservice.SubmitAccepted, resultservice.SubmitRejected](resultservice.SubmitAccepted{Decoder: decoder}), nil
}

func (f *fakeResults) GetArchive(ctx context.Context, decoder sharedtypes.DecoderName) ([]resultdb.DecodeResult, error) {
	if f.archiveFn != nil {
		return f.archiveFn(decoder)
	}
	return nil, nil
}

type fakeRanking struct {
	emblem rankingservice.Emblem
	status rankingservice.Status
}

var _ rankingservice.Service = (*fakeRanking)(nil)

func (f *fakeRanking) Top50Patch(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) ([]resultdb.DecodeResult, error) {
	return nil, nil
}

func (f *fakeRanking) Top50PatchSum(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (sharedtypes.Patch, error) {
	return f.emblem.TotalPatch, nil
}

func (f *fakeRanking) Status(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (rankingservice.Status, error) {
	return f.status, nil
}

func (f *fakeRanking) Emblem(ctx context.Context, decoder sharedtypes.DecoderName, line sharedtypes.Line, isPlus bool) (rankingservice.Emblem, error) {
	return f.emblem, nil
}

type fakeProgress struct {
	history map[sharedtypes.LineLabel][]sharedtypes.ProgressPoint
}

var _ progressservice.Service = (*fakeProgress)(nil)

func (f *fakeProgress) RecordIfImproved(ctx context.Context, decoder sharedtypes.DecoderName) (map[sharedtypes.LineLabel]sharedtypes.ProgressPoint, error) {
	return nil, nil
}

func (f *fakeProgress) Latest(ctx context.Context, decoder sharedtypes.DecoderName) (map[sharedtypes.LineLabel]sharedtypes.ProgressPoint, error) {
	return nil, nil
}

func (f *fakeProgress) History(ctx context.Context, decoder sharedtypes.DecoderName, label sharedtypes.LineLabel) ([]sharedtypes.ProgressPoint, error) {
	if !label.IsValid() {
		return nil, progressservice.ErrUnknownLabel
	}
	return f.history[label], nil
}

func (f *fakeProgress) Sweep(ctx context.Context) (progressservice.SweepReport, error) {
	return progressservice.SweepReport{}, nil
}
