package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	catalogdb "github.com/platina-lab/platina-lab/app/modules/catalog/infrastructure/repositories"
	decoderservice "github.com/platina-lab/platina-lab/app/modules/decoder/application"
	rankingservice "github.com/platina-lab/platina-lab/app/modules/ranking/application"
	resultservice "github.com/platina-lab/platina-lab/app/modules/result/application"
	resultdb "github.com/platina-lab/platina-lab/app/modules/result/infrastructure/repositories"
	"github.com/platina-lab/platina-lab/app/shared/results"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/platina-lab/platina-lab/internal/observability"
)

var catalogWatermark = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

type serverDeps struct {
	decoders *fakeDecoders
	catalog  *fakeCatalog
	results  *fakeResults
	ranking  *fakeRanking
	progress *fakeProgress
}

func newTestServer(t *testing.T, deps serverDeps) *httptest.Server {
	t.Helper()

	if deps.decoders == nil {
		deps.decoders = &fakeDecoders{}
	}
	if deps.catalog == nil {
		deps.catalog = &fakeCatalog{}
	}
	if deps.results == nil {
		deps.results = &fakeResults{}
	}
	if deps.ranking == nil {
		deps.ranking = &fakeRanking{}
	}
	if deps.progress == nil {
		deps.progress = &fakeProgress{}
	}

	handlers := NewHandlers(
		deps.decoders,
		deps.catalog,
		deps.results,
		deps.ranking,
		deps.progress,
		observability.NoOpLogger,
		NewKeyRateLimiter(rate.Limit(100), 100),
		catalogWatermark,
	)
	srv := httptest.NewServer(NewRouter(handlers, observability.NoOpLogger, nil))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestHandleSongs_LastModified(t *testing.T) {
	catalog := &fakeCatalog{songs: []catalogdb.Song{{SongID: 1, Title: "Quantum Funk"}}}
	srv := newTestServer(t, serverDeps{catalog: catalog})

	resp := postJSON(t, srv.URL+"/api/platina_songs", struct{}{})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, catalogWatermark.Format(http.TimeFormat), resp.Header.Get("Last-Modified"))

	var songs []catalogdb.Song
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&songs))
	require.Len(t, songs, 1)
	assert.Equal(t, "Quantum Funk", songs[0].Title)
}

func TestHandleRegister(t *testing.T) {
	decoders := &fakeDecoders{
		registerFn: func(name sharedtypes.DecoderName, password string) (decoderservice.RegisterResult, error) {
			return results.OK[decoderservice.RegisterSucceeded, decoderservice.RegisterFailed](
				decoderservice.RegisterSucceeded{Name: name, Key: fmt.Sprintf("%s::secret", name)},
			), nil
		},
	}
	srv := newTestServer(t, serverDeps{decoders: decoders})

	name := gofakeit.Username()
	resp := postJSON(t, srv.URL+"/api/register", RegisterDto{Name: name, Password: "hunter2hunter2"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got decoderservice.RegisterSucceeded
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	want := decoderservice.RegisterSucceeded{
		Name: sharedtypes.DecoderName(name),
		Key:  name + "::secret",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("register response mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleRegister_NameTaken(t *testing.T) {
	decoders := &fakeDecoders{
		registerFn: func(name sharedtypes.DecoderName, password string) (decoderservice.RegisterResult, error) {
			return results.Fail[decoderservice.RegisterSucceeded, decoderservice.RegisterFailed](
				decoderservice.RegisterFailed{Reason: "name already taken"},
			), nil
		},
	}
	srv := newTestServer(t, serverDeps{decoders: decoders})

	resp := postJSON(t, srv.URL+"/api/register", RegisterDto{Name: "Ada", Password: "hunter2hunter2"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleDecode_Unauthorized(t *testing.T) {
	srv := newTestServer(t, serverDeps{decoders: &fakeDecoders{keys: map[string]sharedtypes.DecoderName{}}})

	resp := postJSON(t, srv.URL+"/api/decode", DecodeDto{APIKey: "Ada::wrong"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandleDecode_Accepted(t *testing.T) {
	decoders := &fakeDecoders{keys: map[string]sharedtypes.DecoderName{"Ada::good": "Ada"}}
	fakeResultsSvc := &fakeResults{
		submitFn: func(decoder sharedtypes.DecoderName, submission sharedtypes.SubmittedResult) (resultservice.SubmitResultOutcome, error) {
			assert.Equal(t, sharedtypes.DecoderName("Ada"), decoder)
			assert.Equal(t, int64(42), submission.SongID)
			return results.OK[resultservice.SubmitAccepted, resultservice.SubmitRejected](resultservice.SubmitAccepted{
				Decoder: decoder,
				Current: resultdb.BestValues{Judge: 97.5, Score: 912345, Patch: 1337},
			}), nil
		},
	}
	srv := newTestServer(t, serverDeps{decoders: decoders, results: fakeResultsSvc})

	resp := postJSON(t, srv.URL+"/api/decode", DecodeDto{
		APIKey:     "Ada::good",
		SongID:     42,
		Line:       sharedtypes.Line4,
		Difficulty: sharedtypes.DifficultyHard,
		Level:      12,
		Judge:      97.5,
		Score:      912345,
		Patch:      1337,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got resultservice.SubmitAccepted
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, sharedtypes.Patch(1337), got.Current.Patch)
	assert.Nil(t, got.Previous)
}

func TestHandleDecode_NotImproved(t *testing.T) {
	decoders := &fakeDecoders{keys: map[string]sharedtypes.DecoderName{"Ada::good": "Ada"}}
	fakeResultsSvc := &fakeResults{
		submitFn: func(decoder sharedtypes.DecoderName, submission sharedtypes.SubmittedResult) (resultservice.SubmitResultOutcome, error) {
			return results.Fail[resultservice.SubmitAccepted, resultservice.SubmitRejected](resultservice.SubmitRejected{
				Category:    resultservice.CategoryNotImproved,
				CurrentBest: &resultdb.BestValues{Judge: 98, Score: 950000, Patch: 1500},
			}), nil
		},
	}
	srv := newTestServer(t, serverDeps{decoders: decoders, results: fakeResultsSvc})

	resp := postJSON(t, srv.URL+"/api/decode", DecodeDto{APIKey: "Ada::good", SongID: 42})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var got resultservice.SubmitRejected
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.NotNil(t, got.CurrentBest)
	assert.Equal(t, sharedtypes.Judge(98), got.CurrentBest.Judge)
}

func TestHandleDecode_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		category   resultservice.RejectionCategory
		wantStatus int
	}{
		{name: "invalid input", category: resultservice.CategoryInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "unknown song", category: resultservice.CategoryNotFound, wantStatus: http.StatusNotFound},
		{name: "not improved", category: resultservice.CategoryNotImproved, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoders := &fakeDecoders{keys: map[string]sharedtypes.DecoderName{"Ada::good": "Ada"}}
			fakeResultsSvc := &fakeResults{
				submitFn: func(decoder sharedtypes.DecoderName, submission sharedtypes.SubmittedResult) (resultservice.SubmitResultOutcome, error) {
					return results.Fail[resultservice.SubmitAccepted, resultservice.SubmitRejected](resultservice.SubmitRejected{
						Category: tt.category,
						Reasons:  []string{"nope"},
					}), nil
				},
			}
			srv := newTestServer(t, serverDeps{decoders: decoders, results: fakeResultsSvc})

			resp := postJSON(t, srv.URL+"/api/decode", DecodeDto{APIKey: "Ada::good"})
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestHandleDecode_RateLimited(t *testing.T) {
	decoders := &fakeDecoders{keys: map[string]sharedtypes.DecoderName{"Ada::good": "Ada"}}
	handlers := NewHandlers(
		decoders,
		&fakeCatalog{},
		&fakeResults{},
		&fakeRanking{},
		&fakeProgress{},
		observability.NoOpLogger,
		NewKeyRateLimiter(rate.Limit(1), 1),
		catalogWatermark,
	)
	srv := httptest.NewServer(NewRouter(handlers, observability.NoOpLogger, nil))
	defer srv.Close()

	first := postJSON(t, srv.URL+"/api/decode", DecodeDto{APIKey: "Ada::good"})
	first.Body.Close()
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := postJSON(t, srv.URL+"/api/decode", DecodeDto{APIKey: "Ada::good"})
	second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestHandleGetArchive(t *testing.T) {
	decoders := &fakeDecoders{keys: map[string]sharedtypes.DecoderName{"Ada::good": "Ada"}}
	fakeResultsSvc := &fakeResults{
		archiveFn: func(decoder sharedtypes.DecoderName) ([]resultdb.DecodeResult, error) {
			return []resultdb.DecodeResult{{SongID: 7, Judge: 99, Score: 987654, Patch: 1800}}, nil
		},
	}
	srv := newTestServer(t, serverDeps{decoders: decoders, results: fakeResultsSvc})

	resp := postJSON(t, srv.URL+"/api/get_archive", AuthedDto{APIKey: "Ada::good"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var archive []resultdb.DecodeResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&archive))
	require.Len(t, archive, 1)
	assert.Equal(t, int64(7), archive[0].SongID)
}

func TestHandleProgress(t *testing.T) {
	decoders := &fakeDecoders{keys: map[string]sharedtypes.DecoderName{"Ada::good": "Ada"}}
	progress := &fakeProgress{history: map[sharedtypes.LineLabel][]sharedtypes.ProgressPoint{
		sharedtypes.Label4L: {
			{Total: 1200, RecordedAt: catalogWatermark},
			{Total: 1500, RecordedAt: catalogWatermark.AddDate(0, 0, 7)},
		},
	}}
	ranking := &fakeRanking{
		emblem: rankingservice.Emblem{TotalPatch: 1500, Tier: 1, Label: "I"},
		status: rankingservice.Status{TotalPatterns: 100, ClearedPatterns: 20},
	}
	srv := newTestServer(t, serverDeps{decoders: decoders, progress: progress, ranking: ranking})

	resp := postJSON(t, srv.URL+"/api/progress", ProgressDto{APIKey: "Ada::good", Label: sharedtypes.Label4L})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got ProgressResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, sharedtypes.Label4L, got.Label)
	assert.Len(t, got.History, 2)
	assert.Equal(t, "I", got.Emblem.Label)
	assert.Equal(t, 100, got.Status.TotalPatterns)
}

func TestHandleProgress_UnknownLabel(t *testing.T) {
	decoders := &fakeDecoders{keys: map[string]sharedtypes.DecoderName{"Ada::good": "Ada"}}
	srv := newTestServer(t, serverDeps{decoders: decoders})

	resp := postJSON(t, srv.URL+"/api/progress", ProgressDto{APIKey: "Ada::good", Label: "5L"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleProgressChart(t *testing.T) {
	decoders := &fakeDecoders{keys: map[string]sharedtypes.DecoderName{"Ada::good": "Ada"}}
	progress := &fakeProgress{history: map[sharedtypes.LineLabel][]sharedtypes.ProgressPoint{
		sharedtypes.Label6L: {
			{Total: 800, RecordedAt: catalogWatermark},
			{Total: 950, RecordedAt: catalogWatermark.AddDate(0, 0, 3)},
		},
	}}
	srv := newTestServer(t, serverDeps{decoders: decoders, progress: progress})

	resp := postJSON(t, srv.URL+"/api/progress_chart", ProgressDto{APIKey: "Ada::good", Label: sharedtypes.Label6L})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestHandleProgressChart_NoHistory(t *testing.T) {
	decoders := &fakeDecoders{keys: map[string]sharedtypes.DecoderName{"Ada::good": "Ada"}}
	srv := newTestServer(t, serverDeps{decoders: decoders})

	resp := postJSON(t, srv.URL+"/api/progress_chart", ProgressDto{APIKey: "Ada::good", Label: sharedtypes.Label6L})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, serverDeps{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
