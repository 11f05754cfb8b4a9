package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	catalogservice "github.com/platina-lab/platina-lab/app/modules/catalog/application"
	decoderservice "github.com/platina-lab/platina-lab/app/modules/decoder/application"
	progressservice "github.com/platina-lab/platina-lab/app/modules/progress/application"
	progresschart "github.com/platina-lab/platina-lab/app/modules/progress/infrastructure/chart"
	rankingservice "github.com/platina-lab/platina-lab/app/modules/ranking/application"
	resultservice "github.com/platina-lab/platina-lab/app/modules/result/application"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
)

// Handlers serves the public game-companion API.
type Handlers struct {
	decoders decoderservice.Service
	catalog  catalogservice.Service
	results  resultservice.Service
	ranking  rankingservice.Service
	progress progressservice.Service
	logger   *slog.Logger
	limiter  *KeyRateLimiter

	// catalogLastModified is the configured watermark stamped on catalog
	// responses so clients can skip unchanged payloads.
	catalogLastModified time.Time
}

// NewHandlers creates the API handler set.
func NewHandlers(
	decoders decoderservice.Service,
	catalog catalogservice.Service,
	results resultservice.Service,
	ranking rankingservice.Service,
	progress progressservice.Service,
	logger *slog.Logger,
	limiter *KeyRateLimiter,
	catalogLastModified time.Time,
) *Handlers {
	return &Handlers{
		decoders:            decoders,
		catalog:             catalog,
		results:             results,
		ranking:             ranking,
		progress:            progress,
		logger:              logger,
		limiter:             limiter,
		catalogLastModified: catalogLastModified,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// authenticate resolves the presented key to a decoder name. Any failure
// mode answers 401 without distinguishing why.
func (h *Handlers) authenticate(w http.ResponseWriter, r *http.Request, apiKey string) (sharedtypes.DecoderName, bool) {
	name, ok, err := h.decoders.VerifyKey(r.Context(), apiKey)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Key verification failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", false
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid api key")
		return "", false
	}
	return name, true
}

// HandleSongs serves the song catalog.
func (h *Handlers) HandleSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.catalog.ListSongs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch songs")
		return
	}
	w.Header().Set("Last-Modified", h.catalogLastModified.UTC().Format(http.TimeFormat))
	writeJSON(w, http.StatusOK, songs)
}

// HandlePatterns serves the pattern catalog.
func (h *Handlers) HandlePatterns(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.catalog.ListPatterns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch patterns")
		return
	}
	w.Header().Set("Last-Modified", h.catalogLastModified.UTC().Format(http.TimeFormat))
	writeJSON(w, http.StatusOK, patterns)
}

// RegisterDto is the input for account registration.
type RegisterDto struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// HandleRegister creates a decoder account and returns its one-time key.
func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input RegisterDto
	if !decodeBody(w, r, &input) {
		return
	}

	result, err := h.decoders.Register(r.Context(), sharedtypes.DecoderName(input.Name), input.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	if result.IsFailure() {
		writeError(w, http.StatusBadRequest, result.Failure.Reason)
		return
	}
	writeJSON(w, http.StatusOK, result.Success)
}

// ReissueDto is the input for key rotation.
type ReissueDto struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// HandleReissueKey rotates the account secret after a password check.
func (h *Handlers) HandleReissueKey(w http.ResponseWriter, r *http.Request) {
	var input ReissueDto
	if !decodeBody(w, r, &input) {
		return
	}

	result, err := h.decoders.ReissueKey(r.Context(), sharedtypes.DecoderName(input.Name), input.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "key reissue failed")
		return
	}
	if result.IsFailure() {
		writeError(w, http.StatusUnauthorized, result.Failure.Reason)
		return
	}
	writeJSON(w, http.StatusOK, result.Success)
}

// DecodeDto is the input for a play submission.
type DecodeDto struct {
	APIKey      string                 `json:"api_key"`
	SongID      int64                  `json:"song_id"`
	Line        sharedtypes.Line       `json:"line"`
	Difficulty  sharedtypes.Difficulty `json:"difficulty"`
	Level       int                    `json:"level"`
	Judge       sharedtypes.Judge      `json:"judge"`
	Score       sharedtypes.Score      `json:"score"`
	Patch       sharedtypes.Patch      `json:"patch"`
	IsFullCombo bool                   `json:"is_full_combo"`
	IsMaxPatch  bool                   `json:"is_max_patch"`
}

// HandleDecode records a play result against the decoder's best.
func (h *Handlers) HandleDecode(w http.ResponseWriter, r *http.Request) {
	var input DecodeDto
	if !decodeBody(w, r, &input) {
		return
	}

	name, ok := h.authenticate(w, r, input.APIKey)
	if !ok {
		return
	}

	if !h.limiter.Allow(name.String()) {
		writeError(w, http.StatusTooManyRequests, "too many submissions")
		return
	}

	submission := sharedtypes.SubmittedResult{
		SongID:      input.SongID,
		Line:        input.Line,
		Difficulty:  input.Difficulty,
		Level:       input.Level,
		Judge:       input.Judge,
		Score:       input.Score,
		Patch:       input.Patch,
		IsFullCombo: input.IsFullCombo,
		IsMaxPatch:  input.IsMaxPatch,
	}

	outcome, err := h.results.SubmitResult(r.Context(), name, submission, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "submission failed")
		return
	}
	if outcome.IsSuccess() {
		writeJSON(w, http.StatusOK, outcome.Success)
		return
	}

	rejected := outcome.Failure
	switch rejected.Category {
	case resultservice.CategoryNotFound:
		writeError(w, http.StatusNotFound, "unknown song", rejected.Reasons...)
	case resultservice.CategoryNotImproved:
		writeJSON(w, http.StatusConflict, rejected)
	default:
		writeError(w, http.StatusBadRequest, "invalid submission", rejected.Reasons...)
	}
}

// AuthedDto is the input for endpoints that only need a key.
type AuthedDto struct {
	APIKey string `json:"api_key"`
}

// HandleGetArchive serves the decoder's full personal-best archive.
func (h *Handlers) HandleGetArchive(w http.ResponseWriter, r *http.Request) {
	var input AuthedDto
	if !decodeBody(w, r, &input) {
		return
	}

	name, ok := h.authenticate(w, r, input.APIKey)
	if !ok {
		return
	}

	archive, err := h.results.GetArchive(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch archive")
		return
	}
	writeJSON(w, http.StatusOK, archive)
}

// ProgressDto is the input for progress queries.
type ProgressDto struct {
	APIKey string                `json:"api_key"`
	Label  sharedtypes.LineLabel `json:"label"`
}

// ProgressResponse bundles history with the current ranking view for one
// line label.
type ProgressResponse struct {
	Label   sharedtypes.LineLabel       `json:"label"`
	History []sharedtypes.ProgressPoint `json:"history"`
	Emblem  rankingservice.Emblem       `json:"emblem"`
	Status  rankingservice.Status       `json:"status"`
}

// HandleProgress serves snapshot history plus the live top-50 view.
func (h *Handlers) HandleProgress(w http.ResponseWriter, r *http.Request) {
	var input ProgressDto
	if !decodeBody(w, r, &input) {
		return
	}

	name, ok := h.authenticate(w, r, input.APIKey)
	if !ok {
		return
	}

	history, err := h.progress.History(r.Context(), name, input.Label)
	if err != nil {
		if errors.Is(err, progressservice.ErrUnknownLabel) {
			writeError(w, http.StatusBadRequest, "unknown line label")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch progress")
		return
	}

	line, isPlus := input.Label.Parts()
	emblem, err := h.ranking.Emblem(r.Context(), name, line, isPlus)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch emblem")
		return
	}
	status, err := h.ranking.Status(r.Context(), name, line, isPlus)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch status")
		return
	}

	writeJSON(w, http.StatusOK, ProgressResponse{
		Label:   input.Label,
		History: history,
		Emblem:  emblem,
		Status:  status,
	})
}

// HandleProgressChart renders the snapshot history as a PNG time series.
func (h *Handlers) HandleProgressChart(w http.ResponseWriter, r *http.Request) {
	var input ProgressDto
	if !decodeBody(w, r, &input) {
		return
	}

	name, ok := h.authenticate(w, r, input.APIKey)
	if !ok {
		return
	}

	history, err := h.progress.History(r.Context(), name, input.Label)
	if err != nil {
		if errors.Is(err, progressservice.ErrUnknownLabel) {
			writeError(w, http.StatusBadRequest, "unknown line label")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch progress")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := progresschart.Render(w, name, input.Label, history); err != nil {
		if errors.Is(err, progresschart.ErrNoSnapshots) {
			writeError(w, http.StatusNotFound, "no progress recorded yet")
			return
		}
		h.logger.ErrorContext(r.Context(), "Chart rendering failed", slog.Any("error", err))
	}
}

// HandleHealthz answers liveness probes.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
