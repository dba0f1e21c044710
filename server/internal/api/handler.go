package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/creditlens/creditscore/pkg/types"
	"github.com/creditlens/creditscore/server/internal/metrics"
	"github.com/creditlens/creditscore/server/internal/scorer"
)

// Endpoint labels used in logs and metrics.
const (
	EndpointScore   = "score"
	EndpointBureau  = "bureau"
	EndpointHealth  = "healthz"
	EndpointMetrics = "metrics"
)

// HealthPath is the liveness route.
const HealthPath = "/healthz"

// Defaults applied by New when an Options field is zero.
const (
	DefaultScorePath    = "/calculateCreditScore"
	DefaultBureauPath   = "/calculateBureauScore"
	DefaultMaxBodyBytes = 1 << 20
)

// Options configures New.
type Options struct {
	ScorePath    string
	BureauPath   string
	MaxBodyBytes int64

	// Metrics receives per-request observations. When nil, nothing is
	// recorded and no metrics route is mounted.
	Metrics     *metrics.Registry
	MetricsPath string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// computeFunc scores one validated input.
type computeFunc func(scorer.Input) (int, error)

// Handler is the HTTP handler for the scoring API.
type Handler struct {
	mux     *http.ServeMux
	maxBody int64
	metrics *metrics.Registry
	logger  *slog.Logger

	score  computeFunc
	bureau computeFunc
}

// New creates a Handler and registers all routes.
func New(opts Options) http.Handler {
	return newHandler(opts)
}

func newHandler(opts Options) *Handler {
	if opts.ScorePath == "" {
		opts.ScorePath = DefaultScorePath
	}
	if opts.BureauPath == "" {
		opts.BureauPath = DefaultBureauPath
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	h := &Handler{
		mux:     http.NewServeMux(),
		maxBody: opts.MaxBodyBytes,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		score:   creditScore,
		bureau:  bureauScore,
	}

	h.mux.Handle(opts.ScorePath, h.instrument(EndpointScore, h.scoreHandler(EndpointScore, func() computeFunc { return h.score })))
	h.mux.Handle(opts.BureauPath, h.instrument(EndpointBureau, h.scoreHandler(EndpointBureau, func() computeFunc { return h.bureau })))
	h.mux.Handle(HealthPath, h.instrument(EndpointHealth, http.HandlerFunc(h.health)))
	if opts.Metrics != nil && opts.MetricsPath != "" {
		h.mux.Handle(opts.MetricsPath, opts.Metrics)
	}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// scoreHandler serves one scoring endpoint: validate, compute, respond.
// fn is resolved per request so tests can swap the computation.
func (h *Handler) scoreHandler(endpoint string, fn func() computeFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			h.fail(w, r, endpoint, methodNotAllowed())
			return
		}

		in, err := parseInput(w, r, h.maxBody)
		if err != nil {
			h.fail(w, r, endpoint, err)
			return
		}

		score, err := safeCompute(fn(), in)
		if err != nil {
			h.fail(w, r, endpoint, err)
			return
		}

		if h.metrics != nil {
			h.metrics.ObserveScore(endpoint, score)
		}
		jsonResp(w, http.StatusOK, types.ScoreResponse{CreditScore: score})
	})
}

// health returns GET /healthz.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		jsonErr(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}
	jsonResp(w, http.StatusOK, types.HealthResponse{Status: "ok"})
}

// fail writes err as a JSON error body. Internal failures are logged with
// their cause; the caller only sees the generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	var re *RequestError
	if !errors.As(err, &re) {
		re = internal(err)
	}
	if re.ClientError() {
		h.logger.Debug("api: rejected request",
			"endpoint", endpoint, "status", re.Status, "reason", re.Error())
	} else {
		h.logger.Error("api: "+MsgInternal,
			"endpoint", endpoint, "method", r.Method, "path", r.URL.Path, "err", re.Err)
	}
	jsonErr(w, re.Status, re.Message)
}

// instrument records the response status and latency of next.
func (h *Handler) instrument(endpoint string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		if h.metrics != nil {
			h.metrics.ObserveRequest(endpoint, sw.status)
		}
		h.logger.Debug("api: request",
			"endpoint", endpoint,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}

// --- scoring ----------------------------------------------------------------

func creditScore(in scorer.Input) (int, error) {
	return scorer.Compute(in).Score, nil
}

func bureauScore(in scorer.Input) (int, error) {
	s, err := scorer.Bureau(in.MonthlyTransactions, in.MonthlyRevenue, in.BusinessAge)
	switch {
	case errors.Is(err, scorer.ErrNegative):
		return 0, negativeInputs(err)
	case errors.Is(err, scorer.ErrNotANumber):
		return 0, invalidTypes(err)
	case err != nil:
		return 0, internal(err)
	}
	return s, nil
}

// safeCompute runs fn and turns a panic into an internal error.
func safeCompute(fn computeFunc, in scorer.Input) (score int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = internal(fmt.Errorf("panic: %v", p))
		}
	}()
	return fn(in)
}

// --- helpers ----------------------------------------------------------------

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, types.ErrorResponse{Error: msg})
}
