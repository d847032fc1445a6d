// Package api implements the SafeTable HTTP API: hygiene lookup, trust
// scoring, comparison and recommendation over JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/safetable/safetable/internal/service"
	"github.com/safetable/safetable/pkg/scoring"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Service is the set of operations the API exposes.
type Service interface {
	ResolveHygiene(ctx context.Context, name, region string, includeHistory bool) (*service.ResolvedResult, error)
	TrustScore(ctx context.Context, name, region string) (*service.TrustReport, error)
	ComputeTrustScore(in scoring.Input) *scoring.TrustScoreResult
	CompareRestaurants(ctx context.Context, ids []service.Identifier, criteria []string) (*service.ComparisonResult, error)
	RecommendRestaurants(ctx context.Context, req service.RecommendRequest) (*service.RankedList, error)
}

// Pinger reports backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the API.
type Handler struct {
	svc    Service
	health Pinger
	log    zerolog.Logger
}

// NewHandler creates a Handler. health may be nil when the backend has no
// health check.
func NewHandler(svc Service, health Pinger, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, health: health, log: log.With().Str("component", "api").Logger()}
}

// Routes builds the router. Requests under /v1 need one of apiKeys when any
// are configured.
func (h *Handler) Routes(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLog(h.log))
	r.Use(Recovery(h.log))
	r.Use(CORS)

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(apiKeys))
		r.Post("/hygiene", h.handleHygiene)
		r.Post("/trust-score", h.handleTrustScore)
		r.Post("/compare", h.handleCompare)
		r.Post("/recommend", h.handleRecommend)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

type errorBody struct {
	Error *service.Error `json:"error"`
}

func writeError(w http.ResponseWriter, status int, kind service.Kind, msg string) {
	writeJSON(w, status, errorBody{Error: &service.Error{Kind: kind, Message: msg}})
}

// statusFor maps an error kind onto an HTTP status.
func statusFor(k service.Kind) int {
	switch k {
	case service.KindInvalidQuery:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindMultipleResults:
		return http.StatusConflict
	case service.KindAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindUnknown, Message: "알 수 없는 오류가 발생했어요.", Err: err}
	}
	serviceErrors.WithLabelValues(string(se.Kind)).Inc()
	status := statusFor(se.Kind)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("kind", string(se.Kind)).Str("request_id", middleware.GetReqID(r.Context())).Msg("request failed")
	}
	writeJSON(w, status, errorBody{Error: se})
}

// decode reads a JSON body into v, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, service.KindInvalidQuery, "요청 본문이 올바른 JSON이 아니에요.")
		return false
	}
	return true
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type hygieneRequest struct {
	Name           string `json:"name"`
	Region         string `json:"region"`
	IncludeHistory bool   `json:"include_history"`
}

func (h *Handler) handleHygiene(w http.ResponseWriter, r *http.Request) {
	var req hygieneRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.ResolveHygiene(r.Context(), req.Name, req.Region, req.IncludeHistory)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// trustScoreRequest either names a restaurant to look up or carries raw
// indicator values in Input.
type trustScoreRequest struct {
	Name   string         `json:"name"`
	Region string         `json:"region"`
	Input  *scoring.Input `json:"input"`
}

func (h *Handler) handleTrustScore(w http.ResponseWriter, r *http.Request) {
	var req trustScoreRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Input != nil {
		writeJSON(w, http.StatusOK, h.svc.ComputeTrustScore(*req.Input))
		return
	}
	rep, err := h.svc.TrustScore(r.Context(), req.Name, req.Region)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type compareRequest struct {
	Restaurants []service.Identifier `json:"restaurants"`
	Criteria    []string             `json:"criteria"`
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.CompareRestaurants(r.Context(), req.Restaurants, req.Criteria)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req service.RecommendRequest
	if !decode(w, r, &req) {
		return
	}
	list, err := h.svc.RecommendRestaurants(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
