// Package transport exposes the screeners over HTTP. Handlers convert JSON
// requests into evaluator calls; the screening services only see domain types.
package transport

import (
	"encoding/json"
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi"

	"github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/domain"
)

// CallEvaluator is the call screener surface used by the HTTP layer.
type CallEvaluator interface {
	Evaluate(sender string) domain.Decision
	Rules() domain.CallRules
}

// SMSEvaluator is the SMS screener surface used by the HTTP layer.
type SMSEvaluator interface {
	Evaluate(sender, content string) domain.Decision
	Rules() domain.SMSRules
}

type callRequest struct {
	Sender string `json:"sender"`
}

type smsRequest struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// maxBodyBytes bounds request bodies; an SMS payload is small.
const maxBodyBytes = 64 << 10

type handler struct {
	calls   CallEvaluator
	sms     SMSEvaluator
	metrics *metrics.Set
	logger  log.Logger
}

// NewRouter builds the HTTP routes. set may be nil, in which case /metrics
// only reports process metrics.
func NewRouter(calls CallEvaluator, sms SMSEvaluator, set *metrics.Set, logger log.Logger) chi.Router {
	h := &handler{calls: calls, sms: sms, metrics: set, logger: logger}

	rtr := chi.NewRouter()
	rtr.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	rtr.Get("/metrics", h.writeMetrics)

	rtr.Route("/v1", func(r chi.Router) {
		r.Post("/calls", h.evaluateCall)
		r.Post("/sms", h.evaluateSMS)
		r.Get("/rules/{channel}", h.rules)
	})
	return rtr
}

func (h *handler) evaluateCall(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Sender == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "sender is required"})
		return
	}
	h.writeJSON(w, http.StatusOK, h.calls.Evaluate(req.Sender))
}

func (h *handler) evaluateSMS(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Sender == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "sender is required"})
		return
	}
	h.writeJSON(w, http.StatusOK, h.sms.Evaluate(req.Sender, req.Content))
}

func (h *handler) rules(w http.ResponseWriter, r *http.Request) {
	switch domain.Channel(chi.URLParam(r, "channel")) {
	case domain.ChannelCall:
		h.writeJSON(w, http.StatusOK, NewCallRulesView(h.calls.Rules()))
	case domain.ChannelSMS:
		h.writeJSON(w, http.StatusOK, NewSMSRulesView(h.sms.Rules()))
	default:
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown channel"})
	}
}

func (h *handler) writeMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	if h.metrics != nil {
		h.metrics.WritePrometheus(w)
	}
	metrics.WriteProcessMetrics(w)
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		h.logger.Debug(map[string]any{"path": r.URL.Path, "error": err}, "bad request body")
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn(map[string]any{"error": err}, "response write failed")
	}
}
