// Package metrics exposes Prometheus collectors for sessions, authorization,
// backend calls and the chat assistant.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	obserrors "github.com/bloodconnect/bloodconnect-web/internal/observability/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Restore outcomes.
const (
	RestoreRestored   = "restored"
	RestoreEmpty      = "empty"
	RestoreExpired    = "expired"
	RestoreInvalid    = "invalid"
	RestoreError      = "error"
	RestoreSuperseded = "superseded"
)

const namespace = "bloodconnect"

// Recorder owns the collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	logins      *prometheus.CounterVec
	restores    *prometheus.CounterVec
	decisions   *prometheus.CounterVec
	apiCalls    *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	chatReplies *prometheus.CounterVec
	purged      *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result and error class.",
		}, []string{"result", "error_class"}),
		restores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_restores_total",
			Help:      "Session restore attempts by outcome.",
		}, []string{"outcome"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_decisions_total",
			Help:      "Route authorization decisions by required role and decision.",
		}, []string{"role", "decision"}),
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Backend REST calls by endpoint, method and status code.",
		}, []string{"endpoint", "method", "code"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Backend REST call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		chatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_replies_total",
			Help:      "Chat assistant replies by matched topic.",
		}, []string{"topic"}),
		purged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_purges_total",
			Help:      "Expired durable sessions removed by the purge loop.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(r.logins, r.restores, r.decisions, r.apiCalls, r.apiLatency, r.chatReplies, r.purged)
	}
	return r
}

// Login records a login attempt. err is nil on success.
func (r *Recorder) Login(err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.logins.WithLabelValues(ResultError, obserrors.Classify(err)).Inc()
		return
	}
	r.logins.WithLabelValues(ResultSuccess, "").Inc()
}

// Restore records the outcome of one session restore.
func (r *Recorder) Restore(outcome string) {
	if r == nil {
		return
	}
	r.restores.WithLabelValues(outcome).Inc()
}

// Decision records an authorization decision.
func (r *Recorder) Decision(role, decision string) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(role, decision).Inc()
}

// ObserveAPICall records a backend call. Status 0 means the call never got a response.
func (r *Recorder) ObserveAPICall(endpoint, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	r.apiCalls.WithLabelValues(endpoint, method, code).Inc()
	r.apiLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ChatReply records which rule answered.
func (r *Recorder) ChatReply(topic string) {
	if r == nil {
		return
	}
	r.chatReplies.WithLabelValues(topic).Inc()
}

// SessionsPurged records one purge pass.
func (r *Recorder) SessionsPurged(n int64, err error) {
	if r == nil {
		return
	}
	switch {
	case err != nil:
		r.purged.WithLabelValues(ResultError).Inc()
	case n == 0:
		r.purged.WithLabelValues(ResultNoop).Inc()
	default:
		r.purged.WithLabelValues(ResultSuccess).Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
