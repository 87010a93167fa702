// metrics содержит прикладные метрики session-service (Prometheus).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы обновления сессии (значения метки outcome).
const (
	OutcomeRotated     = "rotated"
	OutcomeMissing     = "missing_token"
	OutcomeInvalid     = "invalid_token"
	OutcomeExpired     = "expired"
	OutcomeInactive    = "inactive"
	OutcomeTooLarge    = "too_large"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// Metrics — набор счётчиков сервиса.
type Metrics struct {
	refreshTotal   *prometheus.CounterVec
	logoutTotal    prometheus.Counter
	refreshLatency prometheus.Histogram
}

// New регистрирует метрики в reg. nil — prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	f := promauto.With(reg)

	return &Metrics{
		refreshTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "session",
				Name:      "refresh_total",
				Help:      "Number of refresh requests by outcome.",
			},
			[]string{"outcome"},
		),
		logoutTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "session",
				Name:      "logout_total",
				Help:      "Number of logout requests.",
			},
		),
		refreshLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "session",
				Name:      "refresh_duration_seconds",
				Help:      "Refresh request processing time.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// Refresh учитывает исход обновления и его длительность в секундах.
// Безопасен для nil-получателя.
func (m *Metrics) Refresh(outcome string, seconds float64) {
	if m == nil {
		return
	}

	m.refreshTotal.WithLabelValues(outcome).Inc()
	m.refreshLatency.Observe(seconds)
}

// RateLimited учитывает обновление, отклонённое ограничителем частоты.
// Длительность не наблюдается: запрос не доходил до обработчика.
func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}

	m.refreshTotal.WithLabelValues(OutcomeRateLimited).Inc()
}

// Logout учитывает выход из сессии.
func (m *Metrics) Logout() {
	if m == nil {
		return
	}

	m.logoutTotal.Inc()
}
