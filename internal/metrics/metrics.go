package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects counters for roster and notification activity. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	RosterMutations *prometheus.CounterVec
	Notifications   *prometheus.CounterVec
	Jobs            *prometheus.CounterVec
	FeedSyncs       *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RosterMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibetracker",
			Name:      "roster_mutations_total",
			Help:      "Roster mutations by operation and outcome.",
		}, []string{"operation", "status"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibetracker",
			Name:      "notifications_delivered_total",
			Help:      "Notifications delivered by kind.",
		}, []string{"kind"}),
		Jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibetracker",
			Name:      "notification_jobs_total",
			Help:      "Deferred notification jobs by state.",
		}, []string{"state"}),
		FeedSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibetracker",
			Name:      "feed_syncs_total",
			Help:      "Feed sync runs by status.",
		}, []string{"status"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibetracker",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vibetracker",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	if reg != nil {
		reg.MustRegister(m.RosterMutations, m.Notifications, m.Jobs, m.FeedSyncs, m.HTTPRequests, m.HTTPDuration)
	}

	return m
}

func (m *Metrics) IncRosterMutation(operation, status string) {
	if m == nil || m.RosterMutations == nil {
		return
	}
	m.RosterMutations.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) IncNotification(kind string) {
	if m == nil || m.Notifications == nil {
		return
	}
	m.Notifications.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncJob(state string) {
	if m == nil || m.Jobs == nil {
		return
	}
	m.Jobs.WithLabelValues(state).Inc()
}

func (m *Metrics) IncFeedSync(status string) {
	if m == nil || m.FeedSyncs == nil {
		return
	}
	m.FeedSyncs.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.HTTPRequests == nil || m.HTTPDuration == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
