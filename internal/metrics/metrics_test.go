package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncRosterMutation("add", "ok")
	m.IncRosterMutation("add", "ok")
	m.IncRosterMutation("add", "invalid")
	m.IncNotification("influencer_added")
	m.IncJob("cancelled")
	m.ObserveHTTP("GET", "/api/stats", 200, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RosterMutations.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RosterMutations.WithLabelValues("add", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("influencer_added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Jobs.WithLabelValues("cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/stats", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncRosterMutation("add", "ok")
		m.IncNotification("x")
		m.IncJob("fired")
		m.IncFeedSync("ok")
		m.ObserveHTTP("GET", "/", 200, time.Second)
	})
}
