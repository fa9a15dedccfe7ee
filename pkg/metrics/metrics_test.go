package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordRefund(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.RecordRefund("succeeded", 50)
	m.RecordRefund("succeeded", 20)
	m.RecordRefund("failed", 10)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.refundsTotal.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refundsTotal.WithLabelValues("failed")))
}

func TestMetrics_RecordCancellation(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.RecordCancellation("client")
	m.RecordCancellation("provider")
	m.RecordCancellation("client")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cancellationsTotal.WithLabelValues("client")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordCancellation("client")
		m.RecordRefund("failed", 1)
		m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		m.ObserveDBQuery("exec", time.Millisecond)
		m.SetDBStats("main", 1, 1, 0, 0)
	})
}
