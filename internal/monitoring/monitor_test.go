package monitoring

import (
	"testing"
	"time"

	"kitchenops/internal/shortage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCheck(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCheck(&shortage.CheckResult{
		OverallStatus: shortage.OverallCriticalShortage,
		CheckType:     shortage.CheckManual,
		Shortages: []shortage.Shortage{
			{Status: shortage.StatusMissing},
			{Status: shortage.StatusMissing},
			{Status: shortage.StatusPartial},
		},
	}, 120*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.checksTotal.WithLabelValues("CRITICAL_SHORTAGE", "MANUAL")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.shortagesTotal.WithLabelValues("MISSING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shortagesTotal.WithLabelValues("PARTIAL")))
}

func TestObserveCheck_DistinctLabels(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCheck(&shortage.CheckResult{
		OverallStatus: shortage.OverallAllGood,
		CheckType:     shortage.CheckAutomatic,
	}, time.Millisecond)
	m.ObserveCheck(&shortage.CheckResult{
		OverallStatus: shortage.OverallAllGood,
		CheckType:     shortage.CheckAutomatic,
	}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.checksTotal.WithLabelValues("ALL_GOOD", "AUTOMATIC")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.checksTotal.WithLabelValues("ALL_GOOD", "MANUAL")))
}
