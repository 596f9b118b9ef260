package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveForward(t *testing.T) {
	before := testutil.ToFloat64(ForwardTotal.WithLabelValues("test-backend"))

	ObserveForward("test-backend", 4, 3*time.Millisecond)
	ObserveForward("test-backend", 2, time.Millisecond)

	after := testutil.ToFloat64(ForwardTotal.WithLabelValues("test-backend"))
	assert.Equal(t, 2.0, after-before)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(ForwardDuration, "audioquery_forward_duration_seconds"), 1)
}

func TestCountNonFinite(t *testing.T) {
	nanBefore := testutil.ToFloat64(NumericalInstability.WithLabelValues("scores", "nan"))
	infBefore := testutil.ToFloat64(NumericalInstability.WithLabelValues("scores", "inf"))

	data := []float32{
		1, 2,
		float32(math.NaN()),
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
		float32(math.NaN()),
	}
	nans, infs := CountNonFinite("scores", data)

	assert.Equal(t, 2, nans)
	assert.Equal(t, 2, infs)
	assert.Equal(t, 2.0, testutil.ToFloat64(NumericalInstability.WithLabelValues("scores", "nan"))-nanBefore)
	assert.Equal(t, 2.0, testutil.ToFloat64(NumericalInstability.WithLabelValues("scores", "inf"))-infBefore)
}

func TestCountNonFinite_Clean(t *testing.T) {
	nans, infs := CountNonFinite("clean", []float32{0, -1, 3.5})
	assert.Zero(t, nans)
	assert.Zero(t, infs)
}
