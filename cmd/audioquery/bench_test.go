package main

import (
	"context"
	"testing"
	"time"

	"github.com/born-ml/born/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sleepSession is a session whose forward pass takes a fixed time.
type sleepSession struct {
	delay time.Duration
}

func (s sleepSession) Forward() (tensor.Shape, []float32, error) {
	time.Sleep(s.delay)
	return tensor.Shape{1}, []float32{0}, nil
}

func (sleepSession) NumParameters() int  { return 0 }
func (sleepSession) BackendName() string { return "sleep" }
func (sleepSession) Close()              {}

func TestThroughput(t *testing.T) {
	assert.InDelta(t, 40.0, throughput(2, 10, 500*time.Millisecond), 1e-9)
	assert.Zero(t, throughput(2, 10, 0))
}

func TestRunBench_ConcurrentThroughput(t *testing.T) {
	const (
		batch = 4
		delay = 20 * time.Millisecond
	)
	s := sleepSession{delay: delay}

	latencies, wall, err := runBench(context.Background(), s, &benchOptions{iterations: 8, concurrency: 4})
	require.NoError(t, err)
	require.Len(t, latencies, 8)

	perPass := float64(batch) / delay.Seconds()
	// Four passes in flight: wall-clock throughput must clearly beat one pass at a time.
	assert.Greater(t, throughput(batch, len(latencies), wall), 2*perPass)
	for _, l := range latencies {
		assert.GreaterOrEqual(t, l, delay.Seconds())
	}
}

func TestRunBench_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	latencies, _, err := runBench(ctx, sleepSession{}, &benchOptions{iterations: 5, concurrency: 1})
	require.NoError(t, err)
	assert.Empty(t, latencies)
}
