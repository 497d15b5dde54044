package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/clock"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/config"
)

func TestClock(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 10, Total: 20, Interval: 0.5})
	assert.Equal(t, int32(10), c.InternalStep)
	assert.Equal(t, int32(30), c.END_STEP)
	assert.InDelta(t, 5.0, c.T, 1e-12)
	assert.False(t, c.Done())

	c.InternalStep = 30
	assert.True(t, c.Done())

	c.T = 75.5
	assert.Equal(t, "01:15.50", c.String())
}
