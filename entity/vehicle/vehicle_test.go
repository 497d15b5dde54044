package vehicle_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/config"
)

func testAttr() vehicle.Attr {
	return vehicle.NewAttr(config.Vehicle{
		Wheelbase:        14,
		MaxSpeed:         8,
		MinSpeed:         2,
		MaxAcceleration:  4,
		MaxSteeringAngle: 0.6,
	})
}

func TestAdvanceClampsCommands(t *testing.T) {
	attr := testAttr()
	s := vehicle.State{V: 5}
	commands := [][2]float64{
		{10, 1e6}, {-10, 1e6}, {0.6, 8}, {-0.6, 0}, {100, -5},
	}
	for _, cmd := range commands {
		s = attr.Advance(s, cmd[0], cmd[1], 0.05)
		assert.LessOrEqual(t, math.Abs(s.Steering), attr.MaxSteering)
		assert.GreaterOrEqual(t, s.V, 0.0)
		assert.LessOrEqual(t, s.V, attr.MaxSpeed)
	}
}

func TestAdvanceHeadingStaysNormalized(t *testing.T) {
	attr := testAttr()
	s := vehicle.State{V: 8}
	// 满舵持续积分多步，朝向角不应无界增长
	for i := 0; i < 10000; i++ {
		s = attr.Advance(s, 0.6, 8, 0.05)
		assert.Greater(t, s.Heading, -math.Pi)
		assert.LessOrEqual(t, s.Heading, math.Pi)
	}
}

func TestAdvanceStraightLine(t *testing.T) {
	attr := testAttr()
	s := vehicle.State{X: 1, Y: 2, Heading: 0, V: 5}
	s = attr.Advance(s, 0, 5, 1)
	assert.InDelta(t, 6.0, s.X, 1e-12)
	assert.InDelta(t, 2.0, s.Y, 1e-12)
	assert.InDelta(t, 0.0, s.Heading, 1e-12)
	assert.InDelta(t, 5.0, s.V, 1e-12)
}

func TestAdvanceSpeedRelaxation(t *testing.T) {
	attr := testAttr()
	s := vehicle.State{V: 0}
	s = attr.Advance(s, 0, 8, 0.05)
	// 速度按最大加速度松弛，不允许瞬时跳变
	assert.InDelta(t, 0.2, s.V, 1e-12)

	s.V = 8
	s = attr.Advance(s, 0, 0, 0.05)
	assert.InDelta(t, 7.8, s.V, 1e-12)
}

func TestAdvanceRejectsInvalidInput(t *testing.T) {
	attr := testAttr()
	before := vehicle.State{X: 3, Y: 4, Heading: 1, V: 5, Steering: 0.1}
	for _, cmd := range [][2]float64{
		{math.NaN(), 5}, {0.1, math.NaN()}, {math.Inf(1), 5}, {0.1, math.Inf(-1)},
	} {
		after := attr.Advance(before, cmd[0], cmd[1], 0.05)
		assert.Equal(t, before, after)
	}
	assert.Equal(t, before, attr.Advance(before, 0.1, 5, math.NaN()))
}

func TestAdvanceTurnSign(t *testing.T) {
	attr := testAttr()
	s := vehicle.State{V: 5}
	left := attr.Advance(s, 0.3, 5, 0.05)
	right := attr.Advance(s, -0.3, 5, 0.05)
	// 正负转角产生等幅反号的朝向变化
	assert.Greater(t, left.Heading, 0.0)
	assert.Less(t, right.Heading, 0.0)
	assert.InDelta(t, left.Heading, -right.Heading, 1e-12)
}
