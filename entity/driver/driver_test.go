package driver_test

import (
	"math"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/clock"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity/driver"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/config"
)

type testCtx struct {
	rc  *config.RuntimeConfig
	clk *clock.Clock
}

func (c *testCtx) Clock() *clock.Clock                  { return c.clk }
func (c *testCtx) RuntimeConfig() *config.RuntimeConfig { return c.rc }

func baseConfig() config.Config {
	return config.Config{
		Control: config.Control{Step: config.ControlStep{Total: 1000, Interval: 0.05}, Seed: 42},
		Vehicle: config.Vehicle{
			Wheelbase: 14, MaxSpeed: 8, MinSpeed: 2, MaxAcceleration: 4, MaxSteeringAngle: 0.6,
		},
		Camera: config.Camera{
			FrameWidth: 120, FrameHeight: 80,
			NearDistance: 5, VisionRange: 200, NearHalfWidth: 20, FarHalfWidth: 250,
		},
		Vision: config.Vision{
			BoundaryHue: config.HueRange{Min: 70, Max: 170},
			MinSaturation: 0.3, MinValue: 0.25,
			ScanRows:   []float64{0.8, 0.6, 0.4, 0.3},
			RowWeights: []float64{0.4, 0.3, 0.2, 0.1},
		},
		Pursuit: config.Pursuit{LookAheadDistance: 60, MissingDecay: 0.98},
		Speed:   config.Speed{Falloff: 0.5},
		Track: config.Track{
			Width: 780, Height: 520, RoadWidth: 100, BoundaryWidth: 4,
		},
	}
}

func newCtx(c config.Config) *testCtx {
	rc := config.NewRuntimeConfig(c)
	return &testCtx{rc: rc, clk: clock.New(rc.C.Step)}
}

// straightTrack 沿+x方向的无限直道，边界标线位于y=±50，标线半宽2
type straightTrack struct{}

func (straightTrack) Classify(x, y float64) entity.SurfaceClass {
	switch {
	case math.Abs(math.Abs(y)-50) <= 2:
		return entity.SurfaceBoundary
	case math.Abs(y) < 48:
		return entity.SurfaceRoad
	default:
		return entity.SurfaceBackground
	}
}

func (straightTrack) StartPose() (float64, float64, float64) { return 0, 0, 0 }
func (straightTrack) Centerline() []geometry.Point           { return nil }
func (straightTrack) Length() float64                        { return 1e4 }

// emptyTrack 没有任何路面的空场地，所有采样均为背景
type emptyTrack struct{}

func (emptyTrack) Classify(x, y float64) entity.SurfaceClass { return entity.SurfaceBackground }
func (emptyTrack) StartPose() (float64, float64, float64)    { return 0, 0, 0 }
func (emptyTrack) Centerline() []geometry.Point              { return nil }
func (emptyTrack) Length() float64                           { return 1e4 }

func TestTickCenteredOnStraight(t *testing.T) {
	ctx := newCtx(baseConfig())
	d := driver.New(ctx)

	s := vehicle.State{X: 0, Y: 0, Heading: 0, V: 8}
	next, cmd := d.Tick(s, straightTrack{}, 0.05)

	// 居中直行：目标点横向偏移为0，转角为0，速度为最大速度
	assert.InDelta(t, 0.0, cmd.Steering, 1e-12)
	assert.InDelta(t, 8.0, cmd.Speed, 1e-12)
	assert.Greater(t, next.X, 0.0)
	assert.InDelta(t, 0.0, next.Heading, 1e-12)

	// 调试产物可读
	assert.NotNil(t, d.Frame())
	assert.NotEmpty(t, d.Scan().Rows)
}

func TestTickOffCenterSteersBack(t *testing.T) {
	ctx := newCtx(baseConfig())
	d := driver.New(ctx)

	// 车辆偏向+横向一侧，车道中点位于-横向一侧，应输出负转角并减速
	s := vehicle.State{X: 0, Y: 10, Heading: 0, V: 8}
	_, cmd := d.Tick(s, straightTrack{}, 0.05)
	assert.Less(t, cmd.Steering, 0.0)
	assert.Less(t, cmd.Speed, 8.0)
	assert.GreaterOrEqual(t, cmd.Speed, 2.0)
}

func TestTickMirrorSymmetry(t *testing.T) {
	// 左右镜像的偏移产生等幅反号的转角
	d1 := driver.New(newCtx(baseConfig()))
	d2 := driver.New(newCtx(baseConfig()))

	_, cmd1 := d1.Tick(vehicle.State{Y: 10, V: 8}, straightTrack{}, 0.05)
	_, cmd2 := d2.Tick(vehicle.State{Y: -10, V: 8}, straightTrack{}, 0.05)
	assert.InDelta(t, cmd1.Steering, -cmd2.Steering, 1e-12)
	assert.InDelta(t, cmd1.Speed, cmd2.Speed, 1e-12)
}

func TestTickMissingTargetDecays(t *testing.T) {
	ctx := newCtx(baseConfig())
	d := driver.New(ctx)

	// 先在直道上建立非零转角
	s := vehicle.State{X: 0, Y: 10, Heading: 0, V: 8}
	_, cmd := d.Tick(s, straightTrack{}, 0.05)
	assert.NotZero(t, cmd.Steering)

	// 边界完全丢失后转角按衰减系数衰减，保持有界不发散
	prev := cmd.Steering
	for i := 0; i < 50; i++ {
		_, cmd = d.Tick(s, emptyTrack{}, 0.05)
		assert.InDelta(t, prev*0.98, cmd.Steering, 1e-12)
		assert.LessOrEqual(t, math.Abs(cmd.Steering), 0.6)
		prev = cmd.Steering
	}
}

func TestTickStateInvariantsOverManySteps(t *testing.T) {
	ctx := newCtx(baseConfig())
	d := driver.New(ctx)

	s := vehicle.State{X: 0, Y: 0, Heading: 0, V: 2}
	for i := 0; i < 2000; i++ {
		var cmd driver.Command
		s, cmd = d.Tick(s, straightTrack{}, 0.05)
		assert.LessOrEqual(t, math.Abs(s.Steering), 0.6)
		assert.GreaterOrEqual(t, s.V, 0.0)
		assert.LessOrEqual(t, s.V, 8.0)
		assert.LessOrEqual(t, math.Abs(cmd.Steering), 0.6)
	}
	// 直道上长期运行应保持在车道内
	assert.Less(t, math.Abs(s.Y), 48.0)
}
