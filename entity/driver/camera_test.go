package driver_test

import (
	"math"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity/driver"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity/vehicle"
)

// probeTrack 只在指定点附近为边界标线的探针赛道，用于校验投影采样位置
type probeTrack struct {
	x, y float64
}

func (p probeTrack) Classify(x, y float64) entity.SurfaceClass {
	if math.Hypot(x-p.x, y-p.y) < 0.4 {
		return entity.SurfaceBoundary
	}
	return entity.SurfaceRoad
}

func (probeTrack) StartPose() (float64, float64, float64) { return 0, 0, 0 }
func (probeTrack) Centerline() []geometry.Point           { return nil }
func (probeTrack) Length() float64                        { return 1e4 }

func TestRowDistance(t *testing.T) {
	cam := driver.NewCamera(baseConfig().Camera, 0)
	// 最后一行为近端，行0为远端
	assert.InDelta(t, 5.0, cam.RowDistance(79), 1e-12)
	assert.InDelta(t, 200.0, cam.RowDistance(0), 1e-12)
	for row := 1; row < 80; row++ {
		assert.Less(t, cam.RowDistance(row), cam.RowDistance(row-1))
	}
}

func TestPixelToVehicle(t *testing.T) {
	cam := driver.NewCamera(baseConfig().Camera, 0)

	// 帧中心列横向偏移恰好为0
	_, lateral := cam.PixelToVehicle(59.5, 40)
	assert.InDelta(t, 0.0, lateral, 1e-12)

	// 列号关于中心对称时横向偏移等幅反号
	_, left := cam.PixelToVehicle(29.5, 40)
	_, right := cam.PixelToVehicle(89.5, 40)
	assert.InDelta(t, left, -right, 1e-12)
	assert.Less(t, left, 0.0)

	// 前向距离只取决于行号
	forward, _ := cam.PixelToVehicle(10, 64)
	assert.InDelta(t, cam.RowDistance(64), forward, 1e-12)
}

func TestProjectSamplesExpectedWorldPoint(t *testing.T) {
	cam := driver.NewCamera(baseConfig().Camera, 0)

	// 投影采样位置应与PixelToVehicle给出的车体坐标精确互逆
	forward, lateral := cam.PixelToVehicle(30, 40)
	frame := cam.Project(vehicle.State{}, probeTrack{x: forward, y: lateral})
	assert.NotEqual(t, frame.At(29, 40), frame.At(30, 40))
	assert.Equal(t, frame.At(29, 40), frame.At(31, 40))
}

func TestProjectHonorsPose(t *testing.T) {
	cam := driver.NewCamera(baseConfig().Camera, 0)

	// 朝向+y时，车体系(forward, lateral)映射到世界(-lateral, forward)
	forward, lateral := cam.PixelToVehicle(30, 40)
	s := vehicle.State{X: 100, Y: 200, Heading: math.Pi / 2}
	frame := cam.Project(s, probeTrack{x: 100 - lateral, y: 200 + forward})
	assert.NotEqual(t, frame.At(29, 40), frame.At(30, 40))
}

func TestProjectDeterministic(t *testing.T) {
	cam := driver.NewCamera(baseConfig().Camera, 0)
	s := vehicle.State{Y: 3}
	f1 := cam.Project(s, straightTrack{})
	f2 := cam.Project(s, straightTrack{})
	assert.Equal(t, f1, f2)
	assert.Equal(t, 120, f1.Width)
	assert.Equal(t, 80, f1.Height)
	assert.Len(t, f1.Pix, 120*80)
}

func TestProjectNoiseDeterministicPerSeed(t *testing.T) {
	cfg := baseConfig().Camera
	cfg.NoiseStd = 3
	s := vehicle.State{Y: 3}

	// 相同种子下噪声序列可复现，两次投影逐像素相等
	f1 := driver.NewCamera(cfg, 7).Project(s, straightTrack{})
	f2 := driver.NewCamera(cfg, 7).Project(s, straightTrack{})
	assert.Equal(t, f1, f2)

	// 不同种子产生不同的噪声帧
	f3 := driver.NewCamera(cfg, 8).Project(s, straightTrack{})
	assert.NotEqual(t, f1, f3)

	// 噪声开启时与无噪声帧不同
	clean := driver.NewCamera(baseConfig().Camera, 7).Project(s, straightTrack{})
	assert.NotEqual(t, clean, f1)
}

func TestProjectBackgroundOutsideTrack(t *testing.T) {
	cam := driver.NewCamera(baseConfig().Camera, 0)
	frame := cam.Project(vehicle.State{}, emptyTrack{})
	// 空场地所有采样均为同一背景色
	for _, px := range frame.Pix {
		assert.Equal(t, frame.Pix[0], px)
	}
}
