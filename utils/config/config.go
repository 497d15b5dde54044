package config

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "config")

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象并进行启动期校验
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 说明：配置违例是致命错误，在任何模拟步执行前直接panic退出
func NewRuntimeConfig(config Config) *RuntimeConfig {
	if err := config.Validate(); err != nil {
		log.Panicf("config validation err: %v", err)
	}
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control

	return rc
}

// Validate 配置校验
// 功能：检查配置取值是否满足各组件的前置条件
// 返回：第一个发现的配置错误，全部合法则返回nil
// 说明：只在启动期调用一次，模拟步内不存在配置错误
func (c *Config) Validate() error {
	if c.Control.Step.Interval <= 0 {
		return fmt.Errorf("control.step.interval must be positive, got %v", c.Control.Step.Interval)
	}
	if c.Control.Step.Total <= 0 {
		return fmt.Errorf("control.step.total must be positive, got %v", c.Control.Step.Total)
	}
	if c.Vehicle.Wheelbase <= 0 {
		return fmt.Errorf("vehicle.wheelbase must be positive, got %v", c.Vehicle.Wheelbase)
	}
	if c.Vehicle.MaxSpeed <= 0 {
		return fmt.Errorf("vehicle.max_speed must be positive, got %v", c.Vehicle.MaxSpeed)
	}
	if c.Vehicle.MinSpeed < 0 || c.Vehicle.MinSpeed > c.Vehicle.MaxSpeed {
		return fmt.Errorf("vehicle.min_speed must be in [0, max_speed], got %v", c.Vehicle.MinSpeed)
	}
	if c.Vehicle.MaxAcceleration <= 0 {
		return fmt.Errorf("vehicle.max_acceleration must be positive, got %v", c.Vehicle.MaxAcceleration)
	}
	if c.Vehicle.MaxSteeringAngle <= 0 || c.Vehicle.MaxSteeringAngle >= math.Pi/2 {
		return fmt.Errorf("vehicle.max_steering_angle must be in (0, pi/2), got %v", c.Vehicle.MaxSteeringAngle)
	}
	if c.Camera.FrameWidth < 8 || c.Camera.FrameHeight < 8 {
		return fmt.Errorf("camera frame must be at least 8x8, got %vx%v", c.Camera.FrameWidth, c.Camera.FrameHeight)
	}
	if c.Camera.NearDistance <= 0 || c.Camera.NearDistance >= c.Camera.VisionRange {
		return fmt.Errorf("camera near/vision range must satisfy 0 < near < range, got %v/%v",
			c.Camera.NearDistance, c.Camera.VisionRange)
	}
	if c.Camera.NearHalfWidth <= 0 || c.Camera.FarHalfWidth <= 0 {
		return fmt.Errorf("camera half widths must be positive, got %v/%v",
			c.Camera.NearHalfWidth, c.Camera.FarHalfWidth)
	}
	if c.Camera.NoiseStd < 0 {
		return fmt.Errorf("camera.noise_std must be non-negative, got %v", c.Camera.NoiseStd)
	}
	if c.Vision.BoundaryHue.Min < 0 || c.Vision.BoundaryHue.Max >= 360 ||
		c.Vision.BoundaryHue.Min >= c.Vision.BoundaryHue.Max {
		return fmt.Errorf("vision.boundary_hue must satisfy 0 <= min < max < 360, got %+v", c.Vision.BoundaryHue)
	}
	if c.Vision.MinSaturation < 0 || c.Vision.MinSaturation > 1 ||
		c.Vision.MinValue < 0 || c.Vision.MinValue > 1 {
		return fmt.Errorf("vision saturation/value thresholds must be in [0,1], got %v/%v",
			c.Vision.MinSaturation, c.Vision.MinValue)
	}
	if len(c.Vision.ScanRows) == 0 {
		return fmt.Errorf("vision.scan_rows must not be empty")
	}
	for _, r := range c.Vision.ScanRows {
		if r <= 0 || r >= 1 {
			return fmt.Errorf("vision.scan_rows entries must be in (0,1), got %v", r)
		}
	}
	if c.Vision.BlendRows && len(c.Vision.RowWeights) != len(c.Vision.ScanRows) {
		return fmt.Errorf("vision.row_weights length %v must match scan_rows length %v when blending",
			len(c.Vision.RowWeights), len(c.Vision.ScanRows))
	}
	if c.Pursuit.LookAheadDistance <= c.Camera.NearDistance ||
		c.Pursuit.LookAheadDistance >= c.Camera.VisionRange {
		return fmt.Errorf("pursuit.look_ahead_distance must be within camera range (%v, %v), got %v",
			c.Camera.NearDistance, c.Camera.VisionRange, c.Pursuit.LookAheadDistance)
	}
	if c.Pursuit.MissingDecay <= 0 || c.Pursuit.MissingDecay > 1 {
		return fmt.Errorf("pursuit.missing_decay must be in (0,1], got %v", c.Pursuit.MissingDecay)
	}
	if c.Speed.Falloff <= 0 || c.Speed.Falloff > 1 {
		return fmt.Errorf("speed.falloff must be in (0,1], got %v", c.Speed.Falloff)
	}
	if c.Track.CenterlineFile == "" {
		if c.Track.Width <= 0 || c.Track.Height <= 0 || c.Track.Width <= c.Track.Height {
			return fmt.Errorf("track width/height must satisfy width > height > 0, got %v/%v",
				c.Track.Width, c.Track.Height)
		}
	}
	if c.Track.RoadWidth <= 0 {
		return fmt.Errorf("track.road_width must be positive, got %v", c.Track.RoadWidth)
	}
	if c.Track.BoundaryWidth <= 0 || c.Track.BoundaryWidth >= c.Track.RoadWidth {
		return fmt.Errorf("track.boundary_width must be in (0, road_width), got %v", c.Track.BoundaryWidth)
	}
	if c.Output.FrameDumpDir != "" && c.Output.FrameDumpInterval <= 0 {
		return fmt.Errorf("output.frame_dump_interval must be positive when dumping, got %v",
			c.Output.FrameDumpInterval)
	}
	return nil
}
