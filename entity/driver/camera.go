package driver

import (
	"math"

	"github.com/samber/lo"

	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/randengine"
)

// RGB 帧像素颜色
type RGB struct {
	R, G, B uint8
}

// 渲染调色板，边界标线使用与路面/背景色相可分的绿色
var (
	roadColor       = RGB{R: 50, G: 50, B: 55} // 沥青路面（低饱和度）
	boundaryColor   = RGB{R: 30, G: 200, B: 80}
	backgroundColor = RGB{R: 30, G: 50, B: 35} // 草地（低明度）
)

// Frame 相机帧
// 功能：前向视野的2D颜色采样网格
// 说明：每步由相机投影器重新生成的一次性产物，跨步不保留，
// 行0为视野远端，最后一行为车头近端
type Frame struct {
	Width, Height int
	Pix           []RGB // 按行优先存储
}

// newFrame 创建指定尺寸的空帧
func newFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height, Pix: make([]RGB, width*height)}
}

// At 读取像素
func (f *Frame) At(col, row int) RGB {
	return f.Pix[row*f.Width+col]
}

// set 写入像素
func (f *Frame) set(col, row int, c RGB) {
	f.Pix[row*f.Width+col] = c
}

// Camera 相机投影器
// 功能：根据车辆位姿将赛道采样为第一视角的前向帧
// 说明：视野为车头前方的梯形切片，近端窄、远端宽以模拟透视；
// 除可选的传感器噪声外是(位姿, 赛道, 帧几何)的纯函数
type Camera struct {
	cfg    config.Camera
	engine *randengine.Engine // 传感器噪声，NoiseStd为0时不使用
}

// NewCamera 创建相机投影器
// 参数：cfg-相机配置，seed-噪声随机数种子
// 返回：相机投影器实例
func NewCamera(cfg config.Camera, seed uint64) *Camera {
	c := &Camera{cfg: cfg}
	if cfg.NoiseStd > 0 {
		c.engine = randengine.New(seed)
	}
	return c
}

// RowDistance 帧行号转换为前向距离
// 功能：行0映射到视野远端（VisionRange），最后一行映射到近端（NearDistance）
// 参数：row-帧行号
// 返回：该行对应的车前距离（米）
func (c *Camera) RowDistance(row int) float64 {
	h := float64(c.cfg.FrameHeight - 1)
	k := (h - float64(row)) / h
	return c.cfg.NearDistance + (c.cfg.VisionRange-c.cfg.NearDistance)*k
}

// halfWidthAt 指定前向距离处的视野横向半宽
// 功能：在近端半宽与远端半宽之间线性插值，构成梯形视野
func (c *Camera) halfWidthAt(d float64) float64 {
	k := (d - c.cfg.NearDistance) / (c.cfg.VisionRange - c.cfg.NearDistance)
	return c.cfg.NearHalfWidth + (c.cfg.FarHalfWidth-c.cfg.NearHalfWidth)*k
}

// PixelToVehicle 图像坐标转换为车体坐标
// 功能：将帧内像素位置换算为车体系下的前向距离与横向偏移
// 参数：col-帧列号（允许小数），row-帧行号
// 返回：forward-前向距离（米），lateral-横向偏移（米）
// 说明：横向偏移的正方向为朝向角+π/2方向，列号大于帧中心为正；
// 该映射是投影采样的精确逆变换
func (c *Camera) PixelToVehicle(col float64, row int) (forward, lateral float64) {
	forward = c.RowDistance(row)
	w := float64(c.cfg.FrameWidth - 1)
	lateral = (2*col/w - 1) * c.halfWidthAt(forward)
	return
}

// Project 相机投影
// 功能：根据车辆位姿采样赛道分类，生成前向视野帧
// 参数：s-车辆状态，trk-赛道
// 返回：相机帧
// 算法说明：
// 1. 每行映射到一个前向距离，行内每列映射到该距离处的横向偏移
// 2. 用车辆位置与朝向将车体系采样点变换到世界坐标
// 3. 查询赛道分类并着色，边界标线使用独立的标记色
// 4. 赛道范围外的采样点由赛道分类为背景
func (c *Camera) Project(s vehicle.State, trk entity.ITrack) *Frame {
	frame := newFrame(c.cfg.FrameWidth, c.cfg.FrameHeight)
	sinH, cosH := math.Sincos(s.Heading)
	w := float64(c.cfg.FrameWidth - 1)
	for row := 0; row < c.cfg.FrameHeight; row++ {
		d := c.RowDistance(row)
		halfW := c.halfWidthAt(d)
		for col := 0; col < c.cfg.FrameWidth; col++ {
			lat := (2*float64(col)/w - 1) * halfW
			wx := s.X + d*cosH - lat*sinH
			wy := s.Y + d*sinH + lat*cosH
			var px RGB
			switch trk.Classify(wx, wy) {
			case entity.SurfaceRoad:
				px = roadColor
			case entity.SurfaceBoundary:
				px = boundaryColor
			default:
				px = backgroundColor
			}
			if c.engine != nil {
				px = c.perturb(px)
			}
			frame.set(col, row, px)
		}
	}
	return frame
}

// perturb 传感器噪声
// 功能：对像素各通道叠加正态扰动
func (c *Camera) perturb(px RGB) RGB {
	return RGB{
		R: noisyChannel(px.R, c.engine.Gaussian(c.cfg.NoiseStd)),
		G: noisyChannel(px.G, c.engine.Gaussian(c.cfg.NoiseStd)),
		B: noisyChannel(px.B, c.engine.Gaussian(c.cfg.NoiseStd)),
	}
}

// noisyChannel 通道值加噪并截断到[0,255]
func noisyChannel(v uint8, noise float64) uint8 {
	return uint8(lo.Clamp(float64(v)+noise, 0, 255))
}
