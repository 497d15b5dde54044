package driver

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/config"
)

// LaneTarget 前视目标点
// 功能：图像坐标下的车道中心瞄准点
// 说明：每步从边界扫描重新推导的一次性产物，由纯跟踪控制器变换到车体系
type LaneTarget struct {
	Row int     // 帧行号（前视行）
	Col float64 // 帧列号（允许小数）
}

// Estimator 车道中心估计器
// 功能：将各扫描行的边界对转换为前视距离处的车道中心目标点
// 说明：上次观测到的车道宽度跨步保留，用于单侧边界丢失时的回退策略
type Estimator struct {
	cfg       config.Vision
	cam       *Camera
	lookAhead float64 // 前视距离（米）
	roadWidth float64 // 配置路宽（米），车道宽度未观测时的初值来源

	lastLaneWidth float64 // 上次双边界同现时的车道宽度（像素）
}

// NewEstimator 创建车道中心估计器
// 参数：cfg-分割配置，cam-相机（用于行距离换算），lookAhead-前视距离，roadWidth-配置路宽
func NewEstimator(cfg config.Vision, cam *Camera, lookAhead, roadWidth float64) *Estimator {
	return &Estimator{cfg: cfg, cam: cam, lookAhead: lookAhead, roadWidth: roadWidth}
}

// Estimate 目标点估计
// 功能：在最接近前视距离的扫描行上求车道中心
// 参数：scan-边界扫描结果
// 返回：目标点与是否有效；两侧边界均未检出时返回无效（目标丢失）
// 算法说明：
// 1. 选取行距离最接近前视距离的扫描行
// 2. 双边界同现：目标取中点，并记录车道宽度
// 3. 仅单侧边界：以该边界向车道内侧偏移半车道宽（急弯中单侧边界出视野的回退策略）
// 4. 双侧缺失：返回目标丢失信号，由纯跟踪控制器执行恢复策略
// 5. 可选的多行融合：对双边界行的归一化中心按近行优先权重加权平均
// 说明：目标丢失不是错误，车辆每步必须继续行驶
func (e *Estimator) Estimate(scan BoundaryScan) (LaneTarget, bool) {
	idx := e.nearestRow(scan)
	if idx < 0 {
		return LaneTarget{}, false
	}
	r := scan.Rows[idx]

	var col float64
	switch {
	case r.LeftX != Absent && r.RightX != Absent:
		col = float64(r.LeftX+r.RightX) / 2
		e.lastLaneWidth = float64(r.RightX - r.LeftX)
	case r.LeftX != Absent:
		col = float64(r.LeftX) + e.laneWidthPx(r.Row)/2
	case r.RightX != Absent:
		col = float64(r.RightX) - e.laneWidthPx(r.Row)/2
	default:
		return LaneTarget{}, false
	}

	if e.cfg.BlendRows {
		if blended, ok := e.blend(scan); ok {
			col = blended * float64(e.cam.cfg.FrameWidth-1)
		}
	}
	col = lo.Clamp(col, 0, float64(e.cam.cfg.FrameWidth-1))
	return LaneTarget{Row: r.Row, Col: col}, true
}

// nearestRow 选取行距离最接近前视距离的扫描行下标
func (e *Estimator) nearestRow(scan BoundaryScan) int {
	best, bestDiff := -1, math.Inf(1)
	for i, r := range scan.Rows {
		if diff := math.Abs(e.cam.RowDistance(r.Row) - e.lookAhead); diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

// laneWidthPx 单侧回退使用的车道宽度（像素）
// 功能：优先使用上次观测宽度，从未观测到时按配置路宽换算到该行的像素宽度
func (e *Estimator) laneWidthPx(row int) float64 {
	if e.lastLaneWidth > 0 {
		return e.lastLaneWidth
	}
	d := e.cam.RowDistance(row)
	return e.roadWidth / (2 * e.cam.halfWidthAt(d)) * float64(e.cam.cfg.FrameWidth-1)
}

// blend 多行加权融合
// 功能：对所有双边界同现的扫描行计算归一化车道中心的加权平均
// 返回：归一化中心[0,1]与是否有可融合的行
// 说明：权重近行优先，稳定瞄准路径；无双边界行时退回单行结果
func (e *Estimator) blend(scan BoundaryScan) (float64, bool) {
	centers := make([]float64, 0, len(scan.Rows))
	weights := make([]float64, 0, len(scan.Rows))
	w := float64(e.cam.cfg.FrameWidth - 1)
	for i, r := range scan.Rows {
		if r.LeftX == Absent || r.RightX == Absent {
			continue
		}
		centers = append(centers, float64(r.LeftX+r.RightX)/2/w)
		weights = append(weights, e.cfg.RowWeights[i])
	}
	if len(centers) == 0 {
		return 0, false
	}
	return stat.Mean(centers, weights), true
}
