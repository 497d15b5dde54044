package track

import (
	"fmt"
	"math"
	"os"
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"gopkg.in/yaml.v2"

	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity"
)

const (
	stadiumCurvePoints    = 80 // 每段半圆弧的采样点数
	stadiumStraightPoints = 80 // 每段直道的采样点数
	startIndex            = 10 // 起始位姿对应的中心线顶点下标
)

// Track 赛道实体
// 功能：表示封闭的体育场形赛道，提供世界坐标点的路面分类查询
// 说明：赛道由中心线折线与路宽定义，边界标线位于中心线两侧半路宽处；
// 赛道对核心管线只读，仅相机投影器通过Classify访问
type Track struct {
	ctx entity.ITaskContext

	centerline     []geometry.Point             // 中心线折线（首尾闭合）
	lineLengths    []float64                    // 中心线折线点对应的长度列表
	lineDirections []geometry.PolylineDirection // 中心线折线段每一段的方向（atan2）
	length         float64                      // 中心线总长度

	roadHalfWidth float64 // 路面半宽
	boundaryHalf  float64 // 边界标线半宽
}

// centerlinePoint 自定义中心线文件中的折线点
type centerlinePoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// New 创建并初始化赛道实例
// 功能：根据配置生成体育场形中心线或从文件加载自定义中心线，计算折线几何属性
// 参数：ctx-任务上下文
// 返回：初始化完成的赛道实例与可能的加载错误
// 算法说明：
// 1. 生成或加载中心线折线并首尾闭合
// 2. 计算折线长度列表与每段方向
// 3. 记录路面半宽与边界标线半宽供分类查询使用
func New(ctx entity.ITaskContext) (*Track, error) {
	cfg := ctx.RuntimeConfig().All.Track
	t := &Track{
		ctx:           ctx,
		roadHalfWidth: cfg.RoadWidth / 2,
		boundaryHalf:  cfg.BoundaryWidth / 2,
	}
	var err error
	if cfg.CenterlineFile != "" {
		if t.centerline, err = loadCenterline(cfg.CenterlineFile); err != nil {
			return nil, err
		}
	} else {
		t.centerline = generateStadium(cfg.Width, cfg.Height)
	}
	// 闭合折线
	if first, last := t.centerline[0], t.centerline[len(t.centerline)-1]; first != last {
		t.centerline = append(t.centerline, first)
	}
	t.lineLengths = geometry.GetPolylineLengths2D(t.centerline)
	t.lineDirections = geometry.GetPolylineDirections(t.centerline)
	t.length = t.lineLengths[len(t.lineLengths)-1]
	log.Debugf("track: centerline %d points, length %.1f", len(t.centerline), t.length)
	return t, nil
}

// generateStadium 生成体育场形中心线
// 功能：由上下两条直道和左右两段半圆弧构成封闭的椭圆场形折线
// 参数：width-外接宽度，height-外接高度
// 返回：中心线折线点列表
// 算法说明：
// 1. 半圆半径取高度的一半，直道长度为宽度一半减去半径
// 2. 顶部直道从左到右、右侧半圆、底部直道从右到左、左侧半圆依次采样
func generateStadium(width, height float64) []geometry.Point {
	cx, cy := width/2, height/2
	w, h := width/2, height/2
	r := h
	straightLen := w - r

	points := make([]geometry.Point, 0, 2*(stadiumCurvePoints+stadiumStraightPoints))
	// 顶部直道
	for i := 0; i < stadiumStraightPoints; i++ {
		k := float64(i) / stadiumStraightPoints
		points = append(points, geometry.Point{X: cx - straightLen + 2*straightLen*k, Y: cy - r})
	}
	// 右侧半圆
	for i := 0; i < stadiumCurvePoints; i++ {
		angle := -math.Pi/2 + math.Pi*float64(i)/stadiumCurvePoints
		points = append(points, geometry.Point{
			X: cx + straightLen + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		})
	}
	// 底部直道
	for i := 0; i < stadiumStraightPoints; i++ {
		k := float64(i) / stadiumStraightPoints
		points = append(points, geometry.Point{X: cx + straightLen - 2*straightLen*k, Y: cy + r})
	}
	// 左侧半圆
	for i := 0; i < stadiumCurvePoints; i++ {
		angle := math.Pi/2 + math.Pi*float64(i)/stadiumCurvePoints
		points = append(points, geometry.Point{
			X: cx - straightLen + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		})
	}
	return points
}

// loadCenterline 从YAML文件加载自定义中心线
// 功能：读取折线点列表文件并转换为几何点
// 参数：path-文件路径
// 返回：中心线折线点列表与可能的错误
func loadCenterline(path string) ([]geometry.Point, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("track: centerline file load err: %w", err)
	}
	var points []centerlinePoint
	if err := yaml.UnmarshalStrict(file, &points); err != nil {
		return nil, fmt.Errorf("track: centerline file parse err: %w", err)
	}
	if len(points) < 3 {
		return nil, fmt.Errorf("track: centerline needs at least 3 points, got %d", len(points))
	}
	return lo.Map(points, func(p centerlinePoint, _ int) geometry.Point {
		return geometry.Point{X: p.X, Y: p.Y}
	}), nil
}

// GetPositionByS 将中心线s坐标转换为xy坐标
// 功能：在折线上按弧长插值求点
// 参数：s-弧长坐标
// 返回：对应的世界坐标点
func (t *Track) GetPositionByS(s float64) (pos geometry.Point) {
	s = lo.Clamp(s, 0, t.length)
	if i := sort.SearchFloat64s(t.lineLengths, s); i == 0 {
		pos = t.centerline[0]
	} else {
		sLow, sHigh := t.lineLengths[i-1], t.lineLengths[i]
		k := (s - sLow) / (sHigh - sLow)
		pos = geometry.Blend(t.centerline[i-1], t.centerline[i], k)
	}
	return
}

// GetDirectionByS 根据中心线s坐标计算切向角度
// 功能：查找s坐标所在折线段并返回该段方向
// 参数：s-弧长坐标
// 返回：折线段方向
func (t *Track) GetDirectionByS(s float64) (direction geometry.PolylineDirection) {
	s = lo.Clamp(s, 0, t.length)
	if i := sort.SearchFloat64s(t.lineLengths, s); i == 0 {
		direction = t.lineDirections[0]
	} else {
		direction = t.lineDirections[i-1]
	}
	return
}

// Classify 查询世界坐标点的路面分类
// 功能：将点投影到中心线折线，按到中心线的距离划分路面/边界/背景
// 参数：x、y-世界坐标
// 返回：路面分类
// 算法说明：
// 1. 求点到中心线折线的最近s坐标与最近点
// 2. 距离落在半路宽±标线半宽内为边界标线
// 3. 距离小于半路宽-标线半宽为路面，其余为背景
func (t *Track) Classify(x, y float64) entity.SurfaceClass {
	p := geometry.Point{X: x, Y: y}
	s := geometry.GetClosestPolylineSToPoint2D(t.centerline, t.lineLengths, p)
	nearest := t.GetPositionByS(s)
	d := math.Hypot(x-nearest.X, y-nearest.Y)
	switch {
	case math.Abs(d-t.roadHalfWidth) <= t.boundaryHalf:
		return entity.SurfaceBoundary
	case d < t.roadHalfWidth-t.boundaryHalf:
		return entity.SurfaceRoad
	default:
		return entity.SurfaceBackground
	}
}

// StartPose 获取起始位姿
// 功能：返回中心线上固定顶点处的位置与切向朝向
// 返回：x、y-起始位置，heading-起始朝向（弧度）
func (t *Track) StartPose() (x, y, heading float64) {
	i := startIndex
	if i >= len(t.centerline)-1 {
		i = 0
	}
	pos := t.centerline[i]
	s := t.lineLengths[i]
	return pos.X, pos.Y, t.GetDirectionByS(s + 1e-6).Direction
}

// Centerline 获取中心线折线
func (t *Track) Centerline() []geometry.Point {
	return t.centerline
}

// Length 获取中心线总长度
func (t *Track) Length() float64 {
	return t.length
}
