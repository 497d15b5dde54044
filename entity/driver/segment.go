package driver

import (
	"math"

	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/config"
)

// Absent 边界未检出的哨兵值
const Absent = -1

// ScanRow 单行边界检测结果
// 功能：记录一条扫描行上左右边界的列位置
type ScanRow struct {
	Row    int // 帧行号
	LeftX  int // 左边界列号，Absent表示该方向未检出
	RightX int // 右边界列号，Absent表示该方向未检出
}

// BoundaryScan 边界扫描结果
// 功能：一帧内全部扫描行的边界检测结果，按近到远排列
// 说明：每步从相机帧重新推导的一次性产物，跨步不保留
type BoundaryScan struct {
	Rows []ScanRow
}

// Segmenter 车道分割器
// 功能：在HSV色彩空间中按色相阈值定位边界标线像素
// 说明：HSV分割对路面/背景的明度差异不敏感，只依赖边界标线的已知色相范围
type Segmenter struct {
	cfg config.Vision
}

// NewSegmenter 创建车道分割器
func NewSegmenter(cfg config.Vision) *Segmenter {
	return &Segmenter{cfg: cfg}
}

// Segment 边界分割
// 功能：在配置的各扫描行上定位左右边界列
// 参数：frame-相机帧
// 返回：边界扫描结果
// 算法说明：
// 1. 扫描行位置按帧高度比例取整
// 2. 每行从中心向左、向右各扫描一次，取第一个命中边界色的像素
// 3. 单个孤立命中像素即计为边界，不做去抖（纯反应式设计）
func (sg *Segmenter) Segment(frame *Frame) BoundaryScan {
	rows := make([]ScanRow, 0, len(sg.cfg.ScanRows))
	center := frame.Width / 2
	for _, frac := range sg.cfg.ScanRows {
		row := int(frac * float64(frame.Height))
		if row >= frame.Height {
			row = frame.Height - 1
		}
		r := ScanRow{Row: row, LeftX: Absent, RightX: Absent}
		for col := center - 1; col >= 0; col-- {
			if sg.isBoundary(frame.At(col, row)) {
				r.LeftX = col
				break
			}
		}
		for col := center; col < frame.Width; col++ {
			if sg.isBoundary(frame.At(col, row)) {
				r.RightX = col
				break
			}
		}
		rows = append(rows, r)
	}
	return BoundaryScan{Rows: rows}
}

// isBoundary 判断像素是否为边界标线色
// 功能：转换到HSV后按色相范围与饱和度/明度下限判定
func (sg *Segmenter) isBoundary(c RGB) bool {
	h, s, v := rgbToHSV(c)
	return h >= sg.cfg.BoundaryHue.Min && h <= sg.cfg.BoundaryHue.Max &&
		s >= sg.cfg.MinSaturation && v >= sg.cfg.MinValue
}

// rgbToHSV RGB转HSV
// 功能：将[0,255]的RGB转换为色相[0,360)、饱和度[0,1]、明度[0,1]
func rgbToHSV(c RGB) (h, s, v float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	v = max
	if max > 0 {
		s = delta / max
	}
	if delta == 0 {
		return 0, s, v
	}
	switch max {
	case r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	return
}
