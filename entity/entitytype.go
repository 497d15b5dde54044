package entity

import (
	"git.fiblab.net/general/common/v2/geometry"

	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/clock"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/config"
)

// SurfaceClass 世界坐标点的路面分类
// 功能：表示赛道对任意世界坐标点的分类结果
type SurfaceClass int

const (
	SurfaceBackground SurfaceClass = iota // 背景（赛道范围外）
	SurfaceRoad                           // 路面
	SurfaceBoundary                       // 边界标线
)

// String 获取路面分类的字符串表示
func (s SurfaceClass) String() string {
	switch s {
	case SurfaceRoad:
		return "ROAD"
	case SurfaceBoundary:
		return "BOUNDARY"
	default:
		return "BACKGROUND"
	}
}

// ITrack 赛道实体接口
// 功能：为相机投影器提供世界坐标点的路面分类查询能力
// 说明：赛道是只读的外部协作者，控制器不允许直接访问赛道几何，
// 只有相机投影器（传感器模型）持有合法的查询入口
type ITrack interface {
	Classify(x, y float64) SurfaceClass // 查询世界坐标点的路面分类
	StartPose() (x, y, heading float64) // 起始位姿（中心线上的固定点与切向朝向）
	Centerline() []geometry.Point       // 中心线折线（调试与输出用）
	Length() float64                    // 中心线总长度（米）
}

// ITaskContext 仿真任务上下文接口
// 功能：为各实体提供时钟与运行时配置的访问入口
type ITaskContext interface {
	Clock() *clock.Clock                  // 获取时钟
	RuntimeConfig() *config.RuntimeConfig // 获取运行时配置
}
