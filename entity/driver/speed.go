package driver

import (
	"math"

	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/config"
)

// SpeedController 速度控制器
// 功能：根据转角指令计算目标速度，弯道减速
// 说明：当前转角指令的确定性无状态函数
type SpeedController struct {
	maxV        float64 // 最大速度（米/秒）
	minV        float64 // 最小巡航速度（米/秒）
	falloff     float64 // 转角满偏时的减速比例
	maxSteering float64 // 最大转角（弧度）
}

// NewSpeedController 创建速度控制器
func NewSpeedController(cfg config.Speed, vehicleCfg config.Vehicle) *SpeedController {
	return &SpeedController{
		maxV:        vehicleCfg.MaxSpeed,
		minV:        vehicleCfg.MinSpeed,
		falloff:     cfg.Falloff,
		maxSteering: vehicleCfg.MaxSteeringAngle,
	}
}

// Target 目标速度计算
// 功能：转角绝对值越大目标速度越低，下限为最小巡航速度
// 参数：steering-转角指令（弧度）
// 返回：目标速度（米/秒）
// 算法说明：target = maxV·(1 - falloff·|steering|/maxSteering)，下限floor到minV，
// 对|steering|单调不增，直道时恰好输出maxV
func (s *SpeedController) Target(steering float64) float64 {
	k := math.Abs(steering) / s.maxSteering
	return math.Max(s.maxV*(1-s.falloff*k), s.minV)
}
