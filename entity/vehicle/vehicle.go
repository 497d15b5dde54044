package vehicle

import (
	"math"

	"github.com/samber/lo"

	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/config"
)

// State 车辆状态
// 功能：记录车辆跨步持久的全部状态量
// 说明：核心管线中唯一跨步持久的实体，按值传入传出，
// 只在步边界由Advance产生新状态，步内各组件只读
type State struct {
	X, Y     float64 // 位置（世界坐标，米）
	Heading  float64 // 朝向角（弧度，世界坐标系，归一化到(-π, π]）
	V        float64 // 当前速度（米/秒，[0, MaxSpeed]）
	Steering float64 // 当前前轮转角（弧度，|Steering| ≤ MaxSteeringAngle）
}

// Attr 车辆属性
// 功能：自行车模型积分所需的车辆参数
type Attr struct {
	Wheelbase   float64 // 轴距（米）
	MaxSpeed    float64 // 最大速度（米/秒）
	MaxA        float64 // 最大加速度（米/秒²）
	MaxSteering float64 // 最大前轮转角（弧度）
}

// NewAttr 根据配置创建车辆属性
// 参数：cfg-车辆配置
// 返回：车辆属性
func NewAttr(cfg config.Vehicle) Attr {
	return Attr{
		Wheelbase:   cfg.Wheelbase,
		MaxSpeed:    cfg.MaxSpeed,
		MaxA:        cfg.MaxAcceleration,
		MaxSteering: cfg.MaxSteeringAngle,
	}
}

// Advance 自行车模型积分
// 功能：给定转角与速度指令，将车辆状态向前积分一个时间步
// 参数：s-当前状态，steeringCmd-转角指令（弧度），speedCmd-速度指令（米/秒），dt-时间步长（秒）
// 返回：积分后的新状态
// 算法说明：
// 1. 指令限幅：转角限制在[-MaxSteering, MaxSteering]，速度限制在[0, MaxSpeed]
// 2. 速度按最大加速度向指令松弛：v' = v + clamp(vCmd-v, -a·dt, a·dt)
// 3. 朝向更新：heading' = heading + v'/wheelbase·tan(steering)·dt
// 4. 位置按旧朝向推进：x' = x + v'·cos(heading)·dt，y类似
// 5. 朝向归一化到(-π, π]避免无界增长
// 说明：无效（NaN/∞）指令在入口被拒绝，保留上一个有效状态并记录降级日志，
// 模拟循环不中断；合法输入下总是产生满足不变量的状态
func (a *Attr) Advance(s State, steeringCmd, speedCmd, dt float64) State {
	if !valid(steeringCmd) || !valid(speedCmd) || !valid(dt) {
		log.Warnf("vehicle: degraded tick, invalid command steering=%v speed=%v dt=%v", steeringCmd, speedCmd, dt)
		return s
	}
	steering := lo.Clamp(steeringCmd, -a.MaxSteering, a.MaxSteering)
	speedCmd = lo.Clamp(speedCmd, 0, a.MaxSpeed)

	v := s.V + lo.Clamp(speedCmd-s.V, -a.MaxA*dt, a.MaxA*dt)

	next := State{
		X:        s.X + v*math.Cos(s.Heading)*dt,
		Y:        s.Y + v*math.Sin(s.Heading)*dt,
		Heading:  normalizeAngle(s.Heading + v/a.Wheelbase*math.Tan(steering)*dt),
		V:        v,
		Steering: steering,
	}
	return next
}

// valid 检查数值是否为有限实数
func valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// normalizeAngle 角度归一化
// 功能：将角度折叠到(-π, π]
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
