package driver

import (
	"math"

	"github.com/samber/lo"

	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/config"
)

// Pursuit 纯跟踪控制器
// 功能：将前视目标点变换到车体系并按纯跟踪曲率律计算前轮转角
// 说明：上一步的转角跨步保留，作为目标丢失时的恢复策略
type Pursuit struct {
	cfg         config.Pursuit
	cam         *Camera
	wheelbase   float64
	maxSteering float64

	lastSteering float64 // 上一步转角指令（弧度）
}

// NewPursuit 创建纯跟踪控制器
// 参数：cfg-纯跟踪配置，cam-相机（图像到车体系的变换），wheelbase-轴距，maxSteering-最大转角
func NewPursuit(cfg config.Pursuit, cam *Camera, wheelbase, maxSteering float64) *Pursuit {
	return &Pursuit{cfg: cfg, cam: cam, wheelbase: wheelbase, maxSteering: maxSteering}
}

// Steer 转角计算
// 功能：根据目标点计算前轮转角指令
// 参数：target-前视目标点，ok-目标是否有效
// 返回：前轮转角指令（弧度，已限幅）
// 算法说明：
// 1. 目标丢失时按衰减系数衰减上一步转角（有界衰减到零的恢复策略），指令不发散
// 2. 通过相机几何将目标点变换到车体系取得横向偏移
// 3. 纯跟踪曲率律：κ = 2·lateral/L²，steering = atan(κ·wheelbase)
// 4. 限幅到[-maxSteering, maxSteering]
// 说明：横向偏移为正（朝向角+π/2一侧）时转角为正，与自行车模型朝向更新同向
func (p *Pursuit) Steer(target LaneTarget, ok bool) float64 {
	if !ok {
		p.lastSteering *= p.cfg.MissingDecay
		return p.lastSteering
	}
	_, lateral := p.cam.PixelToVehicle(target.Col, target.Row)
	l := p.cfg.LookAheadDistance
	kappa := 2 * lateral / (l * l)
	steering := lo.Clamp(math.Atan(kappa*p.wheelbase), -p.maxSteering, p.maxSteering)
	p.lastSteering = steering
	return steering
}
