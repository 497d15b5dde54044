package task

import (
	"flag"
	"math"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数（≤0时关闭心跳日志）")
)

// 圈数统计的距离滞回阈值（相对路宽的倍数）
// 先远离起点到解锁距离，再回到完成距离内计一圈，避免起步时误计
const (
	lapArmFactor  = 4.0
	lapDoneFactor = 0.6
)

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时输出心跳日志，间隔非正时不输出
func (ctx *Context) prepare() {
	hb := int32(*heartBeatInterval)
	if hb <= 0 {
		return
	}
	if ctx.clock.InternalStep%hb == 0 {
		log.Infof(
			"STEP %d (%v): pos=(%.1f,%.1f) v=%.2f steering=%.3f laps=%d",
			ctx.clock.InternalStep, ctx.clock,
			ctx.state.X, ctx.state.Y, ctx.state.V, ctx.state.Steering, ctx.lapCount,
		)
	}
}

// update 更新阶段，每步执行一次
// 功能：执行一次完整的视觉闭环管线并更新圈数统计与调试输出
// 算法说明：
// 1. 驾驶员执行投影→分割→估计→纯跟踪→速度→积分，产出新状态与指令
// 2. 按到起点距离的滞回逻辑更新圈数
// 3. 按配置间隔输出相机帧
func (ctx *Context) update() {
	ctx.state, ctx.command = ctx.driver.Tick(ctx.state, ctx.track, ctx.clock.DT)
	ctx.updateLap()
	ctx.dumpFrame()
}

// updateLap 圈数统计
// 功能：离开起点足够远后解锁计圈，回到起点附近计一圈
func (ctx *Context) updateLap() {
	roadW := ctx.runtimeConfig.All.Track.RoadWidth
	d := math.Hypot(ctx.state.X-ctx.startX, ctx.state.Y-ctx.startY)
	if d > roadW*lapArmFactor {
		ctx.lapArmed = true
	}
	if ctx.lapArmed && d < roadW*lapDoneFactor {
		ctx.lapCount++
		ctx.lapArmed = false
		log.Infof("task %s: lap %d completed at %v", ctx.job, ctx.lapCount, ctx.clock)
	}
}
