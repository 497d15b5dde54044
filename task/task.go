package task

import (
	"sync/atomic"

	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/clock"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity/driver"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity/track"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/utils/config"
)

const (
	SelfName = "visiondrive" // 本程序在日志中的名字
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态
// 说明：管理时钟、赛道、驾驶员与车辆状态；车辆状态由上下文显式持有并
// 按值传入传出每步的管线，不存在隐式全局状态，便于并行运行多个独立仿真
type Context struct {
	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 赛道（只读外部协作者）
	track *track.Track
	// 视觉驾驶员
	driver *driver.Driver

	// 车辆状态（唯一跨步持久的可变状态）
	state vehicle.State
	// 本步控制指令
	command driver.Command

	// 圈数统计
	startX, startY float64
	lapArmed       bool
	lapCount       int
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件和配置
// 参数：job-任务名称，c-配置对象
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 配置校验（违例直接panic，不进入任何模拟步）
// 2. 创建时钟、赛道与驾驶员
// 3. 车辆置于赛道起始位姿，初速取最小巡航速度
func NewContext(job string, c config.Config) *Context {
	rc := config.NewRuntimeConfig(c)
	ctx := &Context{
		job:           job,
		runtimeConfig: rc,
	}
	ctx.clock = clock.New(rc.C.Step)

	trk, err := track.New(ctx)
	if err != nil {
		log.Panicf("task: track init err: %v", err)
	}
	ctx.track = trk
	ctx.driver = driver.New(ctx)

	x, y, heading := trk.StartPose()
	ctx.state = vehicle.State{X: x, Y: y, Heading: heading, V: rc.All.Vehicle.MinSpeed}
	ctx.startX, ctx.startY = x, y
	ctx.initOutput()
	return ctx
}

// Clock 获取时钟
func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

// RuntimeConfig 获取运行时配置
func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// State 获取当前车辆状态
func (ctx *Context) State() vehicle.State {
	return ctx.state
}

// Command 获取本步控制指令
func (ctx *Context) Command() driver.Command {
	return ctx.command
}

// LapCount 获取已完成圈数
func (ctx *Context) LapCount() int {
	return ctx.lapCount
}

// Close 发出关闭指令
// 功能：请求在当前步结束后停止仿真循环
// 说明：步内不可中断，只能在步之间停止
func (ctx *Context) Close() {
	ctx.closed.Store(true)
}

// Run 运行仿真循环
// 功能：固定步长驱动仿真直到结束步或收到关闭指令
// 算法说明：每步完整执行prepare与update后推进时钟，步之间串行无重叠
func (ctx *Context) Run() {
	log.Infof("task %s: %d steps, dt=%.3fs, track length %.1f",
		ctx.job, ctx.clock.END_STEP-ctx.clock.START_STEP, ctx.clock.DT, ctx.track.Length())
	for !ctx.closed.Load() && !ctx.clock.Done() {
		ctx.prepare()
		ctx.update()
		ctx.clock.InternalStep++
		ctx.clock.T = float64(ctx.clock.InternalStep) * ctx.clock.DT
	}
	log.Infof("task %s: finished at %v, laps=%d, pos=(%.1f,%.1f)",
		ctx.job, ctx.clock, ctx.lapCount, ctx.state.X, ctx.state.Y)
}
