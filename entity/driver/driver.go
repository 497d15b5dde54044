package driver

import (
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity"
	"github.com/tsinghua-fib-lab/visiondrive-sim-oss/entity/vehicle"
)

// Command 单步控制指令
// 功能：视觉管线每步的输出，下一步由自行车模型消费
type Command struct {
	Steering float64 // 前轮转角指令（弧度）
	Speed    float64 // 目标速度指令（米/秒）
}

// Driver 视觉驾驶员
// 功能：组织每步的视觉闭环管线：投影→分割→估计→纯跟踪→速度→积分
// 说明：驾驶员只能看到相机帧，targeting决策不允许访问世界坐标系下的赛道几何；
// 相机帧、边界扫描、目标点均为步内一次性产物，跨步持久的只有车辆状态与
// 控制器自身的恢复状态（上次转角、上次车道宽度）
type Driver struct {
	ctx  entity.ITaskContext
	attr vehicle.Attr

	cam *Camera
	seg *Segmenter
	est *Estimator
	pp  *Pursuit
	sc  *SpeedController

	frame *Frame       // 本步相机帧（调试只读访问）
	scan  BoundaryScan // 本步边界扫描（调试只读访问）
}

// New 创建视觉驾驶员
// 功能：根据运行时配置组装管线各组件
// 参数：ctx-任务上下文
// 返回：初始化完成的驾驶员实例
func New(ctx entity.ITaskContext) *Driver {
	c := ctx.RuntimeConfig().All
	cam := NewCamera(c.Camera, c.Control.Seed)
	return &Driver{
		ctx:  ctx,
		attr: vehicle.NewAttr(c.Vehicle),
		cam:  cam,
		seg:  NewSegmenter(c.Vision),
		est:  NewEstimator(c.Vision, cam, c.Pursuit.LookAheadDistance, c.Track.RoadWidth),
		pp:   NewPursuit(c.Pursuit, cam, c.Vehicle.Wheelbase, c.Vehicle.MaxSteeringAngle),
		sc:   NewSpeedController(c.Speed, c.Vehicle),
	}
}

// Tick 单步闭环
// 功能：执行一次完整的视觉到控制管线并积分车辆状态
// 参数：s-当前车辆状态，trk-赛道，dt-时间步长（秒）
// 返回：积分后的新状态与本步控制指令
// 算法说明：
// 1. 相机投影生成前向帧
// 2. 车道分割提取边界扫描
// 3. 车道中心估计产生前视目标点（可能丢失）
// 4. 纯跟踪控制器计算转角（丢失时执行衰减恢复策略）
// 5. 速度控制器按转角计算目标速度
// 6. 自行车模型积分得到新状态
// 说明：单线程同步执行，每步管线完整跑完后才开始下一步
func (d *Driver) Tick(s vehicle.State, trk entity.ITrack, dt float64) (vehicle.State, Command) {
	d.frame = d.cam.Project(s, trk)
	d.scan = d.seg.Segment(d.frame)
	target, ok := d.est.Estimate(d.scan)
	if !ok {
		log.Debugf("driver: lane target missing at t=%.2f", d.ctx.Clock().T)
	}
	steering := d.pp.Steer(target, ok)
	speed := d.sc.Target(steering)
	cmd := Command{Steering: steering, Speed: speed}
	return d.attr.Advance(s, cmd.Steering, cmd.Speed, dt), cmd
}

// Frame 获取本步相机帧
// 说明：调试可视化用，只读
func (d *Driver) Frame() *Frame {
	return d.frame
}

// Scan 获取本步边界扫描
// 说明：调试可视化用，只读
func (d *Driver) Scan() BoundaryScan {
	return d.scan
}
