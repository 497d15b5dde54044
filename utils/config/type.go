package config

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：控制仿真的时间范围与步长
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒）
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
type Control struct {
	Step ControlStep `yaml:"step"`
	Seed uint64      `yaml:"seed,omitempty"` // 随机数种子（相机噪声等）
}

// Vehicle 车辆属性配置
// 功能：定义自行车模型与控制器共用的车辆参数
type Vehicle struct {
	Wheelbase        float64 `yaml:"wheelbase"`          // 轴距（米）
	MaxSpeed         float64 `yaml:"max_speed"`          // 最大速度（米/秒）
	MinSpeed         float64 `yaml:"min_speed"`          // 最小巡航速度（米/秒）
	MaxAcceleration  float64 `yaml:"max_acceleration"`   // 最大加速度（米/秒²），限制速度松弛速率
	MaxSteeringAngle float64 `yaml:"max_steering_angle"` // 最大前轮转角（弧度）
}

// Camera 相机投影器配置
// 功能：定义第一视角相机的帧尺寸与梯形视野范围
type Camera struct {
	FrameWidth    int     `yaml:"frame_width"`         // 帧宽度（像素）
	FrameHeight   int     `yaml:"frame_height"`        // 帧高度（像素）
	NearDistance  float64 `yaml:"near_distance"`       // 视野近端距离（米）
	VisionRange   float64 `yaml:"vision_range"`        // 视野远端距离（米）
	NearHalfWidth float64 `yaml:"near_half_width"`     // 近端横向半宽（米）
	FarHalfWidth  float64 `yaml:"far_half_width"`      // 远端横向半宽（米），模拟透视
	NoiseStd      float64 `yaml:"noise_std,omitempty"` // 传感器噪声标准差（0-255通道值，0表示关闭）
}

// HueRange 色相范围
type HueRange struct {
	Min float64 `yaml:"min"` // 最小色相（度）
	Max float64 `yaml:"max"` // 最大色相（度）
}

// Vision 车道分割器配置
// 功能：定义边界标线的HSV分割阈值与扫描行布局
type Vision struct {
	BoundaryHue   HueRange  `yaml:"boundary_hue"`          // 边界标线色相范围
	MinSaturation float64   `yaml:"min_saturation"`        // 最小饱和度[0,1]
	MinValue      float64   `yaml:"min_value"`             // 最小明度[0,1]
	ScanRows      []float64 `yaml:"scan_rows"`             // 扫描行位置（帧高度比例，近到远）
	RowWeights    []float64 `yaml:"row_weights,omitempty"` // 多行融合权重（近行优先）
	BlendRows     bool      `yaml:"blend_rows,omitempty"`  // 是否按权重融合多行中心
}

// Pursuit 纯跟踪控制器配置
type Pursuit struct {
	LookAheadDistance float64 `yaml:"look_ahead_distance"` // 前视距离（米）
	MissingDecay      float64 `yaml:"missing_decay"`       // 目标丢失时转角衰减系数(0,1]
}

// Speed 速度控制器配置
type Speed struct {
	Falloff float64 `yaml:"falloff"` // 转角满偏时的减速比例(0,1]
}

// Track 赛道生成配置
// 功能：定义体育场形赛道的尺寸与边界标线宽度
type Track struct {
	Width          float64 `yaml:"width"`                     // 赛道外接宽度（米）
	Height         float64 `yaml:"height"`                    // 赛道外接高度（米）
	RoadWidth      float64 `yaml:"road_width"`                // 路面宽度（米）
	BoundaryWidth  float64 `yaml:"boundary_width"`            // 边界标线宽度（米）
	CenterlineFile string  `yaml:"centerline_file,omitempty"` // 自定义中心线文件（YAML折线），为空则生成体育场形
}

// Output 输出配置
type Output struct {
	FrameDumpDir      string `yaml:"frame_dump_dir,omitempty"`      // 相机帧PNG输出目录，为空则禁用
	FrameDumpInterval int32  `yaml:"frame_dump_interval,omitempty"` // 相机帧输出间隔步数
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Control Control `yaml:"control"` // 模拟过程控制
	Vehicle Vehicle `yaml:"vehicle"` // 车辆属性
	Camera  Camera  `yaml:"camera"`  // 相机投影器
	Vision  Vision  `yaml:"vision"`  // 车道分割器
	Pursuit Pursuit `yaml:"pursuit"` // 纯跟踪控制器
	Speed   Speed   `yaml:"speed"`   // 速度控制器
	Track   Track   `yaml:"track"`   // 赛道生成
	Output  Output  `yaml:"output"`  // 输出
}
