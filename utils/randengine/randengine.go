// 随机数引擎，包装了golang.org/x/exp/rand，提供仿真所需的随机数生成方法
package randengine

import (
	"flag"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数序列
)

// Engine 随机数引擎
// 功能：提供确定性的随机数生成功能
// 说明：基于golang.org/x/exp/rand库，相同种子下序列可复现
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// Gaussian 生成正态分布随机数
// 功能：按N(0, std²)生成随机扰动
// 参数：std-标准差
// 返回：随机扰动值
// 说明：引擎由持有者独占，不做并发保护
func (e *Engine) Gaussian(std float64) float64 {
	return e.NormFloat64() * std
}
