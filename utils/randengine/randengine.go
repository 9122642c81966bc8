// 随机数引擎，包装了golang.org/x/exp/rand，提供模拟所需的各类随机抽样方法
package randengine

import (
	"flag"
	"log"
	"math"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：提供可复现的随机数生成功能，支持均匀、正态、离散与对数logistic分布
// 说明：基于golang.org/x/exp/rand库，所有随机行为（驾驶噪声、DNF判定、
// 进站耗时、天气转换、遗传算子）都必须通过Engine，保证同种子同结果
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改代码的情况下整体调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// PTrue 以指定概率返回true
// 参数：p-返回true的概率（0.0到1.0之间）
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// Uniform 在[low, high)范围内生成均匀分布随机数
func (e *Engine) Uniform(low, high float64) float64 {
	return low + (high-low)*e.Float64()
}

// NormClamped 生成截断正态扰动
// 功能：产生均值0、标准差为scale一半的正态随机数，并截断在[-scale, scale]内
// 说明：用于车辆属性扰动与驾驶一致性噪声
func (e *Engine) NormClamped(scale float64) float64 {
	return scale * lo.Clamp(.5*e.NormFloat64(), -1, 1)
}

// LogLogistic 按对数logistic分布生成随机数（逆变换采样）
// 功能：F(x)=1/(1+(x/alpha)^-beta)，逆函数x=alpha*(u/(1-u))^(1/beta)
// 参数：alpha-尺度参数（分布中位数），beta-形状参数
// 返回：非负随机数
// 说明：用于进站耗时抽样，长尾特性符合真实进站时间分布
func (e *Engine) LogLogistic(alpha, beta float64) float64 {
	u := e.Float64()
	for u == 0 {
		u = e.Float64()
	}
	return alpha * math.Pow(u/(1-u), 1/beta)
}

// DiscreteDistribution 按给定概率分布生成随机数
// 功能：根据权重数组生成离散分布的随机索引
// 参数：weight-权重数组，每个元素表示对应索引的概率权重
// 返回：随机生成的索引值（0到len(weight)-1）
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}
