package clock

import "fmt"

// Clock 仿真时钟管理器
// 功能：管理比赛仿真的时间推进，维护当前仿真时间与步数
// 说明：速度倍率只影响外部驱动层每个外部tick内调用Step的次数，
// 不影响物理积分的时间步长DT
type Clock struct {
	DT float64 // 每个模拟步时间间隔（秒）

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前内部步数

	multiplier int32 // 速度倍率（每个外部tick运行的内部步数）
}

// New 创建新的时钟实例
// 参数：dt-模拟步长（秒）
func New(dt float64) *Clock {
	c := &Clock{DT: dt, multiplier: 1}
	c.Init()
	return c
}

// Init 重置时钟状态
func (c *Clock) Init() {
	c.InternalStep = 0
	c.T = 0
}

// Tick 时钟前进一步
func (c *Clock) Tick() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// Multiplier 获取速度倍率
func (c *Clock) Multiplier() int32 {
	return c.multiplier
}

// SetMultiplier 设置速度倍率（最小为1）
// 说明：比赛运行期间可随时修改（外部实时控制项）
func (c *Clock) SetMultiplier(m int32) {
	if m < 1 {
		m = 1
	}
	c.multiplier = m
}

// String 获取时钟的字符串表示（HH:MM:SS）
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// GetMinuteSecond 获取当前时间的分钟、秒
// 返回：分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetMinuteSecond() (int, float64) {
	minute := int(c.T) / 60
	second := c.T - float64(minute*60)
	return minute, second
}
