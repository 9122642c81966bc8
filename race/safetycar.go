package race

import (
	"math"

	"github.com/shifters-sim/shifters-go/utils/config"
	"github.com/shifters-sim/shifters-go/utils/randengine"
)

const (
	defaultDeployProbability = 0.3 // DNF触发安全车出动的默认概率
	defaultDurationLaps      = 6   // 安全车默认持续圈数
	defaultSpeedCeiling      = 55  // 安全车期间的默认速度上限（米/秒）

	scTargetGap  = 1.0 // 安全车期间的目标跟车时距（秒）
	scCatchUpGap = 2.0 // 超过此时距时加速追赶
)

// SafetyCar 安全车状态机
// 功能：维护Inactive→Active→Inactive的安全车状态，
// 出动由DNF事件按概率触发，持续固定圈数后收回
type SafetyCar struct {
	active        bool
	lapsRemaining int32
	s             float64 // 安全车沿赛道位置（米）

	deployProbability float64
	durationLaps      int32
	speedCeiling      float64
}

// NewSafetyCar 创建安全车，零值配置项使用默认参数
func NewSafetyCar(c config.SafetyCar) *SafetyCar {
	sc := &SafetyCar{
		deployProbability: defaultDeployProbability,
		durationLaps:      defaultDurationLaps,
		speedCeiling:      defaultSpeedCeiling,
	}
	if c.DeployProbability > 0 {
		sc.deployProbability = c.DeployProbability
	}
	if c.DurationLaps > 0 {
		sc.durationLaps = c.DurationLaps
	}
	if c.SpeedCeiling > 0 {
		sc.speedCeiling = c.SpeedCeiling
	}
	return sc
}

// Active 安全车是否出动中
func (sc *SafetyCar) Active() bool { return sc.active }

// LapsRemaining 获取剩余出动圈数
func (sc *SafetyCar) LapsRemaining() int32 { return sc.lapsRemaining }

// S 获取安全车沿赛道位置
func (sc *SafetyCar) S() float64 { return sc.s }

// SpeedCeiling 获取安全车期间的速度上限
func (sc *SafetyCar) SpeedCeiling() float64 { return sc.speedCeiling }

// CheckDeployment DNF事件后的出动判定
// 返回：本次是否出动
func (sc *SafetyCar) CheckDeployment(generator *randengine.Engine) bool {
	if sc.active {
		return false
	}
	if !generator.PTrue(sc.deployProbability) {
		return false
	}
	sc.active = true
	sc.lapsRemaining = sc.durationLaps
	log.Infof("safety car deployed for %d laps", sc.durationLaps)
	return true
}

// Advance 推进安全车位置
func (sc *SafetyCar) Advance(dt, trackLength float64) {
	if !sc.active || trackLength <= 0 {
		return
	}
	sc.s = math.Mod(sc.s+sc.speedCeiling*dt, trackLength)
}

// OnLeaderLap 头车完成一圈时递减剩余圈数，归零后收回
func (sc *SafetyCar) OnLeaderLap() {
	if !sc.active {
		return
	}
	sc.lapsRemaining--
	if sc.lapsRemaining <= 0 {
		sc.active = false
		log.Infof("safety car returns to the pit")
	}
}

// CapTargetSpeed 安全车期间的目标速度修正
// 功能：封顶到安全车速度上限，并按与前车的时距收拢车群
// 参数：target-原目标速度，gapAhead-与前车的时距（秒，头车为0）
// 算法说明：时距过大时小幅提速追赶（仍受上限约束），
// 过近时减速保持间隔
func (sc *SafetyCar) CapTargetSpeed(target, gapAhead float64) float64 {
	capped := math.Min(target, sc.speedCeiling)
	if gapAhead > scCatchUpGap {
		return capped
	}
	if gapAhead > 0 && gapAhead < scTargetGap {
		return capped * 0.9
	}
	return math.Min(capped, sc.speedCeiling*0.95)
}
