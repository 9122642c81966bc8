package vehicle

import (
	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/entity"
)

const (
	pitDurationAlpha = 22.5 // 进站时长log-logistic分布的尺度参数（秒）
	pitDurationBeta  = 6    // 进站时长log-logistic分布的形状参数
	minPitDuration   = 18   // 进站时长下限（秒）
	maxPitDuration   = 45   // 进站时长上限
	maxPitDwell      = 90   // 进站停留的安全上限（秒），超时强制出站

	pitWearThreshold   = 70  // 触发进站的磨损硬阈值
	pitDamageThreshold = 50  // 触发进站的损伤硬阈值
	plannedPitMinWear  = 30  // 计划进站圈生效所需的最低磨损
	pitDamageRepair    = 0.5 // 进站修复的损伤比例
)

// PitStop 执行一次进站
// 功能：抽取进站时长并重置轮胎状态，可选更换配方，部分修复损伤
// 参数：newCompound-新轮胎配方，传入当前配方表示不更换
// 说明：进站期间车辆静止，位置不变；时长从log-logistic分布
// 抽取并钳制到现实区间
func (v *Vehicle) PitStop(newCompound entity.TireCompound) {
	r := &v.runtime
	duration := lo.Clamp(
		v.generator.LogLogistic(pitDurationAlpha, pitDurationBeta),
		minPitDuration, maxPitDuration,
	)
	r.InPit = true
	r.PitRemaining = duration
	r.PitElapsed = 0
	r.PitCount++
	r.V = 0
	r.TargetV = 0
	r.TireWear = 0
	r.TireTemp = ambientTireTemp
	r.Compound = newCompound
	r.Damage *= 1 - pitDamageRepair
	r.DRS = false
	r.Slipstream = false
	log.Debugf("vehicle %d (%s) pit stop %.1fs, compound %s", v.id, v.name, duration, newCompound)
}

// stepPit 维修区内推进一步
// 说明：递减剩余进站时间，超过安全上限强制出站
func (v *Vehicle) stepPit(dt float64) {
	r := &v.runtime
	r.PitRemaining -= dt
	r.PitElapsed += dt
	if r.PitRemaining <= 0 || r.PitElapsed > maxPitDwell {
		r.InPit = false
		r.PitRemaining = 0
	}
}

// ShouldPitStop 判断是否应当进站
// 功能：磨损或损伤超过硬阈值、配方与积水严重不匹配、
// 或到达计划进站圈且磨损适中时返回真
// 参数：waterLevel-赛道积水程度
func (v *Vehicle) ShouldPitStop(waterLevel float64) bool {
	r := v.runtime
	if r.InPit {
		return false
	}
	if r.TireWear > pitWearThreshold || r.Damage > pitDamageThreshold {
		return true
	}
	if compoundMismatched(r.Compound, waterLevel) {
		return true
	}
	if r.PitCount == 0 && r.Lap >= v.plannedPitLap && r.TireWear > plannedPitMinWear {
		return true
	}
	return false
}

// compoundMismatched 配方与积水是否超出容忍区间
func compoundMismatched(compound entity.TireCompound, waterLevel float64) bool {
	if compound.IsSlick() {
		return waterLevel > 40
	}
	if compound == entity.CompoundWet {
		return waterLevel < 10
	}
	// 半雨胎：干地或深水均不匹配
	return waterLevel < 5 || waterLevel > 80
}

// PickCompound 根据积水程度选择合适的配方
func PickCompound(waterLevel float64) entity.TireCompound {
	switch {
	case waterLevel > 60:
		return entity.CompoundWet
	case waterLevel > 20:
		return entity.CompoundIntermediate
	}
	return entity.CompoundMedium
}
