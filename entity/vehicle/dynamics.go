package vehicle

import (
	"math"

	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/entity"
)

// 物理常量
const (
	gravity    = 9.81  // 重力加速度（米/秒²）
	airDensity = 1.225 // 空气密度（kg/m³）

	drsDragReduction        = 0.25 // DRS激活时的阻力降低比例
	slipstreamDragReduction = 0.30 // 尾流中的阻力降低比例
	slipstreamRange         = 20   // 尾流生效的跟车距离（米）

	loadSensitivity = 0.1 // 轮胎载荷敏感度：单胎载荷超过静态额定值时的抓地力衰减斜率

	overtakenPenaltyDist = 5 // 被超车后的一次性位移惩罚（米）

	lowBatterySoC      = 20  // 低电量阈值（%）
	criticalBatterySoC = 10  // 极低电量阈值（%）
	lowBatteryPenalty  = 0.9 // 低电量抓地惩罚
	critBatteryPenalty = 0.7 // 极低电量抓地惩罚

	damagePenaltySlope = 0.3 // 满损伤时的抓地惩罚比例

	wearSkillThreshold = 50 // 磨损超过此值后线性降低有效过弯技巧
)

// ComputeTargetSpeed 计算目标速度
// 功能：根据赛道曲率、天气与当前车况计算本步的目标速度，
// 纯函数，不修改任何状态
// 参数：
//
//	curvature-当前位置的带符号曲率（1/米）
//	weather-当前天气
//	ambientTemp-环境温度（摄氏度）
//	waterLevel-赛道积水程度（0~100）
//
// 返回：目标速度（米/秒）
// 算法说明：
//  1. 直道上目标速度为最高速度乘以状态惩罚项后与最高速度取小（硬上限）；
//  2. 弯道中依据力平衡模型v=sqrt(μ·N·r/m)求极限过弯速度，
//     法向力N含速度相关下压力，μ含载荷敏感度衰减；
//  3. 依次乘以配方-积水抓地系数、胎温惩罚、损伤惩罚与低电量惩罚；
//  4. 弯道结果不受最高速度上限约束（物理上可能高于或低于上限）
func (v *Vehicle) ComputeTargetSpeed(curvature float64, weather entity.Weather, ambientTemp, waterLevel float64) float64 {
	r := v.runtime
	penalty := v.gripPenalty(waterLevel)

	if curvature == 0 {
		return math.Min(v.maxSpeed, v.maxSpeed*penalty)
	}

	radius := 1 / math.Abs(curvature)
	p := v.profile
	// 法向力 = 重力 + 速度相关下压力
	n := p.Mass*gravity + 0.5*airDensity*p.DownforceArea*r.V*r.V
	// 载荷敏感度：单胎载荷超过静态额定值后抓地力衰减
	nominal := p.Mass * gravity / 4
	perTire := n / 4
	loadFactor := 1.
	if perTire > nominal {
		loadFactor = math.Max(0.6, 1-loadSensitivity*(perTire/nominal-1))
	}
	mu := p.BaseGrip * loadFactor
	limit := math.Sqrt(mu * n * radius / p.Mass)

	return limit * v.effectiveSkill() * penalty
}

// gripPenalty 车况相关的抓地惩罚乘积（配方-积水、胎温、损伤、电量）
func (v *Vehicle) gripPenalty(waterLevel float64) float64 {
	r := v.runtime
	penalty := compoundWaterGrip(r.Compound, waterLevel)
	penalty *= tireTempGrip(r.TireTemp)
	penalty *= 1 - damagePenaltySlope*r.Damage/100
	switch {
	case r.BatterySoC < criticalBatterySoC:
		penalty *= critBatteryPenalty
	case r.BatterySoC < lowBatterySoC:
		penalty *= lowBatteryPenalty
	}
	return penalty
}

// effectiveSkill 有效过弯技巧，磨损超过阈值后线性衰减
func (v *Vehicle) effectiveSkill() float64 {
	skill := v.corneringSkill
	if w := v.runtime.TireWear; w > wearSkillThreshold {
		skill *= 1 - 0.3*(w-wearSkillThreshold)/(100-wearSkillThreshold)
	}
	return lo.Clamp(skill, 0.3, 1.2)
}

// SetTargetV 写入目标速度
func (v *Vehicle) SetTargetV(target float64) {
	v.runtime.TargetV = math.Max(target, 0)
}

// TargetV 获取目标速度
func (v *Vehicle) TargetV() float64 { return v.runtime.TargetV }

// ActivateDRS 尝试激活DRS
// 说明：仅在零曲率区段且无安全车时允许激活
func (v *Vehicle) ActivateDRS(curvature float64, safetyCarActive bool) {
	if curvature == 0 && !safetyCarActive {
		v.runtime.DRS = true
	}
}

// DeactivateDRS 关闭DRS
func (v *Vehicle) DeactivateDRS() {
	v.runtime.DRS = false
}

// CheckSlipstream 更新尾流标记
// 功能：若任一更快的车辆位于本车前方固定距离以内则进入尾流，
// 距离计算考虑赛道回绕
// 参数：others-其他车辆的只读观测值，trackLength-赛道总长
func (v *Vehicle) CheckSlipstream(others []entity.VehicleObservation, trackLength float64) {
	r := &v.runtime
	r.Slipstream = false
	if trackLength <= 0 {
		return
	}
	for _, o := range others {
		if o.ID == v.id || o.Finished || o.InPit {
			continue
		}
		gap := math.Mod(o.S-r.S+trackLength, trackLength)
		if gap > 0 && gap <= slipstreamRange && o.V > r.V {
			r.Slipstream = true
			return
		}
	}
}

// dragDeceleration 当前阻力减速度（米/秒²）
// 说明：标准平方律阻力，DRS与尾流分别降低25%与30%
func (v *Vehicle) dragDeceleration() float64 {
	r := v.runtime
	drag := 0.5 * airDensity * v.profile.DragArea * r.V * r.V
	if r.DRS {
		drag *= 1 - drsDragReduction
	}
	if r.Slipstream {
		drag *= 1 - slipstreamDragReduction
	}
	return drag / v.profile.Mass
}

// IntegrateStep 积分一个物理步
// 功能：按当前目标速度推进速度与位置，并更新轮胎、电池与损伤状态
// 参数：dt-步长（秒），trackLength-赛道总长（米），
// curvature-当前位置曲率，ambientTemp-环境温度
// 算法说明：
//  1. 维修区内不移动，只递减剩余进站时间（超时保护强制出站）；
//  2. 加速时牵引力乘以差速器牵引系数，减去阻力后逼近目标速度；
//  3. 减速时总减速度=阻力+发动机制动+制动分配计算的实际制动减速度；
//  4. 位移扣除车手稳定性噪声与一次性被超惩罚后下限为0，
//     到达赛道总长时取模回绕并置越线标记；
//  5. 所有饱和量每步钳制
func (v *Vehicle) IntegrateStep(dt, trackLength float64, curvature, ambientTemp float64) {
	r := &v.runtime
	r.JustCrossedLine = false
	if r.Finished || r.DNF {
		return
	}
	if r.InPit {
		v.stepPit(dt)
		return
	}

	accel := 0.
	brakeDecel := 0.
	drag := v.dragDeceleration()
	if r.TargetV > r.V {
		// 加速：牵引力受差速器与载荷转移影响
		traction := v.tractionFactor(curvature)
		a := v.acceleration*traction - drag
		r.V = math.Min(r.V+a*dt, r.TargetV)
		accel = math.Max(a, 0)
	} else if r.TargetV < r.V {
		// 减速：阻力+发动机制动+实际制动
		engine := v.engineBraking * v.braking * (r.V / v.maxSpeed)
		requested := math.Min((r.V-r.TargetV)/dt, v.braking)
		brake := v.computeBrakeDistribution(requested)
		decel := drag + engine + brake
		r.V = math.Max(r.V-decel*dt, r.TargetV)
		brakeDecel = brake
	}
	r.V = math.Max(r.V, 0)

	// 位移：扣除车手稳定性噪声与一次性被超惩罚
	noise := math.Abs(v.generator.NormClamped(v.lapTimeVariance))
	movement := r.V * dt * (1 - noise)
	if r.OvertakenPenalty {
		movement -= overtakenPenaltyDist
		r.OvertakenPenalty = false
	}
	movement = math.Max(movement, 0)
	r.S += movement
	if trackLength > 0 && r.S >= trackLength {
		r.S = math.Mod(r.S, trackLength)
		r.JustCrossedLine = true
	}

	lateralG := math.Abs(curvature) * r.V * r.V / gravity
	v.stepTires(dt, lateralG, brakeDecel, ambientTemp)
	v.stepBattery(dt, accel, brakeDecel, lateralG, ambientTemp)
	v.stepDamage(curvature)
}

// stepDamage 过弯贴近极限时的小概率损伤累积
func (v *Vehicle) stepDamage(curvature float64) {
	r := &v.runtime
	if curvature != 0 && r.TargetV > 0 && r.V > 0.95*r.TargetV && v.generator.PTrue(0.001) {
		r.Damage = lo.Clamp(r.Damage+v.generator.Uniform(1, 5), 0, 100)
	}
}
