package vehicle

import (
	"math"
)

const (
	lockupPenalty  = 0.4 // 任一轴抱死时的制动效率惩罚
	wheelDiffSmall = 0.5 // 轮速差阈值（米/秒），低于此值视为小轮速差
)

// computeBrakeDistribution 制动力分配计算
// 功能：按制动平衡将请求减速度分配到前后轴，以抓地力上限裁剪
// 并检测抱死，返回实际可达的制动减速度
// 参数：requested-请求的制动减速度（米/秒²）
// 返回：实际制动减速度（米/秒²）
// 算法说明：
//  1. 法向力含重力与速度相关下压力，纵向载荷转移m·a·h/L
//     把载荷从后轴移到前轴；
//  2. 各轴可用制动减速度=μ·N轴/m，请求超过可用即置抱死标记；
//  3. 任一轴抱死时实际制动整体乘以40%惩罚；
//  4. 制动效率=实际/请求，写入运行时供遥测与测试使用
func (v *Vehicle) computeBrakeDistribution(requested float64) float64 {
	r := &v.runtime
	r.FrontLocked = false
	r.RearLocked = false
	if requested <= 0 {
		r.BrakeEfficiency = 1
		return 0
	}
	p := v.profile
	// 法向力（含下压力）与纵向载荷转移
	n := p.Mass*gravity + 0.5*airDensity*p.DownforceArea*r.V*r.V
	transfer := p.Mass * requested * p.CGHeight / p.Wheelbase
	frontN := n/2 + transfer
	rearN := n/2 - transfer
	if rearN < 0 {
		rearN = 0
	}
	mu := p.BaseGrip * v.gripPenaltyCached()
	maxFront := mu * frontN / p.Mass
	maxRear := mu * rearN / p.Mass

	frontReq := requested * v.brakeBalance
	rearReq := requested * (1 - v.brakeBalance)
	actualFront := frontReq
	actualRear := rearReq
	if frontReq > maxFront {
		r.FrontLocked = true
		actualFront = maxFront
	}
	if rearReq > maxRear {
		r.RearLocked = true
		actualRear = maxRear
	}
	actual := actualFront + actualRear
	if r.FrontLocked || r.RearLocked {
		actual *= 1 - lockupPenalty
	}
	r.BrakeEfficiency = actual / requested
	return actual
}

// gripPenaltyCached 制动用抓地惩罚
// 说明：制动计算发生在目标速度计算之后，积水程度由编排器
// 在本步开始时写入轮胎状态，这里只取胎温与损伤项
func (v *Vehicle) gripPenaltyCached() float64 {
	r := v.runtime
	return tireTempGrip(r.TireTemp) * (1 - damagePenaltySlope*r.Damage/100)
}

// tractionFactor 差速器牵引系数
// 功能：按预载与当前轮速差计算加速牵引系数
// 参数：curvature-当前位置曲率，用于估计内外轮轮速差
// 算法说明：内外轮轮速差以|κ|·v·轮距近似；小轮速差（接近直线）
// 时预载在50附近牵引最优并随偏离衰减，大轮速差（弯中）时
// 预载越高锁止越强、牵引越大
func (v *Vehicle) tractionFactor(curvature float64) float64 {
	wheelDiff := math.Abs(curvature) * v.runtime.V * v.profile.TrackWidth
	if wheelDiff < wheelDiffSmall {
		return 1 + (100-math.Abs(v.differentialPreload-50))/1000
	}
	return 1 + v.differentialPreload/1000
}
