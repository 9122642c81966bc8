package vehicle

import (
	"math"

	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/entity"
)

const (
	ambientTireTemp = 25  // 出库胎温（摄氏度）
	minTireTemp     = 25  // 胎温下限
	maxTireTemp     = 125 // 胎温上限
	asymptoteTemp   = 110 // 渐近加热的目标温度

	coldTireTemp     = 60   // 冷胎阈值（摄氏度）
	hotTireTemp      = 110  // 过热阈值（摄氏度）
	coldTirePenalty  = 0.85 // 冷胎抓地惩罚
	hotTirePenalty   = 0.8  // 过热抓地惩罚
	wearTempAmplify  = 100  // 磨损随超温放大的归一化温差
	slipstreamWearUp = 1.1  // 尾流中的磨损放大系数
)

// compoundSpec 轮胎配方特性
type compoundSpec struct {
	wearRate   float64 // 磨损速率系数（相对中性胎=1）
	heatRate   float64 // 产热速率系数
	baseWear   float64 // 基础滚动磨损（%/秒）
	cornerWear float64 // 过弯磨损系数（%/秒/g）
	brakeWear  float64 // 制动磨损系数（%/秒/(米/秒²)）
}

// 各配方特性表
var compoundSpecs = map[entity.TireCompound]compoundSpec{
	entity.CompoundSoft:         {wearRate: 1.67, heatRate: 1.3, baseWear: 0.01, cornerWear: 0.05, brakeWear: 0.03},
	entity.CompoundMedium:       {wearRate: 1.0, heatRate: 1.0, baseWear: 0.01, cornerWear: 0.05, brakeWear: 0.03},
	entity.CompoundHard:         {wearRate: 0.53, heatRate: 0.8, baseWear: 0.01, cornerWear: 0.05, brakeWear: 0.03},
	entity.CompoundIntermediate: {wearRate: 0.8, heatRate: 0.9, baseWear: 0.01, cornerWear: 0.05, brakeWear: 0.03},
	entity.CompoundWet:          {wearRate: 0.67, heatRate: 0.85, baseWear: 0.01, cornerWear: 0.05, brakeWear: 0.03},
}

// compoundWaterGrip 配方-积水抓地系数
// 功能：按积水程度的离散区间查表返回抓地系数
// 说明：光头胎偏好干地，雨胎偏好深积水，半雨胎偏好中间区间，
// 刻意使用离散区间而非连续函数
func compoundWaterGrip(compound entity.TireCompound, waterLevel float64) float64 {
	switch compound {
	case entity.CompoundIntermediate:
		switch {
		case waterLevel >= 20 && waterLevel <= 60:
			return 0.95
		case waterLevel < 20:
			return 0.85
		default:
			return 0.65
		}
	case entity.CompoundWet:
		switch {
		case waterLevel > 60:
			return 0.92
		case waterLevel >= 30:
			return 0.85
		default:
			return 0.7
		}
	default: // 光头胎
		switch {
		case waterLevel < 10:
			return 1.0
		case waterLevel < 40:
			return 0.7
		default:
			return 0.45
		}
	}
}

// tireTempGrip 胎温抓地系数（冷胎与过热均离散惩罚）
func tireTempGrip(temp float64) float64 {
	switch {
	case temp < coldTireTemp:
		return coldTirePenalty
	case temp > hotTireTemp:
		return hotTirePenalty
	}
	return 1
}

// stepTires 积分一步轮胎磨损与温度
// 功能：按过弯强度、制动强度与基础滚动累积磨损，
// 按渐近模型加热并以速度相关对流冷却
// 参数：dt-步长，lateralG-横向过载（g），brakeDecel-制动减速度，
// ambientTemp-环境温度
// 算法说明：
//  1. 磨损=（基础+过弯+制动）×配方磨损系数，尾流中+10%，
//     超温按温差线性放大；
//  2. 加热速率随胎温接近渐近温度收缩，过弯与制动附加产热
//     乘以配方产热系数，冷却与速度和温差成正比
func (v *Vehicle) stepTires(dt, lateralG, brakeDecel, ambientTemp float64) {
	r := &v.runtime
	spec := compoundSpecs[r.Compound]

	wear := spec.baseWear + spec.cornerWear*lateralG + spec.brakeWear*brakeDecel
	wear *= spec.wearRate
	if r.Slipstream {
		wear *= slipstreamWearUp
	}
	if r.TireTemp > hotTireTemp {
		wear *= 1 + (r.TireTemp-hotTireTemp)/wearTempAmplify
	}
	r.TireWear = lo.Clamp(r.TireWear+wear*dt, 0, 100)

	// 渐近加热：胎温越接近渐近温度产热越少
	headroom := math.Max(asymptoteTemp-r.TireTemp, 0) / asymptoteTemp
	heat := (2*headroom + 0.8*lateralG + 0.5*brakeDecel/10) * spec.heatRate
	cooling := 0.02 * (1 + r.V/50) * (r.TireTemp - ambientTemp)
	r.TireTemp = lo.Clamp(r.TireTemp+(heat-cooling)*dt, minTireTemp, maxTireTemp)
}

// CoolTires 编排器在每步后施加的天气冷却
// 参数：dt-步长，rate-冷却速率（摄氏度/秒），雨天由编排器加倍
func (v *Vehicle) CoolTires(dt, rate float64) {
	r := &v.runtime
	r.TireTemp = lo.Clamp(r.TireTemp-rate*dt, minTireTemp, maxTireTemp)
}
