package vehicle

import (
	"math"

	"github.com/samber/lo"
)

const (
	batteryCapacity = 4e8   // 电池容量（焦耳）
	maxRegenPower   = 1.2e5 // 最大能量回收功率（瓦）
	regenEfficiency = 0.5   // 制动能量回收效率
	gentleCornerG   = 1.5   // 可回收能量的缓过弯横向过载上限（g）

	minBatteryTemp = 20  // 电池温度下限（摄氏度）
	maxBatteryTemp = 100 // 电池温度上限
)

// stepBattery 积分一步电池电量与温度
// 功能：按功率需求与回收的差额更新电量百分比，
// 电池温度随功率流幅值上升并向环境温度冷却
// 参数：dt-步长，accel-加速度，brakeDecel-制动减速度，
// lateralG-横向过载（g），ambientTemp-环境温度
// 算法说明：
//  1. 需求功率=阻力功率+加速功率+过弯功率；
//  2. 制动与缓过弯期间回收能量，回收功率封顶；
//  3. 功率差额按固定容量换算为电量百分比增量
func (v *Vehicle) stepBattery(dt, accel, brakeDecel, lateralG, ambientTemp float64) {
	r := &v.runtime
	p := v.profile

	dragPower := 0.5 * airDensity * p.DragArea * r.V * r.V * r.V
	accelPower := p.Mass * accel * r.V
	cornerPower := p.Mass * lateralG * gravity * r.V * 0.1
	demand := dragPower + accelPower + cornerPower

	recovery := 0.
	if brakeDecel > 0 {
		recovery = math.Min(p.Mass*brakeDecel*r.V*regenEfficiency, maxRegenPower)
	} else if lateralG > 0 && lateralG < gentleCornerG {
		recovery = math.Min(0.1*maxRegenPower, maxRegenPower)
	}

	net := demand - recovery
	r.BatterySoC = lo.Clamp(r.BatterySoC-net/batteryCapacity*100*dt, 0, 100)

	flow := math.Abs(demand) + math.Abs(recovery)
	heat := flow / 5e5
	cooling := 0.05 * (r.BatteryTemp - ambientTemp)
	r.BatteryTemp = lo.Clamp(r.BatteryTemp+(heat-cooling)*dt, minBatteryTemp, maxBatteryTemp)
}
