package vehicle

import (
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/entity"
)

// LapRecord 单圈遥测记录
type LapRecord struct {
	Lap         int32               // 圈号（1开始）
	Time        float64             // 圈速（秒）
	TireWear    float64             // 完圈时的轮胎磨损
	TireTemp    float64             // 完圈时的胎温
	Compound    entity.TireCompound // 使用的配方
	BatterySoC  float64             // 完圈时的电量
	Damage      float64             // 完圈时的损伤
	Position    int32               // 完圈时的名次
	GapToLeader float64             // 完圈时与头车的时间差
	Pitted      bool                // 本圈是否进过站
	Weather     entity.Weather      // 完圈时的天气
}

// CompleteLap 记录一圈完成
// 功能：递增圈数，归档本圈遥测快照，重置单圈累计量
// 参数：lapTime-经标定系数缩放后的圈速，weather-当前天气
// 返回：更新后的圈数
func (v *Vehicle) CompleteLap(lapTime float64, weather entity.Weather) int32 {
	r := &v.runtime
	r.Lap++
	v.lapRecords = append(v.lapRecords, LapRecord{
		Lap:         r.Lap,
		Time:        lapTime,
		TireWear:    r.TireWear,
		TireTemp:    r.TireTemp,
		Compound:    r.Compound,
		BatterySoC:  r.BatterySoC,
		Damage:      r.Damage,
		Position:    r.Position,
		GapToLeader: r.GapToLeader,
		Pitted:      r.PitCount > v.pitCountAtLapStart,
		Weather:     weather,
	})
	v.pitCountAtLapStart = r.PitCount
	r.LapElapsed = 0
	return r.Lap
}

// BestLapTime 获取最快圈速，无完整圈时返回无穷大
func (v *Vehicle) BestLapTime() float64 {
	if len(v.lapRecords) == 0 {
		return mathutil.INF
	}
	best := lo.MinBy(v.lapRecords, func(a, b LapRecord) bool {
		return a.Time < b.Time
	})
	return best.Time
}

// AvgLapTime 获取平均圈速，无完整圈时返回无穷大
func (v *Vehicle) AvgLapTime() float64 {
	if len(v.lapRecords) == 0 {
		return mathutil.INF
	}
	sum := 0.
	for _, rec := range v.lapRecords {
		sum += rec.Time
	}
	return sum / float64(len(v.lapRecords))
}
