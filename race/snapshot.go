package race

import (
	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/entity"
	"github.com/shifters-sim/shifters-go/entity/vehicle"
)

// SnapshotVersion 快照结构版本号，结构变化时递增
const SnapshotVersion = 1

// VehicleSnapshot 单辆车的每步快照
type VehicleSnapshot struct {
	ID       int32   `json:"id"`
	Name     string  `json:"name"`
	S        float64 `json:"s"`        // 沿赛道位置（米）
	V        float64 `json:"v"`        // 速度（米/秒）
	Lap      int32   `json:"lap"`      // 已完成圈数
	Finished bool    `json:"finished"` // 是否完赛
	DNF      bool    `json:"dnf"`      // 是否退赛

	TireWear   float64             `json:"tire_wear"`
	TireTemp   float64             `json:"tire_temp"`
	Compound   entity.TireCompound `json:"compound"`
	BatterySoC float64             `json:"battery_soc"`
	Damage     float64             `json:"damage"`

	Position   int32   `json:"position"`
	GapAhead   float64 `json:"gap_ahead"`
	PitCount   int32   `json:"pit_count"`
	InPit      bool    `json:"in_pit"`
	DRS        bool    `json:"drs"`
	Slipstream bool    `json:"slipstream"`
	Overtakes  int32   `json:"overtakes"`
}

// EnvironmentSnapshot 环境每步快照
type EnvironmentSnapshot struct {
	TrackName   string         `json:"track_name"`
	TrackLength float64        `json:"track_length"`
	Laps        int32          `json:"laps"`
	Weather     entity.Weather `json:"weather"`
	WaterLevel  float64        `json:"water_level"`
	AmbientTemp float64        `json:"ambient_temp"`
}

// SafetyCarSnapshot 安全车每步快照
type SafetyCarSnapshot struct {
	Active        bool    `json:"active"`
	LapsRemaining int32   `json:"laps_remaining"`
	S             float64 `json:"s"`
}

// Snapshot 比赛每步快照
// 说明：完全类型化的不可变投影，供展示与遥测层消费
type Snapshot struct {
	Version    int32               `json:"version"`
	Step       int32               `json:"step"`
	T          float64             `json:"t"`
	Running    bool                `json:"running"`
	CurrentLap int32               `json:"current_lap"`
	Vehicles   []VehicleSnapshot   `json:"vehicles"`
	Env        EnvironmentSnapshot `json:"env"`
	SafetyCar  SafetyCarSnapshot   `json:"safety_car"`
	DNFIDs     []int32             `json:"dnf_ids"`
}

// TakeSnapshot 生成当前步的完整快照
func (r *Race) TakeSnapshot() Snapshot {
	vehicles := lo.Map(r.manager.All(), func(v *vehicle.Vehicle, _ int) VehicleSnapshot {
		return VehicleSnapshot{
			ID:         v.ID(),
			Name:       v.Name(),
			S:          v.S(),
			V:          v.V(),
			Lap:        v.Lap(),
			Finished:   v.IsFinished(),
			DNF:        v.IsDNF(),
			TireWear:   v.TireWear(),
			TireTemp:   v.TireTemp(),
			Compound:   v.Compound(),
			BatterySoC: v.BatterySoC(),
			Damage:     v.Damage(),
			Position:   v.Position(),
			GapAhead:   v.GapAhead(),
			PitCount:   v.PitCount(),
			InPit:      v.InPit(),
			DRS:        v.HasDRS(),
			Slipstream: v.HasSlipstream(),
			Overtakes:  v.Overtakes(),
		}
	})
	return Snapshot{
		Version:    SnapshotVersion,
		Step:       r.clk.InternalStep,
		T:          r.clk.T,
		Running:    r.running,
		CurrentLap: r.currentLap,
		Vehicles:   vehicles,
		Env: EnvironmentSnapshot{
			TrackName:   r.trk.Name(),
			TrackLength: r.trk.Length(),
			Laps:        r.trk.Laps(),
			Weather:     r.env.Weather(),
			WaterLevel:  r.env.WaterLevel(),
			AmbientTemp: r.env.AmbientTemp(),
		},
		SafetyCar: SafetyCarSnapshot{
			Active:        r.safetyCar.Active(),
			LapsRemaining: r.safetyCar.LapsRemaining(),
			S:             r.safetyCar.S(),
		},
		DNFIDs: append([]int32(nil), r.dnfIDs...),
	}
}
