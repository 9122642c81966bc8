package race

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/entity/vehicle"
)

// ResultRow 最终名次表中的一行
type ResultRow struct {
	Position    int32               // 最终名次（1开始，退赛车辆排最后）
	ID          int32               // 车辆ID
	Name        string              // 显示名称
	TotalTime   float64             // 总比赛用时（秒）
	GapToWinner float64             // 与冠军的总用时差（秒），退赛车辆无意义
	BestLap     float64             // 最快圈速（秒）
	PitStops    int32               // 进站次数
	Overtakes   int32               // 完成的超车次数
	DNF         bool                // 是否退赛
	Laps        []vehicle.LapRecord // 全部单圈遥测
}

// FastestLap 最快圈记录
type FastestLap struct {
	VehicleID int32   // 车辆ID
	Name      string  // 显示名称
	Lap       int32   // 圈号
	Time      float64 // 圈速（秒）
}

// Report 比赛结束后的最终报告
type Report struct {
	TrackName   string       // 赛道名称
	Laps        int32        // 比赛圈数
	Results     []ResultRow  // 排序后的最终名次表
	FastestLaps []FastestLap // 全场最快的N圈
	DNFIDs      []int32      // 退赛车辆ID集合
}

// GenerateReport 生成比赛最终报告
// 功能：汇总全部车辆的最终名次、与冠军的用时差、
// 每圈遥测与全场最快圈
// 参数：topN-收录的最快圈数量
// 算法说明：完赛车辆按总用时升序，退赛车辆按完成里程降序排在
// 所有完赛车辆之后
func (r *Race) GenerateReport(topN int) *Report {
	all := r.manager.All()
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.IsDNF() != b.IsDNF() {
			return b.IsDNF()
		}
		if !a.IsDNF() {
			return a.TotalTime() < b.TotalTime()
		}
		return a.RaceDistance() > b.RaceDistance()
	})

	winnerTime := 0.
	if len(all) > 0 && !all[0].IsDNF() {
		winnerTime = all[0].TotalTime()
	}
	results := lo.Map(all, func(v *vehicle.Vehicle, i int) ResultRow {
		gap := 0.
		if !v.IsDNF() && winnerTime > 0 {
			gap = v.TotalTime() - winnerTime
		}
		return ResultRow{
			Position:    int32(i + 1),
			ID:          v.ID(),
			Name:        v.Name(),
			TotalTime:   v.TotalTime(),
			GapToWinner: gap,
			BestLap:     v.BestLapTime(),
			PitStops:    v.PitCount(),
			Overtakes:   v.Overtakes(),
			DNF:         v.IsDNF(),
			Laps:        v.LapRecords(),
		}
	})

	var fastest []FastestLap
	for _, v := range all {
		for _, rec := range v.LapRecords() {
			fastest = append(fastest, FastestLap{
				VehicleID: v.ID(),
				Name:      v.Name(),
				Lap:       rec.Lap,
				Time:      rec.Time,
			})
		}
	}
	sort.Slice(fastest, func(i, j int) bool {
		return fastest[i].Time < fastest[j].Time
	})
	if topN > 0 && len(fastest) > topN {
		fastest = fastest[:topN]
	}

	return &Report{
		TrackName:   r.trk.Name(),
		Laps:        r.trk.Laps(),
		Results:     results,
		FastestLaps: fastest,
		DNFIDs:      append([]int32(nil), r.dnfIDs...),
	}
}
