package race

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/entity/vehicle"
)

// classify 重算比赛名次与时距
// 功能：在全部车辆步进后对非退赛车辆排序并写回名次、
// 与前车及头车的时距，同时检测名次变化产生的超车事件
// 算法说明：
//  1. 完赛车辆排最前（按总用时升序），其余按累计里程降序；
//  2. 名次从1开始写回；名次变好记一次超车，变差的车辆
//     获得下一步的一次性被超惩罚；
//  3. 时距=相对里程/两车平均速度，平均速度为0时取0（零除保护）
func (r *Race) classify() {
	ranked := lo.Filter(r.manager.All(), func(v *vehicle.Vehicle, _ int) bool {
		return !v.IsDNF()
	})
	if len(ranked) == 0 {
		return
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.IsFinished() != b.IsFinished() {
			return a.IsFinished()
		}
		if a.IsFinished() && b.IsFinished() {
			return a.TotalTime() < b.TotalTime()
		}
		return a.RaceDistance() > b.RaceDistance()
	})

	leaderDist := ranked[0].RaceDistance()
	leaderV := ranked[0].CurrentV()
	for i, v := range ranked {
		oldPos := v.Position()
		newPos := int32(i + 1)
		v.SetPosition(newPos)
		if oldPos > 0 && !v.IsFinished() {
			if newPos < oldPos {
				v.AddOvertake()
			} else if newPos > oldPos {
				v.MarkOvertaken()
			}
		}

		if i == 0 {
			v.SetGapAhead(0)
			v.SetGapToLeader(0)
			continue
		}
		prev := ranked[i-1]
		v.SetGapAhead(timeGap(prev.RaceDistance()-v.RaceDistance(), prev.CurrentV(), v.CurrentV()))
		v.SetGapToLeader(timeGap(leaderDist-v.RaceDistance(), leaderV, v.CurrentV()))
	}
}

// timeGap 由相对里程与平均速度换算时距，零速时返回0
func timeGap(relDist, vAhead, vBehind float64) float64 {
	avg := (vAhead + vBehind) / 2
	if avg <= 0 {
		return 0
	}
	if relDist < 0 {
		relDist = 0
	}
	return relDist / avg
}
