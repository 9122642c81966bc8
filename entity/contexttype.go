package entity

import "github.com/shifters-sim/shifters-go/clock"

// entity/track/track.go的依赖倒置
type ITrack interface {
	Name() string                  // 赛道名称
	Length() float64               // 闭合路径总长（米）
	Laps() int32                   // 比赛圈数
	CurvatureAt(s float64) float64 // 获取沿赛道距离s处的带符号曲率（1/米）
}

// race/race.go的依赖倒置，车辆通过上下文访问时钟与赛道
type IRaceContext interface {
	Clock() *clock.Clock // 获取仿真时钟
	Track() ITrack       // 获取赛道
}

// VehicleObservation 车辆只读观测量
// 功能：跨车辆查询（尾流、超车、差距计算）的输入，
// 由编排器从上一步快照投影得到，避免车辆之间互相持有引用
type VehicleObservation struct {
	ID       int32   // 车辆ID
	S        float64 // 沿赛道位置（米）
	V        float64 // 速度（米/秒）
	Lap      int32   // 当前圈数
	Finished bool    // 是否完赛
	InPit    bool    // 是否在维修区
}
