package vehicle

import (
	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/entity"
	"github.com/shifters-sim/shifters-go/utils/config"
	"github.com/shifters-sim/shifters-go/utils/container"
	"github.com/shifters-sim/shifters-go/utils/randengine"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "vehicle")

// runtime 车辆运行时数据
// 功能：记录每个模拟步更新的全部可变状态
type runtime struct {
	// 运动状态
	S          float64 // 沿赛道位置（米，0~赛道总长）
	V          float64 // 当前速度（米/秒）
	TargetV    float64 // 目标速度（米/秒）
	Lap        int32   // 已完成圈数
	Finished   bool    // 是否完赛
	DNF        bool    // 是否退赛
	TotalTime  float64 // 总比赛用时（秒）
	LapElapsed float64 // 当前圈已用时间（秒）

	// 轮胎与能量状态
	TireWear    float64             // 轮胎磨损（0~100）
	TireTemp    float64             // 轮胎温度（摄氏度）
	Compound    entity.TireCompound // 轮胎配方
	BatterySoC  float64             // 电池电量（0~100%）
	BatteryTemp float64             // 电池温度（摄氏度）
	Damage      float64             // 损伤程度（0~100）

	// 比赛上下文状态
	Position         int32   // 当前名次（1开始）
	GapAhead         float64 // 与前车的时间差（秒）
	GapToLeader      float64 // 与头车的时间差（秒）
	PitCount         int32   // 进站次数
	InPit            bool    // 是否在维修区
	PitRemaining     float64 // 剩余进站时间（秒）
	PitElapsed       float64 // 本次进站已耗时（秒）
	DRS              bool    // DRS是否激活
	Slipstream       bool    // 是否处于尾流中
	Overtakes        int32   // 完成的超车次数
	OvertakenPenalty bool    // 被超车后的一次性减速惩罚标记
	JustCrossedLine  bool    // 本步是否刚越过起终点线

	// 制动状态（由最近一次制动计算写入）
	FrontLocked     bool    // 前轴是否抱死
	RearLocked      bool    // 后轴是否抱死
	BrakeEfficiency float64 // 制动效率（实际/请求）
}

// Vehicle 参赛车辆实体
// 功能：维护单辆车的运动、轮胎、能量与比赛状态，
// 提供目标速度计算与单步积分两个核心物理操作
type Vehicle struct {
	container.IncrementalItemBase
	ctx entity.IRaceContext
	m   *Manager

	// 静态属性
	id      int32
	name    string
	class   entity.VehicleClass
	profile entity.ClassProfile

	// 性能基线（构造时加入随机扰动）
	maxSpeed       float64 // 最高速度（米/秒）
	acceleration   float64 // 加速度（米/秒²）
	braking        float64 // 制动减速度（米/秒²）
	corneringSkill float64 // 过弯技巧系数

	// 可调物理参数（setter写入时钳制）
	differentialPreload float64 // 差速器预载（0~100）
	engineBraking       float64 // 发动机制动强度（0~1）
	brakeBalance        float64 // 前轴制动力分配比例（0.4~0.7）

	// 车手参数
	gridPosition    int32   // 发车排位
	lapTimeVariance float64 // 单圈稳定性噪声系数
	dnfProbability  float64 // 整场退赛概率

	plannedPitLap int32 // 计划进站圈（构造时随机选定）

	generator *randengine.Engine // 随机数生成器，以ID为seed

	runtime  runtime // 运行时数据
	snapshot runtime // 快照

	lapRecords         []LapRecord // 每圈遥测记录
	pitCountAtLapStart int32       // 上一圈结束时的进站次数，用于标记本圈是否进站
}

// newVehicle 创建并初始化一辆参赛车
// 功能：根据配置创建Vehicle对象，应用车型默认值并校验参数
// 参数：ctx-比赛上下文，m-车辆管理器，base-车辆配置
// 返回：初始化完成的Vehicle实例
// 说明：随机数生成器以车辆ID为seed，计划进站圈在比赛中段随机选定
func newVehicle(ctx entity.IRaceContext, m *Manager, base *config.Vehicle) *Vehicle {
	class, err := entity.ParseVehicleClass(base.Class)
	if err != nil {
		log.Fatalf("vehicle %d: %v, please check the data", base.ID, err)
	}
	compound, err := entity.ParseTireCompound(base.TireCompound)
	if err != nil {
		log.Warnf("vehicle %d: %v, fall back to medium", base.ID, err)
	}
	profile := class.Profile()
	v := &Vehicle{
		ctx:                 ctx,
		m:                   m,
		id:                  base.ID,
		name:                base.Name,
		class:               class,
		profile:             profile,
		maxSpeed:            base.MaxSpeed,
		acceleration:        base.Acceleration,
		braking:             base.Braking,
		corneringSkill:      base.CorneringSkill,
		differentialPreload: lo.Clamp(base.DifferentialPreload, 0, 100),
		engineBraking:       lo.Clamp(base.EngineBraking, 0, 1),
		brakeBalance:        lo.Clamp(base.BrakeBalance, 0.4, 0.7),
		gridPosition:        base.GridPosition,
		lapTimeVariance:     base.LapTimeVariance,
		dnfProbability:      base.DNFProbability,
		generator:           randengine.New(uint64(base.ID)),
	}
	if v.corneringSkill == 0 {
		v.corneringSkill = profile.CorneringSkill
	}
	// 属性检查
	if v.maxSpeed <= 0 {
		log.Fatalf("vehicle %d (config=%+v) max speed is not positive, please check the data", v.id, base)
	}
	if v.acceleration <= 0 {
		log.Fatalf("vehicle %d (config=%+v) acceleration is not positive, please check the data", v.id, base)
	}
	if v.braking <= 0 {
		log.Fatalf("vehicle %d (config=%+v) braking rate is not positive, please check the data", v.id, base)
	}
	laps := ctx.Track().Laps()
	if laps >= 3 {
		v.plannedPitLap = laps/3 + int32(v.generator.Uniform(0, float64(laps/3)))
	} else {
		v.plannedPitLap = 1
	}

	v.runtime = runtime{
		TireTemp:        ambientTireTemp,
		Compound:        compound,
		BatterySoC:      100,
		BatteryTemp:     ambientTireTemp,
		Position:        base.GridPosition,
		BrakeEfficiency: 1,
	}
	v.snapshot = v.runtime
	return v
}

// Prepare 准备阶段：将运行时数据写入快照
func (v *Vehicle) Prepare() {
	v.snapshot = v.runtime
}

// ID 获取车辆ID
func (v *Vehicle) ID() int32 { return v.id }

// Name 获取显示名称
func (v *Vehicle) Name() string { return v.name }

// Class 获取车型
func (v *Vehicle) Class() entity.VehicleClass { return v.class }

// MaxSpeed 获取最高速度（含构造扰动）
func (v *Vehicle) MaxSpeed() float64 { return v.maxSpeed }

// GridPosition 获取发车排位
func (v *Vehicle) GridPosition() int32 { return v.gridPosition }

// DNFProbability 获取整场退赛概率
func (v *Vehicle) DNFProbability() float64 { return v.dnfProbability }

// S 获取沿赛道位置（快照值）
func (v *Vehicle) S() float64 { return v.snapshot.S }

// V 获取当前速度（快照值）
func (v *Vehicle) V() float64 { return v.snapshot.V }

// Lap 获取已完成圈数（快照值）
func (v *Vehicle) Lap() int32 { return v.snapshot.Lap }

// IsFinished 是否完赛（快照值）
func (v *Vehicle) IsFinished() bool { return v.snapshot.Finished }

// IsDNF 是否退赛（快照值）
func (v *Vehicle) IsDNF() bool { return v.snapshot.DNF }

// TotalTime 获取总比赛用时
func (v *Vehicle) TotalTime() float64 { return v.runtime.TotalTime }

// CurrentLap 获取本步更新后的圈数（运行时值，供编排器分级使用）
func (v *Vehicle) CurrentLap() int32 { return v.runtime.Lap }

// CurrentV 获取本步更新后的速度（运行时值，供编排器分级使用）
func (v *Vehicle) CurrentV() float64 { return v.runtime.V }

// RaceDistance 获取累计比赛里程（米），用于名次排序
func (v *Vehicle) RaceDistance() float64 {
	return float64(v.runtime.Lap)*v.ctx.Track().Length() + v.runtime.S
}

// TireWear 获取轮胎磨损
func (v *Vehicle) TireWear() float64 { return v.runtime.TireWear }

// TireTemp 获取轮胎温度
func (v *Vehicle) TireTemp() float64 { return v.runtime.TireTemp }

// Compound 获取当前轮胎配方
func (v *Vehicle) Compound() entity.TireCompound { return v.runtime.Compound }

// BatterySoC 获取电池电量
func (v *Vehicle) BatterySoC() float64 { return v.runtime.BatterySoC }

// Damage 获取损伤程度
func (v *Vehicle) Damage() float64 { return v.runtime.Damage }

// Position 获取当前名次
func (v *Vehicle) Position() int32 { return v.runtime.Position }

// GapAhead 获取与前车的时间差
func (v *Vehicle) GapAhead() float64 { return v.runtime.GapAhead }

// PitCount 获取进站次数
func (v *Vehicle) PitCount() int32 { return v.runtime.PitCount }

// InPit 是否在维修区
func (v *Vehicle) InPit() bool { return v.runtime.InPit }

// HasDRS DRS是否激活
func (v *Vehicle) HasDRS() bool { return v.runtime.DRS }

// HasSlipstream 是否处于尾流中
func (v *Vehicle) HasSlipstream() bool { return v.runtime.Slipstream }

// Overtakes 获取完成的超车次数
func (v *Vehicle) Overtakes() int32 { return v.runtime.Overtakes }

// JustCrossedLine 本步是否刚越过起终点线
func (v *Vehicle) JustCrossedLine() bool { return v.runtime.JustCrossedLine }

// FrontLocked 前轴是否抱死
func (v *Vehicle) FrontLocked() bool { return v.runtime.FrontLocked }

// RearLocked 后轴是否抱死
func (v *Vehicle) RearLocked() bool { return v.runtime.RearLocked }

// BrakeEfficiency 获取最近一次制动的效率
func (v *Vehicle) BrakeEfficiency() float64 { return v.runtime.BrakeEfficiency }

// LapRecords 获取每圈遥测记录
func (v *Vehicle) LapRecords() []LapRecord { return v.lapRecords }

// Observation 生成快照观测值供其他车辆只读查询
func (v *Vehicle) Observation() entity.VehicleObservation {
	return entity.VehicleObservation{
		ID:       v.id,
		S:        v.snapshot.S,
		V:        v.snapshot.V,
		Lap:      v.snapshot.Lap,
		Finished: v.snapshot.Finished,
		InPit:    v.snapshot.InPit,
	}
}

// UpdateMaxSpeed 更新最高速度（实时重配置）
func (v *Vehicle) UpdateMaxSpeed(maxSpeed float64) {
	if maxSpeed <= 0 {
		log.Errorf("vehicle %d: ignore non-positive max speed %.2f", v.id, maxSpeed)
		return
	}
	v.maxSpeed = maxSpeed
}

// UpdateDifferentialPreload 更新差速器预载，写入时钳制到[0,100]
func (v *Vehicle) UpdateDifferentialPreload(preload float64) {
	v.differentialPreload = lo.Clamp(preload, 0, 100)
}

// UpdateEngineBraking 更新发动机制动强度，写入时钳制到[0,1]
func (v *Vehicle) UpdateEngineBraking(engineBraking float64) {
	v.engineBraking = lo.Clamp(engineBraking, 0, 1)
}

// UpdateBrakeBalance 更新前轴制动力分配比例，写入时钳制到[0.4,0.7]
func (v *Vehicle) UpdateBrakeBalance(balance float64) {
	v.brakeBalance = lo.Clamp(balance, 0.4, 0.7)
}

// SetPosition 写入名次（仅由编排器在全部车辆步进后调用）
func (v *Vehicle) SetPosition(position int32) {
	v.runtime.Position = position
}

// SetGapAhead 写入与前车的时间差（仅由编排器调用）
func (v *Vehicle) SetGapAhead(gap float64) {
	v.runtime.GapAhead = gap
}

// SetGapToLeader 写入与头车的时间差（仅由编排器调用）
func (v *Vehicle) SetGapToLeader(gap float64) {
	v.runtime.GapToLeader = gap
}

// MarkOvertaken 标记被超车，下一步施加一次性减速惩罚
func (v *Vehicle) MarkOvertaken() {
	v.runtime.OvertakenPenalty = true
}

// AddOvertake 记录一次完成的超车
func (v *Vehicle) AddOvertake() {
	v.runtime.Overtakes++
}

// MarkDNF 标记退赛
func (v *Vehicle) MarkDNF() {
	v.runtime.DNF = true
	v.runtime.V = 0
	log.Infof("vehicle %d (%s) DNF at lap %d", v.id, v.name, v.runtime.Lap)
}

// MarkFinished 标记完赛
func (v *Vehicle) MarkFinished() {
	v.runtime.Finished = true
	log.Infof("vehicle %d (%s) finished in %.1fs", v.id, v.name, v.runtime.TotalTime)
}

// AddTotalTime 累计比赛用时与当前圈用时
func (v *Vehicle) AddTotalTime(dt float64) {
	v.runtime.TotalTime += dt
	v.runtime.LapElapsed += dt
}

// LapElapsed 获取当前圈已用时间
func (v *Vehicle) LapElapsed() float64 { return v.runtime.LapElapsed }
