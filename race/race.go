package race

import (
	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/clock"
	"github.com/shifters-sim/shifters-go/entity"
	"github.com/shifters-sim/shifters-go/entity/vehicle"
	"github.com/shifters-sim/shifters-go/utils/config"
	"github.com/shifters-sim/shifters-go/utils/randengine"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "race")

const (
	// LapTimeCalibration 完圈时间的标定系数
	// 说明：纯粹为贴近真实圈速量级的可调标定常数，无物理含义
	LapTimeCalibration = 1.4

	drsSpeedFraction = 0.7 // 直道上自动开启DRS所需的最高速度比例
	tireCoolingRate  = 0.5 // 每步天气冷却速率（摄氏度/秒），雨天加倍
)

// Race 比赛编排器
// 功能：持有车辆集合与共享环境，按固定步长推进所有车辆，
// 处理完圈、超车、进站、退赛、安全车与天气转换，生成比赛名次
type Race struct {
	clk *clock.Clock
	trk entity.ITrack

	manager   *vehicle.Manager
	env       *Environment
	safetyCar *SafetyCar

	generator *randengine.Engine // 比赛级随机数生成器（天气、退赛、安全车判定）

	running    bool
	currentLap int32   // 领先车辆正在进行的圈（1开始）
	dnfIDs     []int32 // 退赛车辆ID集合
}

// New 创建一场比赛
// 功能：构造环境、安全车与全部车辆，车辆按发车排位获得初始名次
// 参数：trk-赛道，vehicles-车辆配置列表，control-比赛过程控制配置
func New(trk entity.ITrack, vehicles []config.Vehicle, control config.Control) *Race {
	r := &Race{
		clk:        clock.New(control.DT),
		trk:        trk,
		safetyCar:  NewSafetyCar(control.SafetyCar),
		generator:  randengine.New(control.Seed),
		running:    true,
		currentLap: 1,
	}
	weather := entity.WeatherClear
	if control.InitialWeather != "" {
		w, err := entity.ParseWeather(control.InitialWeather)
		if err != nil {
			log.Fatalf("race: %v, please check the config", err)
		}
		weather = w
	}
	r.env = NewEnvironment(weather, control.AmbientTemp, control.RainProbability)
	r.clk.SetMultiplier(control.SpeedMultiplier)
	r.manager = vehicle.NewManager(r, vehicles)
	if r.manager.Len() == 0 {
		log.Fatalf("race: no vehicles configured")
	}
	return r
}

// Clock 获取模拟时钟（实现IRaceContext）
func (r *Race) Clock() *clock.Clock { return r.clk }

// Track 获取赛道（实现IRaceContext）
func (r *Race) Track() entity.ITrack { return r.trk }

// Env 获取共享环境
func (r *Race) Env() *Environment { return r.env }

// SafetyCar 获取安全车状态机
func (r *Race) SafetyCar() *SafetyCar { return r.safetyCar }

// Manager 获取车辆管理器
func (r *Race) Manager() *vehicle.Manager { return r.manager }

// Running 比赛是否仍在进行
func (r *Race) Running() bool { return r.running }

// CurrentLap 获取领先车辆正在进行的圈
func (r *Race) CurrentLap() int32 { return r.currentLap }

// DNFIDs 获取退赛车辆ID集合
func (r *Race) DNFIDs() []int32 { return r.dnfIDs }

// Step 推进一个模拟步
// 功能：比赛的单步主循环
// 算法说明：
//  1. 时钟前进，管理器执行准备阶段（应用延迟移除、写入快照）；
//  2. 更新进行中的圈数、安全车位置与赛道积水；
//  3. 对每辆活跃车辆：取位置处曲率→计算目标速度（安全车期间
//     封顶并收拢车群）→更新尾流与DRS→积分一步→天气冷却轮胎→
//     处理越线（完圈记录、完赛判定、进站评估、退赛掷骰）；
//  4. 全部车辆步进后统一重算名次与时距（先步进后分级的顺序
//     保证时距计算与遍历顺序无关）；
//  5. 头车完圈时执行一次天气转换判定并递减安全车圈数
func (r *Race) Step() {
	if !r.running {
		return
	}
	r.clk.Tick()
	r.manager.Prepare()

	active := r.manager.Active()
	if len(active) == 0 {
		r.running = false
		log.Infof("race finished at %s", r.clk)
		return
	}

	maxLap := lo.MaxBy(active, func(a, b *vehicle.Vehicle) bool {
		return a.CurrentLap() > b.CurrentLap()
	}).CurrentLap()
	r.currentLap = maxLap + 1

	dt := r.clk.DT
	length := r.trk.Length()
	r.safetyCar.Advance(dt, length)
	r.env.UpdateWater(dt)

	obs := r.manager.Observations()
	leaderCrossed := false
	for _, v := range active {
		kappa := r.trk.CurvatureAt(v.S())
		target := v.ComputeTargetSpeed(kappa, r.env.Weather(), r.env.AmbientTemp(), r.env.WaterLevel())
		if r.safetyCar.Active() {
			target = r.safetyCar.CapTargetSpeed(target, v.GapAhead())
			v.DeactivateDRS()
		} else if kappa == 0 && v.V() > drsSpeedFraction*v.MaxSpeed() {
			v.ActivateDRS(kappa, false)
		} else {
			v.DeactivateDRS()
		}
		v.CheckSlipstream(obs, length)
		v.SetTargetV(target)

		v.IntegrateStep(dt, length, kappa, r.env.AmbientTemp())
		v.AddTotalTime(dt)
		cooling := tireCoolingRate
		if r.env.Weather() == entity.WeatherRain {
			cooling *= 2
		}
		v.CoolTires(dt, cooling)

		if v.JustCrossedLine() {
			if v.Position() == 1 {
				leaderCrossed = true
			}
			r.onLapCrossed(v)
		}
	}

	r.classify()

	if leaderCrossed {
		if r.env.MaybeTransition(r.generator) {
			log.Infof("weather changed to %s at lap %d", r.env.Weather(), r.currentLap)
		}
		r.safetyCar.OnLeaderLap()
	}
}

// onLapCrossed 处理一辆车的越线事件
func (r *Race) onLapCrossed(v *vehicle.Vehicle) {
	lapTime := v.LapElapsed() * LapTimeCalibration
	lap := v.CompleteLap(lapTime, r.env.Weather())

	if lap >= r.trk.Laps() {
		v.MarkFinished()
		r.manager.Retire(v)
		return
	}

	if v.ShouldPitStop(r.env.WaterLevel()) {
		v.PitStop(vehicle.PickCompound(r.env.WaterLevel()))
	}

	// 每圈一次的退赛掷骰：整场概率均摊到每圈
	p := v.DNFProbability() / float64(r.trk.Laps())
	if p > 0 && r.generator.PTrue(p) {
		v.MarkDNF()
		r.manager.Retire(v)
		r.dnfIDs = append(r.dnfIDs, v.ID())
		r.safetyCar.CheckDeployment(r.generator)
	}
}

// StepExternal 外部驱动层的一次tick
// 说明：按时钟速度倍率连续运行多个内部步，倍率只改变外部
// 节奏，不改变物理积分的步长
func (r *Race) StepExternal() {
	for i := int32(0); i < r.clk.Multiplier() && r.running; i++ {
		r.Step()
	}
}

// RunToCompletion 同步运行比赛直至结束
// 说明：带有步数安全上限，避免异常状态下的死循环
func (r *Race) RunToCompletion() {
	// 上限按全程以2米/秒的极低均速跑完估算
	maxSteps := int64(float64(r.trk.Laps())*r.trk.Length()/2/r.clk.DT) + 1000000
	for i := int64(0); r.running && i < maxSteps; i++ {
		r.Step()
	}
	if r.running {
		r.running = false
		log.Errorf("race aborted after %d steps without completion", maxSteps)
	}
}
