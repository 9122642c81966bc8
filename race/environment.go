package race

import (
	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/entity"
	"github.com/shifters-sim/shifters-go/utils/randengine"
)

const (
	rainAccumulateRate = 0.25 // 雨中积水累积速率（%/秒）
	dryingRate         = 0.1  // 晴天积水消退速率（%/秒）
)

// Environment 比赛共享环境状态
// 功能：维护天气、环境温度与赛道积水程度
// 说明：积水与天气枚举刻意解耦，天气只决定积水的变化方向与速率，
// 实际影响抓地力的是积水程度本身（两者之间存在滞后）
type Environment struct {
	weather         entity.Weather
	ambientTemp     float64 // 环境温度（摄氏度）
	waterLevel      float64 // 赛道积水程度（0~100）
	rainProbability float64 // 每圈天气转换的触发概率
}

// NewEnvironment 创建比赛环境
func NewEnvironment(weather entity.Weather, ambientTemp, rainProbability float64) *Environment {
	return &Environment{
		weather:         weather,
		ambientTemp:     ambientTemp,
		rainProbability: rainProbability,
	}
}

// Weather 获取当前天气
func (e *Environment) Weather() entity.Weather { return e.weather }

// AmbientTemp 获取环境温度
func (e *Environment) AmbientTemp() float64 { return e.ambientTemp }

// WaterLevel 获取赛道积水程度
func (e *Environment) WaterLevel() float64 { return e.waterLevel }

// SetWeather 覆盖当前天气（实时控制）
func (e *Environment) SetWeather(w entity.Weather) { e.weather = w }

// SetAmbientTemp 覆盖环境温度（实时控制）
func (e *Environment) SetAmbientTemp(t float64) { e.ambientTemp = t }

// SetRainProbability 覆盖天气转换概率（实时控制）
func (e *Environment) SetRainProbability(p float64) {
	e.rainProbability = lo.Clamp(p, 0, 1)
}

// UpdateWater 每步更新赛道积水程度
// 说明：雨中持续累积，晴天持续消退，与每圈一次的天气转换判定无关
func (e *Environment) UpdateWater(dt float64) {
	if e.weather == entity.WeatherRain {
		e.waterLevel = lo.Clamp(e.waterLevel+rainAccumulateRate*dt, 0, 100)
	} else {
		e.waterLevel = lo.Clamp(e.waterLevel-dryingRate*dt, 0, 100)
	}
}

// MaybeTransition 每圈一次的天气转换判定
// 功能：按配置概率掷骰，命中则在晴雨之间翻转
// 参数：generator-比赛级随机数生成器
// 返回：是否发生了转换
func (e *Environment) MaybeTransition(generator *randengine.Engine) bool {
	if !generator.PTrue(e.rainProbability) {
		return false
	}
	if e.weather == entity.WeatherClear {
		e.weather = entity.WeatherRain
	} else {
		e.weather = entity.WeatherClear
	}
	return true
}
