// Package config 定义仿真系统的YAML配置结构
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Circuit 赛道输入配置
// 功能：定义赛道几何来源，内联坐标折线与GeoJSON文件二选一
// 说明：两者均未提供时使用指定总长的椭圆退化赛道
type Circuit struct {
	Name       string       `yaml:"name"`                  // 赛道名称
	Laps       int32        `yaml:"laps"`                  // 比赛圈数
	Coords     [][2]float64 `yaml:"coords,omitempty"`      // 经纬度折线，每项为[lon, lat]
	GeoJSON    string       `yaml:"geojson,omitempty"`     // GeoJSON文件路径（优先级低于内联坐标）
	OvalLength float64      `yaml:"oval_length,omitempty"` // 无几何数据时的椭圆退化赛道总长（米）
}

// Vehicle 单辆参赛车的配置
// 功能：定义车辆的标识、性能基线、可调参数与车手参数
type Vehicle struct {
	ID   int32  `yaml:"id"`   // 车辆ID
	Name string `yaml:"name"` // 显示名称

	Class string `yaml:"class,omitempty"` // 车型（car/bike），影响质量、阻力、下压力默认值

	// 性能基线
	MaxSpeed       float64 `yaml:"max_speed"`       // 最高速度（米/秒）
	Acceleration   float64 `yaml:"acceleration"`    // 加速度（米/秒²）
	Braking        float64 `yaml:"braking"`         // 制动减速度（米/秒²）
	CorneringSkill float64 `yaml:"cornering_skill"` // 过弯技巧系数

	// 可调物理参数
	DifferentialPreload float64 `yaml:"differential_preload"` // 差速器预载（0~100）
	EngineBraking       float64 `yaml:"engine_braking"`       // 发动机制动强度（0~1）
	BrakeBalance        float64 `yaml:"brake_balance"`        // 前轴制动力分配比例（0.4~0.7）

	// 车手参数
	GridPosition    int32   `yaml:"grid_position"`             // 发车排位
	LapTimeVariance float64 `yaml:"lap_time_variance"`         // 单圈稳定性噪声系数
	DNFProbability  float64 `yaml:"dnf_probability,omitempty"` // 整场退赛概率

	TireCompound string `yaml:"tire_compound,omitempty"` // 起步轮胎配方
}

// SafetyCar 安全车参数覆盖配置
type SafetyCar struct {
	DeployProbability float64 `yaml:"deploy_probability,omitempty"` // DNF触发出动的概率
	DurationLaps      int32   `yaml:"duration_laps,omitempty"`      // 出动持续圈数
	SpeedCeiling      float64 `yaml:"speed_ceiling,omitempty"`      // 安全车期间的速度上限（米/秒）
}

// Control 比赛过程控制配置
type Control struct {
	DT              float64   `yaml:"dt"`                     // 每步的时间间隔（秒）
	AmbientTemp     float64   `yaml:"ambient_temp,omitempty"` // 环境温度（摄氏度）
	InitialWeather  string    `yaml:"weather,omitempty"`      // 初始天气（clear/rain）
	RainProbability float64   `yaml:"rain_probability"`       // 每圈天气转换的触发概率
	SpeedMultiplier int32     `yaml:"multiplier,omitempty"`   // 外部步进倍速（不影响物理步长）
	Seed            uint64    `yaml:"seed,omitempty"`         // 随机数种子（0表示使用车辆ID派生）
	SafetyCar       SafetyCar `yaml:"safety_car,omitempty"`   // 安全车参数覆盖
}

// Optimizer 进化优化器配置
type Optimizer struct {
	PopulationSize int32   `yaml:"population_size"`          // 种群规模
	MaxGenerations int32   `yaml:"max_generations"`          // 最大代数
	MutationRate   float64 `yaml:"mutation_rate"`            // 每个基因的变异概率
	EliteCount     int32   `yaml:"elite_count"`              // 精英保留数量
	TournamentSize int32   `yaml:"tournament_size"`          // 锦标赛选择的抽样数量
	TargetFitness  float64 `yaml:"target_fitness,omitempty"` // 达到即提前终止的适应度（可选）
}

// Config YAML配置文件的根结构
type Config struct {
	Circuit   Circuit   `yaml:"circuit"`             // 赛道
	Vehicles  []Vehicle `yaml:"vehicles"`            // 参赛车辆
	Control   Control   `yaml:"control"`             // 比赛过程控制
	Optimizer Optimizer `yaml:"optimizer,omitempty"` // 优化器
}

// Parse 严格解析YAML配置数据并填充缺省值
// 返回：解析完成的配置，含未知字段时返回错误
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.fillDefaults()
	return c, nil
}

// LoadFile 从YAML文件加载配置
// 参数：path-配置文件路径
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// fillDefaults 填充缺省配置值
func (c *Config) fillDefaults() {
	if c.Control.DT == 0 {
		c.Control.DT = 0.1
	}
	if c.Control.AmbientTemp == 0 {
		c.Control.AmbientTemp = 25
	}
	if c.Control.SpeedMultiplier == 0 {
		c.Control.SpeedMultiplier = 1
	}
	if c.Circuit.Laps == 0 {
		c.Circuit.Laps = 3
	}
	if c.Circuit.OvalLength == 0 {
		c.Circuit.OvalLength = 5000
	}
	if c.Optimizer.PopulationSize == 0 {
		c.Optimizer.PopulationSize = 20
	}
	if c.Optimizer.MaxGenerations == 0 {
		c.Optimizer.MaxGenerations = 10
	}
	if c.Optimizer.MutationRate == 0 {
		c.Optimizer.MutationRate = 0.1
	}
	if c.Optimizer.EliteCount == 0 {
		c.Optimizer.EliteCount = 2
	}
	if c.Optimizer.TournamentSize == 0 {
		c.Optimizer.TournamentSize = 3
	}
}
