package entity

import "fmt"

// Weather 天气枚举
type Weather int32

const (
	WeatherClear Weather = iota // 晴天
	WeatherRain                 // 雨天
)

func (w Weather) String() string {
	switch w {
	case WeatherClear:
		return "clear"
	case WeatherRain:
		return "rain"
	}
	return fmt.Sprintf("Weather(%d)", int32(w))
}

// ParseWeather 解析天气字符串（配置文件输入）
func ParseWeather(s string) (Weather, error) {
	switch s {
	case "", "clear":
		return WeatherClear, nil
	case "rain":
		return WeatherRain, nil
	}
	return WeatherClear, fmt.Errorf("unknown weather %q", s)
}

// TireCompound 轮胎配方枚举
// 说明：配方决定磨损速率、抓地力与生热特性，湿地配方偏好高积水，
// 光头胎偏好干燥路面，半雨胎偏好中间积水区间
type TireCompound int32

const (
	CompoundSoft         TireCompound = iota // 软胎
	CompoundMedium                           // 中性胎
	CompoundHard                             // 硬胎
	CompoundIntermediate                     // 半雨胎
	CompoundWet                              // 全雨胎
)

func (c TireCompound) String() string {
	switch c {
	case CompoundSoft:
		return "soft"
	case CompoundMedium:
		return "medium"
	case CompoundHard:
		return "hard"
	case CompoundIntermediate:
		return "intermediate"
	case CompoundWet:
		return "wet"
	}
	return fmt.Sprintf("TireCompound(%d)", int32(c))
}

// IsSlick 判断是否为光头胎（干地配方）
func (c TireCompound) IsSlick() bool {
	return c == CompoundSoft || c == CompoundMedium || c == CompoundHard
}

// ParseTireCompound 解析轮胎配方字符串（配置文件输入）
func ParseTireCompound(s string) (TireCompound, error) {
	switch s {
	case "soft":
		return CompoundSoft, nil
	case "", "medium":
		return CompoundMedium, nil
	case "hard":
		return CompoundHard, nil
	case "intermediate":
		return CompoundIntermediate, nil
	case "wet":
		return CompoundWet, nil
	}
	return CompoundMedium, fmt.Errorf("unknown tire compound %q", s)
}

// VehicleClass 车辆类别枚举
type VehicleClass int32

const (
	ClassCar  VehicleClass = iota // 方程式赛车
	ClassBike                     // 摩托车
)

func (c VehicleClass) String() string {
	switch c {
	case ClassCar:
		return "car"
	case ClassBike:
		return "bike"
	}
	return fmt.Sprintf("VehicleClass(%d)", int32(c))
}

// ParseVehicleClass 解析车辆类别字符串（配置文件输入）
func ParseVehicleClass(s string) (VehicleClass, error) {
	switch s {
	case "", "car":
		return ClassCar, nil
	case "bike":
		return ClassBike, nil
	}
	return ClassCar, fmt.Errorf("unknown vehicle class %q", s)
}

// ClassProfile 车辆类别默认常量
// 说明：类别之间只有初始常量不同，没有行为差异，
// 因此用常量结构体而不是子类型表达
type ClassProfile struct {
	Mass           float64 // 整备质量（kg，含车手）
	DragArea       float64 // 风阻面积CdA（m^2）
	DownforceArea  float64 // 下压力面积ClA（m^2）
	Wheelbase      float64 // 轴距（m）
	CGHeight       float64 // 质心高度（m）
	TrackWidth     float64 // 轮距（m）
	BaseGrip       float64 // 基准摩擦系数
	CorneringSkill float64 // 默认过弯技巧系数
}

// Profile 获取类别对应的默认常量
func (c VehicleClass) Profile() ClassProfile {
	switch c {
	case ClassBike:
		return ClassProfile{
			Mass:           240,
			DragArea:       0.55,
			DownforceArea:  0.15,
			Wheelbase:      1.45,
			CGHeight:       0.55,
			TrackWidth:     0.25,
			BaseGrip:       1.25,
			CorneringSkill: 0.82,
		}
	default:
		return ClassProfile{
			Mass:           798,
			DragArea:       1.5,
			DownforceArea:  3.0,
			Wheelbase:      3.6,
			CGHeight:       0.3,
			TrackWidth:     1.6,
			BaseGrip:       1.8,
			CorneringSkill: 0.9,
		}
	}
}

// SegmentKind 赛道区段分类
type SegmentKind int32

const (
	SegmentStraight SegmentKind = iota // 直道
	SegmentCorner                      // 弯道
	SegmentChicane                     // 减速弯（连续急弯）
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentStraight:
		return "straight"
	case SegmentCorner:
		return "corner"
	case SegmentChicane:
		return "chicane"
	}
	return fmt.Sprintf("SegmentKind(%d)", int32(k))
}
