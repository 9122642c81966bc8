package track

import (
	"math"
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/shifters-sim/shifters-go/entity"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "track")

// Segment 赛道区段
// 功能：记录一段赛道的几何信息，构造后只读
type Segment struct {
	Start     geometry.Point     // 起点（局部平面坐标，米）
	End       geometry.Point     // 终点
	Length    float64            // 区段长度（米）
	Curvature float64            // 带符号曲率（1/米），正值为左弯
	Kind      entity.SegmentKind // 区段分类
}

// Checkpoint 赛道检查点
type Checkpoint struct {
	ID    string  // 检查点ID
	S     float64 // 沿赛道距离（米）
	Label string  // 显示名称
}

// Track 赛道实体
// 功能：表示一条闭合赛道，提供按沿程距离查询曲率的能力
// 说明：构造完成后不可变，比赛期间所有车辆共享只读访问
type Track struct {
	name        string
	length      float64
	laps        int32
	segments    []Segment
	cumLength   []float64 // 各区段终点的累计长度，与segments等长
	checkpoints []Checkpoint
}

// Name 赛道名称
func (t *Track) Name() string {
	return t.name
}

// Length 闭合路径总长（米）
func (t *Track) Length() float64 {
	return t.length
}

// Laps 比赛圈数
func (t *Track) Laps() int32 {
	return t.laps
}

// Segments 获取全部区段
func (t *Track) Segments() []Segment {
	return t.segments
}

// Checkpoints 获取全部检查点
func (t *Track) Checkpoints() []Checkpoint {
	return t.checkpoints
}

// CurvatureAt 获取沿赛道距离s处的带符号曲率
// 功能：按累计区段长度定位s所在的区段并返回其曲率
// 参数：s-沿赛道距离（米），超出总长时取模回绕
// 返回：带符号曲率（1/米），无几何数据时返回0（纯椭圆退化情形）
func (t *Track) CurvatureAt(s float64) float64 {
	if len(t.segments) == 0 || t.length <= 0 {
		return 0
	}
	s = math.Mod(s, t.length)
	if s < 0 {
		s += t.length
	}
	i := sort.SearchFloat64s(t.cumLength, s)
	if i >= len(t.segments) {
		i = len(t.segments) - 1
	}
	return t.segments[i].Curvature
}

// SegmentAt 获取沿赛道距离s处的区段
func (t *Track) SegmentAt(s float64) *Segment {
	if len(t.segments) == 0 || t.length <= 0 {
		return nil
	}
	s = math.Mod(s, t.length)
	if s < 0 {
		s += t.length
	}
	i := sort.SearchFloat64s(t.cumLength, s)
	if i >= len(t.segments) {
		i = len(t.segments) - 1
	}
	return &t.segments[i]
}

// AddCheckpoint 添加检查点（构造期使用）
func (t *Track) AddCheckpoint(id string, s float64, label string) {
	t.checkpoints = append(t.checkpoints, Checkpoint{ID: id, S: s, Label: label})
	sort.Slice(t.checkpoints, func(i, j int) bool {
		return t.checkpoints[i].S < t.checkpoints[j].S
	})
}

// finalize 计算累计长度并校验区段长度之和等于总长
func (t *Track) finalize() {
	t.cumLength = make([]float64, len(t.segments))
	sum := 0.
	for i, seg := range t.segments {
		sum += seg.Length
		t.cumLength[i] = sum
	}
	t.length = sum
	if len(t.segments) > 0 {
		// 标准检查点：起终点线与两个计时分段
		t.checkpoints = nil
		t.AddCheckpoint("start_finish", 0, "Start/Finish")
		t.AddCheckpoint("sector1", t.length*0.33, "Sector 1")
		t.AddCheckpoint("sector2", t.length*0.66, "Sector 2")
	}
	log.Debugf("track %s: %d segments, length %.1fm, %d laps",
		t.name, len(t.segments), t.length, t.laps)
}

// NewOval 创建无几何数据的椭圆退化赛道
// 功能：给定总长与圈数构造单一直道区段的赛道，曲率处处为0
// 说明：用于没有真实坐标数据时的兜底场景与测试
func NewOval(name string, length float64, laps int32) *Track {
	t := &Track{
		name: name,
		laps: laps,
		segments: []Segment{{
			Start:  geometry.Point{},
			End:    geometry.Point{X: length},
			Length: length,
			Kind:   entity.SegmentStraight,
		}},
	}
	t.finalize()
	return t
}
