package track

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/shifters-sim/shifters-go/entity"
	"github.com/wroge/wgs84"
)

// 区段分类的曲率阈值（1/米）
const (
	straightCurvatureMax = 0.002 // 低于此值视为直道
	chicaneCurvatureMin  = 0.05  // 高于此值视为连续弯
)

// NewTrackFromCoords 从经纬度折线构造闭合赛道
// 功能：将WGS84经纬度折线投影到局部平面，按Menger曲率公式计算
// 各顶点曲率并生成闭合区段序列
// 参数：
//
//	name-赛道名称
//	coords-经纬度折线，每项为[lon, lat]
//	laps-比赛圈数
//
// 返回：构造完成的赛道，坐标点数不足2时返回错误
// 算法说明：
//  1. 以首点纬度的余弦修正Web墨卡托投影的尺度失真，得到米制平面坐标；
//  2. 对每个顶点取前后相邻顶点（首尾回绕）计算Menger曲率4A/(abc)，
//     以叉积符号区分左右弯；
//  3. 末段连接末点与首点使路径闭合，区段曲率取两端顶点曲率的均值；
//  4. 按曲率大小将区段分类为直道、弯道或连续弯
func NewTrackFromCoords(name string, coords [][2]float64, laps int32) (*Track, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("track %s: need at least 2 coordinates, got %d", name, len(coords))
	}
	points := projectCoords(coords)
	n := len(points)
	// 若首末点重合则去掉重复末点，闭合段由回绕逻辑补上
	if n > 2 && distance(points[0], points[n-1]) < 1e-6 {
		points = points[:n-1]
		n--
	}
	if n < 2 {
		return nil, fmt.Errorf("track %s: degenerate polyline after closing", name)
	}

	// 顶点曲率（首尾回绕取相邻点）
	vertexCurv := make([]float64, n)
	if n >= 3 {
		for i := 0; i < n; i++ {
			prev := points[(i-1+n)%n]
			next := points[(i+1)%n]
			vertexCurv[i] = mengerCurvature(prev, points[i], next)
		}
	}

	segments := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		start := points[i]
		end := points[(i+1)%n]
		length := distance(start, end)
		if length < 1e-9 {
			continue
		}
		curv := (vertexCurv[i] + vertexCurv[(i+1)%n]) / 2
		segments = append(segments, Segment{
			Start:     start,
			End:       end,
			Length:    length,
			Curvature: curv,
			Kind:      classifySegment(curv),
		})
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("track %s: all segments degenerate", name)
	}

	t := &Track{name: name, laps: laps, segments: segments}
	t.finalize()
	return t, nil
}

// projectCoords 将经纬度折线投影为局部米制平面坐标
// 算法说明：EPSG:4326到EPSG:3857的Web墨卡托投影在纬度φ处有1/cos(φ)的
// 尺度失真，乘以首点纬度的余弦后恢复真实距离，再平移到首点为原点
func projectCoords(coords [][2]float64) []geometry.Point {
	transform := wgs84.EPSG().Transform(4326, 3857)
	scale := math.Cos(coords[0][1] * math.Pi / 180)
	x0, y0, _ := transform(coords[0][0], coords[0][1], 0)
	points := make([]geometry.Point, len(coords))
	for i, c := range coords {
		x, y, _ := transform(c[0], c[1], 0)
		points[i] = geometry.Point{
			X: (x - x0) * scale,
			Y: (y - y0) * scale,
		}
	}
	return points
}

// mengerCurvature 三点Menger曲率
// 功能：计算三点外接圆半径的倒数4A/(abc)，以叉积符号区分弯向
// 返回：带符号曲率，共线或点重合时为0
func mengerCurvature(p1, p2, p3 geometry.Point) float64 {
	a := distance(p1, p2)
	b := distance(p2, p3)
	c := distance(p1, p3)
	if a < 1e-9 || b < 1e-9 || c < 1e-9 {
		return 0
	}
	// 叉积的一半为有向面积
	cross := (p2.X-p1.X)*(p3.Y-p1.Y) - (p2.Y-p1.Y)*(p3.X-p1.X)
	area := cross / 2
	return 4 * area / (a * b * c)
}

func distance(p1, p2 geometry.Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// classifySegment 按曲率大小分类区段
func classifySegment(curv float64) entity.SegmentKind {
	abs := math.Abs(curv)
	switch {
	case abs < straightCurvatureMax:
		return entity.SegmentStraight
	case abs > chicaneCurvatureMin:
		return entity.SegmentChicane
	default:
		return entity.SegmentCorner
	}
}
