package track

import (
	"encoding/json"
	"fmt"
	"os"

	geom "github.com/peterstace/simplefeatures/geom"
)

// LoadGeoJSON 从GeoJSON文件加载赛道折线
// 功能：读取GeoJSON文件并提取第一条LineString的经纬度坐标序列，
// 支持裸几何对象与FeatureCollection两种格式
// 参数：path-GeoJSON文件路径
// 返回：经纬度折线，每项为[lon, lat]
func LoadGeoJSON(path string) ([][2]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geojson %s: %w", path, err)
	}
	g, err := geom.UnmarshalGeoJSON(data)
	if err != nil {
		// 裸几何解析失败，尝试FeatureCollection
		var fc geom.GeoJSONFeatureCollection
		if jsonErr := json.Unmarshal(data, &fc); jsonErr != nil {
			return nil, fmt.Errorf("parse geojson %s: %w", path, err)
		}
		for _, f := range fc {
			if ls, ok := firstLineString(f.Geometry); ok {
				return sequenceToCoords(ls), nil
			}
		}
		return nil, fmt.Errorf("geojson %s: no LineString feature found", path)
	}
	ls, ok := firstLineString(g)
	if !ok {
		return nil, fmt.Errorf("geojson %s: no LineString geometry found", path)
	}
	return sequenceToCoords(ls), nil
}

func sequenceToCoords(ls geom.LineString) [][2]float64 {
	seq := ls.Coordinates()
	coords := make([][2]float64, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		coords[i] = [2]float64{xy.X, xy.Y}
	}
	return coords
}

// firstLineString 在几何对象中查找第一条LineString
func firstLineString(g geom.Geometry) (geom.LineString, bool) {
	if ls, ok := g.AsLineString(); ok {
		return ls, true
	}
	if mls, ok := g.AsMultiLineString(); ok && mls.NumLineStrings() > 0 {
		return mls.LineStringN(0), true
	}
	if gc, ok := g.AsGeometryCollection(); ok {
		for i := 0; i < gc.NumGeometries(); i++ {
			if ls, ok := firstLineString(gc.GeometryN(i)); ok {
				return ls, true
			}
		}
	}
	return geom.LineString{}, false
}
