package optimizer

import (
	"github.com/samber/lo"
)

// 基因在向量中的位置
const (
	geneDifferentialPreload = iota
	geneEngineBraking
	geneBrakeBalance
	geneMaxSpeed
	geneAcceleration
	geneCount
)

// geneBound 单个基因的取值范围
type geneBound struct {
	low, high float64
}

// 各基因的固定边界
var geneBounds = [geneCount]geneBound{
	geneDifferentialPreload: {0, 100},
	geneEngineBraking:       {0, 1},
	geneBrakeBalance:        {0.4, 0.7},
	geneMaxSpeed:            {70, 110},
	geneAcceleration:        {10, 18},
}

// Genome 可调参数向量
type Genome struct {
	DifferentialPreload float64 // 差速器预载（0~100）
	EngineBraking       float64 // 发动机制动强度（0~1）
	BrakeBalance        float64 // 前轴制动力分配比例（0.4~0.7）
	MaxSpeed            float64 // 最高速度（米/秒）
	Acceleration        float64 // 加速度（米/秒²）
}

// genes 展开为基因向量
func (g Genome) genes() [geneCount]float64 {
	return [geneCount]float64{
		geneDifferentialPreload: g.DifferentialPreload,
		geneEngineBraking:       g.EngineBraking,
		geneBrakeBalance:        g.BrakeBalance,
		geneMaxSpeed:            g.MaxSpeed,
		geneAcceleration:        g.Acceleration,
	}
}

// genomeFromGenes 由基因向量还原，逐基因钳制到边界
func genomeFromGenes(vals [geneCount]float64) Genome {
	for i := range vals {
		vals[i] = lo.Clamp(vals[i], geneBounds[i].low, geneBounds[i].high)
	}
	return Genome{
		DifferentialPreload: vals[geneDifferentialPreload],
		EngineBraking:       vals[geneEngineBraking],
		BrakeBalance:        vals[geneBrakeBalance],
		MaxSpeed:            vals[geneMaxSpeed],
		Acceleration:        vals[geneAcceleration],
	}
}

// Result 单场比赛的评估结果摘要
type Result struct {
	AvgLapTime  float64 // 平均圈速（秒）
	BestLapTime float64 // 最快圈速（秒）
	Position    int32   // 最终名次
	DNF         bool    // 是否退赛
}

// Individual 种群中的一个个体
// 说明：比赛评估完成后结果与适应度不再变化，
// 精英个体跨代保留时无需重新评估
type Individual struct {
	Genome     Genome  // 参数向量
	Result     Result  // 比赛结果摘要
	Fitness    float64 // 适应度
	Generation int32   // 产生该个体的代数
	Evaluated  bool    // 是否已完成评估
}
