package optimizer

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/utils/config"
	"github.com/shifters-sim/shifters-go/utils/randengine"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "optimizer")

const mutationSpan = 0.1 // 变异扰动幅度占基因取值范围的比例

// Evaluator 种群评估接口
// 功能：对一批未评估的个体各自跑完一场比赛并填入结果
type Evaluator interface {
	Evaluate(individuals []*Individual)
}

// GenerationStats 每代的统计记录
type GenerationStats struct {
	Generation  int32   // 代数（0开始）
	BestFitness float64 // 本代最佳适应度
	MeanFitness float64 // 本代平均适应度
	Best        Genome  // 本代最佳参数向量
}

// Optimizer 进化优化器
// 功能：维护固定规模的参数向量种群，以完整比赛为适应度
// 预言机，通过精英保留、锦标赛选择、混合交叉与逐基因变异
// 搜索更快的调校
type Optimizer struct {
	cfg       config.Optimizer
	generator *randengine.Engine

	population []*Individual
	generation int32
	history    []GenerationStats
}

// New 创建优化器
// 参数：cfg-优化器配置，seed-随机数种子
func New(cfg config.Optimizer, seed uint64) *Optimizer {
	if cfg.EliteCount >= cfg.PopulationSize {
		log.Fatalf("optimizer: elite count %d must be less than population size %d",
			cfg.EliteCount, cfg.PopulationSize)
	}
	return &Optimizer{
		cfg:       cfg,
		generator: randengine.New(seed),
	}
}

// Population 获取当前种群
func (o *Optimizer) Population() []*Individual { return o.population }

// Generation 获取当前代数
func (o *Optimizer) Generation() int32 { return o.generation }

// History 获取每代统计记录
func (o *Optimizer) History() []GenerationStats { return o.history }

// InitializePopulation 初始化种群
// 功能：在各基因的固定边界内均匀随机生成全部个体
func (o *Optimizer) InitializePopulation() {
	o.population = make([]*Individual, o.cfg.PopulationSize)
	for i := range o.population {
		var vals [geneCount]float64
		for g := range vals {
			vals[g] = o.generator.Uniform(geneBounds[g].low, geneBounds[g].high)
		}
		o.population[i] = &Individual{Genome: genomeFromGenes(vals)}
	}
	o.generation = 0
	o.history = o.history[:0]
}

// Fitness 计算个体适应度
// 功能：由比赛结果摘要计算适应度，退赛个体为0
// 算法说明：10000/平均圈速 + (20-名次)·50 + 100/(1+|平均-最快|)，
// 同时奖励绝对速度、名次与圈速稳定性
func Fitness(res Result) float64 {
	if res.DNF || res.AvgLapTime <= 0 || math.IsInf(res.AvgLapTime, 0) {
		return 0
	}
	return 10000/res.AvgLapTime +
		float64(20-res.Position)*50 +
		100/(1+math.Abs(res.AvgLapTime-res.BestLapTime))
}

// EvolveGeneration 演化一代
// 功能：按适应度降序排序，精英原样保留，其余位置由
// 锦标赛选择两个亲本、混合交叉产生子代并逐基因变异填充
func (o *Optimizer) EvolveGeneration() {
	sort.SliceStable(o.population, func(i, j int) bool {
		return o.population[i].Fitness > o.population[j].Fitness
	})
	o.generation++

	next := make([]*Individual, 0, len(o.population))
	for i := int32(0); i < o.cfg.EliteCount; i++ {
		next = append(next, o.population[i])
	}
	for int32(len(next)) < o.cfg.PopulationSize {
		p1 := o.tournament()
		p2 := o.tournament()
		child := o.crossover(p1, p2)
		o.mutate(child)
		child.Generation = o.generation
		next = append(next, child)
	}
	o.population = next
}

// tournament 锦标赛选择：随机抽样若干个体取最优
func (o *Optimizer) tournament() *Individual {
	best := o.population[o.generator.Intn(len(o.population))]
	for i := int32(1); i < o.cfg.TournamentSize; i++ {
		c := o.population[o.generator.Intn(len(o.population))]
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}

// crossover 混合交叉：child = α·p1 + (1-α)·p2，每个子代独立抽取α
func (o *Optimizer) crossover(p1, p2 *Individual) *Individual {
	alpha := o.generator.Float64()
	g1 := p1.Genome.genes()
	g2 := p2.Genome.genes()
	var vals [geneCount]float64
	for i := range vals {
		vals[i] = alpha*g1[i] + (1-alpha)*g2[i]
	}
	return &Individual{Genome: genomeFromGenes(vals)}
}

// mutate 逐基因变异：各基因独立按变异概率施加有界均匀扰动后钳制
func (o *Optimizer) mutate(ind *Individual) {
	vals := ind.Genome.genes()
	for i := range vals {
		if !o.generator.PTrue(o.cfg.MutationRate) {
			continue
		}
		span := (geneBounds[i].high - geneBounds[i].low) * mutationSpan
		vals[i] += o.generator.Uniform(-span, span)
	}
	ind.Genome = genomeFromGenes(vals)
}

// recordStats 记录本代统计
func (o *Optimizer) recordStats() {
	best := lo.MaxBy(o.population, func(a, b *Individual) bool {
		return a.Fitness > b.Fitness
	})
	mean := lo.SumBy(o.population, func(ind *Individual) float64 {
		return ind.Fitness
	}) / float64(len(o.population))
	o.history = append(o.history, GenerationStats{
		Generation:  o.generation,
		BestFitness: best.Fitness,
		MeanFitness: mean,
		Best:        best.Genome,
	})
	log.Infof("generation %d: best fitness %.2f, mean %.2f", o.generation, best.Fitness, mean)
}

// Run 运行完整的优化流程
// 功能：初始化种群后循环评估与演化，直至代数达到上限或
// 最佳适应度达到可选目标
// 参数：evaluator-比赛评估器
// 返回：全程最佳个体
func (o *Optimizer) Run(evaluator Evaluator) *Individual {
	o.InitializePopulation()
	var best *Individual
	for {
		pending := lo.Filter(o.population, func(ind *Individual, _ int) bool {
			return !ind.Evaluated
		})
		evaluator.Evaluate(pending)
		for _, ind := range pending {
			ind.Fitness = Fitness(ind.Result)
			ind.Evaluated = true
		}
		o.recordStats()

		genBest := lo.MaxBy(o.population, func(a, b *Individual) bool {
			return a.Fitness > b.Fitness
		})
		if best == nil || genBest.Fitness > best.Fitness {
			best = genBest
		}
		if o.cfg.TargetFitness > 0 && best.Fitness >= o.cfg.TargetFitness {
			break
		}
		if o.generation >= o.cfg.MaxGenerations-1 {
			break
		}
		o.EvolveGeneration()
	}
	return best
}
