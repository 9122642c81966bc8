package optimizer

import (
	"git.fiblab.net/general/common/v2/parallel"
	"github.com/shifters-sim/shifters-go/entity"
	"github.com/shifters-sim/shifters-go/race"
	"github.com/shifters-sim/shifters-go/utils/config"
)

// RaceEvaluator 以完整比赛为适应度预言机的评估器
// 功能：为每个个体构造一场比赛（候选车+固定对手阵容），
// 跑完后把候选车的成绩写回个体
// 说明：每场比赛独立持有自己的车辆与编排器实例，赛道只读共享，
// 因此个体之间可以并行评估
type RaceEvaluator struct {
	trk       entity.ITrack
	control   config.Control
	candidate config.Vehicle   // 候选车的配置模板，基因覆盖其中的可调字段
	opponents []config.Vehicle // 固定对手阵容
}

// NewRaceEvaluator 创建比赛评估器
// 参数：trk-赛道，control-比赛过程控制配置，
// candidate-候选车配置模板，opponents-对手阵容
// 说明：对手的退赛概率被清零，避免安全车等随机事件
// 淹没候选参数本身的影响
func NewRaceEvaluator(trk entity.ITrack, control config.Control, candidate config.Vehicle, opponents []config.Vehicle) *RaceEvaluator {
	cleaned := make([]config.Vehicle, len(opponents))
	copy(cleaned, opponents)
	for i := range cleaned {
		cleaned[i].DNFProbability = 0
	}
	return &RaceEvaluator{
		trk:       trk,
		control:   control,
		candidate: candidate,
		opponents: cleaned,
	}
}

// Evaluate 并行评估一批个体
func (e *RaceEvaluator) Evaluate(individuals []*Individual) {
	parallel.GoFor(individuals, func(ind *Individual) {
		e.evaluateOne(ind)
	})
}

// evaluateOne 为单个个体跑一场完整比赛并写回结果
func (e *RaceEvaluator) evaluateOne(ind *Individual) {
	candidate := e.candidate
	candidate.DifferentialPreload = ind.Genome.DifferentialPreload
	candidate.EngineBraking = ind.Genome.EngineBraking
	candidate.BrakeBalance = ind.Genome.BrakeBalance
	candidate.MaxSpeed = ind.Genome.MaxSpeed
	candidate.Acceleration = ind.Genome.Acceleration

	vehicles := append([]config.Vehicle{candidate}, e.opponents...)
	r := race.New(e.trk, vehicles, e.control)
	r.RunToCompletion()

	v := r.Manager().GetOrError(candidate.ID)
	ind.Result = Result{
		AvgLapTime:  v.AvgLapTime(),
		BestLapTime: v.BestLapTime(),
		Position:    v.Position(),
		DNF:         v.IsDNF(),
	}
}
