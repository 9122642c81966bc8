package optimizer_test

import (
	"testing"

	"github.com/shifters-sim/shifters-go/entity/track"
	"github.com/shifters-sim/shifters-go/optimizer"
	"github.com/shifters-sim/shifters-go/utils/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optimizerConfig() config.Optimizer {
	return config.Optimizer{
		PopulationSize: 10,
		MaxGenerations: 5,
		MutationRate:   0.1,
		EliteCount:     2,
		TournamentSize: 3,
	}
}

func candidateTemplate() config.Vehicle {
	return config.Vehicle{
		ID:              1,
		Name:            "candidate",
		Braking:         25,
		CorneringSkill:  0.9,
		GridPosition:    1,
		LapTimeVariance: 0,
	}
}

func opponent(id int32) config.Vehicle {
	return config.Vehicle{
		ID:                  id,
		Name:                "opponent",
		MaxSpeed:            85,
		Acceleration:        13,
		Braking:             25,
		CorneringSkill:      0.88,
		DifferentialPreload: 50,
		EngineBraking:       0.5,
		BrakeBalance:        0.54,
		GridPosition:        id,
		LapTimeVariance:     0,
	}
}

func TestInitializePopulationWithinBounds(t *testing.T) {
	o := optimizer.New(optimizerConfig(), 7)
	o.InitializePopulation()
	require.Len(t, o.Population(), 10)
	for _, ind := range o.Population() {
		g := ind.Genome
		assert.GreaterOrEqual(t, g.DifferentialPreload, 0.)
		assert.LessOrEqual(t, g.DifferentialPreload, 100.)
		assert.GreaterOrEqual(t, g.EngineBraking, 0.)
		assert.LessOrEqual(t, g.EngineBraking, 1.)
		assert.GreaterOrEqual(t, g.BrakeBalance, 0.4)
		assert.LessOrEqual(t, g.BrakeBalance, 0.7)
		assert.GreaterOrEqual(t, g.MaxSpeed, 70.)
		assert.LessOrEqual(t, g.MaxSpeed, 110.)
		assert.GreaterOrEqual(t, g.Acceleration, 10.)
		assert.LessOrEqual(t, g.Acceleration, 18.)
		assert.False(t, ind.Evaluated)
	}
}

func TestFitness(t *testing.T) {
	assert.Zero(t, optimizer.Fitness(optimizer.Result{DNF: true, AvgLapTime: 90}))

	fit := optimizer.Fitness(optimizer.Result{AvgLapTime: 90, BestLapTime: 89, Position: 1})
	assert.InDelta(t, 10000/90.+19*50+100/2., fit, 1e-9)

	// same pace but worse position scores lower
	worse := optimizer.Fitness(optimizer.Result{AvgLapTime: 90, BestLapTime: 89, Position: 5})
	assert.Less(t, worse, fit)
}

func TestRunImprovesAcrossGenerations(t *testing.T) {
	trk := track.NewOval("oval", 2000, 1)
	control := config.Control{DT: 0.1, AmbientTemp: 25}
	eval := optimizer.NewRaceEvaluator(trk, control, candidateTemplate(), []config.Vehicle{opponent(2)})

	o := optimizer.New(optimizerConfig(), 42)
	best := o.Run(eval)
	require.NotNil(t, best)

	history := o.History()
	require.Len(t, history, 5)
	// elite preservation makes the recorded best monotonically non-regressing
	assert.GreaterOrEqual(t, history[4].BestFitness, history[0].BestFitness)
	assert.GreaterOrEqual(t, best.Fitness, history[0].BestFitness)
	assert.False(t, best.Result.DNF)
}
