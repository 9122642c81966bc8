package race_test

import (
	"testing"

	"github.com/shifters-sim/shifters-go/entity"
	"github.com/shifters-sim/shifters-go/entity/track"
	"github.com/shifters-sim/shifters-go/race"
	"github.com/shifters-sim/shifters-go/utils/config"
	"github.com/shifters-sim/shifters-go/utils/randengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVehicle(id int32, maxSpeed float64) config.Vehicle {
	return config.Vehicle{
		ID:                  id,
		Name:                "car",
		MaxSpeed:            maxSpeed,
		Acceleration:        14,
		Braking:             25,
		CorneringSkill:      0.9,
		DifferentialPreload: 50,
		EngineBraking:       0.5,
		BrakeBalance:        0.54,
		GridPosition:        id,
		LapTimeVariance:     0,
	}
}

func testControl() config.Control {
	return config.Control{
		DT:          0.1,
		AmbientTemp: 25,
	}
}

func TestFasterVehicleWins(t *testing.T) {
	// identical setups except B's max speed is 10% lower
	trk := track.NewOval("oval", 5000, 3)
	r := race.New(trk, []config.Vehicle{
		testVehicle(1, 90),
		testVehicle(2, 81),
	}, testControl())

	r.RunToCompletion()
	assert.False(t, r.Running())

	a := r.Manager().GetOrError(1)
	b := r.Manager().GetOrError(2)
	assert.True(t, a.IsFinished())
	assert.True(t, b.IsFinished())
	assert.Less(t, a.TotalTime(), b.TotalTime())
	assert.Equal(t, int32(1), a.Position())

	report := r.GenerateReport(5)
	require.Len(t, report.Results, 2)
	assert.Equal(t, int32(1), report.Results[0].ID)
	assert.GreaterOrEqual(t, report.Results[1].GapToWinner, 0.)
	assert.NotEmpty(t, report.FastestLaps)
}

func TestZeroDNFAllFinish(t *testing.T) {
	trk := track.NewOval("oval", 3000, 2)
	r := race.New(trk, []config.Vehicle{
		testVehicle(1, 90),
		testVehicle(2, 85),
		testVehicle(3, 80),
	}, testControl())

	r.RunToCompletion()

	assert.Empty(t, r.DNFIDs())
	for _, v := range r.Manager().All() {
		assert.True(t, v.IsFinished(), "vehicle %d", v.ID())
		assert.False(t, v.IsDNF())
		assert.Len(t, v.LapRecords(), 2)
	}
}

func TestEveryVehicleFinishesOrRetires(t *testing.T) {
	trk := track.NewOval("oval", 3000, 3)
	vehicles := []config.Vehicle{
		testVehicle(1, 90),
		testVehicle(2, 85),
	}
	vehicles[0].DNFProbability = 1
	vehicles[1].DNFProbability = 1
	r := race.New(trk, vehicles, testControl())

	r.RunToCompletion()
	for _, v := range r.Manager().All() {
		assert.True(t, v.IsFinished() || v.IsDNF())
	}
}

func TestLapTimesUseCalibration(t *testing.T) {
	trk := track.NewOval("oval", 3000, 1)
	r := race.New(trk, []config.Vehicle{testVehicle(1, 90)}, testControl())
	r.RunToCompletion()

	v := r.Manager().GetOrError(1)
	require.Len(t, v.LapRecords(), 1)
	// the recorded lap time carries the calibration factor over elapsed time
	assert.InDelta(t, v.TotalTime()*race.LapTimeCalibration, v.LapRecords()[0].Time, 1)
}

func TestSafetyCarStateMachine(t *testing.T) {
	sc := race.NewSafetyCar(config.SafetyCar{DeployProbability: 1, DurationLaps: 3, SpeedCeiling: 50})
	gen := randengine.New(42)

	require.True(t, sc.CheckDeployment(gen))
	assert.True(t, sc.Active())
	assert.Equal(t, int32(3), sc.LapsRemaining())
	// no double deployment while active
	assert.False(t, sc.CheckDeployment(gen))

	// target speed capped under caution
	assert.LessOrEqual(t, sc.CapTargetSpeed(90, 5), 50.)

	sc.Advance(0.1, 3000)
	assert.Greater(t, sc.S(), 0.)

	for i := 0; i < 3; i++ {
		sc.OnLeaderLap()
	}
	assert.False(t, sc.Active())
}

func TestEnvironmentWaterDecoupledFromWeather(t *testing.T) {
	env := race.NewEnvironment(entity.WeatherRain, 25, 0)
	for i := 0; i < 100; i++ {
		env.UpdateWater(0.1)
	}
	wet := env.WaterLevel()
	assert.Greater(t, wet, 0.)

	// switching to clear dries the track gradually, not instantly
	env.SetWeather(entity.WeatherClear)
	env.UpdateWater(0.1)
	assert.Greater(t, env.WaterLevel(), 0.)
	assert.Less(t, env.WaterLevel(), wet)

	for i := 0; i < 100000; i++ {
		env.UpdateWater(0.1)
	}
	assert.Zero(t, env.WaterLevel())
}

func TestWeatherTransition(t *testing.T) {
	env := race.NewEnvironment(entity.WeatherClear, 25, 1)
	gen := randengine.New(1)
	assert.True(t, env.MaybeTransition(gen))
	assert.Equal(t, entity.WeatherRain, env.Weather())
	assert.True(t, env.MaybeTransition(gen))
	assert.Equal(t, entity.WeatherClear, env.Weather())

	env.SetRainProbability(0)
	assert.False(t, env.MaybeTransition(gen))
}

func TestSnapshotShape(t *testing.T) {
	trk := track.NewOval("oval", 3000, 2)
	r := race.New(trk, []config.Vehicle{testVehicle(1, 90)}, testControl())
	for i := 0; i < 10; i++ {
		r.Step()
	}

	snap := r.TakeSnapshot()
	assert.Equal(t, int32(race.SnapshotVersion), snap.Version)
	assert.True(t, snap.Running)
	assert.Equal(t, "oval", snap.Env.TrackName)
	require.Len(t, snap.Vehicles, 1)
	assert.Greater(t, snap.Vehicles[0].V, 0.)
	assert.False(t, snap.SafetyCar.Active)
}
