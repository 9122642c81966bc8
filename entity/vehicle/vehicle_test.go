package vehicle

import (
	"testing"

	"github.com/shifters-sim/shifters-go/clock"
	"github.com/shifters-sim/shifters-go/entity"
	"github.com/shifters-sim/shifters-go/entity/track"
	"github.com/shifters-sim/shifters-go/utils/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCtx struct {
	clk *clock.Clock
	trk entity.ITrack
}

func (c *stubCtx) Clock() *clock.Clock  { return c.clk }
func (c *stubCtx) Track() entity.ITrack { return c.trk }

func testCtx() *stubCtx {
	return &stubCtx{
		clk: clock.New(0.1),
		trk: track.NewOval("test", 5000, 3),
	}
}

func baseConfig(id int32) config.Vehicle {
	return config.Vehicle{
		ID:                  id,
		Name:                "test",
		MaxSpeed:            90,
		Acceleration:        14,
		Braking:             25,
		CorneringSkill:      0.9,
		DifferentialPreload: 50,
		EngineBraking:       0.5,
		BrakeBalance:        0.54,
		GridPosition:        1,
		LapTimeVariance:     0,
	}
}

func newTestVehicle(t *testing.T, base config.Vehicle) *Vehicle {
	t.Helper()
	m := NewManager(testCtx(), []config.Vehicle{base})
	return m.GetOrError(base.ID)
}

func TestStraightTargetSpeedCapped(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))
	target := v.ComputeTargetSpeed(0, entity.WeatherClear, 25, 0)
	assert.LessOrEqual(t, target, v.MaxSpeed())
	// even with a degraded state the straight target never exceeds the cap
	v.runtime.Damage = 50
	v.runtime.BatterySoC = 5
	assert.LessOrEqual(t, v.ComputeTargetSpeed(0, entity.WeatherClear, 25, 0), v.MaxSpeed())
}

func TestComputeTargetSpeedIdempotent(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))
	v.runtime.V = 40
	a := v.ComputeTargetSpeed(0.02, entity.WeatherClear, 25, 0)
	b := v.ComputeTargetSpeed(0.02, entity.WeatherClear, 25, 0)
	assert.Equal(t, a, b)
}

func TestCornerTargetSlowerThanStraight(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))
	v.runtime.V = 60
	straight := v.ComputeTargetSpeed(0, entity.WeatherClear, 25, 0)
	tight := v.ComputeTargetSpeed(0.05, entity.WeatherClear, 25, 0)
	assert.Less(t, tight, straight)
	// wet track degrades slick grip further
	wet := v.ComputeTargetSpeed(0.05, entity.WeatherRain, 25, 50)
	assert.Less(t, wet, tight)
}

func TestSetterClamping(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))

	v.UpdateDifferentialPreload(150)
	assert.Equal(t, 100., v.differentialPreload)
	v.UpdateDifferentialPreload(-10)
	assert.Equal(t, 0., v.differentialPreload)

	v.UpdateEngineBraking(2)
	assert.Equal(t, 1., v.engineBraking)

	v.UpdateBrakeBalance(0.9)
	assert.Equal(t, 0.7, v.brakeBalance)
	v.UpdateBrakeBalance(0.1)
	assert.Equal(t, 0.4, v.brakeBalance)

	old := v.maxSpeed
	v.UpdateMaxSpeed(-5)
	assert.Equal(t, old, v.maxSpeed)
	v.UpdateMaxSpeed(95)
	assert.Equal(t, 95., v.maxSpeed)
}

func TestPreloadOptimumAt50(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))
	v.runtime.V = 50

	v.UpdateDifferentialPreload(50)
	best := v.tractionFactor(0) // zero curvature: low wheel-speed differential
	for preload := 0.; preload <= 100; preload += 5 {
		v.UpdateDifferentialPreload(preload)
		assert.GreaterOrEqual(t, best, v.tractionFactor(0), "preload %.0f", preload)
	}
}

func TestBrakeLockup(t *testing.T) {
	base := baseConfig(1)
	base.BrakeBalance = 0.7
	v := newTestVehicle(t, base)
	v.runtime.V = 30

	actual := v.computeBrakeDistribution(25)
	assert.True(t, v.runtime.FrontLocked)
	assert.Less(t, v.runtime.BrakeEfficiency, 1.)
	assert.Less(t, actual, 25.)

	// the same demand with a balanced setup at speed does not lock
	b := newTestVehicle(t, baseConfig(2))
	b.runtime.V = 80
	b.computeBrakeDistribution(25)
	assert.False(t, b.runtime.FrontLocked)
	assert.False(t, b.runtime.RearLocked)
	assert.Greater(t, b.runtime.BrakeEfficiency, v.runtime.BrakeEfficiency)
}

func TestBalancedBrakingScenario(t *testing.T) {
	// preload 50, engine braking 0.5, balance 0.54, braking 80 -> 20 m/s
	// over one 0.1s step behaves nominally
	v := newTestVehicle(t, baseConfig(1))
	v.runtime.V = 80
	v.SetTargetV(20)
	v.IntegrateStep(0.1, 5000, 0, 25)

	assert.False(t, v.runtime.FrontLocked)
	assert.False(t, v.runtime.RearLocked)
	assert.GreaterOrEqual(t, v.runtime.BrakeEfficiency, 0.9)
	assert.Less(t, v.runtime.V, 80.)
}

func TestClampInvariants(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))
	v.runtime.V = 80
	v.SetTargetV(85)
	for i := 0; i < 10000; i++ {
		v.IntegrateStep(0.1, 5000, 0.03, 25)
		assert.GreaterOrEqual(t, v.runtime.TireWear, 0.)
		assert.LessOrEqual(t, v.runtime.TireWear, 100.)
		assert.GreaterOrEqual(t, v.runtime.BatterySoC, 0.)
		assert.LessOrEqual(t, v.runtime.BatterySoC, 100.)
		assert.GreaterOrEqual(t, v.runtime.Damage, 0.)
		assert.LessOrEqual(t, v.runtime.Damage, 100.)
	}
}

func TestPositionWrapsOncePerCrossing(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))
	v.runtime.S = 4995
	v.runtime.V = 80
	v.SetTargetV(80)
	v.IntegrateStep(0.1, 5000, 0, 25)

	assert.True(t, v.runtime.JustCrossedLine)
	assert.Less(t, v.runtime.S, 5000.)
	// flag is consumed on the next step
	v.IntegrateStep(0.1, 5000, 0, 25)
	assert.False(t, v.runtime.JustCrossedLine)
}

func TestPitStopResets(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))
	v.runtime.V = 60
	v.runtime.TireWear = 80
	v.runtime.TireTemp = 100
	v.runtime.Damage = 40

	v.PitStop(entity.CompoundHard)
	assert.True(t, v.runtime.InPit)
	assert.GreaterOrEqual(t, v.runtime.PitRemaining, 18.)
	assert.LessOrEqual(t, v.runtime.PitRemaining, 45.)
	assert.Zero(t, v.runtime.V)
	assert.Zero(t, v.runtime.TireWear)
	assert.Equal(t, 25., v.runtime.TireTemp)
	assert.Equal(t, 20., v.runtime.Damage)
	assert.Equal(t, entity.CompoundHard, v.runtime.Compound)
	assert.Equal(t, int32(1), v.runtime.PitCount)

	// the vehicle does not move while in the pit
	s := v.runtime.S
	v.IntegrateStep(0.1, 5000, 0, 25)
	assert.Equal(t, s, v.runtime.S)

	// it leaves the pit once remaining time runs out
	for i := 0; i < 500; i++ {
		v.IntegrateStep(0.1, 5000, 0, 25)
	}
	assert.False(t, v.runtime.InPit)
}

func TestShouldPitStop(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))
	assert.False(t, v.ShouldPitStop(0))

	v.runtime.TireWear = 75
	assert.True(t, v.ShouldPitStop(0))
	v.runtime.TireWear = 0

	v.runtime.Damage = 60
	assert.True(t, v.ShouldPitStop(0))
	v.runtime.Damage = 0

	// slicks on a flooded track
	assert.True(t, v.ShouldPitStop(50))

	// planned pit lap with moderate wear
	v.runtime.Lap = v.plannedPitLap
	v.runtime.TireWear = 40
	assert.True(t, v.ShouldPitStop(0))
}

func TestCheckSlipstream(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))
	v.runtime.V = 60
	v.runtime.S = 100

	// a faster vehicle 15m ahead grants slipstream
	v.CheckSlipstream([]entity.VehicleObservation{
		{ID: 2, S: 115, V: 70},
	}, 5000)
	assert.True(t, v.runtime.Slipstream)

	// a slower one does not
	v.CheckSlipstream([]entity.VehicleObservation{
		{ID: 2, S: 115, V: 50},
	}, 5000)
	assert.False(t, v.runtime.Slipstream)

	// out of range
	v.CheckSlipstream([]entity.VehicleObservation{
		{ID: 2, S: 200, V: 70},
	}, 5000)
	assert.False(t, v.runtime.Slipstream)

	// wrap across the start line
	v.runtime.S = 4995
	v.CheckSlipstream([]entity.VehicleObservation{
		{ID: 2, S: 5, V: 70},
	}, 5000)
	assert.True(t, v.runtime.Slipstream)
}

func TestDRSOnlyOnStraights(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))
	v.ActivateDRS(0.01, false)
	assert.False(t, v.runtime.DRS)
	v.ActivateDRS(0, true)
	assert.False(t, v.runtime.DRS)
	v.ActivateDRS(0, false)
	assert.True(t, v.runtime.DRS)
	v.DeactivateDRS()
	assert.False(t, v.runtime.DRS)
}

func TestCompleteLap(t *testing.T) {
	v := newTestVehicle(t, baseConfig(1))
	v.runtime.LapElapsed = 90
	v.CompleteLap(126, entity.WeatherClear)

	assert.Equal(t, int32(1), v.runtime.Lap)
	require.Len(t, v.lapRecords, 1)
	assert.Equal(t, 126., v.lapRecords[0].Time)
	assert.Zero(t, v.runtime.LapElapsed)

	assert.Equal(t, 126., v.BestLapTime())
	v.CompleteLap(120, entity.WeatherClear)
	assert.Equal(t, 120., v.BestLapTime())
	assert.Equal(t, 123., v.AvgLapTime())
}

func TestManagerRetire(t *testing.T) {
	m := NewManager(testCtx(), []config.Vehicle{baseConfig(1), baseConfig(2)})
	require.Equal(t, 2, m.Len())
	assert.Len(t, m.Active(), 2)

	v := m.GetOrError(1)
	v.MarkDNF()
	m.Retire(v)
	// removal is deferred to the next prepare
	assert.Len(t, m.Active(), 2)
	m.Prepare()
	assert.Len(t, m.Active(), 1)
	assert.Equal(t, int32(2), m.Active()[0].ID())

	// retired vehicles stay reachable by id
	_, err := m.Get(1)
	assert.NoError(t, err)
}
