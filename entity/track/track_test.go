package track_test

import (
	"math"
	"testing"

	"github.com/shifters-sim/shifters-go/entity"
	"github.com/shifters-sim/shifters-go/entity/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareCoords returns a roughly 1km-per-side square circuit near the equator.
func squareCoords() [][2]float64 {
	const d = 0.009 // about 1km in degrees at the equator
	return [][2]float64{
		{0, 0},
		{d, 0},
		{d, d},
		{0, d},
	}
}

func TestNewTrackFromCoordsTooFewPoints(t *testing.T) {
	_, err := track.NewTrackFromCoords("bad", [][2]float64{{0, 0}}, 3)
	assert.Error(t, err)

	_, err = track.NewTrackFromCoords("bad", nil, 3)
	assert.Error(t, err)
}

func TestNewTrackFromCoordsClosure(t *testing.T) {
	tr, err := track.NewTrackFromCoords("square", squareCoords(), 3)
	require.NoError(t, err)

	// closing segment is added: 4 vertices -> 4 segments
	assert.Len(t, tr.Segments(), 4)

	sum := 0.
	for _, seg := range tr.Segments() {
		sum += seg.Length
	}
	assert.InDelta(t, tr.Length(), sum, 1e-9)
	// each side is about 1km
	assert.InDelta(t, 4000, tr.Length(), 100)

	// path is closed: last segment ends at the first segment's start
	segs := tr.Segments()
	last := segs[len(segs)-1]
	assert.InDelta(t, segs[0].Start.X, last.End.X, 1e-9)
	assert.InDelta(t, segs[0].Start.Y, last.End.Y, 1e-9)
}

func TestNewTrackFromCoordsDuplicateClosingPoint(t *testing.T) {
	coords := append(squareCoords(), [2]float64{0, 0})
	tr, err := track.NewTrackFromCoords("square", coords, 3)
	require.NoError(t, err)
	// the duplicated closing point must not create a zero-length segment
	assert.Len(t, tr.Segments(), 4)
}

func TestCurvatureAtWraps(t *testing.T) {
	tr, err := track.NewTrackFromCoords("square", squareCoords(), 3)
	require.NoError(t, err)

	for _, s := range []float64{100, 100 + tr.Length(), 100 + 2*tr.Length()} {
		assert.Equal(t, tr.CurvatureAt(100), tr.CurvatureAt(s))
	}
	// negative s also wraps
	assert.Equal(t, tr.CurvatureAt(tr.Length()-50), tr.CurvatureAt(-50))
}

func TestSegmentClassification(t *testing.T) {
	// Menger curvature over 1km legs smooths the square's corners out,
	// so the coarse square reads as near-straight
	tr, err := track.NewTrackFromCoords("square", squareCoords(), 3)
	require.NoError(t, err)
	for _, seg := range tr.Segments() {
		assert.Equal(t, entity.SegmentStraight, seg.Kind)
		assert.Greater(t, math.Abs(seg.Curvature), 0.)
	}

	// a dense 100m-radius circle yields curvature about 0.01 everywhere,
	// which classifies as corner
	const r = 100.
	const degPerMeter = 1 / 111319.49
	circle := make([][2]float64, 36)
	for i := range circle {
		theta := float64(i) / 36 * 2 * math.Pi
		circle[i] = [2]float64{
			r * math.Cos(theta) * degPerMeter,
			r * math.Sin(theta) * degPerMeter,
		}
	}
	tr, err = track.NewTrackFromCoords("circle", circle, 1)
	require.NoError(t, err)
	for _, seg := range tr.Segments() {
		assert.Equal(t, entity.SegmentCorner, seg.Kind)
		assert.InDelta(t, 1/r, math.Abs(seg.Curvature), 0.002)
	}
}

func TestOvalTrack(t *testing.T) {
	tr := track.NewOval("oval", 5000, 3)
	assert.Equal(t, "oval", tr.Name())
	assert.Equal(t, 5000., tr.Length())
	assert.Equal(t, int32(3), tr.Laps())
	for _, s := range []float64{0, 1000, 4999, 5000, 12345} {
		assert.Zero(t, tr.CurvatureAt(s))
	}
	require.Len(t, tr.Segments(), 1)
	assert.Equal(t, entity.SegmentStraight, tr.Segments()[0].Kind)
}

func TestCheckpoints(t *testing.T) {
	tr := track.NewOval("oval", 3000, 1)
	cps := tr.Checkpoints()
	require.Len(t, cps, 3)
	assert.Equal(t, "start_finish", cps[0].ID)
	assert.InDelta(t, 3000*0.33, cps[1].S, 1e-9)
	assert.InDelta(t, 3000*0.66, cps[2].S, 1e-9)
}
