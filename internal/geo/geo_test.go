package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistanceZeroForSamePoint(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{37.335, -121.881},
		{-90, 180},
		{90, -180},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, HaversineDistanceMeters(p[0], p[1], p[0], p[1]))
	}
}

func TestHaversineDistanceSymmetric(t *testing.T) {
	d1 := HaversineDistanceMeters(37.335, -121.881, 37.3362, -121.8815)
	d2 := HaversineDistanceMeters(37.3362, -121.8815, 37.335, -121.881)
	assert.InDelta(t, d1, d2, 1e-9)
	assert.Greater(t, d1, 0.0)
}

func TestHaversineKnownDistance(t *testing.T) {
	// One degree of latitude is roughly 111.2 km.
	d := HaversineDistanceMeters(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 100)
}

func TestDecayedRiskScoreAtZeroMinutesIsSeverity(t *testing.T) {
	for _, severity := range []float64{1, 2, 3, 4, 5} {
		assert.Equal(t, severity, DecayedRiskScore(severity, 0))
	}
}

func TestDecayedRiskScoreStrictlyDecreases(t *testing.T) {
	prev := DecayedRiskScore(5, 0)
	for _, minutes := range []float64{1, 30, 60, 120, 360, 1440} {
		score := DecayedRiskScore(5, minutes)
		assert.Less(t, score, prev)
		assert.Greater(t, score, 0.0)
		prev = score
	}
}

func TestDecayedRiskScoreSixtyMinutes(t *testing.T) {
	// severity 5 at 60 minutes old decays to 5 * e^(-0.5).
	score := Round2(DecayedRiskScore(5, 60))
	assert.Equal(t, 3.03, score)
}

func TestDecayedRiskScoreNeverExactlyZero(t *testing.T) {
	// A week-old incident still carries a vanishing but nonzero score.
	score := DecayedRiskScore(1, 7*24*60)
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 1e-30)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.03, Round2(3.0326533))
	assert.Equal(t, 3.03, Round2(3.034999))
	assert.Equal(t, 3.04, Round2(3.035001))
}
