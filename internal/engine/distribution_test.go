package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

func TestGradeDistributionCountsAndPercents(t *testing.T) {
	grades := []float64{97, 92, 88, 82, 76, 60, 60}
	dist := GradeDistribution(grades, DefaultGradeBins())

	require.Len(t, dist.Bins, 6)
	assert.Equal(t, 7, dist.Total)

	counts := make(map[string]int, len(dist.Bins))
	for _, bin := range dist.Bins {
		counts[bin.Label] = bin.Count
	}
	assert.Equal(t, 1, counts["95-100"])
	assert.Equal(t, 1, counts["90-94"])
	assert.Equal(t, 2, counts["0-74"])
}

func TestGradeDistributionPercentagesCloseTo100(t *testing.T) {
	// One grade per bin: naive rounding gives 16.67 * 6 = 100.02; the
	// residue adjustment must close the books to 100 within 0.01.
	grades := []float64{97, 92, 88, 82, 76, 60}
	dist := GradeDistribution(grades, DefaultGradeBins())

	sum := 0.0
	for _, bin := range dist.Bins {
		sum += bin.Percent
	}
	assert.InDelta(t, 100.0, sum, 0.01)
}

func TestGradeDistributionEmptyList(t *testing.T) {
	dist := GradeDistribution(nil, DefaultGradeBins())

	assert.Equal(t, 0, dist.Total)
	for _, bin := range dist.Bins {
		assert.Equal(t, 0, bin.Count)
		assert.Equal(t, 0.0, bin.Percent)
	}
}

func TestGradeDistributionFractionalGrades(t *testing.T) {
	// 89.5 sits between the integer bounds of adjacent bins; the
	// first-lower-bound rule places it in 85-89.
	dist := GradeDistribution([]float64{89.5}, DefaultGradeBins())

	for _, bin := range dist.Bins {
		if bin.Label == "85-89" {
			assert.Equal(t, 1, bin.Count)
		} else {
			assert.Equal(t, 0, bin.Count)
		}
	}
}

func TestGradeDistributionHonorsUpperBound(t *testing.T) {
	// Ascending bin order: containment on both bounds must place 90
	// in the pass bin even though the fail bin's lower bound matches
	// first.
	bins := []models.GradeBin{
		{Label: "fail", Low: 0, High: 74},
		{Label: "pass", Low: 75, High: 100},
	}
	dist := GradeDistribution([]float64{90, 60}, bins)

	assert.Equal(t, 1, dist.Bins[0].Count)
	assert.Equal(t, 1, dist.Bins[1].Count)
}

func TestGradeDistributionCustomBins(t *testing.T) {
	bins := []models.GradeBin{
		{Label: "pass", Low: 75, High: 100},
		{Label: "fail", Low: 0, High: 74},
	}
	dist := GradeDistribution([]float64{90, 80, 60}, bins)

	assert.Equal(t, 2, dist.Bins[0].Count)
	assert.Equal(t, 66.67, dist.Bins[0].Percent)
	assert.Equal(t, 1, dist.Bins[1].Count)
	assert.Equal(t, 33.33, dist.Bins[1].Percent)
}

func TestSubjectGradeDistributionSkipsNonNumeric(t *testing.T) {
	e := buildEngine(t, campusFixture())

	// ENG101 t1: 70, 80 numeric, one drop excluded.
	dist := e.SubjectGradeDistribution("eng1", "t1")
	assert.Equal(t, 2, dist.Total)
}
