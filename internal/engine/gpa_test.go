package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-hub/registrar-analytics-api/internal/adapter"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

func TestGPAExcludesNonNumericGrades(t *testing.T) {
	e := buildEngine(t, campusFixture())

	// Pending Physics is out of numerator and denominator both:
	// (95*3 + 70*3) / 6 = 82.5.
	gpa := e.GPA("s1", "t1")
	require.True(t, gpa.Defined)
	assert.Equal(t, 82.5, gpa.Value)
	assert.Equal(t, 6, gpa.Units)
}

func TestGPAUndefinedWhenNoNumericGrades(t *testing.T) {
	e := buildEngine(t, &adapter.Result{
		Variant:  models.VariantNew,
		Students: []models.Student{{ID: "s1", Name: "Ana Cruz"}},
		Subjects: []models.Subject{{ID: "math1", Code: "MATH101", Units: 3}},
		Terms:    []models.Term{term("t1", "2023-2024", 1)},
		Enrollments: []models.Enrollment{
			{StudentID: "s1", SubjectID: "math1", TermID: "t1", Grade: pending()},
		},
	})

	gpa := e.GPA("s1")
	assert.False(t, gpa.Defined)
	assert.Zero(t, gpa.Value)
}

func TestGPAScopesToTerms(t *testing.T) {
	e := buildEngine(t, campusFixture())

	t1 := e.GPA("s2", "t1")
	require.True(t, t1.Defined)
	assert.Equal(t, 84.0, t1.Value)

	all := e.GPA("s2")
	require.True(t, all.Defined)
	// (88*3 + 80*3 + 91*3) / 9
	assert.Equal(t, 86.33, all.Value)
}

func TestGPAWeightsByUnits(t *testing.T) {
	e := buildEngine(t, &adapter.Result{
		Variant:  models.VariantNew,
		Students: []models.Student{{ID: "s1"}},
		Subjects: []models.Subject{
			{ID: "a", Code: "A", Units: 5},
			{ID: "b", Code: "B", Units: 1},
		},
		Terms: []models.Term{term("t1", "2023-2024", 1)},
		Enrollments: []models.Enrollment{
			{StudentID: "s1", SubjectID: "a", TermID: "t1", Grade: numeric(90)},
			{StudentID: "s1", SubjectID: "b", TermID: "t1", Grade: numeric(60)},
		},
	})

	gpa := e.GPA("s1")
	require.True(t, gpa.Defined)
	// (90*5 + 60*1) / 6 = 85
	assert.Equal(t, 85.0, gpa.Value)
}

func TestTermGPASeriesAndTrend(t *testing.T) {
	e := buildEngine(t, campusFixture())

	series := e.TermGPASeries("s2")
	require.Len(t, series, 2)
	assert.Equal(t, "t1", series[0].TermID)
	assert.Equal(t, 84.0, series[0].GPA.Value)
	assert.Equal(t, 91.0, series[1].GPA.Value)
	assert.Equal(t, models.TrendImproving, Trend(series))
}

func TestTrendLabels(t *testing.T) {
	point := func(v float64) models.TermGPA {
		return models.TermGPA{GPA: models.GPAResult{Value: v, Defined: true}}
	}
	undefinedPoint := models.TermGPA{}

	assert.Equal(t, models.TrendInsufficient, Trend(nil))
	assert.Equal(t, models.TrendInsufficient, Trend([]models.TermGPA{point(80), undefinedPoint}))
	assert.Equal(t, models.TrendImproving, Trend([]models.TermGPA{point(80), point(85)}))
	assert.Equal(t, models.TrendNeedsAttention, Trend([]models.TermGPA{point(85), point(80)}))
	assert.Equal(t, models.TrendStable, Trend([]models.TermGPA{point(85), undefinedPoint, point(85)}))
}
