package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-hub/registrar-analytics-api/internal/adapter"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

func TestCompetitionRank(t *testing.T) {
	population := []float64{88, 88, 70}

	// Two tied at the top share rank 1; the next distinct grade skips
	// to rank 3.
	assert.Equal(t, 1, competitionRank(88, population))
	assert.Equal(t, 3, competitionRank(70, population))
}

func TestCompetitionRankProperties(t *testing.T) {
	population := []float64{95, 88, 88, 84, 84, 70}
	for _, g := range population {
		rank := competitionRank(g, population)
		assert.GreaterOrEqual(t, rank, 1)
		assert.LessOrEqual(t, rank, len(population))
	}
	// Strictly better grade, strictly better rank.
	assert.Less(t, competitionRank(95, population), competitionRank(88, population))
	assert.Less(t, competitionRank(88, population), competitionRank(84, population))
}

func TestClassRank(t *testing.T) {
	e := buildEngine(t, campusFixture())

	// MATH101 in t1: 95, 88, 88.
	top := e.ClassRank("s1", "math1", "t1")
	require.True(t, top.Defined)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, 3, top.ClassSize)
	assert.Equal(t, models.RankScopeSubject, top.Scope)
	assert.Equal(t, 90.33, top.ClassAverage)

	tied := e.ClassRank("s2", "math1", "t1")
	assert.Equal(t, 2, tied.Rank)
	alsoTied := e.ClassRank("s3", "math1", "t1")
	assert.Equal(t, 2, alsoTied.Rank)
}

func TestClassRankUndefinedWithoutNumericGrade(t *testing.T) {
	e := buildEngine(t, campusFixture())

	// s1's Physics grade is still pending.
	rank := e.ClassRank("s1", "phys1", "t1")
	assert.False(t, rank.Defined)

	// Not enrolled at all.
	rank = e.ClassRank("s1", "math2", "t2")
	assert.False(t, rank.Defined)
}

func TestClassRankScopesToSection(t *testing.T) {
	res := campusFixture()
	res.Sections = []models.Section{
		{ID: "secA", SubjectID: "math1", TermID: "t1", ProfessorID: "p1", StudentIDs: []string{"s1", "s2"}},
	}
	for i := range res.Enrollments {
		enr := &res.Enrollments[i]
		if enr.SubjectID == "math1" && (enr.StudentID == "s1" || enr.StudentID == "s2") {
			enr.SectionID = "secA"
		}
	}
	e := buildEngine(t, res)

	rank := e.ClassRank("s2", "math1", "t1")
	require.True(t, rank.Defined)
	assert.Equal(t, models.RankScopeSection, rank.Scope)
	// Only s1 (95) and s2 (88) are in the section; s3's 88 is outside.
	assert.Equal(t, 2, rank.ClassSize)
	assert.Equal(t, 2, rank.Rank)
}

func TestClassSummary(t *testing.T) {
	e := buildEngine(t, campusFixture())

	summary := e.ClassSummary("math1", "t1")
	require.True(t, summary.Defined)
	assert.Equal(t, 90.33, summary.Mean)
	assert.Equal(t, 88.0, summary.Median)
	assert.Equal(t, 95.0, summary.Highest)
	assert.Equal(t, 88.0, summary.Lowest)
	assert.Equal(t, 3, summary.Count)

	empty := e.ClassSummary("math1", "t2")
	assert.False(t, empty.Defined)
}

func TestClassAverageComparison(t *testing.T) {
	e := buildEngine(t, campusFixture())

	rows := e.ClassAverageComparison("s1")
	require.Len(t, rows, 3)

	byCode := make(map[string]models.ComparisonRow, len(rows))
	for _, row := range rows {
		byCode[row.SubjectCode] = row
	}

	// 95 against class average 90.33 sits inside the ±5 band.
	math := byCode["MATH101"]
	require.NotNil(t, math.Grade)
	assert.Equal(t, RemarkAround, math.Remark)
	assert.Equal(t, 1, math.Rank)

	// 70 against class average 75 ((70+80)/2): exactly at the band
	// edge counts as below.
	eng := byCode["ENG101"]
	assert.Equal(t, RemarkBelow, eng.Remark)

	phys := byCode["PHYS101"]
	assert.Nil(t, phys.Grade)
	assert.Equal(t, RemarkNoGrade, phys.Remark)
}

func TestMedianEvenCount(t *testing.T) {
	e := buildEngine(t, &adapter.Result{
		Variant:  models.VariantNew,
		Students: []models.Student{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}, {ID: "s4"}},
		Subjects: []models.Subject{{ID: "a", Code: "A", Units: 3}},
		Terms:    []models.Term{term("t1", "2023-2024", 1)},
		Enrollments: []models.Enrollment{
			{StudentID: "s1", SubjectID: "a", TermID: "t1", Grade: numeric(70)},
			{StudentID: "s2", SubjectID: "a", TermID: "t1", Grade: numeric(80)},
			{StudentID: "s3", SubjectID: "a", TermID: "t1", Grade: numeric(90)},
			{StudentID: "s4", SubjectID: "a", TermID: "t1", Grade: numeric(100)},
		},
	})

	summary := e.ClassSummary("a", "t1")
	assert.Equal(t, 85.0, summary.Median)
}
