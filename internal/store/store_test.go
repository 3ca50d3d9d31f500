package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-hub/registrar-analytics-api/internal/adapter"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

func fixtureResult() *adapter.Result {
	return &adapter.Result{
		Variant: models.VariantNew,
		Students: []models.Student{
			{ID: "s2", Name: "Ben Diaz", ProgramCode: "BSCS", CurriculumYear: "2023"},
			{ID: "s1", Name: "Ana Cruz", ProgramCode: "BSCS", CurriculumYear: "2023"},
		},
		Subjects: []models.Subject{
			{ID: "sub-eng", Code: "ENG101", Name: "English I", Units: 3},
			{ID: "sub-math", Code: "MATH101", Name: "Calculus I", Units: 3},
		},
		Terms: []models.Term{
			{ID: "t2", Label: "AY23-T2", AcademicYear: "2023-2024", Number: 2, SortKey: models.TermSortKey("2023-2024", 2)},
			{ID: "t1", Label: "AY23-T1", AcademicYear: "2023-2024", Number: 1, SortKey: models.TermSortKey("2023-2024", 1)},
		},
		Enrollments: []models.Enrollment{
			{StudentID: "s2", SubjectID: "sub-math", TermID: "t1", Grade: models.NumericGrade(80)},
			{StudentID: "s1", SubjectID: "sub-math", TermID: "t1", Grade: models.NumericGrade(91)},
			{StudentID: "s1", SubjectID: "sub-eng", TermID: "t2", Grade: models.NumericGrade(85)},
		},
		Sections: []models.Section{
			{ID: "sec1", SubjectID: "sub-math", TermID: "t1", ProfessorID: "p1", StudentIDs: []string{"s1", "s2"}},
		},
		Professors: []models.Professor{{ID: "p1", Name: "J. Reyes"}},
		Curricula: []models.Curriculum{
			{ProgramCode: "BSCS", CurriculumYear: "2023", Subjects: []models.CurriculumSubject{
				{SubjectCode: "MATH101", YearLevel: 1, TermNumber: 1, Units: 3},
			}},
		},
	}
}

func TestNewRejectsNilResult(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestStoreOrdering(t *testing.T) {
	s, err := New(fixtureResult())
	require.NoError(t, err)

	students := s.Students()
	require.Len(t, students, 2)
	assert.Equal(t, "s1", students[0].ID)

	terms := s.Terms()
	require.Len(t, terms, 2)
	assert.Equal(t, "t1", terms[0].ID)
	assert.Equal(t, "t2", terms[1].ID)

	history := s.EnrollmentsByStudent("s1")
	require.Len(t, history, 2)
	assert.Equal(t, "t1", history[0].TermID)
	assert.Equal(t, "t2", history[1].TermID)
}

// Enrollment history sorts on raw term id strings. A term whose id
// sorts after a chronologically later one still comes out in id order;
// chronological consumers re-sort on the term sort key.
func TestStoreEnrollmentOrderIsByTermID(t *testing.T) {
	res := fixtureResult()
	res.Terms = append(res.Terms, models.Term{
		ID: "a-late", Label: "AY24-T1", AcademicYear: "2024-2025", Number: 1,
		SortKey: models.TermSortKey("2024-2025", 1),
	})
	res.Enrollments = append(res.Enrollments, models.Enrollment{
		StudentID: "s1", SubjectID: "sub-eng", TermID: "a-late", Grade: models.NumericGrade(90),
	})

	s, err := New(res)
	require.NoError(t, err)

	history := s.EnrollmentsByStudent("s1")
	require.Len(t, history, 3)
	assert.Equal(t, "a-late", history[0].TermID)
	assert.Equal(t, "t1", history[1].TermID)
	assert.Equal(t, "t2", history[2].TermID)
}

func TestStoreLookups(t *testing.T) {
	s, err := New(fixtureResult())
	require.NoError(t, err)

	sub, ok := s.SubjectByCode("MATH101")
	require.True(t, ok)
	assert.Equal(t, "sub-math", sub.ID)

	offering := s.EnrollmentsBySubjectTerm("sub-math", "t1")
	assert.Len(t, offering, 2)
	assert.Empty(t, s.EnrollmentsBySubjectTerm("sub-math", "t2"))

	set := s.StudentSetInTerm("t1")
	assert.Len(t, set, 2)
	_, ok = set["s1"]
	assert.True(t, ok)

	secs := s.SectionsBySubject("sub-math")
	require.Len(t, secs, 1)
	assert.Equal(t, "sec1", secs[0].ID)
}

func TestCurriculumFor(t *testing.T) {
	s, err := New(fixtureResult())
	require.NoError(t, err)

	// Exact key hit.
	cur, ok := s.CurriculumFor(models.Student{ProgramCode: "BSCS", CurriculumYear: "2023"})
	require.True(t, ok)
	assert.Equal(t, "BSCS|2023", cur.Key())

	// Legacy student with no curriculum year falls back to the
	// program's sole curriculum.
	cur, ok = s.CurriculumFor(models.Student{ProgramCode: "BSCS"})
	require.True(t, ok)
	assert.Equal(t, "2023", cur.CurriculumYear)

	_, ok = s.CurriculumFor(models.Student{ProgramCode: "BSIT"})
	assert.False(t, ok)
}
