package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/registrar-hub/registrar-analytics-api/internal/adapter"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	"github.com/registrar-hub/registrar-analytics-api/internal/store"
)

func buildEngine(t *testing.T, res *adapter.Result) *Engine {
	t.Helper()
	s, err := store.New(res)
	require.NoError(t, err)
	return New(s)
}

func numeric(score float64) models.GradeValue {
	return models.NumericGrade(score)
}

func pending() models.GradeValue {
	return models.GradeValue{Status: models.GradeInProgress}
}

func droppedGrade() models.GradeValue {
	return models.GradeValue{Status: models.GradeDropped}
}

func enrollment(studentID, subjectID, termID string, grade models.GradeValue) models.Enrollment {
	return models.Enrollment{StudentID: studentID, SubjectID: subjectID, TermID: termID, Grade: grade}
}

func term(id, year string, number int) models.Term {
	return models.Term{
		ID:           id,
		Label:        id,
		AcademicYear: year,
		Number:       number,
		SortKey:      models.TermSortKey(year, number),
	}
}

// campusFixture: three students in one program, two terms, three
// subjects with a prerequisite chain MATH101 -> MATH102.
func campusFixture() *adapter.Result {
	return &adapter.Result{
		Variant: models.VariantNew,
		Students: []models.Student{
			{ID: "s1", Name: "Ana Cruz", ProgramCode: "BSCS", CurriculumYear: "2023"},
			{ID: "s2", Name: "Ben Diaz", ProgramCode: "BSCS", CurriculumYear: "2023"},
			{ID: "s3", Name: "Carl Enriquez", ProgramCode: "BSCS", CurriculumYear: "2023"},
		},
		Subjects: []models.Subject{
			{ID: "math1", Code: "MATH101", Name: "Calculus I", Units: 3},
			{ID: "eng1", Code: "ENG101", Name: "English I", Units: 3},
			{ID: "phys1", Code: "PHYS101", Name: "Physics I", Units: 4},
			{ID: "math2", Code: "MATH102", Name: "Calculus II", Units: 3, Prerequisites: []string{"MATH101"}},
		},
		Terms: []models.Term{
			term("t1", "2023-2024", 1),
			term("t2", "2023-2024", 2),
		},
		Enrollments: []models.Enrollment{
			{StudentID: "s1", SubjectID: "math1", TermID: "t1", Grade: numeric(95)},
			{StudentID: "s1", SubjectID: "eng1", TermID: "t1", Grade: numeric(70)},
			{StudentID: "s1", SubjectID: "phys1", TermID: "t1", Grade: pending()},
			{StudentID: "s2", SubjectID: "math1", TermID: "t1", Grade: numeric(88)},
			{StudentID: "s2", SubjectID: "eng1", TermID: "t1", Grade: numeric(80)},
			{StudentID: "s3", SubjectID: "math1", TermID: "t1", Grade: numeric(88)},
			{StudentID: "s3", SubjectID: "eng1", TermID: "t1", Grade: droppedGrade()},
			{StudentID: "s2", SubjectID: "math2", TermID: "t2", Grade: numeric(91)},
			{StudentID: "s3", SubjectID: "math2", TermID: "t2", Grade: numeric(84)},
		},
		Professors: []models.Professor{{ID: "p1", Name: "J. Reyes"}},
		Curricula: []models.Curriculum{
			{ProgramCode: "BSCS", CurriculumYear: "2023", Subjects: []models.CurriculumSubject{
				{SubjectCode: "MATH101", Name: "Calculus I", YearLevel: 1, TermNumber: 1, Units: 3},
				{SubjectCode: "ENG101", Name: "English I", YearLevel: 1, TermNumber: 1, Units: 3},
				{SubjectCode: "PHYS101", Name: "Physics I", YearLevel: 1, TermNumber: 1, Units: 4},
				{SubjectCode: "MATH102", Name: "Calculus II", YearLevel: 1, TermNumber: 2, Units: 3, Prerequisites: []string{"MATH101"}},
			}},
		},
	}
}
