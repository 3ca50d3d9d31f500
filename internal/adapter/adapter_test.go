package adapter

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
)

func TestParseGradeToken(t *testing.T) {
	cases := []struct {
		name    string
		token   string
		status  models.GradeStatus
		score   float64
		outcome gradeOutcome
	}{
		{name: "numeric", token: "87.5", status: models.GradeNumeric, score: 87.5, outcome: gradeOK},
		{name: "numeric with spaces", token: " 92 ", status: models.GradeNumeric, score: 92, outcome: gradeOK},
		{name: "empty", token: "", status: models.GradeInProgress, outcome: gradeOK},
		{name: "null literal", token: "null", status: models.GradeInProgress, outcome: gradeOK},
		{name: "inc lowercase", token: "inc", status: models.GradeInProgress, outcome: gradeOK},
		{name: "not applicable", token: "N/A", status: models.GradeInProgress, outcome: gradeOK},
		{name: "dropped", token: "Dropped", status: models.GradeDropped, outcome: gradeOK},
		{name: "drp", token: "DRP", status: models.GradeDropped, outcome: gradeOK},
		{name: "garbage", token: "ninety", status: models.GradeInProgress, outcome: gradeMalformed},
		{name: "above range", token: "105", outcome: gradeOutOfRange},
		{name: "below range", token: "-3", outcome: gradeOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grade, outcome := parseGradeToken(tc.token)
			assert.Equal(t, tc.outcome, outcome)
			if tc.outcome == gradeOutOfRange {
				return
			}
			assert.Equal(t, tc.status, grade.Status)
			if tc.status == models.GradeNumeric {
				assert.Equal(t, tc.score, grade.Score)
			}
		})
	}
}

func TestAdaptUnknownVariant(t *testing.T) {
	_, err := Adapt(models.RawSnapshot{Variant: "v3"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownVariant.Code, appErrors.FromError(err).Code)
}

func TestAdaptOld(t *testing.T) {
	raw := models.RawSnapshot{
		Variant: models.VariantOld,
		OldStudents: []models.OldStudentRow{
			{ID: "s1", Name: "Ana Cruz", Course: "BSCS", YearLevel: 2},
			{ID: "", Name: "Ghost"},
		},
		OldSubjects: []models.OldSubjectRow{
			{Code: "MATH101", Description: "Calculus I", Units: 0, Teacher: "J. Reyes"},
			{Code: "ENG101", Description: "English I", Units: 3, Teacher: "M. Santos", Prerequisites: ""},
		},
		OldSemesters: []models.OldSemesterRow{
			{ID: "sem1", Semester: "First", SchoolYear: "2023-2024"},
			{ID: "sem2", Semester: "Second", SchoolYear: "2023-2024"},
		},
		OldGrades: []models.OldGradeDoc{
			{
				StudentID:    "s1",
				SemesterID:   "sem1",
				SubjectCodes: pq.StringArray{"MATH101", "ENG101", "PHYS999"},
				Grades:       pq.StringArray{"95", "INC", "80"},
				Teachers:     pq.StringArray{"J. Reyes", "M. Santos", "X"},
			},
			{
				StudentID:    "s1",
				SemesterID:   "sem2",
				SubjectCodes: pq.StringArray{"MATH101", "ENG101"},
				Grades:       pq.StringArray{"150", "ninety"},
			},
		},
		NewProfessors: []models.NewProfessorRow{
			{ID: "p1", Name: "J. Reyes"},
		},
	}

	res, err := Adapt(raw)
	require.NoError(t, err)
	assert.Equal(t, models.VariantOld, res.Variant)

	// The blank-id student is dropped and counted.
	require.Len(t, res.Students, 1)
	assert.Equal(t, "s1", res.Students[0].ID)
	assert.Equal(t, 1, res.Warnings.MissingKey)

	// Zero units defaults, never stays zero.
	require.Len(t, res.Subjects, 2)
	assert.Equal(t, models.DefaultSubjectUnits, res.Subjects[0].Units)

	require.Len(t, res.Terms, 2)
	assert.Equal(t, 1, res.Terms[0].Number)
	assert.Equal(t, "2023-2024:1", res.Terms[0].SortKey)
	assert.Equal(t, "First Semester 2023-2024", res.Terms[0].Label)

	// sem1: MATH101 numeric, ENG101 in progress, PHYS999 unknown
	// subject dropped. sem2: MATH101 out of range dropped, ENG101
	// malformed kept as in-progress.
	require.Len(t, res.Enrollments, 3)
	assert.Equal(t, 1, res.Warnings.MissingReferences)
	assert.Equal(t, 1, res.Warnings.OutOfRangeGrades)
	assert.Equal(t, 1, res.Warnings.MalformedGrades)

	first := res.Enrollments[0]
	assert.Equal(t, "MATH101", first.SubjectID)
	assert.True(t, first.Grade.IsNumeric())
	assert.Equal(t, 95.0, first.Grade.Score)
	assert.Equal(t, "p1", first.ProfessorID)

	second := res.Enrollments[1]
	assert.Equal(t, models.GradeInProgress, second.Grade.Status)
	assert.Equal(t, "name:m. santos", second.ProfessorID)

	// Directory professors plus minted synthetic ids, and the
	// unmatched names reported once each.
	ids := make([]string, 0, len(res.Professors))
	for _, p := range res.Professors {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, "p1")
	assert.Contains(t, ids, "name:m. santos")
	assert.Equal(t, []string{"M. Santos"}, res.Warnings.UnresolvedNames)
}

func TestAdaptOldProfessorResolutionIsDeterministic(t *testing.T) {
	resolver := newProfessorResolver(nil)
	a := resolver.Resolve("  Maria   Santos ")
	b := resolver.Resolve("maria santos")
	assert.Equal(t, a, b)
	assert.Equal(t, "name:maria santos", a)
	assert.Len(t, resolver.UnresolvedNames(), 1)
}

func TestAdaptNew(t *testing.T) {
	score := func(v float64) *float64 { return &v }
	status := func(s string) *string { return &s }

	raw := models.RawSnapshot{
		Variant: models.VariantNew,
		NewStudents: []models.NewStudentRow{
			{ID: "s1", StudentNumber: "2023-0001", Name: "Ana Cruz", CourseCode: "BSCS", YearLevel: 1, CurriculumYear: "2023"},
			{ID: "s2", StudentNumber: "2023-0002", Name: "Ben Diaz", CourseCode: "BSCS", YearLevel: 1, CurriculumYear: "2023"},
		},
		NewSubjects: []models.NewSubjectRow{
			{ID: "sub-math", SubjectCode: "MATH101", SubjectName: "Calculus I", Units: 3, ProfessorID: "p9"},
			{ID: "sub-cs2", SubjectCode: "CS102", SubjectName: "Programming II", Units: 3, ProfessorID: "p9"},
		},
		NewTerms: []models.NewTermRow{
			{ID: "t1", Code: "AY23-T1", AcademicYear: "2023-2024", Number: 1},
		},
		NewGrades: []models.NewGradeRow{
			{StudentID: "s1", SubjectID: "sub-math", TermID: "t1", NumericGrade: score(91)},
			{StudentID: "s2", SubjectID: "sub-math", TermID: "t1", Status: status("INC")},
			{StudentID: "s2", SubjectID: "sub-math", TermID: "t1", NumericGrade: score(120)},
			{StudentID: "ghost", SubjectID: "sub-math", TermID: "t1", NumericGrade: score(88)},
		},
		NewSections: []models.NewSectionRow{
			{ID: "sec1", SectionName: "A", SubjectID: "sub-math", TermID: "t1", ProfessorID: "p1", StudentIDs: pq.StringArray{"s1"}},
		},
		NewProfessors: []models.NewProfessorRow{
			{ID: "p1", Name: "J. Reyes"},
			{ID: "p9", Name: "Dept Chair"},
		},
		Curricula: []models.CurriculumRow{
			{ID: "c1", CourseCode: "BSCS", CurriculumYear: "2023"},
		},
		CurriculumSubjects: []models.CurriculumSubjectRow{
			{CurriculumID: "c1", SubjectCode: "MATH101", SubjectName: "Calculus I", YearLevel: 1, Semester: 1, Units: 3},
			{CurriculumID: "c1", SubjectCode: "CS102", SubjectName: "Programming II", YearLevel: 1, Semester: 2, Units: 3, Prerequisites: "CS101, MATH101"},
		},
	}

	res, err := Adapt(raw)
	require.NoError(t, err)

	require.Len(t, res.Enrollments, 2)
	assert.Equal(t, 1, res.Warnings.OutOfRangeGrades)
	assert.Equal(t, 1, res.Warnings.MissingReferences)

	// Section membership decides the enrollment's section and
	// professor; non-members inherit the subject's professor.
	inSection := res.Enrollments[0]
	assert.Equal(t, "sec1", inSection.SectionID)
	assert.Equal(t, "p1", inSection.ProfessorID)

	outOfSection := res.Enrollments[1]
	assert.Empty(t, outOfSection.SectionID)
	assert.Equal(t, "p9", outOfSection.ProfessorID)
	assert.Equal(t, models.GradeInProgress, outOfSection.Grade.Status)

	// Prerequisites flow from the curriculum plan, program codes from
	// curriculum membership.
	require.Len(t, res.Subjects, 2)
	assert.Equal(t, []string{"CS101", "MATH101"}, res.Subjects[1].Prerequisites)
	assert.Equal(t, "BSCS", res.Subjects[0].ProgramCode)

	require.Len(t, res.Curricula, 1)
	assert.Equal(t, "BSCS|2023", res.Curricula[0].Key())
	require.Len(t, res.Curricula[0].Subjects, 2)
	assert.Equal(t, 2, res.Curricula[0].Subjects[1].TermNumber)
}
