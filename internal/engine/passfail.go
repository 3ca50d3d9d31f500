package engine

import (
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

// CurriculumPassFail reconciles a student's standing against their plan
// of study. Each planned subject lands in exactly one bucket, so
// Passed + Failed + Incomplete + NotYetTaken == TotalRequired always
// holds. A subject passed on any attempt counts as passed; attempted
// but never numerically graded counts as incomplete.
func (e *Engine) CurriculumPassFail(studentID string) (models.PassFailSummary, error) {
	student, ok := e.s.Student(studentID)
	if !ok {
		return models.PassFailSummary{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	curriculum, ok := e.s.CurriculumFor(student)
	if !ok {
		return models.PassFailSummary{}, appErrors.Clone(appErrors.ErrCurriculumNotFound, "")
	}

	type attempt struct {
		bestNumeric float64
		hasNumeric  bool
		attempted   bool
	}
	attempts := make(map[string]*attempt)
	for _, enr := range e.s.EnrollmentsByStudent(studentID) {
		sub, ok := e.s.Subject(enr.SubjectID)
		if !ok {
			continue
		}
		a := attempts[sub.Code]
		if a == nil {
			a = &attempt{}
			attempts[sub.Code] = a
		}
		a.attempted = true
		if enr.Grade.IsNumeric() {
			if !a.hasNumeric || enr.Grade.Score > a.bestNumeric {
				a.bestNumeric = enr.Grade.Score
				a.hasNumeric = true
			}
		}
	}

	summary := models.PassFailSummary{TotalRequired: len(curriculum.Subjects)}
	for _, planned := range curriculum.Subjects {
		a := attempts[planned.SubjectCode]
		switch {
		case a == nil || !a.attempted:
			summary.NotYetTaken++
		case a.hasNumeric && a.bestNumeric >= PassingGrade:
			summary.Passed++
		case a.hasNumeric:
			summary.Failed++
		default:
			summary.Incomplete++
		}
	}
	return summary, nil
}

// SubjectPassFail splits one subject offering's numeric grades at the
// pass threshold. Percentages use the numeric denominator only;
// pending and dropped records are counted separately so the totals
// stay reconcilable.
func (e *Engine) SubjectPassFail(subjectID, termID string) models.SubjectPassFail {
	result := models.SubjectPassFail{SubjectID: subjectID, TermID: termID}
	for _, enr := range e.s.EnrollmentsBySubjectTerm(subjectID, termID) {
		switch enr.Grade.Status {
		case models.GradeDropped:
			result.Dropped++
			continue
		case models.GradeInProgress, models.GradeAbsent:
			result.Incomplete++
			continue
		}
		if enr.Grade.Score >= PassingGrade {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if numeric := result.Passed + result.Failed; numeric > 0 {
		result.PassPct = round2(float64(result.Passed) / float64(numeric) * 100)
		result.FailPct = round2(float64(result.Failed) / float64(numeric) * 100)
	}
	return result
}
