package engine

import (
	"sort"

	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

// ResolveProgression classifies what a student should take next. The
// resolver is a pure function of the student's history and their
// curriculum plan:
//
//  1. Current position is the furthest (year, term-in-year) among plan
//     subjects the student has attempted.
//  2. Next position follows the fixed two-term calendar.
//  3. Failed subjects are always recommended again; having been
//     attempted, they cannot be prerequisite-blocked.
//  4. Plan subjects at the next position are recommended unless some
//     prerequisite is missing from the student's passing set.
func (e *Engine) ResolveProgression(studentID string) (models.ProgressionResult, error) {
	student, ok := e.s.Student(studentID)
	if !ok {
		return models.ProgressionResult{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	curriculum, ok := e.s.CurriculumFor(student)
	if !ok {
		return models.ProgressionResult{}, appErrors.Clone(appErrors.ErrCurriculumNotFound, "")
	}

	planByCode := make(map[string]models.CurriculumSubject, len(curriculum.Subjects))
	for _, planned := range curriculum.Subjects {
		planByCode[planned.SubjectCode] = planned
	}

	// Passing and failing sets over best attempts: a subject passed on
	// any attempt is settled and never recommended as a repeat.
	passing := make(map[string]struct{})
	failing := make(map[string]struct{})
	attempted := make(map[string]struct{})
	currentYear, currentTerm := 0, 0
	for _, enr := range e.s.EnrollmentsByStudent(studentID) {
		sub, ok := e.s.Subject(enr.SubjectID)
		if !ok {
			continue
		}
		attempted[sub.Code] = struct{}{}
		if enr.Grade.IsNumeric() {
			if enr.Grade.Score >= PassingGrade {
				passing[sub.Code] = struct{}{}
			} else {
				failing[sub.Code] = struct{}{}
			}
		}
		if planned, ok := planByCode[sub.Code]; ok {
			if planned.YearLevel > currentYear ||
				(planned.YearLevel == currentYear && planned.TermNumber > currentTerm) {
				currentYear, currentTerm = planned.YearLevel, planned.TermNumber
			}
		}
	}
	for code := range passing {
		delete(failing, code)
	}

	nextYear, nextTerm := nextPosition(currentYear, currentTerm)

	result := models.ProgressionResult{
		StudentID:   studentID,
		CurrentYear: currentYear,
		CurrentTerm: currentTerm,
		NextYear:    nextYear,
		NextTerm:    nextTerm,
	}

	for code := range failing {
		subject := models.ProgressionSubject{SubjectCode: code, Reason: models.ReasonRepeat}
		if planned, ok := planByCode[code]; ok {
			subject.Name = planned.Name
			subject.YearLevel = planned.YearLevel
			subject.TermNumber = planned.TermNumber
			subject.Units = planned.Units
		} else if sub, ok := e.s.SubjectByCode(code); ok {
			subject.Name = sub.Name
			subject.Units = sub.Units
		}
		result.Recommended = append(result.Recommended, subject)
	}

	for _, planned := range curriculum.Subjects {
		if planned.YearLevel != nextYear || planned.TermNumber != nextTerm {
			continue
		}
		if _, ok := passing[planned.SubjectCode]; ok {
			continue
		}
		if _, ok := failing[planned.SubjectCode]; ok {
			continue
		}

		var missing []string
		for _, prereq := range planned.Prerequisites {
			if _, ok := passing[prereq]; !ok {
				missing = append(missing, prereq)
			}
		}

		subject := models.ProgressionSubject{
			SubjectCode: planned.SubjectCode,
			Name:        planned.Name,
			YearLevel:   planned.YearLevel,
			TermNumber:  planned.TermNumber,
			Units:       planned.Units,
		}
		if len(missing) > 0 {
			subject.MissingPrerequisites = missing
			result.Blocked = append(result.Blocked, subject)
		} else {
			subject.Reason = models.ReasonOnTrack
			result.Recommended = append(result.Recommended, subject)
		}
	}

	sort.SliceStable(result.Recommended, func(i, j int) bool {
		return result.Recommended[i].SubjectCode < result.Recommended[j].SubjectCode
	})
	sort.SliceStable(result.Blocked, func(i, j int) bool {
		return result.Blocked[i].SubjectCode < result.Blocked[j].SubjectCode
	})
	return result, nil
}

// ResolveProgressionBatch resolves many students, collecting per-student
// failures instead of aborting the batch.
func (e *Engine) ResolveProgressionBatch(studentIDs []string) ([]models.ProgressionResult, []models.ProgressionFailure) {
	var results []models.ProgressionResult
	var failures []models.ProgressionFailure
	for _, id := range studentIDs {
		result, err := e.ResolveProgression(id)
		if err != nil {
			failures = append(failures, models.ProgressionFailure{
				StudentID: id,
				Reason:    appErrors.FromError(err).Message,
			})
			continue
		}
		results = append(results, result)
	}
	return results, failures
}

// nextPosition advances one step through the two-terms-per-year
// calendar. A student with no attempted plan subjects starts at year 1
// term 1.
func nextPosition(year, term int) (int, int) {
	if year == 0 {
		return 1, 1
	}
	if term >= models.TermsPerYear {
		return year + 1, 1
	}
	return year, term + 1
}
