package engine

import "github.com/registrar-hub/registrar-analytics-api/internal/models"

// GPA computes the credit-weighted mean of a student's numeric grades.
// An empty termIDs list means all time. Enrollments without a numeric
// grade are excluded from numerator and denominator both; when nothing
// qualifies the result is undefined, never zero.
func (e *Engine) GPA(studentID string, termIDs ...string) models.GPAResult {
	scope := make(map[string]struct{}, len(termIDs))
	for _, id := range termIDs {
		scope[id] = struct{}{}
	}

	var weighted float64
	var units int
	for _, enr := range e.s.EnrollmentsByStudent(studentID) {
		if len(scope) > 0 {
			if _, ok := scope[enr.TermID]; !ok {
				continue
			}
		}
		if !enr.Grade.IsNumeric() {
			continue
		}
		w := e.subjectUnits(enr.SubjectID)
		weighted += enr.Grade.Score * float64(w)
		units += w
	}

	if units == 0 {
		return models.GPAResult{}
	}
	return models.GPAResult{
		Value:   round2(weighted / float64(units)),
		Units:   units,
		Defined: true,
	}
}

// TermGPASeries returns a student's GPA per attended term in
// chronological order. Terms where every grade is still pending appear
// with an undefined GPA.
func (e *Engine) TermGPASeries(studentID string) []models.TermGPA {
	attended := make(map[string]struct{})
	for _, enr := range e.s.EnrollmentsByStudent(studentID) {
		attended[enr.TermID] = struct{}{}
	}

	series := make([]models.TermGPA, 0, len(attended))
	for _, term := range e.s.Terms() {
		if _, ok := attended[term.ID]; !ok {
			continue
		}
		series = append(series, models.TermGPA{
			TermID:    term.ID,
			TermLabel: term.Label,
			SortKey:   term.SortKey,
			GPA:       e.GPA(studentID, term.ID),
		})
	}
	return series
}

// Trend labels a GPA series by comparing its first and last defined
// points. Fewer than two defined points cannot establish a direction.
func Trend(series []models.TermGPA) string {
	defined := make([]float64, 0, len(series))
	for _, point := range series {
		if point.GPA.Defined {
			defined = append(defined, point.GPA.Value)
		}
	}
	if len(defined) < 2 {
		return models.TrendInsufficient
	}

	first, last := defined[0], defined[len(defined)-1]
	switch {
	case last > first:
		return models.TrendImproving
	case last < first:
		return models.TrendNeedsAttention
	default:
		return models.TrendStable
	}
}
