package engine

import (
	"sort"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

// competitionRank returns the standing of score within population:
// 1 + count(strictly greater), clamped into [1, len(population)]. Ties
// share a rank and the next distinct score skips past them.
func competitionRank(score float64, population []float64) int {
	greater := 0
	for _, other := range population {
		if other > score {
			greater++
		}
	}
	rank := 1 + greater
	if n := len(population); rank > n && n > 0 {
		rank = n
	}
	return rank
}

// classPopulation collects the numeric grades for a (subject, term)
// offering, narrowed to one section when sectionID is non-empty.
func (e *Engine) classPopulation(subjectID, termID, sectionID string) []float64 {
	var grades []float64
	for _, enr := range e.s.EnrollmentsBySubjectTerm(subjectID, termID) {
		if sectionID != "" && enr.SectionID != sectionID {
			continue
		}
		if enr.Grade.IsNumeric() {
			grades = append(grades, enr.Grade.Score)
		}
	}
	return grades
}

// ClassRank ranks a student within their class for one subject
// offering. The population is the student's section when the record
// carries one, otherwise every taker of the subject that term. The
// result is undefined when the student has no numeric grade there.
func (e *Engine) ClassRank(studentID, subjectID, termID string) models.ClassRankResult {
	var own *models.Enrollment
	for _, enr := range e.s.EnrollmentsBySubjectTerm(subjectID, termID) {
		if enr.StudentID == studentID {
			match := enr
			own = &match
			break
		}
	}
	if own == nil || !own.Grade.IsNumeric() {
		return models.ClassRankResult{}
	}

	scope := models.RankScopeSubject
	if own.SectionID != "" {
		scope = models.RankScopeSection
	}
	population := e.classPopulation(subjectID, termID, own.SectionID)
	if len(population) == 0 {
		return models.ClassRankResult{}
	}

	return models.ClassRankResult{
		Rank:         competitionRank(own.Grade.Score, population),
		ClassSize:    len(population),
		Grade:        own.Grade.Score,
		ClassAverage: round2(mean(population)),
		Scope:        scope,
		Defined:      true,
	}
}

// ClassSummary condenses one offering's numeric grades.
func (e *Engine) ClassSummary(subjectID, termID string) models.ClassSummary {
	grades := e.classPopulation(subjectID, termID, "")
	if len(grades) == 0 {
		return models.ClassSummary{}
	}

	sorted := append([]float64(nil), grades...)
	sort.Float64s(sorted)

	return models.ClassSummary{
		Mean:    round2(mean(sorted)),
		Median:  round2(median(sorted)),
		Highest: sorted[len(sorted)-1],
		Lowest:  sorted[0],
		Count:   len(sorted),
		Defined: true,
	}
}

// ClassAverageComparison measures a student against the class for every
// subject they have taken, in their history order. Enrollments without
// a numeric grade still produce a row so the caller can render the
// pending state.
func (e *Engine) ClassAverageComparison(studentID string) []models.ComparisonRow {
	var rows []models.ComparisonRow
	for _, enr := range e.s.EnrollmentsByStudent(studentID) {
		sub, _ := e.s.Subject(enr.SubjectID)
		population := e.classPopulation(enr.SubjectID, enr.TermID, enr.SectionID)

		row := models.ComparisonRow{
			SubjectID:   enr.SubjectID,
			SubjectCode: sub.Code,
			SubjectName: sub.Name,
			ClassSize:   len(population),
		}
		if len(population) > 0 {
			row.ClassAverage = round2(mean(population))
		}

		if !enr.Grade.IsNumeric() {
			row.Remark = RemarkNoGrade
			rows = append(rows, row)
			continue
		}

		score := enr.Grade.Score
		row.Grade = &score
		row.Rank = competitionRank(score, population)
		switch {
		case score >= row.ClassAverage+RemarkBand:
			row.Remark = RemarkAbove
		case score <= row.ClassAverage-RemarkBand:
			row.Remark = RemarkBelow
		default:
			row.Remark = RemarkAround
		}
		rows = append(rows, row)
	}
	return rows
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median expects values already sorted ascending.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
