package engine

import (
	"sort"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

// Retention compares the enrolled student sets of two terms:
// retained students appear in both, dropped students appear only in
// the earlier one. The rate is zero, not NaN, when the earlier term is
// empty.
func (e *Engine) Retention(fromTermID, toTermID string) models.RetentionResult {
	from := e.s.StudentSetInTerm(fromTermID)
	to := e.s.StudentSetInTerm(toTermID)

	result := models.RetentionResult{
		FromTermID: fromTermID,
		ToTermID:   toTermID,
		Defined:    true,
	}
	for id := range from {
		if _, ok := to[id]; ok {
			result.Retained++
		} else {
			result.Dropped++
		}
	}
	if len(from) > 0 {
		result.Rate = round2(float64(result.Retained) / float64(len(from)) * 100)
	}
	return result
}

// RetentionSeries walks every term in chronological order and compares
// each with its successor. The final term has no successor; its row is
// present but undefined so callers render it as no-data rather than
// zero.
func (e *Engine) RetentionSeries() []models.RetentionResult {
	terms := e.s.Terms()
	series := make([]models.RetentionResult, 0, len(terms))
	for i, term := range terms {
		if i == len(terms)-1 {
			series = append(series, models.RetentionResult{FromTermID: term.ID})
			break
		}
		series = append(series, e.Retention(term.ID, terms[i+1].ID))
	}
	return series
}

// EnrollmentTrend counts enrolled students per term and how many of
// them appear for the first time.
func (e *Engine) EnrollmentTrend() []models.EnrollmentTrendRow {
	seen := make(map[string]struct{})
	terms := e.s.Terms()
	rows := make([]models.EnrollmentTrendRow, 0, len(terms))
	for _, term := range terms {
		set := e.s.StudentSetInTerm(term.ID)
		row := models.EnrollmentTrendRow{
			TermID:    term.ID,
			TermLabel: term.Label,
			Enrolled:  len(set),
		}
		for id := range set {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				row.NewEnrollees++
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// SubjectDifficulty rates one subject over its full enrollment history.
// The denominator is decided outcomes only: numeric grades plus drops;
// pending grades don't count against a subject.
func (e *Engine) SubjectDifficulty(subjectID string) models.SubjectDifficultyResult {
	sub, _ := e.s.Subject(subjectID)
	result := models.SubjectDifficultyResult{
		SubjectID:   subjectID,
		SubjectCode: sub.Code,
		SubjectName: sub.Name,
		Level:       models.DifficultyLow,
	}

	var decided, failed, dropped int
	for _, enr := range e.s.EnrollmentsBySubject(subjectID) {
		switch {
		case enr.Grade.IsNumeric():
			decided++
			if enr.Grade.Score < PassingGrade {
				failed++
			}
		case enr.Grade.Status == models.GradeDropped:
			decided++
			dropped++
		}
	}
	if decided == 0 {
		return result
	}

	result.FailRate = round2(float64(failed) / float64(decided) * 100)
	result.DropoutRate = round2(float64(dropped) / float64(decided) * 100)
	switch {
	case result.FailRate >= HighFailRate || result.DropoutRate >= HighDropoutRate:
		result.Level = models.DifficultyHigh
	case result.FailRate >= MediumFailRate || result.DropoutRate >= MediumDropoutRate:
		result.Level = models.DifficultyMedium
	}
	return result
}

// SubjectDifficultyAll rates every subject with at least one decided
// enrollment, hardest first.
func (e *Engine) SubjectDifficultyAll() []models.SubjectDifficultyResult {
	var results []models.SubjectDifficultyResult
	for _, sub := range e.s.Subjects() {
		if len(e.s.EnrollmentsBySubject(sub.ID)) == 0 {
			continue
		}
		results = append(results, e.SubjectDifficulty(sub.ID))
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FailRate != results[j].FailRate {
			return results[i].FailRate > results[j].FailRate
		}
		if results[i].DropoutRate != results[j].DropoutRate {
			return results[i].DropoutRate > results[j].DropoutRate
		}
		return results[i].SubjectCode < results[j].SubjectCode
	})
	return results
}

// TopPerformers ranks students by term GPA, optionally narrowed to one
// program. Students without a defined GPA in the term are left out.
// A non-positive limit returns the whole ranking.
func (e *Engine) TopPerformers(programCode, termID string, limit int) []models.RankedStudent {
	var ranked []models.RankedStudent
	for _, student := range e.s.Students() {
		if programCode != "" && student.ProgramCode != programCode {
			continue
		}
		gpa := e.GPA(student.ID, termID)
		if !gpa.Defined {
			continue
		}
		ranked = append(ranked, models.RankedStudent{
			StudentID:   student.ID,
			StudentName: student.Name,
			ProgramCode: student.ProgramCode,
			TermID:      termID,
			GPA:         gpa.Value,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].GPA != ranked[j].GPA {
			return ranked[i].GPA > ranked[j].GPA
		}
		return ranked[i].StudentID < ranked[j].StudentID
	})

	gpas := make([]float64, len(ranked))
	for i, r := range ranked {
		gpas[i] = r.GPA
	}
	for i := range ranked {
		ranked[i].Rank = competitionRank(ranked[i].GPA, gpas)
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Honors screens every student for dean's list and probation over one
// term, or over all time when termID is empty. Dean's list requires a
// high GPA with no weak grade anywhere in scope; probation catches a
// low GPA or a large failing share. Both lists carry at most ten
// entries, best and worst GPA first respectively.
func (e *Engine) Honors(termID string) models.HonorsResult {
	var scope []string
	if termID != "" {
		scope = []string{termID}
	}

	var result models.HonorsResult
	for _, student := range e.s.Students() {
		gpa := e.GPA(student.ID, scope...)
		if !gpa.Defined {
			continue
		}

		var numeric, failing int
		allStrong := true
		for _, enr := range e.s.EnrollmentsByStudent(student.ID) {
			if termID != "" && enr.TermID != termID {
				continue
			}
			if !enr.Grade.IsNumeric() {
				continue
			}
			numeric++
			if enr.Grade.Score < PassingGrade {
				failing++
			}
			if enr.Grade.Score < DeansListMinGrade {
				allStrong = false
			}
		}

		entry := models.RankedStudent{
			StudentID:   student.ID,
			StudentName: student.Name,
			ProgramCode: student.ProgramCode,
			TermID:      termID,
			GPA:         gpa.Value,
		}

		if gpa.Value >= DeansListGPA && allStrong {
			result.DeansList = append(result.DeansList, entry)
		}

		failShare := 0.0
		if numeric > 0 {
			failShare = float64(failing) / float64(numeric) * 100
		}
		if gpa.Value < ProbationGPA || failShare >= ProbationFailShare {
			result.Probation = append(result.Probation, entry)
		}
	}

	sort.SliceStable(result.DeansList, func(i, j int) bool {
		if result.DeansList[i].GPA != result.DeansList[j].GPA {
			return result.DeansList[i].GPA > result.DeansList[j].GPA
		}
		return result.DeansList[i].StudentID < result.DeansList[j].StudentID
	})
	sort.SliceStable(result.Probation, func(i, j int) bool {
		if result.Probation[i].GPA != result.Probation[j].GPA {
			return result.Probation[i].GPA < result.Probation[j].GPA
		}
		return result.Probation[i].StudentID < result.Probation[j].StudentID
	})

	for i := range result.DeansList {
		result.DeansList[i].Rank = i + 1
	}
	for i := range result.Probation {
		result.Probation[i].Rank = i + 1
	}

	if len(result.DeansList) > honorsListSize {
		result.DeansList = result.DeansList[:honorsListSize]
	}
	if len(result.Probation) > honorsListSize {
		result.Probation = result.Probation[:honorsListSize]
	}
	return result
}

// Intervention flags a professor's enrollments needing follow-up:
// still pending, dropped, or numerically failing.
func (e *Engine) Intervention(professorID string) []models.InterventionRow {
	var rows []models.InterventionRow
	for _, enr := range e.s.EnrollmentsByProfessor(professorID) {
		flag := ""
		switch {
		case enr.Grade.Status == models.GradeInProgress:
			flag = models.RiskIncomplete
		case enr.Grade.Status == models.GradeDropped:
			flag = models.RiskDropped
		case enr.Grade.IsNumeric() && enr.Grade.Score < PassingGrade:
			flag = models.RiskFailing
		default:
			continue
		}

		student, _ := e.s.Student(enr.StudentID)
		sub, _ := e.s.Subject(enr.SubjectID)
		rows = append(rows, models.InterventionRow{
			StudentID:   enr.StudentID,
			StudentName: student.Name,
			SubjectID:   enr.SubjectID,
			SubjectCode: sub.Code,
			TermID:      enr.TermID,
			RiskFlag:    flag,
		})
	}
	return rows
}

// SubmissionStatus tallies how far along a professor is in encoding
// grades, one row per subject taught. A numeric grade counts as
// submitted; pending, dropped, and absent records are outstanding.
// Rows come back sorted by subject code.
func (e *Engine) SubmissionStatus(professorID string) []models.SubmissionStatus {
	tallies := make(map[string]*models.SubmissionStatus)
	for _, enr := range e.s.EnrollmentsByProfessor(professorID) {
		st := tallies[enr.SubjectID]
		if st == nil {
			sub, _ := e.s.Subject(enr.SubjectID)
			st = &models.SubmissionStatus{
				SubjectID:   enr.SubjectID,
				SubjectCode: sub.Code,
				SubjectName: sub.Name,
			}
			tallies[enr.SubjectID] = st
		}
		st.Total++
		if enr.Grade.IsNumeric() {
			st.Submitted++
		}
	}

	rows := make([]models.SubmissionStatus, 0, len(tallies))
	for _, st := range tallies {
		st.Rate = round2(float64(st.Submitted) / float64(st.Total) * 100)
		rows = append(rows, *st)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SubjectCode < rows[j].SubjectCode })
	return rows
}
