package engine

import (
	"sort"
	"strconv"
	"strings"

	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

// Published table names. The assembler owns no computation; it projects
// engine results into named, filter-scoped, deterministically ordered
// tables with human-readable labels.
const (
	TableClassGradeSummary      = "class_grade_summary"
	TableGradeDistribution      = "grade_distribution"
	TableClassAverageComparison = "class_average_comparison"
	TablePassFailBySubject      = "pass_fail_by_subject"
	TableCurriculumProgress     = "curriculum_progress"
	TableRetentionSeries        = "retention_series"
	TableSubjectDifficulty      = "subject_difficulty"
	TableTopPerformers          = "top_performers"
	TableTranscript             = "transcript"
	TableGPATrend               = "gpa_trend"
	TableProgression            = "progression"
	TableIntervention           = "intervention_candidates"
	TableSubmissionStatus       = "submission_status"
	TableEnrollmentTrend        = "enrollment_trend"
	TableGradeQuery             = "grade_query"
)

// Assembler joins engine outputs into result tables.
type Assembler struct {
	e *Engine
}

// NewAssembler builds an assembler over an engine.
func NewAssembler(e *Engine) *Assembler {
	return &Assembler{e: e}
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func fmtInt(v int) string {
	return strconv.Itoa(v)
}

func (a *Assembler) termLabel(termID string) string {
	if term, ok := a.e.Store().Term(termID); ok {
		return term.Label
	}
	return termID
}

func gradeCell(g models.GradeValue) string {
	switch g.Status {
	case models.GradeNumeric:
		return fmtFloat(g.Score)
	case models.GradeInProgress:
		return "INC"
	case models.GradeDropped:
		return "Dropped"
	default:
		return models.UndefinedCell
	}
}

// ClassGradeSummary is one row condensing a subject offering.
func (a *Assembler) ClassGradeSummary(subjectID, termID string) (models.ResultTable, error) {
	sub, ok := a.e.Store().Subject(subjectID)
	if !ok {
		return models.ResultTable{}, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	table := models.ResultTable{
		Name:    TableClassGradeSummary,
		Filters: map[string]string{"subject": sub.Code, "term": termID},
		Columns: []string{"subject_code", "subject_name", "term", "mean", "median", "highest", "lowest", "graded"},
	}

	summary := a.e.ClassSummary(subjectID, termID)
	row := map[string]string{
		"subject_code": sub.Code,
		"subject_name": sub.Name,
		"term":         a.termLabel(termID),
		"graded":       fmtInt(summary.Count),
	}
	if summary.Defined {
		row["mean"] = fmtFloat(summary.Mean)
		row["median"] = fmtFloat(summary.Median)
		row["highest"] = fmtFloat(summary.Highest)
		row["lowest"] = fmtFloat(summary.Lowest)
	} else {
		row["mean"] = models.UndefinedCell
		row["median"] = models.UndefinedCell
		row["highest"] = models.UndefinedCell
		row["lowest"] = models.UndefinedCell
	}
	table.Rows = []map[string]string{row}
	return table, nil
}

// GradeDistribution is one row per bin for a subject offering. An empty
// termID spans all terms.
func (a *Assembler) GradeDistribution(subjectID, termID string) (models.ResultTable, error) {
	sub, ok := a.e.Store().Subject(subjectID)
	if !ok {
		return models.ResultTable{}, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	dist := a.e.SubjectGradeDistribution(subjectID, termID)
	table := models.ResultTable{
		Name:    TableGradeDistribution,
		Filters: map[string]string{"subject": sub.Code},
		Columns: []string{"bin", "count", "percent"},
		Meta:    map[string]string{"graded": fmtInt(dist.Total)},
	}
	if termID != "" {
		table.Filters["term"] = termID
	}
	for _, bin := range dist.Bins {
		table.Rows = append(table.Rows, map[string]string{
			"bin":     bin.Label,
			"count":   fmtInt(bin.Count),
			"percent": fmtFloat(bin.Percent),
		})
	}
	return table, nil
}

// ClassAverageComparison is one row per enrollment for a student,
// comparing them with their class.
func (a *Assembler) ClassAverageComparison(studentID string) (models.ResultTable, error) {
	if _, ok := a.e.Store().Student(studentID); !ok {
		return models.ResultTable{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	table := models.ResultTable{
		Name:    TableClassAverageComparison,
		Filters: map[string]string{"student": studentID},
		Columns: []string{"subject_code", "subject_name", "grade", "class_average", "class_size", "rank", "remark"},
	}
	for _, row := range a.e.ClassAverageComparison(studentID) {
		cells := map[string]string{
			"subject_code":  row.SubjectCode,
			"subject_name":  row.SubjectName,
			"class_average": fmtFloat(row.ClassAverage),
			"class_size":    fmtInt(row.ClassSize),
			"remark":        row.Remark,
		}
		if row.Grade != nil {
			cells["grade"] = fmtFloat(*row.Grade)
			cells["rank"] = fmtInt(row.Rank)
		} else {
			cells["grade"] = models.UndefinedCell
			cells["rank"] = models.UndefinedCell
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

// PassFailBySubject splits offerings at the pass threshold. With a
// subject it walks that subject's terms; with a term it walks that
// term's subjects; with both, a single offering.
func (a *Assembler) PassFailBySubject(subjectID, termID string) (models.ResultTable, error) {
	if subjectID == "" && termID == "" {
		return models.ResultTable{}, appErrors.Clone(appErrors.ErrValidation, "subject or term filter required")
	}

	type offering struct {
		subjectID string
		termID    string
	}
	var offerings []offering
	switch {
	case subjectID != "" && termID != "":
		if len(a.e.Store().EnrollmentsBySubjectTerm(subjectID, termID)) > 0 {
			offerings = []offering{{subjectID, termID}}
		}
	case subjectID != "":
		seen := make(map[string]struct{})
		for _, enr := range a.e.Store().EnrollmentsBySubject(subjectID) {
			if _, ok := seen[enr.TermID]; !ok {
				seen[enr.TermID] = struct{}{}
			}
		}
		for _, term := range a.e.Store().Terms() {
			if _, ok := seen[term.ID]; ok {
				offerings = append(offerings, offering{subjectID, term.ID})
			}
		}
	default:
		seen := make(map[string]struct{})
		for _, enr := range a.e.Store().EnrollmentsByTerm(termID) {
			seen[enr.SubjectID] = struct{}{}
		}
		for _, sub := range a.e.Store().Subjects() {
			if _, ok := seen[sub.ID]; ok {
				offerings = append(offerings, offering{sub.ID, termID})
			}
		}
	}

	table := models.ResultTable{
		Name:    TablePassFailBySubject,
		Filters: map[string]string{},
		Columns: []string{"subject_code", "term", "passed", "failed", "incomplete", "dropped", "pass_pct", "fail_pct"},
	}
	if subjectID != "" {
		table.Filters["subject"] = subjectID
	}
	if termID != "" {
		table.Filters["term"] = termID
	}

	for _, off := range offerings {
		sub, _ := a.e.Store().Subject(off.subjectID)
		split := a.e.SubjectPassFail(off.subjectID, off.termID)
		row := map[string]string{
			"subject_code": sub.Code,
			"term":         a.termLabel(off.termID),
			"passed":       fmtInt(split.Passed),
			"failed":       fmtInt(split.Failed),
			"incomplete":   fmtInt(split.Incomplete),
			"dropped":      fmtInt(split.Dropped),
		}
		if split.Passed+split.Failed > 0 {
			row["pass_pct"] = fmtFloat(split.PassPct)
			row["fail_pct"] = fmtFloat(split.FailPct)
		} else {
			row["pass_pct"] = models.UndefinedCell
			row["fail_pct"] = models.UndefinedCell
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// CurriculumProgress is one reconciling row of a student's standing
// against their plan of study.
func (a *Assembler) CurriculumProgress(studentID string) (models.ResultTable, error) {
	summary, err := a.e.CurriculumPassFail(studentID)
	if err != nil {
		return models.ResultTable{}, err
	}
	student, _ := a.e.Store().Student(studentID)
	gpa := a.e.GPA(studentID)

	gpaCell := models.UndefinedCell
	if gpa.Defined {
		gpaCell = fmtFloat(gpa.Value)
	}
	return models.ResultTable{
		Name:    TableCurriculumProgress,
		Filters: map[string]string{"student": studentID},
		Columns: []string{"student_name", "total_required", "passed", "failed", "incomplete", "not_yet_taken", "gpa"},
		Rows: []map[string]string{{
			"student_name":   student.Name,
			"total_required": fmtInt(summary.TotalRequired),
			"passed":         fmtInt(summary.Passed),
			"failed":         fmtInt(summary.Failed),
			"incomplete":     fmtInt(summary.Incomplete),
			"not_yet_taken":  fmtInt(summary.NotYetTaken),
			"gpa":            gpaCell,
		}},
	}, nil
}

// RetentionSeries is one row per adjacent term pair; the final term has
// no successor and renders as no-data.
func (a *Assembler) RetentionSeries() (models.ResultTable, error) {
	table := models.ResultTable{
		Name:    TableRetentionSeries,
		Columns: []string{"from_term", "to_term", "retained", "dropped", "rate"},
	}
	for _, r := range a.e.RetentionSeries() {
		row := map[string]string{"from_term": a.termLabel(r.FromTermID)}
		if r.Defined {
			row["to_term"] = a.termLabel(r.ToTermID)
			row["retained"] = fmtInt(r.Retained)
			row["dropped"] = fmtInt(r.Dropped)
			row["rate"] = fmtFloat(r.Rate)
		} else {
			row["to_term"] = models.UndefinedCell
			row["retained"] = models.UndefinedCell
			row["dropped"] = models.UndefinedCell
			row["rate"] = models.UndefinedCell
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// SubjectDifficulty rates subjects, hardest first, optionally narrowed
// to the subjects one professor has taught.
func (a *Assembler) SubjectDifficulty(professorID string) (models.ResultTable, error) {
	taught := map[string]struct{}{}
	if professorID != "" {
		for _, enr := range a.e.Store().EnrollmentsByProfessor(professorID) {
			taught[enr.SubjectID] = struct{}{}
		}
	}

	table := models.ResultTable{
		Name:    TableSubjectDifficulty,
		Filters: map[string]string{},
		Columns: []string{"subject_code", "subject_name", "fail_rate", "dropout_rate", "difficulty"},
	}
	if professorID != "" {
		table.Filters["professor"] = professorID
	}
	for _, result := range a.e.SubjectDifficultyAll() {
		if professorID != "" {
			if _, ok := taught[result.SubjectID]; !ok {
				continue
			}
		}
		table.Rows = append(table.Rows, map[string]string{
			"subject_code": result.SubjectCode,
			"subject_name": result.SubjectName,
			"fail_rate":    fmtFloat(result.FailRate),
			"dropout_rate": fmtFloat(result.DropoutRate),
			"difficulty":   string(result.Level),
		})
	}
	return table, nil
}

// TopPerformers is a GPA leaderboard for one term, optionally narrowed
// to a program.
func (a *Assembler) TopPerformers(programCode, termID string, limit int) (models.ResultTable, error) {
	if termID == "" {
		return models.ResultTable{}, appErrors.Clone(appErrors.ErrValidation, "term filter required")
	}

	table := models.ResultTable{
		Name:    TableTopPerformers,
		Filters: map[string]string{"term": termID},
		Columns: []string{"rank", "student_id", "student_name", "program", "gpa"},
	}
	if programCode != "" {
		table.Filters["program"] = programCode
	}
	for _, student := range a.e.TopPerformers(programCode, termID, limit) {
		table.Rows = append(table.Rows, map[string]string{
			"rank":         fmtInt(student.Rank),
			"student_id":   student.StudentID,
			"student_name": student.StudentName,
			"program":      student.ProgramCode,
			"gpa":          fmtFloat(student.GPA),
		})
	}
	return table, nil
}

// Transcript is a student's full graded history in term order, with an
// overall GPA in the table meta.
func (a *Assembler) Transcript(studentID string) (models.ResultTable, error) {
	student, ok := a.e.Store().Student(studentID)
	if !ok {
		return models.ResultTable{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	table := models.ResultTable{
		Name:    TableTranscript,
		Filters: map[string]string{"student": studentID},
		Columns: []string{"term", "subject_code", "subject_name", "units", "grade", "remark"},
		Meta:    map[string]string{"student_name": student.Name},
	}

	history := append([]models.Enrollment(nil), a.e.Store().EnrollmentsByStudent(studentID)...)
	termKey := func(termID string) string {
		if term, ok := a.e.Store().Term(termID); ok {
			return term.SortKey
		}
		return termID
	}
	sort.SliceStable(history, func(i, j int) bool {
		ki, kj := termKey(history[i].TermID), termKey(history[j].TermID)
		if ki != kj {
			return ki < kj
		}
		return history[i].SubjectID < history[j].SubjectID
	})

	for _, enr := range history {
		sub, _ := a.e.Store().Subject(enr.SubjectID)
		remark := ""
		switch {
		case enr.Grade.IsNumeric() && enr.Grade.Score >= PassingGrade:
			remark = "Passed"
		case enr.Grade.IsNumeric():
			remark = "Failed"
		case enr.Grade.Status == models.GradeDropped:
			remark = "Dropped"
		default:
			remark = "In Progress"
		}
		table.Rows = append(table.Rows, map[string]string{
			"term":         a.termLabel(enr.TermID),
			"subject_code": sub.Code,
			"subject_name": sub.Name,
			"units":        fmtInt(a.e.subjectUnits(enr.SubjectID)),
			"grade":        gradeCell(enr.Grade),
			"remark":       remark,
		})
	}

	if gpa := a.e.GPA(studentID); gpa.Defined {
		table.Meta["gpa"] = fmtFloat(gpa.Value)
	} else {
		table.Meta["gpa"] = models.UndefinedCell
	}
	return table, nil
}

// GPATrend is one row per attended term plus the overall trend label in
// the table meta.
func (a *Assembler) GPATrend(studentID string) (models.ResultTable, error) {
	if _, ok := a.e.Store().Student(studentID); !ok {
		return models.ResultTable{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	series := a.e.TermGPASeries(studentID)
	table := models.ResultTable{
		Name:    TableGPATrend,
		Filters: map[string]string{"student": studentID},
		Columns: []string{"term", "gpa"},
		Meta:    map[string]string{"trend": Trend(series)},
	}
	for _, point := range series {
		cell := models.UndefinedCell
		if point.GPA.Defined {
			cell = fmtFloat(point.GPA.Value)
		}
		table.Rows = append(table.Rows, map[string]string{
			"term": point.TermLabel,
			"gpa":  cell,
		})
	}
	return table, nil
}

// Progression lists a student's recommended and blocked subjects for
// the next term, with positions in the table meta.
func (a *Assembler) Progression(studentID string) (models.ResultTable, error) {
	result, err := a.e.ResolveProgression(studentID)
	if err != nil {
		return models.ResultTable{}, err
	}

	table := models.ResultTable{
		Name:    TableProgression,
		Filters: map[string]string{"student": studentID},
		Columns: []string{"classification", "subject_code", "subject_name", "units", "reason", "missing_prerequisites"},
		Meta: map[string]string{
			"current_year": fmtInt(result.CurrentYear),
			"current_term": fmtInt(result.CurrentTerm),
			"next_year":    fmtInt(result.NextYear),
			"next_term":    fmtInt(result.NextTerm),
		},
	}
	for _, subject := range result.Recommended {
		table.Rows = append(table.Rows, map[string]string{
			"classification":        "Recommended",
			"subject_code":          subject.SubjectCode,
			"subject_name":          subject.Name,
			"units":                 fmtInt(subject.Units),
			"reason":                string(subject.Reason),
			"missing_prerequisites": "",
		})
	}
	for _, subject := range result.Blocked {
		table.Rows = append(table.Rows, map[string]string{
			"classification":        "Blocked",
			"subject_code":          subject.SubjectCode,
			"subject_name":          subject.Name,
			"units":                 fmtInt(subject.Units),
			"reason":                "",
			"missing_prerequisites": strings.Join(subject.MissingPrerequisites, ", "),
		})
	}
	return table, nil
}

// Intervention flags a professor's at-risk enrollments.
func (a *Assembler) Intervention(professorID string) (models.ResultTable, error) {
	if _, ok := a.e.Store().Professor(professorID); !ok {
		return models.ResultTable{}, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
	}

	table := models.ResultTable{
		Name:    TableIntervention,
		Filters: map[string]string{"professor": professorID},
		Columns: []string{"student_id", "student_name", "subject_code", "term", "risk_flag"},
	}
	for _, row := range a.e.Intervention(professorID) {
		table.Rows = append(table.Rows, map[string]string{
			"student_id":   row.StudentID,
			"student_name": row.StudentName,
			"subject_code": row.SubjectCode,
			"term":         a.termLabel(row.TermID),
			"risk_flag":    row.RiskFlag,
		})
	}
	return table, nil
}

// SubmissionStatus reports grade encoding progress per subject for
// one professor's class lists.
func (a *Assembler) SubmissionStatus(professorID string) (models.ResultTable, error) {
	if _, ok := a.e.Store().Professor(professorID); !ok {
		return models.ResultTable{}, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
	}

	table := models.ResultTable{
		Name:    TableSubmissionStatus,
		Filters: map[string]string{"professor": professorID},
		Columns: []string{"subject_code", "subject_name", "submitted", "total", "rate"},
	}
	for _, row := range a.e.SubmissionStatus(professorID) {
		table.Rows = append(table.Rows, map[string]string{
			"subject_code": row.SubjectCode,
			"subject_name": row.SubjectName,
			"submitted":    fmtInt(row.Submitted),
			"total":        fmtInt(row.Total),
			"rate":         fmtFloat(row.Rate),
		})
	}
	return table, nil
}

// EnrollmentTrend is one row per term of headcounts.
func (a *Assembler) EnrollmentTrend() (models.ResultTable, error) {
	table := models.ResultTable{
		Name:    TableEnrollmentTrend,
		Columns: []string{"term", "enrolled", "new_enrollees"},
	}
	for _, row := range a.e.EnrollmentTrend() {
		table.Rows = append(table.Rows, map[string]string{
			"term":          row.TermLabel,
			"enrolled":      fmtInt(row.Enrolled),
			"new_enrollees": fmtInt(row.NewEnrollees),
		})
	}
	return table, nil
}

// GradeQuery lists the students whose numeric grade in a subject
// satisfies a comparison.
func (a *Assembler) GradeQuery(subjectCode string, cmp Comparison, value float64) (models.ResultTable, error) {
	sub, ok := a.e.Store().SubjectByCode(subjectCode)
	if !ok {
		return models.ResultTable{}, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	table := models.ResultTable{
		Name: TableGradeQuery,
		Filters: map[string]string{
			"subject":    subjectCode,
			"comparison": cmp.String(),
			"threshold":  fmtFloat(value),
		},
		Columns: []string{"student_id", "student_name", "term", "grade"},
	}
	for _, enr := range a.e.QueryGrades(sub.ID, cmp, value) {
		student, _ := a.e.Store().Student(enr.StudentID)
		table.Rows = append(table.Rows, map[string]string{
			"student_id":   enr.StudentID,
			"student_name": student.Name,
			"term":         a.termLabel(enr.TermID),
			"grade":        fmtFloat(enr.Grade.Score),
		})
	}
	return table, nil
}
