package models

// GradeStatus discriminates the four states a grade record can be in.
// The distinction is load-bearing: every metric excludes non-numeric
// grades from averages instead of coercing them to zero.
type GradeStatus string

const (
	// GradeNumeric means a recorded score in [0,100].
	GradeNumeric GradeStatus = "NUMERIC"
	// GradeInProgress covers INC and not-yet-encoded grades.
	GradeInProgress GradeStatus = "IN_PROGRESS"
	// GradeDropped means the student formally dropped the subject.
	GradeDropped GradeStatus = "DROPPED"
	// GradeAbsent means no record was ever created.
	GradeAbsent GradeStatus = "ABSENT"
)

// GradeValue is the tagged grade variant. Score is meaningful only when
// Status == GradeNumeric.
type GradeValue struct {
	Status GradeStatus `json:"status"`
	Score  float64     `json:"score,omitempty"`
}

// NumericGrade builds a numeric grade value.
func NumericGrade(score float64) GradeValue {
	return GradeValue{Status: GradeNumeric, Score: score}
}

// IsNumeric reports whether the grade carries a usable score.
func (g GradeValue) IsNumeric() bool {
	return g.Status == GradeNumeric
}

// Enrollment is one (student, subject, term) grade record in canonical
// form. SectionID is empty for the Old schema.
type Enrollment struct {
	StudentID   string     `json:"student_id"`
	SubjectID   string     `json:"subject_id"`
	TermID      string     `json:"term_id"`
	SectionID   string     `json:"section_id,omitempty"`
	ProfessorID string     `json:"professor_id,omitempty"`
	Grade       GradeValue `json:"grade"`
}
