package models

// TermsPerYear fixes the academic calendar the progression resolver
// assumes: two terms per year level.
const TermsPerYear = 2

// ProgressionReason explains why a subject landed in the recommended set.
type ProgressionReason string

const (
	// ReasonRepeat marks a failed subject recommended again.
	ReasonRepeat ProgressionReason = "repeat"
	// ReasonOnTrack marks a next-position subject with prerequisites met.
	ReasonOnTrack ProgressionReason = "on_track"
)

// ProgressionSubject is one curriculum subject classified by the
// resolver. MissingPrerequisites is populated only for blocked subjects.
type ProgressionSubject struct {
	SubjectCode          string            `json:"subject_code"`
	Name                 string            `json:"name"`
	YearLevel            int               `json:"year_level"`
	TermNumber           int               `json:"term_number"`
	Units                int               `json:"units"`
	Reason               ProgressionReason `json:"reason,omitempty"`
	MissingPrerequisites []string          `json:"missing_prerequisites,omitempty"`
}

// ProgressionResult classifies a student's next-term subjects.
// Recommended and Blocked are disjoint.
type ProgressionResult struct {
	StudentID   string               `json:"student_id"`
	CurrentYear int                  `json:"current_year"`
	CurrentTerm int                  `json:"current_term"`
	NextYear    int                  `json:"next_year"`
	NextTerm    int                  `json:"next_term"`
	Recommended []ProgressionSubject `json:"recommended"`
	Blocked     []ProgressionSubject `json:"blocked"`
}

// ProgressionFailure records a per-student resolution error inside a
// batch; the batch itself still succeeds for the other students.
type ProgressionFailure struct {
	StudentID string `json:"student_id"`
	Reason    string `json:"reason"`
}
