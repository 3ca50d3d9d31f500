package models

// GPAResult is a credit-weighted mean of numeric grades. Defined is false
// when no numeric grade exists in scope; callers must render that case
// distinctly from a real 0.0.
type GPAResult struct {
	Value   float64 `json:"value"`
	Units   int     `json:"units"`
	Defined bool    `json:"defined"`
}

// TermGPA pairs a term with the GPA earned in it, in term order.
type TermGPA struct {
	TermID    string    `json:"term_id"`
	TermLabel string    `json:"term_label"`
	SortKey   string    `json:"-"`
	GPA       GPAResult `json:"gpa"`
}

// Trend labels for a student's GPA series.
const (
	TrendImproving      = "Improving"
	TrendNeedsAttention = "Needs Attention"
	TrendStable         = "Stable"
	TrendInsufficient   = "Insufficient Data"
)

// RankScope records which population a class rank was computed against.
type RankScope string

const (
	// RankScopeSection means the student's section roster.
	RankScopeSection RankScope = "section"
	// RankScopeSubject means all takers of the subject in the term.
	RankScopeSubject RankScope = "subject"
)

// ClassRankResult is a competition-ranked standing within a class
// population. Defined is false when the student has no numeric grade for
// the (subject, term), or nobody does.
type ClassRankResult struct {
	Rank         int       `json:"rank"`
	ClassSize    int       `json:"class_size"`
	Grade        float64   `json:"grade"`
	ClassAverage float64   `json:"class_average"`
	Scope        RankScope `json:"scope"`
	Defined      bool      `json:"defined"`
}

// GradeBin is one caller-specified inclusive numeric bin.
type GradeBin struct {
	Label string  `json:"label"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
}

// BinShare is the share of a grade list falling in one bin.
type BinShare struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
	Count   int     `json:"count"`
}

// Distribution is a binned percentage breakdown of a grade list.
// Percentages sum to 100.00 (±0.01) whenever Total > 0.
type Distribution struct {
	Bins  []BinShare `json:"bins"`
	Total int        `json:"total"`
}

// ClassSummary condenses one subject-term grade list.
type ClassSummary struct {
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Highest float64 `json:"highest"`
	Lowest  float64 `json:"lowest"`
	Count   int     `json:"count"`
	Defined bool    `json:"defined"`
}

// PassFailSummary reconciles a curriculum-scoped pass/fail view:
// Passed + Failed + Incomplete + NotYetTaken == TotalRequired.
// Incomplete counts attempted-but-non-numeric records (INC and drops);
// NotYetTaken counts plan subjects with no record at all.
type PassFailSummary struct {
	TotalRequired int `json:"total_required"`
	Passed        int `json:"passed"`
	Failed        int `json:"failed"`
	Incomplete    int `json:"incomplete"`
	NotYetTaken   int `json:"not_yet_taken"`
}

// SubjectPassFail is the per-subject, per-term pass/fail split over
// numeric grades only.
type SubjectPassFail struct {
	SubjectID  string  `json:"subject_id"`
	TermID     string  `json:"term_id"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	Incomplete int     `json:"incomplete"`
	Dropped    int     `json:"dropped"`
	PassPct    float64 `json:"pass_pct"`
	FailPct    float64 `json:"fail_pct"`
}

// RetentionResult compares the student sets of two adjacent terms.
// Defined is false only for the final term of a sequence, which has no
// next term to retain into.
type RetentionResult struct {
	FromTermID string  `json:"from_term_id"`
	ToTermID   string  `json:"to_term_id"`
	Retained   int     `json:"retained"`
	Dropped    int     `json:"dropped"`
	Rate       float64 `json:"rate"`
	Defined    bool    `json:"defined"`
}

// DifficultyLevel is the fixed three-step difficulty label.
type DifficultyLevel string

// Difficulty labels, thresholds documented on the engine constants.
const (
	DifficultyHigh   DifficultyLevel = "High"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyLow    DifficultyLevel = "Low"
)

// SubjectDifficultyResult reports fail and dropout rates for a subject
// over a population of enrollments.
type SubjectDifficultyResult struct {
	SubjectID   string          `json:"subject_id"`
	SubjectCode string          `json:"subject_code"`
	SubjectName string          `json:"subject_name"`
	FailRate    float64         `json:"fail_rate"`
	DropoutRate float64         `json:"dropout_rate"`
	Level       DifficultyLevel `json:"level"`
}

// EnrollmentTrendRow counts warm bodies per term and how many of them
// appear for the first time.
type EnrollmentTrendRow struct {
	TermID       string `json:"term_id"`
	TermLabel    string `json:"term_label"`
	Enrolled     int    `json:"enrolled"`
	NewEnrollees int    `json:"new_enrollees"`
}

// RankedStudent is one row of a GPA leaderboard.
type RankedStudent struct {
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	ProgramCode string  `json:"program_code"`
	TermID      string  `json:"term_id"`
	GPA         float64 `json:"gpa"`
	Rank        int     `json:"rank"`
}

// HonorsResult lists dean's-list and probation candidates.
type HonorsResult struct {
	DeansList []RankedStudent `json:"deans_list"`
	Probation []RankedStudent `json:"probation"`
}

// Risk flags used by intervention screening.
const (
	RiskIncomplete = "Incomplete"
	RiskDropped    = "Dropped"
	RiskFailing    = "Fail (<75)"
)

// InterventionRow flags one enrollment needing follow-up.
type InterventionRow struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	SubjectID   string `json:"subject_id"`
	SubjectCode string `json:"subject_code"`
	TermID      string `json:"term_id"`
	RiskFlag    string `json:"risk_flag"`
}

// SubmissionStatus is one subject's grade encoding progress for a
// professor's class list.
type SubmissionStatus struct {
	SubjectID   string  `json:"subject_id"`
	SubjectCode string  `json:"subject_code"`
	SubjectName string  `json:"subject_name"`
	Submitted   int     `json:"submitted"`
	Total       int     `json:"total"`
	Rate        float64 `json:"rate"`
}

// ComparisonRow measures one student's standing against the class for one
// subject. Grade is nil when the student has no numeric grade there.
type ComparisonRow struct {
	SubjectID    string   `json:"subject_id"`
	SubjectCode  string   `json:"subject_code"`
	SubjectName  string   `json:"subject_name"`
	ClassSize    int      `json:"class_size"`
	Grade        *float64 `json:"grade,omitempty"`
	ClassAverage float64  `json:"class_average"`
	Rank         int      `json:"rank,omitempty"`
	Remark       string   `json:"remark"`
}
