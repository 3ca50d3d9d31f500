package models

// DefaultSubjectUnits is applied when the source record omits credit
// units. A subject never carries zero units: units are the GPA weight and
// a zero would poison the weighted denominator.
const DefaultSubjectUnits = 3

// Subject is a canonical academic subject.
type Subject struct {
	ID            string   `json:"id"`
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Units         int      `json:"units"`
	LecHours      int      `json:"lec_hours"`
	LabHours      int      `json:"lab_hours"`
	ProgramCode   string   `json:"program_code"`
	Prerequisites []string `json:"prerequisites"`
}

// Section groups a subject offering: one professor, one term, an enrolled
// student set. Only the New schema records sections; when absent, class
// statistics fall back to all takers of the subject.
type Section struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	SubjectID   string   `json:"subject_id"`
	TermID      string   `json:"term_id"`
	ProfessorID string   `json:"professor_id"`
	StudentIDs  []string `json:"student_ids"`
}
