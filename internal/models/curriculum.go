package models

// CurriculumSubject places a subject in the plan of study: which year
// level and term-in-year it belongs to and what must be passed first.
// Prerequisites use AND semantics.
type CurriculumSubject struct {
	SubjectCode   string   `json:"subject_code"`
	Name          string   `json:"name"`
	YearLevel     int      `json:"year_level"`
	TermNumber    int      `json:"term_number"`
	Units         int      `json:"units"`
	LecHours      int      `json:"lec_hours"`
	LabHours      int      `json:"lab_hours"`
	Prerequisites []string `json:"prerequisites"`
}

// Curriculum is the authoritative plan of study for one program and
// curriculum revision.
type Curriculum struct {
	ProgramCode    string              `json:"program_code"`
	CurriculumYear string              `json:"curriculum_year"`
	Subjects       []CurriculumSubject `json:"subjects"`
}

// Key identifies a curriculum uniquely within a snapshot.
func (c Curriculum) Key() string {
	return CurriculumKey(c.ProgramCode, c.CurriculumYear)
}

// CurriculumKey builds the lookup key used by the record store.
func CurriculumKey(programCode, curriculumYear string) string {
	return programCode + "|" + curriculumYear
}
