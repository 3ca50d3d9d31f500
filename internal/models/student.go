package models

// Student is a canonical learner record, independent of source schema.
type Student struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	Name           string `json:"name"`
	ProgramCode    string `json:"program_code"`
	YearLevel      int    `json:"year_level"`
	CurriculumYear string `json:"curriculum_year"`
}

// Professor is a canonical staff record. Old-schema teachers keyed by
// free-text name are resolved to an ID at adapter time; downstream code
// never compares professors by display name.
type Professor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
