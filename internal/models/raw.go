package models

import "github.com/lib/pq"

// SchemaVariant tags a raw record batch with the source schema it uses.
type SchemaVariant string

const (
	// VariantOld is the legacy record shape: parallel arrays per student
	// per semester, teachers keyed by free-text name.
	VariantOld SchemaVariant = "old"
	// VariantNew is the migrated shape: one row per enrollment,
	// professors keyed by id, sections and curricula present.
	VariantNew SchemaVariant = "new"
)

// Valid reports whether v names a known schema variant.
func (v SchemaVariant) Valid() bool {
	return v == VariantOld || v == VariantNew
}

// OldStudentRow mirrors the legacy students table.
type OldStudentRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Course    string `db:"course"`
	YearLevel int    `db:"year_level"`
}

// OldSubjectRow mirrors the legacy subjects table. Teacher is a display
// name, not an id; Units may be zero when the source never recorded it.
type OldSubjectRow struct {
	Code          string `db:"code"`
	Description   string `db:"description"`
	Units         int    `db:"units"`
	LecHours      int    `db:"lec_hours"`
	LabHours      int    `db:"lab_hours"`
	Teacher       string `db:"teacher"`
	Prerequisites string `db:"prerequisites"`
}

// OldSemesterRow mirrors the legacy semesters table. Semester holds a
// textual label ("First", "Second", "1", ...).
type OldSemesterRow struct {
	ID         string `db:"id"`
	Semester   string `db:"semester"`
	SchoolYear string `db:"school_year"`
}

// OldGradeDoc mirrors one legacy grade document: one row per student per
// semester, with parallel arrays of subject codes, grade tokens and
// teacher names. Grade tokens are text: a numeric string, "INC",
// "Dropped", "N/A" or empty.
type OldGradeDoc struct {
	StudentID    string         `db:"student_id"`
	SemesterID   string         `db:"semester_id"`
	SubjectCodes pq.StringArray `db:"subject_codes"`
	Grades       pq.StringArray `db:"grades"`
	Teachers     pq.StringArray `db:"teachers"`
}

// NewStudentRow mirrors the migrated students table.
type NewStudentRow struct {
	ID             string `db:"id"`
	StudentNumber  string `db:"student_number"`
	Name           string `db:"name"`
	CourseCode     string `db:"course_code"`
	YearLevel      int    `db:"year_level"`
	CurriculumYear string `db:"curriculum_year"`
}

// NewSubjectRow mirrors the migrated subjects table.
type NewSubjectRow struct {
	ID          string `db:"id"`
	SubjectCode string `db:"subject_code"`
	SubjectName string `db:"subject_name"`
	Units       int    `db:"units"`
	LecHours    int    `db:"lec_hours"`
	LabHours    int    `db:"lab_hours"`
	ProfessorID string `db:"professor_id"`
}

// NewTermRow mirrors the migrated terms table.
type NewTermRow struct {
	ID           string `db:"id"`
	Code         string `db:"code"`
	AcademicYear string `db:"academic_year"`
	Number       int    `db:"number"`
}

// NewGradeRow mirrors the migrated grades table: one row per enrollment.
// NumericGrade is nil while the grade is not yet encoded; Status carries
// the non-numeric token ("INC", "Dropped") when applicable.
type NewGradeRow struct {
	StudentID    string   `db:"student_id"`
	SubjectID    string   `db:"subject_id"`
	TermID       string   `db:"term_id"`
	NumericGrade *float64 `db:"numeric_grade"`
	Status       *string  `db:"status"`
}

// NewSectionRow mirrors the migrated sections table.
type NewSectionRow struct {
	ID          string         `db:"id"`
	SectionName string         `db:"section_name"`
	SubjectID   string         `db:"subject_id"`
	TermID      string         `db:"term_id"`
	ProfessorID string         `db:"professor_id"`
	StudentIDs  pq.StringArray `db:"student_ids"`
}

// NewProfessorRow mirrors the migrated professors table.
type NewProfessorRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// CurriculumRow mirrors the curricula table header.
type CurriculumRow struct {
	ID             string `db:"id"`
	CourseCode     string `db:"course_code"`
	CurriculumYear string `db:"curriculum_year"`
}

// CurriculumSubjectRow mirrors one planned subject inside a curriculum.
// Prerequisites is a comma-separated code list in both source schemas.
type CurriculumSubjectRow struct {
	CurriculumID  string `db:"curriculum_id"`
	SubjectCode   string `db:"subject_code"`
	SubjectName   string `db:"subject_name"`
	YearLevel     int    `db:"year_level"`
	Semester      int    `db:"semester"`
	Units         int    `db:"units"`
	LecHours      int    `db:"lec_hours"`
	LabHours      int    `db:"lab_hours"`
	Prerequisites string `db:"prerequisites"`
}

// RawSnapshot is everything the data-access collaborator hands the
// adapter for one analytics run, tagged with its schema variant. Fields
// irrelevant to the variant stay empty.
type RawSnapshot struct {
	Variant SchemaVariant

	OldStudents  []OldStudentRow
	OldSubjects  []OldSubjectRow
	OldSemesters []OldSemesterRow
	OldGrades    []OldGradeDoc

	NewStudents   []NewStudentRow
	NewSubjects   []NewSubjectRow
	NewTerms      []NewTermRow
	NewGrades     []NewGradeRow
	NewSections   []NewSectionRow
	NewProfessors []NewProfessorRow

	Curricula          []CurriculumRow
	CurriculumSubjects []CurriculumSubjectRow
}
