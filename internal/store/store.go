// Package store holds the immutable, hash-indexed view over one adapted
// record batch. A store is built once per snapshot and never mutated;
// refreshing data means building a new store.
package store

import (
	"sort"

	"github.com/registrar-hub/registrar-analytics-api/internal/adapter"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
)

// Store indexes canonical entities for O(1) amortized lookups. All
// returned slices are owned by the store and must not be modified.
type Store struct {
	variant  models.SchemaVariant
	warnings models.AdapterWarnings

	students      map[string]models.Student
	studentList   []models.Student
	subjects      map[string]models.Subject
	subjectByCode map[string]string
	subjectList   []models.Subject
	terms         map[string]models.Term
	termList      []models.Term
	professors    map[string]models.Professor

	curricula          map[string]models.Curriculum
	curriculaByProgram map[string][]models.Curriculum

	byStudent     map[string][]models.Enrollment
	bySubject     map[string][]models.Enrollment
	bySubjectTerm map[string][]models.Enrollment
	byTerm        map[string][]models.Enrollment
	byProfessor   map[string][]models.Enrollment

	sectionsBySubject map[string][]models.Section
	sections          map[string]models.Section

	studentSetByTerm map[string]map[string]struct{}
}

// New builds a store from an adapted batch. Construction sorts every
// index deterministically so identical input always produces an
// identical store, which in turn keeps downstream result tables byte
// identical across runs.
func New(res *adapter.Result) (*Store, error) {
	if res == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "cannot build record store from nil adapter result")
	}

	s := &Store{
		variant:  res.Variant,
		warnings: res.Warnings,

		students:      make(map[string]models.Student, len(res.Students)),
		subjects:      make(map[string]models.Subject, len(res.Subjects)),
		subjectByCode: make(map[string]string, len(res.Subjects)),
		terms:         make(map[string]models.Term, len(res.Terms)),
		professors:    make(map[string]models.Professor, len(res.Professors)),

		curricula:          make(map[string]models.Curriculum, len(res.Curricula)),
		curriculaByProgram: make(map[string][]models.Curriculum),

		byStudent:     make(map[string][]models.Enrollment),
		bySubject:     make(map[string][]models.Enrollment),
		bySubjectTerm: make(map[string][]models.Enrollment),
		byTerm:        make(map[string][]models.Enrollment),
		byProfessor:   make(map[string][]models.Enrollment),

		sectionsBySubject: make(map[string][]models.Section),
		sections:          make(map[string]models.Section, len(res.Sections)),

		studentSetByTerm: make(map[string]map[string]struct{}),
	}

	s.studentList = append([]models.Student(nil), res.Students...)
	sort.Slice(s.studentList, func(i, j int) bool { return s.studentList[i].ID < s.studentList[j].ID })
	for _, st := range s.studentList {
		s.students[st.ID] = st
	}

	s.subjectList = append([]models.Subject(nil), res.Subjects...)
	sort.Slice(s.subjectList, func(i, j int) bool { return s.subjectList[i].Code < s.subjectList[j].Code })
	for _, sub := range s.subjectList {
		s.subjects[sub.ID] = sub
		s.subjectByCode[sub.Code] = sub.ID
	}

	s.termList = append([]models.Term(nil), res.Terms...)
	sort.Slice(s.termList, func(i, j int) bool {
		if s.termList[i].SortKey != s.termList[j].SortKey {
			return s.termList[i].SortKey < s.termList[j].SortKey
		}
		return s.termList[i].ID < s.termList[j].ID
	})
	for _, term := range s.termList {
		s.terms[term.ID] = term
	}

	for _, prof := range res.Professors {
		s.professors[prof.ID] = prof
	}

	for _, cur := range res.Curricula {
		s.curricula[cur.Key()] = cur
		s.curriculaByProgram[cur.ProgramCode] = append(s.curriculaByProgram[cur.ProgramCode], cur)
	}

	enrollments := append([]models.Enrollment(nil), res.Enrollments...)
	sort.Slice(enrollments, func(i, j int) bool {
		a, b := enrollments[i], enrollments[j]
		if a.StudentID != b.StudentID {
			return a.StudentID < b.StudentID
		}
		if a.TermID != b.TermID {
			return a.TermID < b.TermID
		}
		return a.SubjectID < b.SubjectID
	})
	for _, enr := range enrollments {
		s.byStudent[enr.StudentID] = append(s.byStudent[enr.StudentID], enr)
		s.bySubject[enr.SubjectID] = append(s.bySubject[enr.SubjectID], enr)
		key := subjectTermKey(enr.SubjectID, enr.TermID)
		s.bySubjectTerm[key] = append(s.bySubjectTerm[key], enr)
		s.byTerm[enr.TermID] = append(s.byTerm[enr.TermID], enr)
		if enr.ProfessorID != "" {
			s.byProfessor[enr.ProfessorID] = append(s.byProfessor[enr.ProfessorID], enr)
		}

		set, ok := s.studentSetByTerm[enr.TermID]
		if !ok {
			set = make(map[string]struct{})
			s.studentSetByTerm[enr.TermID] = set
		}
		set[enr.StudentID] = struct{}{}
	}

	sections := append([]models.Section(nil), res.Sections...)
	sort.Slice(sections, func(i, j int) bool { return sections[i].ID < sections[j].ID })
	for _, sec := range sections {
		s.sections[sec.ID] = sec
		s.sectionsBySubject[sec.SubjectID] = append(s.sectionsBySubject[sec.SubjectID], sec)
	}

	return s, nil
}

func subjectTermKey(subjectID, termID string) string {
	return subjectID + "|" + termID
}

// Variant reports which source schema the store was built from.
func (s *Store) Variant() models.SchemaVariant { return s.variant }

// Warnings returns the adapter diagnostics for this snapshot.
func (s *Store) Warnings() models.AdapterWarnings { return s.warnings }

// Students returns all students sorted by id.
func (s *Store) Students() []models.Student { return s.studentList }

// Student looks a student up by id.
func (s *Store) Student(id string) (models.Student, bool) {
	st, ok := s.students[id]
	return st, ok
}

// Subjects returns all subjects sorted by code.
func (s *Store) Subjects() []models.Subject { return s.subjectList }

// Subject looks a subject up by id.
func (s *Store) Subject(id string) (models.Subject, bool) {
	sub, ok := s.subjects[id]
	return sub, ok
}

// SubjectByCode looks a subject up by its display code.
func (s *Store) SubjectByCode(code string) (models.Subject, bool) {
	id, ok := s.subjectByCode[code]
	if !ok {
		return models.Subject{}, false
	}
	return s.subjects[id], true
}

// Terms returns all terms in ascending chronological order.
func (s *Store) Terms() []models.Term { return s.termList }

// Term looks a term up by id.
func (s *Store) Term(id string) (models.Term, bool) {
	term, ok := s.terms[id]
	return term, ok
}

// Professor looks a professor up by id.
func (s *Store) Professor(id string) (models.Professor, bool) {
	p, ok := s.professors[id]
	return p, ok
}

// EnrollmentsByStudent returns a student's full enrollment history
// ordered by term id, then subject id. Term ids are compared as
// strings, not chronologically; callers needing chronological order
// re-sort on the term's sort key.
func (s *Store) EnrollmentsByStudent(studentID string) []models.Enrollment {
	return s.byStudent[studentID]
}

// EnrollmentsBySubject returns every enrollment ever recorded for a
// subject.
func (s *Store) EnrollmentsBySubject(subjectID string) []models.Enrollment {
	return s.bySubject[subjectID]
}

// EnrollmentsBySubjectTerm returns the enrollments for one subject
// offering in one term.
func (s *Store) EnrollmentsBySubjectTerm(subjectID, termID string) []models.Enrollment {
	return s.bySubjectTerm[subjectTermKey(subjectID, termID)]
}

// EnrollmentsByTerm returns every enrollment in a term.
func (s *Store) EnrollmentsByTerm(termID string) []models.Enrollment {
	return s.byTerm[termID]
}

// EnrollmentsByProfessor returns every enrollment taught by a
// professor.
func (s *Store) EnrollmentsByProfessor(professorID string) []models.Enrollment {
	return s.byProfessor[professorID]
}

// SectionsBySubject returns the sections offering a subject, sorted by
// id.
func (s *Store) SectionsBySubject(subjectID string) []models.Section {
	return s.sectionsBySubject[subjectID]
}

// Section looks a section up by id.
func (s *Store) Section(id string) (models.Section, bool) {
	sec, ok := s.sections[id]
	return sec, ok
}

// StudentSetInTerm returns the set of student ids with at least one
// enrollment in the term. The returned map is shared; callers must not
// modify it.
func (s *Store) StudentSetInTerm(termID string) map[string]struct{} {
	return s.studentSetByTerm[termID]
}

// Curriculum returns the plan of study for a program and curriculum
// year.
func (s *Store) Curriculum(programCode, curriculumYear string) (models.Curriculum, bool) {
	cur, ok := s.curricula[models.CurriculumKey(programCode, curriculumYear)]
	return cur, ok
}

// CurriculumFor resolves a student's plan of study. Legacy records
// carry no curriculum year; when the exact key misses and the program
// has exactly one registered curriculum, that one is used.
func (s *Store) CurriculumFor(student models.Student) (models.Curriculum, bool) {
	if cur, ok := s.Curriculum(student.ProgramCode, student.CurriculumYear); ok {
		return cur, true
	}
	if list := s.curriculaByProgram[student.ProgramCode]; len(list) == 1 {
		return list[0], true
	}
	return models.Curriculum{}, false
}

// Curricula returns every registered curriculum sorted by key.
func (s *Store) Curricula() []models.Curriculum {
	out := make([]models.Curriculum, 0, len(s.curricula))
	for _, cur := range s.curricula {
		out = append(out, cur)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
