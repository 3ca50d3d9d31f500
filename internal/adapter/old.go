package adapter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

// adaptOld converts the legacy shape: students keyed by id only,
// subjects keyed by code, grades stored as parallel arrays per student
// per semester, teachers as free-text names.
func adaptOld(raw models.RawSnapshot) *Result {
	res := &Result{Variant: models.VariantOld}
	resolver := newProfessorResolver(raw.NewProfessors)

	studentIDs := make(map[string]struct{}, len(raw.OldStudents))
	for _, row := range raw.OldStudents {
		if strings.TrimSpace(row.ID) == "" {
			res.Warnings.MissingKey++
			continue
		}
		studentIDs[row.ID] = struct{}{}
		res.Students = append(res.Students, models.Student{
			ID:          row.ID,
			Number:      row.ID,
			Name:        row.Name,
			ProgramCode: row.Course,
			YearLevel:   row.YearLevel,
		})
	}

	// Legacy subjects carry no surrogate id; the code is the id.
	subjectIDs := make(map[string]struct{}, len(raw.OldSubjects))
	subjectProfessor := make(map[string]string, len(raw.OldSubjects))
	for _, row := range raw.OldSubjects {
		code := strings.TrimSpace(row.Code)
		if code == "" {
			res.Warnings.MissingKey++
			continue
		}
		units := row.Units
		if units <= 0 {
			units = models.DefaultSubjectUnits
		}
		subjectIDs[code] = struct{}{}
		subjectProfessor[code] = resolver.Resolve(row.Teacher)
		res.Subjects = append(res.Subjects, models.Subject{
			ID:            code,
			Code:          code,
			Name:          row.Description,
			Units:         units,
			LecHours:      row.LecHours,
			LabHours:      row.LabHours,
			Prerequisites: splitCodes(row.Prerequisites),
		})
	}

	termIDs := make(map[string]struct{}, len(raw.OldSemesters))
	for _, row := range raw.OldSemesters {
		if strings.TrimSpace(row.ID) == "" {
			res.Warnings.MissingKey++
			continue
		}
		number := parseSemesterNumber(row.Semester)
		termIDs[row.ID] = struct{}{}
		res.Terms = append(res.Terms, models.Term{
			ID:           row.ID,
			Label:        fmt.Sprintf("%s Semester %s", row.Semester, row.SchoolYear),
			AcademicYear: row.SchoolYear,
			Number:       number,
			SortKey:      models.TermSortKey(row.SchoolYear, number),
		})
	}

	for _, doc := range raw.OldGrades {
		if strings.TrimSpace(doc.StudentID) == "" || strings.TrimSpace(doc.SemesterID) == "" {
			res.Warnings.MissingKey++
			continue
		}
		if _, ok := studentIDs[doc.StudentID]; !ok {
			res.Warnings.MissingReferences++
			continue
		}
		if _, ok := termIDs[doc.SemesterID]; !ok {
			res.Warnings.MissingReferences++
			continue
		}

		for i, rawCode := range doc.SubjectCodes {
			code := strings.TrimSpace(rawCode)
			if code == "" {
				res.Warnings.MissingKey++
				continue
			}
			if _, ok := subjectIDs[code]; !ok {
				res.Warnings.MissingReferences++
				continue
			}

			// A grade array shorter than the code array is a source
			// defect; the missing entries count as malformed and the
			// grade stays pending.
			token := ""
			if i < len(doc.Grades) {
				token = doc.Grades[i]
			} else {
				res.Warnings.MalformedGrades++
			}

			grade, outcome := parseGradeToken(token)
			switch outcome {
			case gradeMalformed:
				res.Warnings.MalformedGrades++
			case gradeOutOfRange:
				res.Warnings.OutOfRangeGrades++
				continue
			}

			professorID := ""
			if i < len(doc.Teachers) {
				professorID = resolver.Resolve(doc.Teachers[i])
			}
			if professorID == "" {
				professorID = subjectProfessor[code]
			}

			res.Enrollments = append(res.Enrollments, models.Enrollment{
				StudentID:   doc.StudentID,
				SubjectID:   code,
				TermID:      doc.SemesterID,
				ProfessorID: professorID,
				Grade:       grade,
			})
		}
	}

	res.Curricula = adaptCurricula(raw.Curricula, raw.CurriculumSubjects)
	applyProgramCodes(res.Subjects, res.Curricula)

	for _, row := range raw.NewProfessors {
		res.Professors = append(res.Professors, models.Professor{ID: row.ID, Name: row.Name})
	}
	res.Professors = append(res.Professors, resolver.MintedProfessors()...)
	res.Warnings.UnresolvedNames = resolver.UnresolvedNames()

	return res
}

// parseSemesterNumber maps the legacy textual semester labels onto the
// term-in-year ordinal.
func parseSemesterNumber(label string) int {
	t := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.HasPrefix(t, "first"), strings.HasPrefix(t, "1"):
		return 1
	case strings.HasPrefix(t, "second"), strings.HasPrefix(t, "2"):
		return 2
	}
	if n, err := strconv.Atoi(t); err == nil {
		return n
	}
	return 0
}

// applyProgramCodes backfills subject program membership from the
// curricula that plan them. Subjects planned by no curriculum keep
// whatever the source row carried.
func applyProgramCodes(subjects []models.Subject, curricula []models.Curriculum) {
	programByCode := make(map[string]string)
	for _, cur := range curricula {
		for _, cs := range cur.Subjects {
			if _, ok := programByCode[cs.SubjectCode]; !ok {
				programByCode[cs.SubjectCode] = cur.ProgramCode
			}
		}
	}
	for i := range subjects {
		if subjects[i].ProgramCode == "" {
			subjects[i].ProgramCode = programByCode[subjects[i].Code]
		}
	}
}
