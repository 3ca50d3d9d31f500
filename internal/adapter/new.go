package adapter

import (
	"strings"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

// adaptNew converts the migrated shape: one row per enrollment,
// professors keyed by id, sections and curricula first-class.
func adaptNew(raw models.RawSnapshot) *Result {
	res := &Result{Variant: models.VariantNew}

	studentIDs := make(map[string]struct{}, len(raw.NewStudents))
	for _, row := range raw.NewStudents {
		if strings.TrimSpace(row.ID) == "" {
			res.Warnings.MissingKey++
			continue
		}
		studentIDs[row.ID] = struct{}{}
		res.Students = append(res.Students, models.Student{
			ID:             row.ID,
			Number:         row.StudentNumber,
			Name:           row.Name,
			ProgramCode:    row.CourseCode,
			YearLevel:      row.YearLevel,
			CurriculumYear: row.CurriculumYear,
		})
	}

	res.Curricula = adaptCurricula(raw.Curricula, raw.CurriculumSubjects)

	// The migrated subject rows carry no prerequisite column; the
	// curriculum plan is authoritative for prerequisites here.
	prereqsByCode := make(map[string][]string)
	for _, cur := range res.Curricula {
		for _, cs := range cur.Subjects {
			if _, ok := prereqsByCode[cs.SubjectCode]; !ok {
				prereqsByCode[cs.SubjectCode] = cs.Prerequisites
			}
		}
	}

	subjectIDs := make(map[string]struct{}, len(raw.NewSubjects))
	subjectProfessor := make(map[string]string, len(raw.NewSubjects))
	for _, row := range raw.NewSubjects {
		if strings.TrimSpace(row.ID) == "" {
			res.Warnings.MissingKey++
			continue
		}
		units := row.Units
		if units <= 0 {
			units = models.DefaultSubjectUnits
		}
		subjectIDs[row.ID] = struct{}{}
		subjectProfessor[row.ID] = row.ProfessorID
		res.Subjects = append(res.Subjects, models.Subject{
			ID:            row.ID,
			Code:          row.SubjectCode,
			Name:          row.SubjectName,
			Units:         units,
			LecHours:      row.LecHours,
			LabHours:      row.LabHours,
			Prerequisites: prereqsByCode[row.SubjectCode],
		})
	}
	applyProgramCodes(res.Subjects, res.Curricula)

	termIDs := make(map[string]struct{}, len(raw.NewTerms))
	for _, row := range raw.NewTerms {
		if strings.TrimSpace(row.ID) == "" {
			res.Warnings.MissingKey++
			continue
		}
		termIDs[row.ID] = struct{}{}
		res.Terms = append(res.Terms, models.Term{
			ID:           row.ID,
			Label:        row.Code,
			AcademicYear: row.AcademicYear,
			Number:       row.Number,
			SortKey:      models.TermSortKey(row.AcademicYear, row.Number),
		})
	}

	type sectionRef struct {
		sectionID   string
		professorID string
	}
	memberSection := make(map[string]sectionRef)
	for _, row := range raw.NewSections {
		if strings.TrimSpace(row.ID) == "" {
			res.Warnings.MissingKey++
			continue
		}
		if _, ok := subjectIDs[row.SubjectID]; !ok {
			res.Warnings.MissingReferences++
			continue
		}
		if _, ok := termIDs[row.TermID]; !ok {
			res.Warnings.MissingReferences++
			continue
		}
		res.Sections = append(res.Sections, models.Section{
			ID:          row.ID,
			Name:        row.SectionName,
			SubjectID:   row.SubjectID,
			TermID:      row.TermID,
			ProfessorID: row.ProfessorID,
			StudentIDs:  append([]string(nil), row.StudentIDs...),
		})
		for _, studentID := range row.StudentIDs {
			key := row.SubjectID + "|" + row.TermID + "|" + studentID
			memberSection[key] = sectionRef{sectionID: row.ID, professorID: row.ProfessorID}
		}
	}

	for _, row := range raw.NewGrades {
		if strings.TrimSpace(row.StudentID) == "" || strings.TrimSpace(row.SubjectID) == "" {
			res.Warnings.MissingKey++
			continue
		}
		if _, ok := studentIDs[row.StudentID]; !ok {
			res.Warnings.MissingReferences++
			continue
		}
		if _, ok := subjectIDs[row.SubjectID]; !ok {
			res.Warnings.MissingReferences++
			continue
		}
		if _, ok := termIDs[row.TermID]; !ok {
			res.Warnings.MissingReferences++
			continue
		}

		var grade models.GradeValue
		if row.NumericGrade != nil {
			score := *row.NumericGrade
			if score < 0 || score > 100 {
				res.Warnings.OutOfRangeGrades++
				continue
			}
			grade = models.NumericGrade(score)
		} else {
			status := ""
			if row.Status != nil {
				status = *row.Status
			}
			var outcome gradeOutcome
			grade, outcome = parseGradeToken(status)
			switch outcome {
			case gradeMalformed:
				res.Warnings.MalformedGrades++
			case gradeOutOfRange:
				res.Warnings.OutOfRangeGrades++
				continue
			}
		}

		enr := models.Enrollment{
			StudentID: row.StudentID,
			SubjectID: row.SubjectID,
			TermID:    row.TermID,
			Grade:     grade,
		}
		if ref, ok := memberSection[row.SubjectID+"|"+row.TermID+"|"+row.StudentID]; ok {
			enr.SectionID = ref.sectionID
			enr.ProfessorID = ref.professorID
		} else {
			enr.ProfessorID = subjectProfessor[row.SubjectID]
		}
		res.Enrollments = append(res.Enrollments, enr)
	}

	for _, row := range raw.NewProfessors {
		res.Professors = append(res.Professors, models.Professor{ID: row.ID, Name: row.Name})
	}

	return res
}
