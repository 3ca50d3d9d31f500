// Package adapter maps raw record batches, in either the legacy or the
// migrated schema, into the canonical entity model. Nothing
// variant-specific leaks past this package.
package adapter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
)

// Result is one adapted batch: canonical entities plus the warning
// counters accumulated while repairing or skipping bad records.
// Warnings never abort an adaptation.
type Result struct {
	Variant models.SchemaVariant

	Students    []models.Student
	Subjects    []models.Subject
	Terms       []models.Term
	Enrollments []models.Enrollment
	Sections    []models.Section
	Professors  []models.Professor
	Curricula   []models.Curriculum

	Warnings models.AdapterWarnings
}

// Adapt dispatches on the snapshot's schema variant.
func Adapt(raw models.RawSnapshot) (*Result, error) {
	switch raw.Variant {
	case models.VariantOld:
		return adaptOld(raw), nil
	case models.VariantNew:
		return adaptNew(raw), nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnknownVariant, "")
	}
}

type gradeOutcome int

const (
	gradeOK gradeOutcome = iota
	gradeMalformed
	gradeOutOfRange
)

// parseGradeToken classifies one textual grade token. The token table
// is shared by both variants: empty, null, INC and N/A mean the grade
// is still pending; Dropped and DRP mean the student withdrew. Any
// other non-numeric token is malformed and treated as pending so it
// never enters an average as zero.
func parseGradeToken(raw string) (models.GradeValue, gradeOutcome) {
	token := strings.TrimSpace(raw)
	switch strings.ToUpper(token) {
	case "", "NULL", "INC", "N/A":
		return models.GradeValue{Status: models.GradeInProgress}, gradeOK
	case "DROPPED", "DRP":
		return models.GradeValue{Status: models.GradeDropped}, gradeOK
	}

	score, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return models.GradeValue{Status: models.GradeInProgress}, gradeMalformed
	}
	if score < 0 || score > 100 {
		return models.GradeValue{}, gradeOutOfRange
	}

	return models.NumericGrade(score), gradeOK
}

// professorResolver reconciles free-text teacher names against the
// professor directory once per adaptation. Matching is exact after
// whitespace collapsing and case folding. Unresolved names mint a
// deterministic synthetic id so the same name always maps to the same
// professor across runs.
type professorResolver struct {
	byFoldedName map[string]string
	minted       map[string]models.Professor
	unresolved   map[string]struct{}
}

func newProfessorResolver(directory []models.NewProfessorRow) *professorResolver {
	r := &professorResolver{
		byFoldedName: make(map[string]string, len(directory)),
		minted:       make(map[string]models.Professor),
		unresolved:   make(map[string]struct{}),
	}
	for _, row := range directory {
		r.byFoldedName[foldName(row.Name)] = row.ID
	}
	return r
}

// Resolve returns the professor id for a display name, minting a
// synthetic id when the directory has no match.
func (r *professorResolver) Resolve(name string) string {
	folded := foldName(name)
	if folded == "" {
		return ""
	}
	if id, ok := r.byFoldedName[folded]; ok {
		return id
	}

	id := "name:" + folded
	if _, ok := r.minted[id]; !ok {
		r.minted[id] = models.Professor{ID: id, Name: strings.TrimSpace(name)}
		r.unresolved[strings.TrimSpace(name)] = struct{}{}
	}
	return id
}

// MintedProfessors returns the synthetic professor records in a stable
// order.
func (r *professorResolver) MintedProfessors() []models.Professor {
	out := make([]models.Professor, 0, len(r.minted))
	for _, p := range r.minted {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UnresolvedNames returns the distinct unmatched names, sorted.
func (r *professorResolver) UnresolvedNames() []string {
	out := make([]string, 0, len(r.unresolved))
	for name := range r.unresolved {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func foldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// splitCodes parses a comma-separated prerequisite list.
func splitCodes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		code := strings.TrimSpace(part)
		if code != "" {
			out = append(out, code)
		}
	}
	return out
}

// adaptCurricula converts curriculum headers plus their planned
// subjects. Both schema variants share these tables.
func adaptCurricula(rows []models.CurriculumRow, subjects []models.CurriculumSubjectRow) []models.Curriculum {
	byID := make(map[string]*models.Curriculum, len(rows))
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		byID[row.ID] = &models.Curriculum{
			ProgramCode:    row.CourseCode,
			CurriculumYear: row.CurriculumYear,
		}
		order = append(order, row.ID)
	}

	for _, row := range subjects {
		cur, ok := byID[row.CurriculumID]
		if !ok {
			continue
		}
		units := row.Units
		if units <= 0 {
			units = models.DefaultSubjectUnits
		}
		cur.Subjects = append(cur.Subjects, models.CurriculumSubject{
			SubjectCode:   row.SubjectCode,
			Name:          row.SubjectName,
			YearLevel:     row.YearLevel,
			TermNumber:    row.Semester,
			Units:         units,
			LecHours:      row.LecHours,
			LabHours:      row.LabHours,
			Prerequisites: splitCodes(row.Prerequisites),
		})
	}

	out := make([]models.Curriculum, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}
