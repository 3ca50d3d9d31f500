package engine

import (
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

// Comparison is the closed operator set for grade queries. There is no
// string-built predicate anywhere: filters are direct comparisons on
// numeric grades.
type Comparison int

const (
	Lt Comparison = iota
	Le
	Gt
	Ge
	Eq
	Ne
)

var comparisonNames = map[Comparison]string{
	Lt: "lt",
	Le: "le",
	Gt: "gt",
	Ge: "ge",
	Eq: "eq",
	Ne: "ne",
}

func (c Comparison) String() string {
	if name, ok := comparisonNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseComparison maps the wire token onto a Comparison.
func ParseComparison(token string) (Comparison, error) {
	for cmp, name := range comparisonNames {
		if name == token {
			return cmp, nil
		}
	}
	return 0, appErrors.Clone(appErrors.ErrValidation, "unknown comparison operator: "+token)
}

// Matches applies the operator.
func (c Comparison) Matches(grade, value float64) bool {
	switch c {
	case Lt:
		return grade < value
	case Le:
		return grade <= value
	case Gt:
		return grade > value
	case Ge:
		return grade >= value
	case Eq:
		return grade == value
	case Ne:
		return grade != value
	default:
		return false
	}
}

// QueryGrades returns the subject's enrollments whose numeric grade
// satisfies the comparison. Non-numeric grades never match any
// operator, including Ne.
func (e *Engine) QueryGrades(subjectID string, cmp Comparison, value float64) []models.Enrollment {
	var matched []models.Enrollment
	for _, enr := range e.s.EnrollmentsBySubject(subjectID) {
		if !enr.Grade.IsNumeric() {
			continue
		}
		if cmp.Matches(enr.Grade.Score, value) {
			matched = append(matched, enr)
		}
	}
	return matched
}
