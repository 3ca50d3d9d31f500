// Package engine computes academic metrics over an immutable record
// store. Every function is deterministic and side-effect free: the same
// store and arguments always produce the same result, which is what
// makes result tables safely cacheable upstream.
package engine

import (
	"math"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	"github.com/registrar-hub/registrar-analytics-api/internal/store"
)

// PassingGrade is the institution-wide pass threshold.
const PassingGrade = 75.0

// Subject difficulty policy thresholds, in percent. Fixed constants,
// not per-call configuration.
const (
	HighFailRate      = 20.0
	HighDropoutRate   = 5.0
	MediumFailRate    = 10.0
	MediumDropoutRate = 2.0
)

// Honors policy thresholds.
const (
	DeansListGPA       = 90.0
	DeansListMinGrade  = 85.0
	ProbationGPA       = 75.0
	ProbationFailShare = 30.0
	honorsListSize     = 10
)

// RemarkBand is the distance from the class average that separates
// "above" and "below" from "around average".
const RemarkBand = 5.0

// Remarks for class-average comparison rows.
const (
	RemarkAbove   = "Above average"
	RemarkBelow   = "Below average"
	RemarkAround  = "Around average"
	RemarkNoGrade = "No numeric grade"
)

// DefaultGradeBins is the standard six-bin registrar breakdown: 5-point
// steps at the top, one wide bin below passing.
func DefaultGradeBins() []models.GradeBin {
	return []models.GradeBin{
		{Label: "95-100", Low: 95, High: 100},
		{Label: "90-94", Low: 90, High: 94},
		{Label: "85-89", Low: 85, High: 89},
		{Label: "80-84", Low: 80, High: 84},
		{Label: "75-79", Low: 75, High: 79},
		{Label: "0-74", Low: 0, High: 74},
	}
}

// Engine wraps one record store snapshot.
type Engine struct {
	s *store.Store
}

// New builds an engine over a store.
func New(s *store.Store) *Engine {
	return &Engine{s: s}
}

// Store exposes the underlying snapshot.
func (e *Engine) Store() *store.Store {
	return e.s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// subjectUnits returns the GPA weight for a subject id.
func (e *Engine) subjectUnits(subjectID string) int {
	if sub, ok := e.s.Subject(subjectID); ok && sub.Units > 0 {
		return sub.Units
	}
	return models.DefaultSubjectUnits
}
