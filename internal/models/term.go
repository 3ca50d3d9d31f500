package models

import "fmt"

// Term is a canonical academic period. Terms are totally ordered by
// SortKey, which both source schemas can derive.
type Term struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	AcademicYear string `json:"academic_year"`
	Number       int    `json:"number"`
	SortKey      string `json:"sort_key"`
}

// TermSortKey derives the canonical ordering key for a term. Academic
// years sort lexicographically ("2023-2024" < "2024-2025"), the term
// number breaks ties within a year.
func TermSortKey(academicYear string, number int) string {
	return fmt.Sprintf("%s:%d", academicYear, number)
}
