package models

// Pagination carries list paging metadata on the response envelope.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// AdapterWarnings counts the records the schema adapter skipped or
// repaired. Warnings never abort a run; they ride alongside the result.
type AdapterWarnings struct {
	MissingKey        int      `json:"missing_key"`
	MalformedGrades   int      `json:"malformed_grades"`
	OutOfRangeGrades  int      `json:"out_of_range_grades"`
	MissingReferences int      `json:"missing_references"`
	UnresolvedNames   []string `json:"unresolved_names,omitempty"`
}

// Total sums every counted warning.
func (w AdapterWarnings) Total() int {
	return w.MissingKey + w.MalformedGrades + w.OutOfRangeGrades + w.MissingReferences + len(w.UnresolvedNames)
}
