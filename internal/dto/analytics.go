package dto

import (
	"time"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
)

// TableQuery captures the query string accepted by the table endpoints.
// Every filter is optional at the binding layer; each table validates
// its own required subset.
type TableQuery struct {
	Variant     string `form:"variant" binding:"omitempty,oneof=old new"`
	StudentID   string `form:"student_id"`
	SubjectID   string `form:"subject_id"`
	SubjectCode string `form:"subject_code"`
	TermID      string `form:"term_id"`
	ProfessorID string `form:"professor_id"`
	Program     string `form:"program"`
	Limit       string `form:"limit" binding:"omitempty,number"`
	Comparison  string `form:"comparison" binding:"omitempty,oneof=lt le gt ge eq ne"`
	Value       string `form:"value" binding:"omitempty,numeric"`
}

// ExportQuery extends TableQuery with the download format.
type ExportQuery struct {
	TableQuery
	Format string `form:"format" binding:"omitempty,oneof=csv pdf"`
}

// TableResponse is the JSON shape of one rendered result table.
type TableResponse struct {
	Name    string              `json:"name"`
	Filters map[string]string   `json:"filters,omitempty"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Meta    map[string]string   `json:"meta,omitempty"`
	Empty   bool                `json:"empty"`
}

// TableResponseFrom converts an engine result table.
func TableResponseFrom(table models.ResultTable) TableResponse {
	return TableResponse{
		Name:    table.Name,
		Filters: table.Filters,
		Columns: table.Columns,
		Rows:    table.Rows,
		Meta:    table.Meta,
		Empty:   table.Empty(),
	}
}

// SnapshotStatusResponse reports one served snapshot.
type SnapshotStatusResponse struct {
	Variant   models.SchemaVariant   `json:"variant"`
	BuiltAt   time.Time              `json:"builtAt"`
	Stale     bool                   `json:"stale"`
	Students  int                    `json:"students"`
	Subjects  int                    `json:"subjects"`
	Terms     int                    `json:"terms"`
	Curricula int                    `json:"curricula"`
	Warnings  models.AdapterWarnings `json:"warnings"`
}

// SnapshotStatusResponseFrom converts a snapshot status model.
func SnapshotStatusResponseFrom(status models.SnapshotStatus) SnapshotStatusResponse {
	return SnapshotStatusResponse{
		Variant:   status.Variant,
		BuiltAt:   status.BuiltAt,
		Stale:     status.Stale,
		Students:  status.Students,
		Subjects:  status.Subjects,
		Terms:     status.Terms,
		Curricula: status.Curricula,
		Warnings:  status.Warnings,
	}
}

// RebuildRequest names the variant to rebuild.
type RebuildRequest struct {
	Variant string `json:"variant" binding:"required,oneof=old new"`
}

// RebuildAccepted acknowledges a queued rebuild.
type RebuildAccepted struct {
	Variant string `json:"variant"`
	Status  string `json:"status"`
}

// ProgressionBatchRequest asks for progression over a set of students.
type ProgressionBatchRequest struct {
	Variant    string   `json:"variant" binding:"omitempty,oneof=old new"`
	StudentIDs []string `json:"studentIds" binding:"required,min=1,dive,required"`
}

// ProgressionFailureResponse reports one student the resolver skipped.
type ProgressionFailureResponse struct {
	StudentID string `json:"studentId"`
	Reason    string `json:"reason"`
}

// ProgressionBatchResponse carries per-student progression tables plus
// the failures encountered along the way.
type ProgressionBatchResponse struct {
	Tables   []TableResponse              `json:"tables"`
	Failures []ProgressionFailureResponse `json:"failures,omitempty"`
}
