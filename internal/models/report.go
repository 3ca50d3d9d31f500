package models

// ResultTable is the engine's output contract: ordered rows of labeled,
// pre-formatted cells, addressable by a stable name plus the filters that
// produced it. Undefined metrics render as the UndefinedCell sentinel,
// never as "0".
type ResultTable struct {
	Name    string              `json:"name"`
	Filters map[string]string   `json:"filters,omitempty"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`

	// Meta carries run-scoped annotations (run id, trend labels,
	// positions). It stays out of Rows so rows remain byte identical
	// across reruns of an unchanged snapshot.
	Meta map[string]string `json:"meta,omitempty"`
}

// UndefinedCell marks a metric with no qualifying data in a rendered
// table cell.
const UndefinedCell = "N/A"

// Empty reports whether the table carries no qualifying records, so the
// caller can render an explicit "no data" state.
func (t ResultTable) Empty() bool {
	return len(t.Rows) == 0
}

// RequestContext is the explicit per-request state the legacy system kept
// in ambient session globals: who is asking, in which role, against which
// schema variant. It is constructed at the transport edge and passed down;
// the engine never reads ambient state.
type RequestContext struct {
	ActorID string        `json:"actor_id"`
	Role    string        `json:"role"`
	Variant SchemaVariant `json:"variant"`
}

// Roles recognised at the transport edge. Authorization decisions belong
// to the upstream gateway; these only scope default filters.
const (
	RoleAdmin     = "admin"
	RoleProfessor = "professor"
	RoleStudent   = "student"
)
