package models

import "time"

// SnapshotStatus describes one variant's currently served record store.
type SnapshotStatus struct {
	Variant   SchemaVariant   `json:"variant"`
	BuiltAt   time.Time       `json:"built_at"`
	Stale     bool            `json:"stale"`
	Students  int             `json:"students"`
	Subjects  int             `json:"subjects"`
	Terms     int             `json:"terms"`
	Curricula int             `json:"curricula"`
	Warnings  AdapterWarnings `json:"warnings"`
}
