package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot for the ops
// endpoint, distinct from the full Prometheus scrape.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	SnapshotBuilds           uint64    `json:"snapshot_builds"`
	AverageSnapshotBuildMs   float64   `json:"average_snapshot_build_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
