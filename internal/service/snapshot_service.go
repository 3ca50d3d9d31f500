package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/registrar-hub/registrar-analytics-api/internal/adapter"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	"github.com/registrar-hub/registrar-analytics-api/internal/store"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
	"github.com/registrar-hub/registrar-analytics-api/pkg/jobs"
)

// SnapshotSource fetches one variant's raw records in full.
type SnapshotSource interface {
	Fetch(ctx context.Context, variant models.SchemaVariant) (models.RawSnapshot, error)
}

// snapshotJobType tags rebuild jobs on the background queue.
const snapshotJobType = "snapshot_rebuild"

type snapshotEntry struct {
	store   *store.Store
	builtAt time.Time
}

// SnapshotService owns the record store lifecycle: fetch raw records,
// adapt, index, and serve the resulting immutable store per variant.
// Readers always get a complete store; a rebuild swaps the pointer
// atomically under the lock, so concurrent analytics runs never see a
// half-built snapshot.
type SnapshotService struct {
	source  SnapshotSource
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration

	mu      sync.RWMutex
	current map[models.SchemaVariant]*snapshotEntry

	rebuilds *jobs.Queue
}

// SnapshotServiceParams bundles dependencies for the snapshot service.
type SnapshotServiceParams struct {
	Source         SnapshotSource
	Cache          *CacheService
	Metrics        *MetricsService
	Logger         *zap.Logger
	TTL            time.Duration
	RebuildWorkers int
	RebuildRetries int
}

// NewSnapshotService constructs a snapshot service.
func NewSnapshotService(params SnapshotServiceParams) *SnapshotService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.TTL <= 0 {
		params.TTL = 15 * time.Minute
	}

	s := &SnapshotService{
		source:  params.Source,
		cache:   params.Cache,
		metrics: params.Metrics,
		logger:  params.Logger,
		ttl:     params.TTL,
		current: make(map[models.SchemaVariant]*snapshotEntry, 2),
	}
	s.rebuilds = jobs.NewQueue("snapshot-rebuild", s.handleRebuildJob, jobs.QueueConfig{
		Workers:    params.RebuildWorkers,
		MaxRetries: params.RebuildRetries,
		Logger:     params.Logger,
	})
	return s
}

// Start launches the background rebuild workers.
func (s *SnapshotService) Start(ctx context.Context) {
	s.rebuilds.Start(ctx)
}

// Stop drains the rebuild queue.
func (s *SnapshotService) Stop() {
	s.rebuilds.Stop()
}

// Store returns the current record store for a variant, building one
// synchronously when none exists yet. A stale store is still served;
// the refresh happens in the background so readers never block on a
// rebuild they didn't ask for.
func (s *SnapshotService) Store(ctx context.Context, variant models.SchemaVariant) (*store.Store, error) {
	if !variant.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnknownVariant, "")
	}

	s.mu.RLock()
	entry := s.current[variant]
	s.mu.RUnlock()

	if entry == nil {
		return s.Rebuild(ctx, variant)
	}

	if time.Since(entry.builtAt) > s.ttl {
		if err := s.enqueueRebuild(variant); err != nil {
			s.logger.Warn("stale snapshot refresh not queued",
				zap.String("variant", string(variant)), zap.Error(err))
		}
	}
	return entry.store, nil
}

// Rebuild fetches, adapts and indexes a fresh snapshot synchronously,
// then swaps it in and invalidates every cached table derived from the
// variant.
func (s *SnapshotService) Rebuild(ctx context.Context, variant models.SchemaVariant) (*store.Store, error) {
	start := time.Now()

	raw, err := s.source.Fetch(ctx, variant)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSnapshotUnavailable.Code,
			appErrors.ErrSnapshotUnavailable.Status, appErrors.ErrSnapshotUnavailable.Message)
	}

	adapted, err := adapter.Adapt(raw)
	if err != nil {
		return nil, err
	}

	built, err := store.New(adapted)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSnapshotUnavailable.Code,
			appErrors.ErrSnapshotUnavailable.Status, appErrors.ErrSnapshotUnavailable.Message)
	}

	duration := time.Since(start)
	s.metrics.ObserveSnapshotBuild(variant, duration, built.Warnings())
	s.logger.Info("snapshot rebuilt",
		zap.String("variant", string(variant)),
		zap.Duration("duration", duration),
		zap.Int("students", len(built.Students())),
		zap.Int("warnings", built.Warnings().Total()),
	)

	s.mu.Lock()
	s.current[variant] = &snapshotEntry{store: built, builtAt: time.Now()}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, cacheKeyPrefix(variant)+"*"); err != nil {
			s.logger.Warn("cache invalidation after rebuild failed",
				zap.String("variant", string(variant)), zap.Error(err))
		}
	}
	return built, nil
}

// RequestRebuild queues an asynchronous rebuild.
func (s *SnapshotService) RequestRebuild(variant models.SchemaVariant) error {
	if !variant.Valid() {
		return appErrors.Clone(appErrors.ErrUnknownVariant, "")
	}
	return s.enqueueRebuild(variant)
}

func (s *SnapshotService) enqueueRebuild(variant models.SchemaVariant) error {
	return s.rebuilds.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    snapshotJobType,
		Payload: variant,
	})
}

func (s *SnapshotService) handleRebuildJob(ctx context.Context, job jobs.Job) error {
	variant, ok := job.Payload.(models.SchemaVariant)
	if !ok {
		s.logger.Error("rebuild job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	_, err := s.Rebuild(ctx, variant)
	return err
}

// Status reports what is currently being served per variant.
func (s *SnapshotService) Status() []models.SnapshotStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]models.SnapshotStatus, 0, len(s.current))
	for _, variant := range []models.SchemaVariant{models.VariantOld, models.VariantNew} {
		entry := s.current[variant]
		if entry == nil {
			continue
		}
		statuses = append(statuses, models.SnapshotStatus{
			Variant:   variant,
			BuiltAt:   entry.builtAt,
			Stale:     time.Since(entry.builtAt) > s.ttl,
			Students:  len(entry.store.Students()),
			Subjects:  len(entry.store.Subjects()),
			Terms:     len(entry.store.Terms()),
			Curricula: len(entry.store.Curricula()),
			Warnings:  entry.store.Warnings(),
		})
	}
	return statuses
}

// cacheKeyPrefix scopes cached result tables to one variant so a
// rebuild invalidates exactly its own derivatives.
func cacheKeyPrefix(variant models.SchemaVariant) string {
	return "tables:" + string(variant) + ":"
}
