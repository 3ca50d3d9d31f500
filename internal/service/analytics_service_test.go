package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/registrar-hub/registrar-analytics-api/internal/engine"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
)

// memoryCache is an in-process CacheRepository for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func newTestAnalyticsService(t *testing.T, repo CacheRepository) (*AnalyticsService, *fakeSource) {
	t.Helper()
	source := &fakeSource{}
	snapshots := newTestSnapshotService(t, source, time.Hour)
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, time.Minute, zap.NewNop(), repo != nil)
	return NewAnalyticsService(snapshots, cache, metrics, zap.NewNop(), time.Minute), source
}

func adminCtx() models.RequestContext {
	return models.RequestContext{ActorID: "registrar", Role: models.RoleAdmin, Variant: models.VariantOld}
}

func TestAnalyticsServiceResolvesTranscript(t *testing.T) {
	svc, _ := newTestAnalyticsService(t, nil)

	table, cacheHit, err := svc.Table(context.Background(), adminCtx(), TableRequest{
		Table:   engine.TableTranscript,
		Filters: map[string]string{FilterStudentID: "S-1"},
	})
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, engine.TableTranscript, table.Name)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "88.00", table.Rows[0]["grade"])
	assert.NotEmpty(t, table.Meta["run_id"])
}

func TestAnalyticsServiceUnknownTable(t *testing.T) {
	svc, _ := newTestAnalyticsService(t, nil)

	_, _, err := svc.Table(context.Background(), adminCtx(), TableRequest{Table: "grade_ledger"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnknownTable.Code, appErr.Code)
}

func TestAnalyticsServiceStudentScoping(t *testing.T) {
	svc, _ := newTestAnalyticsService(t, nil)
	rctx := models.RequestContext{ActorID: "S-1", Role: models.RoleStudent, Variant: models.VariantOld}

	// A student's own id is forced even when the request names another.
	table, _, err := svc.Table(context.Background(), rctx, TableRequest{
		Table:   engine.TableTranscript,
		Filters: map[string]string{FilterStudentID: "S-99"},
	})
	require.NoError(t, err)
	assert.Equal(t, "S-1", table.Filters["student"])

	// Cohort tables stay off limits.
	_, _, err = svc.Table(context.Background(), rctx, TableRequest{Table: engine.TableRetentionSeries})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAnalyticsServiceProfessorScoping(t *testing.T) {
	svc, _ := newTestAnalyticsService(t, nil)
	rctx := models.RequestContext{ActorID: "name:r. cruz", Role: models.RoleProfessor, Variant: models.VariantOld}

	table, _, err := svc.Table(context.Background(), rctx, TableRequest{
		Table:   engine.TableIntervention,
		Filters: map[string]string{FilterProfessorID: "name:someone else"},
	})
	require.NoError(t, err)
	assert.Equal(t, "name:r. cruz", table.Filters["professor"])

	status, _, err := svc.Table(context.Background(), rctx, TableRequest{
		Table:   engine.TableSubmissionStatus,
		Filters: map[string]string{FilterProfessorID: "name:someone else"},
	})
	require.NoError(t, err)
	assert.Equal(t, "name:r. cruz", status.Filters["professor"])
	require.Len(t, status.Rows, 1)
	assert.Equal(t, "MATH101", status.Rows[0]["subject_code"])
	assert.Equal(t, "1", status.Rows[0]["submitted"])
	assert.Equal(t, "100.00", status.Rows[0]["rate"])
}

func TestAnalyticsServiceCachesTables(t *testing.T) {
	repo := newMemoryCache()
	svc, source := newTestAnalyticsService(t, repo)

	req := TableRequest{Table: engine.TableEnrollmentTrend}
	first, firstHit, err := svc.Table(context.Background(), adminCtx(), req)
	require.NoError(t, err)
	assert.False(t, firstHit)

	second, secondHit, err := svc.Table(context.Background(), adminCtx(), req)
	require.NoError(t, err)
	assert.True(t, secondHit)

	// One snapshot fetch; the second read is chiefly a cache hit, and rows
	// come back byte identical while the run id is fresh.
	assert.EqualValues(t, 1, source.fetches)
	assert.Equal(t, first.Rows, second.Rows)
	assert.NotEqual(t, first.Meta["run_id"], second.Meta["run_id"])
}

func TestTableCacheKeyIsDeterministic(t *testing.T) {
	req := TableRequest{
		Table:   engine.TableClassGradeSummary,
		Filters: map[string]string{FilterTermID: "T-1", FilterSubjectID: "MATH101", FilterLimit: ""},
	}
	key := tableCacheKey(models.VariantOld, req)
	assert.Equal(t, "tables:old:class_grade_summary:subject_id=MATH101:term_id=T-1", key)
	for i := 0; i < 5; i++ {
		assert.Equal(t, key, tableCacheKey(models.VariantOld, req))
	}
}
