package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/registrar-hub/registrar-analytics-api/internal/engine"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
)

// TableRequest names one result table plus the filters that select its
// slice of the snapshot.
type TableRequest struct {
	Table   string
	Filters map[string]string
}

// Filter keys recognised across tables. Each table validates its own
// required subset; unknown keys are ignored.
const (
	FilterStudentID   = "student_id"
	FilterSubjectID   = "subject_id"
	FilterSubjectCode = "subject_code"
	FilterTermID      = "term_id"
	FilterProfessorID = "professor_id"
	FilterProgram     = "program"
	FilterLimit       = "limit"
	FilterComparison  = "comparison"
	FilterValue       = "value"
)

// AnalyticsService resolves table requests against the current snapshot:
// role scoping, cache lookup, engine dispatch, cache fill.
type AnalyticsService struct {
	snapshots *SnapshotService
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(snapshots *SnapshotService, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		snapshots: snapshots,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// Table resolves one table request. The bool reports whether the table
// came from cache. Cached tables are reused verbatim except for the run
// id, which is fresh on every call so callers can correlate logs
// without breaking row-level idempotence.
func (s *AnalyticsService) Table(ctx context.Context, rctx models.RequestContext, req TableRequest) (models.ResultTable, bool, error) {
	if req.Filters == nil {
		req.Filters = map[string]string{}
	}
	if err := scopeFilters(rctx, req.Table, req.Filters); err != nil {
		return models.ResultTable{}, false, err
	}

	s.metrics.ObserveTableRequest(req.Table)

	key := tableCacheKey(rctx.Variant, req)
	if s.cache.Enabled() {
		var cached models.ResultTable
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			stampRun(&cached)
			return cached, true, nil
		}
	}

	st, err := s.snapshots.Store(ctx, rctx.Variant)
	if err != nil {
		return models.ResultTable{}, false, err
	}

	table, err := s.dispatch(engine.NewAssembler(engine.New(st)), req)
	if err != nil {
		return models.ResultTable{}, false, err
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, table, s.cacheTTL); err != nil {
			s.logger.Warn("table cache write failed", zap.String("table", req.Table), zap.Error(err))
		}
	}

	stampRun(&table)
	return table, false, nil
}

// ProgressionBatch renders progression tables for a set of students,
// collecting per-student failures instead of aborting the run. Staff
// only; students use the single-student table.
func (s *AnalyticsService) ProgressionBatch(ctx context.Context, rctx models.RequestContext, studentIDs []string) ([]models.ResultTable, []models.ProgressionFailure, error) {
	if rctx.Role == models.RoleStudent {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "batch progression is staff only")
	}

	st, err := s.snapshots.Store(ctx, rctx.Variant)
	if err != nil {
		return nil, nil, err
	}

	a := engine.NewAssembler(engine.New(st))
	tables := make([]models.ResultTable, 0, len(studentIDs))
	var failures []models.ProgressionFailure
	for _, id := range studentIDs {
		table, err := a.Progression(id)
		if err != nil {
			failures = append(failures, models.ProgressionFailure{StudentID: id, Reason: err.Error()})
			continue
		}
		stampRun(&table)
		tables = append(tables, table)
	}
	return tables, failures, nil
}

func (s *AnalyticsService) dispatch(a *engine.Assembler, req TableRequest) (models.ResultTable, error) {
	f := req.Filters
	switch req.Table {
	case engine.TableClassGradeSummary:
		return a.ClassGradeSummary(f[FilterSubjectID], f[FilterTermID])
	case engine.TableGradeDistribution:
		return a.GradeDistribution(f[FilterSubjectID], f[FilterTermID])
	case engine.TableClassAverageComparison:
		return a.ClassAverageComparison(f[FilterStudentID])
	case engine.TablePassFailBySubject:
		return a.PassFailBySubject(f[FilterSubjectID], f[FilterTermID])
	case engine.TableCurriculumProgress:
		return a.CurriculumProgress(f[FilterStudentID])
	case engine.TableRetentionSeries:
		return a.RetentionSeries()
	case engine.TableSubjectDifficulty:
		return a.SubjectDifficulty(f[FilterProfessorID])
	case engine.TableTopPerformers:
		limit, err := parseLimit(f[FilterLimit])
		if err != nil {
			return models.ResultTable{}, err
		}
		return a.TopPerformers(f[FilterProgram], f[FilterTermID], limit)
	case engine.TableTranscript:
		return a.Transcript(f[FilterStudentID])
	case engine.TableGPATrend:
		return a.GPATrend(f[FilterStudentID])
	case engine.TableProgression:
		return a.Progression(f[FilterStudentID])
	case engine.TableIntervention:
		return a.Intervention(f[FilterProfessorID])
	case engine.TableSubmissionStatus:
		return a.SubmissionStatus(f[FilterProfessorID])
	case engine.TableEnrollmentTrend:
		return a.EnrollmentTrend()
	case engine.TableGradeQuery:
		cmp, err := engine.ParseComparison(f[FilterComparison])
		if err != nil {
			return models.ResultTable{}, err
		}
		value, err := strconv.ParseFloat(f[FilterValue], 64)
		if err != nil {
			return models.ResultTable{}, appErrors.Clone(appErrors.ErrValidation, "value must be numeric")
		}
		return a.GradeQuery(f[FilterSubjectCode], cmp, value)
	default:
		return models.ResultTable{}, appErrors.Clone(appErrors.ErrUnknownTable, "unknown table: "+req.Table)
	}
}

// studentTables are addressed by student id and may be read by the
// student they describe. Everything else needs staff access.
var studentTables = map[string]bool{
	engine.TableClassAverageComparison: true,
	engine.TableCurriculumProgress:     true,
	engine.TableTranscript:             true,
	engine.TableGPATrend:               true,
	engine.TableProgression:            true,
}

// professorTables are addressed by professor id; professors are pinned
// to their own id.
var professorTables = map[string]bool{
	engine.TableIntervention:     true,
	engine.TableSubmissionStatus: true,
}

func scopeFilters(rctx models.RequestContext, table string, filters map[string]string) error {
	switch rctx.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleProfessor:
		if professorTables[table] {
			filters[FilterProfessorID] = rctx.ActorID
		}
		return nil
	case models.RoleStudent:
		if !studentTables[table] {
			return appErrors.Clone(appErrors.ErrForbidden, "table not available to students")
		}
		filters[FilterStudentID] = rctx.ActorID
		return nil
	default:
		return appErrors.Clone(appErrors.ErrForbidden, "unknown role")
	}
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "limit must be a non-negative integer")
	}
	return limit, nil
}

func stampRun(table *models.ResultTable) {
	if table.Meta == nil {
		table.Meta = map[string]string{}
	}
	table.Meta["run_id"] = uuid.NewString()
}

// tableCacheKey builds a deterministic, pattern-invalidatable key:
// tables:<variant>:<table>:<k=v,...> with filter keys sorted.
func tableCacheKey(variant models.SchemaVariant, req TableRequest) string {
	keys := make([]string, 0, len(req.Filters))
	for k, v := range req.Filters {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(cacheKeyPrefix(variant))
	b.WriteString(req.Table)
	for _, k := range keys {
		b.WriteByte(':')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(req.Filters[k])
	}
	return b.String()
}
