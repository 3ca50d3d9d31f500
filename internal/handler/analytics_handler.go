package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registrar-hub/registrar-analytics-api/internal/dto"
	"github.com/registrar-hub/registrar-analytics-api/internal/middleware"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	"github.com/registrar-hub/registrar-analytics-api/internal/service"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
	"github.com/registrar-hub/registrar-analytics-api/pkg/response"
)

type analyticsService interface {
	Table(ctx context.Context, rctx models.RequestContext, req service.TableRequest) (models.ResultTable, bool, error)
}

// AnalyticsHandler serves rendered result tables over HTTP.
type AnalyticsHandler struct {
	service        analyticsService
	defaultVariant models.SchemaVariant
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service analyticsService, defaultVariant models.SchemaVariant) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, defaultVariant: defaultVariant}
}

// Table godoc
// @Summary Render one analytics table
// @Tags Analytics
// @Produce json
// @Param name path string true "Table name"
// @Param variant query string false "Schema variant (old or new)"
// @Param student_id query string false "Student filter"
// @Param subject_id query string false "Subject filter"
// @Param subject_code query string false "Subject code filter"
// @Param term_id query string false "Term filter"
// @Param professor_id query string false "Professor filter"
// @Param program query string false "Program filter"
// @Param limit query int false "Row limit"
// @Param comparison query string false "Grade comparison operator"
// @Param value query number false "Grade comparison threshold"
// @Success 200 {object} response.Envelope
// @Router /tables/{name} [get]
func (h *AnalyticsHandler) Table(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var query dto.TableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	rctx, err := requestContext(c, h.defaultVariant)
	if err != nil {
		response.Error(c, err)
		return
	}

	table, cacheHit, err := h.service.Table(c.Request.Context(), rctx, service.TableRequest{
		Table:   c.Param("name"),
		Filters: filtersFrom(query),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, dto.TableResponseFrom(table), nil, middleware.ExtractMeta(c))
}

func filtersFrom(query dto.TableQuery) map[string]string {
	return map[string]string{
		service.FilterStudentID:   query.StudentID,
		service.FilterSubjectID:   query.SubjectID,
		service.FilterSubjectCode: query.SubjectCode,
		service.FilterTermID:      query.TermID,
		service.FilterProfessorID: query.ProfessorID,
		service.FilterProgram:     query.Program,
		service.FilterLimit:       query.Limit,
		service.FilterComparison:  query.Comparison,
		service.FilterValue:       query.Value,
	}
}
