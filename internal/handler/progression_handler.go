package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registrar-hub/registrar-analytics-api/internal/dto"
	"github.com/registrar-hub/registrar-analytics-api/internal/engine"
	"github.com/registrar-hub/registrar-analytics-api/internal/middleware"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	"github.com/registrar-hub/registrar-analytics-api/internal/service"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
	"github.com/registrar-hub/registrar-analytics-api/pkg/response"
)

type progressionService interface {
	Table(ctx context.Context, rctx models.RequestContext, req service.TableRequest) (models.ResultTable, bool, error)
	ProgressionBatch(ctx context.Context, rctx models.RequestContext, studentIDs []string) ([]models.ResultTable, []models.ProgressionFailure, error)
}

// ProgressionHandler serves progression resolution endpoints.
type ProgressionHandler struct {
	service        progressionService
	defaultVariant models.SchemaVariant
}

// NewProgressionHandler constructs the handler.
func NewProgressionHandler(service progressionService, defaultVariant models.SchemaVariant) *ProgressionHandler {
	return &ProgressionHandler{service: service, defaultVariant: defaultVariant}
}

// Student godoc
// @Summary Progression for one student
// @Tags Progression
// @Produce json
// @Param id path string true "Student ID"
// @Param variant query string false "Schema variant (old or new)"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/progression [get]
func (h *ProgressionHandler) Student(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	rctx, err := requestContext(c, h.defaultVariant)
	if err != nil {
		response.Error(c, err)
		return
	}

	table, cacheHit, err := h.service.Table(c.Request.Context(), rctx, service.TableRequest{
		Table:   engine.TableProgression,
		Filters: map[string]string{service.FilterStudentID: c.Param("id")},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, dto.TableResponseFrom(table), nil, middleware.ExtractMeta(c))
}

// Batch godoc
// @Summary Progression for a set of students
// @Tags Progression
// @Accept json
// @Produce json
// @Param request body dto.ProgressionBatchRequest true "Student IDs"
// @Success 200 {object} response.Envelope
// @Router /progression/batch [post]
func (h *ProgressionHandler) Batch(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var req dto.ProgressionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	rctx, err := requestContext(c, h.defaultVariant)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.Variant != "" {
		rctx.Variant = models.SchemaVariant(req.Variant)
	}

	tables, failures, err := h.service.ProgressionBatch(c.Request.Context(), rctx, req.StudentIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := dto.ProgressionBatchResponse{
		Tables: make([]dto.TableResponse, 0, len(tables)),
	}
	for _, table := range tables {
		result.Tables = append(result.Tables, dto.TableResponseFrom(table))
	}
	for _, failure := range failures {
		result.Failures = append(result.Failures, dto.ProgressionFailureResponse{
			StudentID: failure.StudentID,
			Reason:    failure.Reason,
		})
	}
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}
