package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registrar-hub/registrar-analytics-api/internal/dto"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	"github.com/registrar-hub/registrar-analytics-api/internal/service"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
	"github.com/registrar-hub/registrar-analytics-api/pkg/response"
)

type reportService interface {
	Export(ctx context.Context, rctx models.RequestContext, req service.TableRequest, format string) (service.ExportFile, error)
}

// ReportHandler serves report downloads.
type ReportHandler struct {
	service        reportService
	defaultVariant models.SchemaVariant
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService, defaultVariant models.SchemaVariant) *ReportHandler {
	return &ReportHandler{service: service, defaultVariant: defaultVariant}
}

// Export godoc
// @Summary Download one analytics table as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param name path string true "Table name"
// @Param format query string false "csv or pdf, default csv"
// @Param variant query string false "Schema variant (old or new)"
// @Success 200 {file} file
// @Router /reports/{name}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	format := query.Format
	if format == "" {
		format = service.FormatCSV
	}

	rctx, err := requestContext(c, h.defaultVariant)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.service.Export(c.Request.Context(), rctx, service.TableRequest{
		Table:   c.Param("name"),
		Filters: filtersFrom(query.TableQuery),
	}, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
