package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registrar-hub/registrar-analytics-api/internal/dto"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
	"github.com/registrar-hub/registrar-analytics-api/pkg/response"
)

type snapshotService interface {
	Status() []models.SnapshotStatus
	RequestRebuild(variant models.SchemaVariant) error
}

// SnapshotHandler exposes snapshot lifecycle operations.
type SnapshotHandler struct {
	service snapshotService
}

// NewSnapshotHandler constructs the handler.
func NewSnapshotHandler(service snapshotService) *SnapshotHandler {
	return &SnapshotHandler{service: service}
}

// Status godoc
// @Summary Currently served snapshots per schema variant
// @Tags Snapshots
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /snapshots [get]
func (h *SnapshotHandler) Status(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	statuses := h.service.Status()
	result := make([]dto.SnapshotStatusResponse, 0, len(statuses))
	for _, status := range statuses {
		result = append(result, dto.SnapshotStatusResponseFrom(status))
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Rebuild godoc
// @Summary Queue an asynchronous snapshot rebuild
// @Tags Snapshots
// @Accept json
// @Produce json
// @Param request body dto.RebuildRequest true "Variant to rebuild"
// @Success 202 {object} response.Envelope
// @Router /snapshots/rebuild [post]
func (h *SnapshotHandler) Rebuild(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var req dto.RebuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	if err := h.service.RequestRebuild(models.SchemaVariant(req.Variant)); err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, dto.RebuildAccepted{Variant: req.Variant, Status: "queued"})
}
