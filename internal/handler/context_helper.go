package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/registrar-hub/registrar-analytics-api/internal/middleware"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
)

// requestContext resolves the caller identity plus the schema variant
// for this request. The variant comes from the query string when given,
// otherwise from the configured default.
func requestContext(c *gin.Context, defaultVariant models.SchemaVariant) (models.RequestContext, error) {
	rctx, ok := middleware.CurrentIdentity(c)
	if !ok {
		return models.RequestContext{}, appErrors.ErrUnauthorized
	}

	variant := defaultVariant
	if raw := strings.TrimSpace(c.Query("variant")); raw != "" {
		candidate := models.SchemaVariant(raw)
		if !candidate.Valid() {
			return models.RequestContext{}, appErrors.Clone(appErrors.ErrUnknownVariant, "")
		}
		variant = candidate
	}

	rctx.Variant = variant
	middleware.SetVariant(c, string(variant))
	return rctx, nil
}
