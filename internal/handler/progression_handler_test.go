package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-hub/registrar-analytics-api/internal/engine"
	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	"github.com/registrar-hub/registrar-analytics-api/internal/service"
)

func TestProgressionHandlerStudent(t *testing.T) {
	srv := &fakeAnalyticsSrv{
		table: models.ResultTable{
			Name:    engine.TableProgression,
			Columns: []string{"classification", "subject_code"},
		},
	}
	handler := NewProgressionHandler(srv, models.VariantNew)

	rec := httptest.NewRecorder()
	c, _ := identityContext(rec, models.RequestContext{ActorID: "S-1", Role: models.RoleStudent})
	c.Request = httptest.NewRequest(http.MethodGet, "/students/S-1/progression", nil)
	c.Params = gin.Params{{Key: "id", Value: "S-1"}}

	handler.Student(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, engine.TableProgression, srv.lastReq.Table)
	assert.Equal(t, "S-1", srv.lastReq.Filters[service.FilterStudentID])
}

func TestProgressionHandlerBatch(t *testing.T) {
	srv := &fakeAnalyticsSrv{
		batchTables: []models.ResultTable{{Name: engine.TableProgression}},
		batchFailures: []models.ProgressionFailure{
			{StudentID: "S-404", Reason: "student not found"},
		},
	}
	handler := NewProgressionHandler(srv, models.VariantNew)

	body, _ := json.Marshal(map[string]interface{}{
		"variant":    "old",
		"studentIds": []string{"S-1", "S-404"},
	})
	rec := httptest.NewRecorder()
	c, _ := identityContext(rec, models.RequestContext{ActorID: "registrar", Role: models.RoleAdmin})
	c.Request = httptest.NewRequest(http.MethodPost, "/progression/batch", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Batch(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.VariantOld, srv.lastRctx.Variant)

	var envelope struct {
		Data struct {
			Tables   []map[string]interface{} `json:"tables"`
			Failures []map[string]interface{} `json:"failures"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Tables, 1)
	require.Len(t, envelope.Data.Failures, 1)
	assert.Equal(t, "S-404", envelope.Data.Failures[0]["studentId"])
}

func TestProgressionHandlerBatchRequiresStudents(t *testing.T) {
	handler := NewProgressionHandler(&fakeAnalyticsSrv{}, models.VariantNew)

	rec := httptest.NewRecorder()
	c, _ := identityContext(rec, models.RequestContext{ActorID: "registrar", Role: models.RoleAdmin})
	c.Request = httptest.NewRequest(http.MethodPost, "/progression/batch", bytes.NewReader([]byte(`{"studentIds":[]}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Batch(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
