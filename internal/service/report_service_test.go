package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/registrar-hub/registrar-analytics-api/internal/engine"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
)

func TestReportServiceExportDisabled(t *testing.T) {
	analytics, _ := newTestAnalyticsService(t, nil)
	svc := NewReportService(analytics, zap.NewNop(), false)

	_, err := svc.Export(context.Background(), adminCtx(), TableRequest{Table: engine.TableEnrollmentTrend}, FormatCSV)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestReportServiceExportCSV(t *testing.T) {
	analytics, _ := newTestAnalyticsService(t, nil)
	svc := NewReportService(analytics, zap.NewNop(), true)

	file, err := svc.Export(context.Background(), adminCtx(), TableRequest{
		Table:   engine.TableTranscript,
		Filters: map[string]string{FilterStudentID: "S-1"},
	}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "transcript_"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "term,subject_code,subject_name,units,grade,remark", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "MATH101")
	assert.Contains(t, lines[1], "88.00")
}

func TestReportServiceExportPDF(t *testing.T) {
	analytics, _ := newTestAnalyticsService(t, nil)
	svc := NewReportService(analytics, zap.NewNop(), true)

	file, err := svc.Export(context.Background(), adminCtx(), TableRequest{Table: engine.TableEnrollmentTrend}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))
}

func TestReportServiceExportUnknownFormat(t *testing.T) {
	analytics, _ := newTestAnalyticsService(t, nil)
	svc := NewReportService(analytics, zap.NewNop(), true)

	_, err := svc.Export(context.Background(), adminCtx(), TableRequest{Table: engine.TableEnrollmentTrend}, "xlsx")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestTableTitle(t *testing.T) {
	assert.Equal(t, "Pass Fail By Subject", tableTitle("pass_fail_by_subject"))
	assert.Equal(t, "GPA Trend", tableTitle("gpa_trend"))
	assert.Equal(t, "Transcript", tableTitle("transcript"))
}
