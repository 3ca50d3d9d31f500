package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
	"github.com/registrar-hub/registrar-analytics-api/pkg/export"
)

// Export formats the report service can render.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportFile is a rendered report ready for download.
type ExportFile struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ReportService renders result tables into downloadable documents.
type ReportService struct {
	analytics *AnalyticsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
	enabled   bool
}

// NewReportService constructs the report service.
func NewReportService(analytics *AnalyticsService, logger *zap.Logger, enabled bool) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		analytics: analytics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
		enabled:   enabled,
	}
}

// Export resolves the table and renders it in the requested format.
func (s *ReportService) Export(ctx context.Context, rctx models.RequestContext, req TableRequest, format string) (ExportFile, error) {
	if !s.enabled {
		return ExportFile{}, appErrors.Clone(appErrors.ErrForbidden, "report export is disabled")
	}

	table, _, err := s.analytics.Table(ctx, rctx, req)
	if err != nil {
		return ExportFile{}, err
	}

	stamp := time.Now().Format("20060102")
	switch strings.ToLower(format) {
	case FormatCSV:
		data, err := s.csv.Render(table)
		if err != nil {
			return ExportFile{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "csv rendering failed")
		}
		return ExportFile{
			Data:        data,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("%s_%s.csv", table.Name, stamp),
		}, nil
	case FormatPDF:
		data, err := s.pdf.Render(table, tableTitle(table.Name))
		if err != nil {
			return ExportFile{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pdf rendering failed")
		}
		return ExportFile{
			Data:        data,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("%s_%s.pdf", table.Name, stamp),
		}, nil
	default:
		return ExportFile{}, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
}

// tableTitle turns a table name into a document heading, e.g.
// "pass_fail_by_subject" into "Pass Fail By Subject".
func tableTitle(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if p == "gpa" {
			parts[i] = "GPA"
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
