package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// WorkbenchMetrics are the domain counters recorded by application services.
// A nil *WorkbenchMetrics is valid and records nothing.
type WorkbenchMetrics struct {
	layoutSaves    *Counter
	layoutResets   *Counter
	layoutLookups  *Counter
	exports        *Counter
	exportDuration *Histogram
	exportedRows   *Counter
	rowsDeleted    *Counter
	settingsSaves  *Counter
	httpRequests   *Counter
	httpDuration   *Histogram
}

// NewWorkbenchMetrics registers every instrument on meter.
func NewWorkbenchMetrics(meter metric.Meter) (*WorkbenchMetrics, error) {
	m := &WorkbenchMetrics{}
	var err error

	counters := []struct {
		dst  **Counter
		name string
		desc string
		unit string
	}{
		{&m.layoutSaves, "workbench_layout_saves_total", "Grid layouts saved", "{layout}"},
		{&m.layoutResets, "workbench_layout_resets_total", "Grid layouts reset to defaults", "{layout}"},
		{&m.layoutLookups, "workbench_layout_lookups_total", "Grid layout loads by cache result", "{lookup}"},
		{&m.exports, "workbench_exports_total", "Grid exports by format and outcome", "{export}"},
		{&m.exportedRows, "workbench_exported_rows_total", "Rows written to export files", "{row}"},
		{&m.rowsDeleted, "workbench_rows_deleted_total", "Rows removed through single or bulk delete", "{row}"},
		{&m.settingsSaves, "workbench_settings_saves_total", "Settings saves by category and outcome", "{save}"},
		{&m.httpRequests, "http_server_requests_total", "HTTP requests served", "{request}"},
	}
	for _, c := range counters {
		if *c.dst, err = NewCounter(meter, c.name, c.desc, c.unit); err != nil {
			return nil, err
		}
	}

	if m.exportDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "workbench_export_duration_seconds",
		Description: "Time to build and write an export file",
		Unit:        "s",
		Boundaries:  ExportDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.httpDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// LayoutSaved counts a persisted layout.
func (m *WorkbenchMetrics) LayoutSaved(ctx context.Context, grid string) {
	if m == nil {
		return
	}
	m.layoutSaves.Inc(ctx, AttrGrid.String(grid))
}

// LayoutReset counts a layout reset.
func (m *WorkbenchMetrics) LayoutReset(ctx context.Context, grid string) {
	if m == nil {
		return
	}
	m.layoutResets.Inc(ctx, AttrGrid.String(grid))
}

// LayoutLookup counts a layout load; result is hit, miss or fallback.
func (m *WorkbenchMetrics) LayoutLookup(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.layoutLookups.Inc(ctx, AttrCacheResult.String(result))
}

// ExportFinished records one export attempt.
func (m *WorkbenchMetrics) ExportFinished(ctx context.Context, format string, rows int, d time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrExportFormat.String(format), outcome(err)}
	m.exports.Inc(ctx, attrs...)
	m.exportDuration.RecordDuration(ctx, d, attrs...)
	if err == nil {
		m.exportedRows.Add(ctx, int64(rows), AttrExportFormat.String(format))
	}
}

// RowsDeleted counts deleted rows.
func (m *WorkbenchMetrics) RowsDeleted(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsDeleted.Add(ctx, int64(n))
}

// SettingsSaved counts a settings save attempt.
func (m *WorkbenchMetrics) SettingsSaved(ctx context.Context, category string, err error) {
	if m == nil {
		return
	}
	m.settingsSaves.Inc(ctx, AttrCategory.String(category), outcome(err))
}

// HTTPRequest records a served request.
func (m *WorkbenchMetrics) HTTPRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		AttrHTTPMethod.String(method),
		AttrHTTPRoute.String(route),
		AttrHTTPStatusCode.Int(status),
	}
	m.httpRequests.Inc(ctx, attrs...)
	m.httpDuration.RecordDuration(ctx, d, attrs...)
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return AttrOutcome.String("error")
	}
	return AttrOutcome.String("success")
}
