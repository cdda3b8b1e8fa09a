package timesheet

import "context"

type TimesheetService interface {
	// Export renders the caller's attendances and leaves in the date range as
	// an XLSX workbook.
	Export(ctx context.Context, req ExportRequest) (Export, error)
}
