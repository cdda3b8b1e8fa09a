package timesheet

import (
	"github.com/nexts-consulting/fms-attendance/internal/pkg/validator"
)

// MaxExportDays bounds a single export.
const MaxExportDays = 93

type ExportRequest struct {
	UserID    string `json:"-"`
	ProjectID string `json:"-"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (r ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if okStart && okEnd {
		switch {
		case end.Before(start):
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		case int(end.Sub(start).Hours()/24) >= MaxExportDays:
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "export range must not exceed 93 days",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Export is a rendered XLSX workbook.
type Export struct {
	Filename string
	Content  []byte
}
