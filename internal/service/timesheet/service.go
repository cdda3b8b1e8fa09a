package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/nexts-consulting/fms-attendance/internal/domain/attendance"
	"github.com/nexts-consulting/fms-attendance/internal/domain/leave"
	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/domain/timesheet"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/clock"
	"github.com/xuri/excelize/v2"
)

const (
	attendanceSheet = "Attendance"
	leaveSheet      = "Leaves"
	pageSize        = 100
	timeLayout      = "2006-01-02 15:04"
)

var (
	attendanceHeaders = []interface{}{
		"Date", "Shift Source", "Shift Start", "Shift End", "Status", "Timing",
		"Check In", "Check Out", "Worked Minutes", "Leave Minutes", "Check-in Distance (m)",
	}
	leaveHeaders = []interface{}{
		"Attendance Date", "Leave Type", "Note", "Start", "End", "Duration",
	}
)

type TimesheetServiceImpl struct {
	attendance.AttendanceRepository
	leave.LeaveRepository
	shiftService shift.ShiftService
	clock        clock.Clock
}

// Export implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Export(ctx context.Context, req timesheet.ExportRequest) (timesheet.Export, error) {
	if err := req.Validate(); err != nil {
		return timesheet.Export{}, err
	}

	cfg, err := s.shiftService.ProjectConfig(ctx, req.ProjectID)
	if err != nil {
		return timesheet.Export{}, err
	}
	loc := cfg.Location()

	records, err := s.collect(ctx, req, loc)
	if err != nil {
		return timesheet.Export{}, err
	}

	ids := make([]string, 0, len(records))
	for _, a := range records {
		ids = append(ids, a.ID)
	}
	leaves, err := s.LeaveRepository.ListByAttendances(ctx, ids)
	if err != nil {
		return timesheet.Export{}, fmt.Errorf("list leave records: %w", err)
	}

	content, err := s.render(records, leaves, loc)
	if err != nil {
		return timesheet.Export{}, err
	}

	return timesheet.Export{
		Filename: fmt.Sprintf("timesheet_%s_%s.xlsx", req.StartDate, req.EndDate),
		Content:  content,
	}, nil
}

func (s *TimesheetServiceImpl) collect(ctx context.Context, req timesheet.ExportRequest, loc *time.Location) ([]attendance.Attendance, error) {
	filter := attendance.AttendanceFilter{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		StartDate: &req.StartDate,
		EndDate:   &req.EndDate,
		Limit:     pageSize,
		SortBy:    "shift_start",
		SortOrder: "asc",
	}
	filter.ApplyDateRange(loc)

	var all []attendance.Attendance
	for page := 1; ; page++ {
		filter.Page = page
		items, total, err := s.AttendanceRepository.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list attendances: %w", err)
		}
		all = append(all, items...)
		if len(items) == 0 || int64(len(all)) >= total {
			return all, nil
		}
	}
}

func (s *TimesheetServiceImpl) render(records []attendance.Attendance, leaves map[string][]leave.LeaveRecord, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), attendanceSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(leaveSheet); err != nil {
		return nil, fmt.Errorf("create leave sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := writeRow(f, attendanceSheet, 1, attendanceHeaders); err != nil {
		return nil, err
	}
	if err := writeRow(f, leaveSheet, 1, leaveHeaders); err != nil {
		return nil, err
	}
	_ = f.SetRowStyle(attendanceSheet, 1, 1, header)
	_ = f.SetRowStyle(leaveSheet, 1, 1, header)

	now := s.clock.Now()
	leaveRow := 2
	for i, a := range records {
		var leaveTotal time.Duration
		for _, l := range leaves[a.ID] {
			d := l.Duration(now)
			leaveTotal += d

			if err := writeRow(f, leaveSheet, leaveRow, []interface{}{
				a.ShiftStart.In(loc).Format("2006-01-02"),
				string(l.LeaveType),
				deref(l.Note),
				l.StartTime.In(loc).Format(timeLayout),
				formatTime(l.EndTime, loc),
				leave.FormatDuration(d),
			}); err != nil {
				return nil, err
			}
			leaveRow++
		}

		var distance interface{} = ""
		if a.CheckInDistanceMeters != nil {
			distance = int(*a.CheckInDistanceMeters + 0.5)
		}

		if err := writeRow(f, attendanceSheet, i+2, []interface{}{
			a.ShiftStart.In(loc).Format("2006-01-02"),
			string(a.ShiftSource),
			a.ShiftStart.In(loc).Format(timeLayout),
			a.ShiftEnd.In(loc).Format(timeLayout),
			string(a.Status),
			string(a.TimingStatus),
			formatTime(a.CheckInTime, loc),
			formatTime(a.CheckOutTime, loc),
			a.WorkedMinutes(now),
			int(leaveTotal / time.Minute),
			distance,
		}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(timeLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func NewTimesheetService(
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRepository,
	shiftService shift.ShiftService,
	clk clock.Clock,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		AttendanceRepository: attendanceRepo,
		LeaveRepository:      leaveRepo,
		shiftService:         shiftService,
		clock:                clk,
	}
}
