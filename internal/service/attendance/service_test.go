package attendance_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nexts-consulting/fms-attendance/internal/domain/attendance"
	attendanceMock "github.com/nexts-consulting/fms-attendance/internal/domain/attendance/mock"
	"github.com/nexts-consulting/fms-attendance/internal/domain/leave"
	"github.com/nexts-consulting/fms-attendance/internal/domain/location"
	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/clock"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/database"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/events"
	eventsMock "github.com/nexts-consulting/fms-attendance/internal/pkg/events/mock"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/retry"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/validator"
	"github.com/nexts-consulting/fms-attendance/internal/repository/memory"
	attendanceservice "github.com/nexts-consulting/fms-attendance/internal/service/attendance"
	leaveservice "github.com/nexts-consulting/fms-attendance/internal/service/leave"
	shiftservice "github.com/nexts-consulting/fms-attendance/internal/service/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var today = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

const (
	storeLat = 10.7769
	storeLng = 106.7009
)

type serviceDeps struct {
	store   *memory.Store
	clock   *clock.Manual
	service attendance.AttendanceService
	leaves  leave.LeaveService
	loc     location.Location
	shift   shift.Shift
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noRetry() retry.Policy {
	return retry.Policy{Attempts: 1, Retryable: database.IsTransient}
}

func setupServiceTest(t *testing.T, now time.Time) *serviceDeps {
	t.Helper()
	return setupWith(t, now, nil, nil)
}

func setupWith(t *testing.T, now time.Time, repo attendance.AttendanceRepository, publisher events.Publisher) *serviceDeps {
	t.Helper()

	clk := clock.NewManual(now)
	store := memory.NewStore(clk)
	if repo == nil {
		repo = memory.NewAttendanceRepository(store)
	}
	if publisher == nil {
		publisher = events.Noop()
	}

	loc := store.AddLocation(location.Location{ProjectID: "p-1", Name: "Store 12", Latitude: storeLat, Longitude: storeLng, RadiusMeters: 100})
	sh := store.AddShift(shift.Shift{
		ProjectID:  "p-1",
		LocationID: loc.ID,
		Name:       "Morning",
		StartTime:  today.Add(8 * time.Hour),
		EndTime:    today.Add(16 * time.Hour),
	}, "u-1")
	store.SetProjectConfig(shift.ProjectConfig{ProjectID: "p-1", ToleranceMinutes: 15})

	logger := newLogger()
	locations := memory.NewLocationRepository(store)
	leaves := memory.NewLeaveRepository(store)
	shifts := shiftservice.NewShiftService(memory.NewShiftRepository(store), locations, clk, logger)

	svc := attendanceservice.NewAttendanceService(store, repo, leaves, locations, shifts, publisher, noRetry(), clk, logger)
	leaveSvc := leaveservice.NewLeaveService(store, leaves, repo, publisher, noRetry(), clk, logger)

	return &serviceDeps{store: store, clock: clk, service: svc, leaves: leaveSvc, loc: loc, shift: sh}
}

func f64(v float64) *float64 { return &v }

func checkInReq(d *serviceDeps, userID string) attendance.CheckInRequest {
	return attendance.CheckInRequest{
		UserID:     userID,
		ProjectID:  "p-1",
		LocationID: d.loc.ID,
		Latitude:   f64(storeLat),
		Longitude:  f64(storeLng),
		PhotoRef:   "photos/in.jpg",
	}
}

func checkOutReq(userID string) attendance.CheckOutRequest {
	return attendance.CheckOutRequest{
		UserID:    userID,
		ProjectID: "p-1",
		Latitude:  f64(storeLat + 0.0001),
		Longitude: f64(storeLng),
		PhotoRef:  "photos/out.jpg",
	}
}

func TestAttendanceService_CheckInTiming(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want attendance.TimingStatus
	}{
		{name: "15 minutes before start", at: today.Add(7*time.Hour + 45*time.Minute), want: attendance.TimingOnTime},
		{name: "16 minutes before start", at: today.Add(7*time.Hour + 44*time.Minute), want: attendance.TimingEarly},
		{name: "16 minutes after start", at: today.Add(8*time.Hour + 16*time.Minute), want: attendance.TimingLate},
		{name: "5 minutes after start", at: today.Add(8*time.Hour + 5*time.Minute), want: attendance.TimingOnTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupServiceTest(t, tt.at)

			got, err := d.service.CheckIn(context.Background(), checkInReq(d, "u-1"))
			require.NoError(t, err)

			assert.Equal(t, tt.want, got.TimingStatus)
			assert.Equal(t, attendance.StatusCheckedIn, got.Status)
			assert.Equal(t, shift.SourceAssigned, got.ShiftSource)
			require.NotNil(t, got.ShiftID)
			assert.Equal(t, d.shift.ID, *got.ShiftID)
			assert.Equal(t, tt.at, *got.CheckInTime)
		})
	}
}

func TestAttendanceService_CheckInTwice(t *testing.T) {
	d := setupServiceTest(t, today.Add(8*time.Hour))
	ctx := context.Background()

	_, err := d.service.CheckIn(ctx, checkInReq(d, "u-1"))
	require.NoError(t, err)

	other := d.store.AddLocation(location.Location{ProjectID: "p-1", Name: "Store 40", Latitude: 10.80, Longitude: 106.70, RadiusMeters: 200})
	req := checkInReq(d, "u-1")
	req.LocationID = other.ID
	req.Latitude, req.Longitude = f64(10.80), f64(106.70)

	_, err = d.service.CheckIn(ctx, req)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_CheckInOutOfRange(t *testing.T) {
	d := setupServiceTest(t, today.Add(8*time.Hour))

	req := checkInReq(d, "u-1")
	req.Latitude = f64(storeLat + 0.01)

	_, err := d.service.CheckIn(context.Background(), req)
	require.ErrorIs(t, err, attendance.ErrOutOfRange)

	var rangeErr *attendance.OutOfRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.InDelta(t, 1112, rangeErr.DistanceMeters, 5)
	assert.Equal(t, 100.0, rangeErr.RadiusMeters)

	open, err := d.service.GetOpenAttendance(context.Background(), "u-1", "p-1")
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestAttendanceService_CheckInValidation(t *testing.T) {
	d := setupServiceTest(t, today.Add(8*time.Hour))

	req := checkInReq(d, "u-1")
	req.Latitude = nil
	req.PhotoRef = ""

	_, err := d.service.CheckIn(context.Background(), req)

	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs.ToMap(), "latitude")
	assert.Contains(t, errs.ToMap(), "photo_ref")
}

func TestAttendanceService_CheckInFlexibleIsOnTime(t *testing.T) {
	d := setupServiceTest(t, today.Add(13*time.Hour))

	// u-2 has no assignment and the project has no default times.
	got, err := d.service.CheckIn(context.Background(), checkInReq(d, "u-2"))
	require.NoError(t, err)

	assert.Equal(t, shift.SourceFlexible, got.ShiftSource)
	assert.Equal(t, attendance.TimingOnTime, got.TimingStatus)
	assert.Nil(t, got.ShiftID)
}

func TestAttendanceService_CheckInExplicitShift(t *testing.T) {
	d := setupServiceTest(t, today.Add(8*time.Hour))
	ctx := context.Background()

	other := d.store.AddLocation(location.Location{ProjectID: "p-1", Name: "Store 40", Latitude: 10.80, Longitude: 106.70, RadiusMeters: 200})
	req := checkInReq(d, "u-1")
	req.LocationID = other.ID
	req.ShiftID = &d.shift.ID

	_, err := d.service.CheckIn(ctx, req)
	assert.ErrorIs(t, err, shift.ErrLocationMismatch)

	req = checkInReq(d, "u-1")
	req.ShiftID = &d.shift.ID
	got, err := d.service.CheckIn(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, d.shift.ID, *got.ShiftID)
}

func TestAttendanceService_CheckOut(t *testing.T) {
	ctx := context.Background()

	t.Run("not checked in", func(t *testing.T) {
		d := setupServiceTest(t, today.Add(8*time.Hour))

		_, err := d.service.CheckOut(ctx, checkOutReq("u-1"))
		assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
	})

	t.Run("twice on the same attendance", func(t *testing.T) {
		d := setupServiceTest(t, today.Add(8*time.Hour))
		opened, err := d.service.CheckIn(ctx, checkInReq(d, "u-1"))
		require.NoError(t, err)

		req := checkOutReq("u-1")
		req.AttendanceID = &opened.ID
		_, err = d.service.CheckOut(ctx, req)
		require.NoError(t, err)

		_, err = d.service.CheckOut(ctx, req)
		assert.ErrorIs(t, err, attendance.ErrAttendanceAlreadyClosed)
	})

	t.Run("is not geofence gated", func(t *testing.T) {
		d := setupServiceTest(t, today.Add(8*time.Hour))
		_, err := d.service.CheckIn(ctx, checkInReq(d, "u-1"))
		require.NoError(t, err)

		req := checkOutReq("u-1")
		req.Latitude = f64(21.0285)
		req.Longitude = f64(105.8542)
		got, err := d.service.CheckOut(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusCheckedOut, got.Status)
	})

	t.Run("someone else's attendance", func(t *testing.T) {
		d := setupServiceTest(t, today.Add(8*time.Hour))
		opened, err := d.service.CheckIn(ctx, checkInReq(d, "u-1"))
		require.NoError(t, err)

		req := checkOutReq("u-2")
		req.AttendanceID = &opened.ID
		_, err = d.service.CheckOut(ctx, req)
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})
}

func TestAttendanceService_WorkdayScenario(t *testing.T) {
	d := setupServiceTest(t, today.Add(8*time.Hour+5*time.Minute))
	ctx := context.Background()

	checkedIn, err := d.service.CheckIn(ctx, checkInReq(d, "u-1"))
	require.NoError(t, err)
	assert.Equal(t, attendance.TimingOnTime, checkedIn.TimingStatus)

	d.clock.Set(today.Add(10 * time.Hour))
	started, err := d.leaves.StartLeave(ctx, leave.StartLeaveRequest{
		UserID:       "u-1",
		AttendanceID: checkedIn.ID,
		LeaveType:    string(leave.TypeBreak),
		Latitude:     f64(storeLat),
		Longitude:    f64(storeLng),
		PhotoRef:     "photos/leave-start.jpg",
	})
	require.NoError(t, err)

	d.clock.Set(today.Add(10*time.Hour + 20*time.Minute))
	ended, err := d.leaves.EndLeave(ctx, leave.EndLeaveRequest{
		UserID:        "u-1",
		LeaveRecordID: started.ID,
		Latitude:      f64(storeLat),
		Longitude:     f64(storeLng),
		PhotoRef:      "photos/leave-end.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, ended.Duration(d.clock.Now()))
	assert.Equal(t, "20 minutes", leave.FormatDuration(ended.Duration(d.clock.Now())))

	d.clock.Set(today.Add(16*time.Hour + 5*time.Minute))
	checkedOut, err := d.service.CheckOut(ctx, checkOutReq("u-1"))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusCheckedOut, checkedOut.Status)
	require.NotNil(t, checkedOut.CheckOutTime)
	assert.Equal(t, today.Add(16*time.Hour+5*time.Minute), *checkedOut.CheckOutTime)
	assert.NotNil(t, checkedOut.CheckOutLatitude)
	assert.NotNil(t, checkedOut.CheckOutLongitude)
	assert.Equal(t, "photos/out.jpg", *checkedOut.CheckOutPhotoRef)

	assert.Equal(t, *checkedIn.CheckInTime, *checkedOut.CheckInTime)
	assert.Equal(t, *checkedIn.CheckInLatitude, *checkedOut.CheckInLatitude)
	assert.Equal(t, *checkedIn.CheckInPhotoRef, *checkedOut.CheckInPhotoRef)
	assert.Equal(t, checkedIn.TimingStatus, checkedOut.TimingStatus)
	assert.Equal(t, 480, checkedOut.WorkedMinutes(d.clock.Now()))
}

func TestAttendanceService_CheckOutClosesOpenLeave(t *testing.T) {
	d := setupServiceTest(t, today.Add(8*time.Hour))
	ctx := context.Background()

	opened, err := d.service.CheckIn(ctx, checkInReq(d, "u-1"))
	require.NoError(t, err)

	d.clock.Set(today.Add(15 * time.Hour))
	_, err = d.leaves.StartLeave(ctx, leave.StartLeaveRequest{
		UserID: "u-1", AttendanceID: opened.ID, LeaveType: string(leave.TypeMeal),
		Latitude: f64(storeLat), Longitude: f64(storeLng), PhotoRef: "p.jpg",
	})
	require.NoError(t, err)

	d.clock.Set(today.Add(16 * time.Hour))
	_, err = d.service.CheckOut(ctx, checkOutReq("u-1"))
	require.NoError(t, err)

	records, err := d.leaves.ListLeaves(ctx, "u-1", opened.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].IsOpen())
	assert.Equal(t, today.Add(16*time.Hour), *records[0].EndTime)
}

// leaveDuringClose starts a leave just before the attendance row is closed.
type leaveDuringClose struct {
	attendance.AttendanceRepository
	beforeClose func()
}

func (r *leaveDuringClose) Close(ctx context.Context, id string, checkOut attendance.CheckOut) (attendance.Attendance, error) {
	if r.beforeClose != nil {
		fn := r.beforeClose
		r.beforeClose = nil
		fn()
	}
	return r.AttendanceRepository.Close(ctx, id, checkOut)
}

func TestAttendanceService_CheckOutClosesLeaveStartedMidway(t *testing.T) {
	ctx := context.Background()
	repo := &leaveDuringClose{}
	d := setupWith(t, today.Add(8*time.Hour), repo, nil)
	repo.AttendanceRepository = memory.NewAttendanceRepository(d.store)

	opened, err := d.service.CheckIn(ctx, checkInReq(d, "u-1"))
	require.NoError(t, err)

	d.clock.Set(today.Add(16 * time.Hour))
	repo.beforeClose = func() {
		_, err := d.leaves.StartLeave(ctx, leave.StartLeaveRequest{
			UserID: "u-1", AttendanceID: opened.ID, LeaveType: string(leave.TypePersonal),
			Latitude: f64(storeLat), Longitude: f64(storeLng), PhotoRef: "p.jpg",
		})
		require.NoError(t, err)
	}

	closed, err := d.service.CheckOut(ctx, checkOutReq("u-1"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCheckedOut, closed.Status)

	records, err := d.leaves.ListLeaves(ctx, "u-1", opened.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].IsOpen())
	assert.Equal(t, today.Add(16*time.Hour), *records[0].EndTime)

	_, err = d.leaves.StartLeave(ctx, leave.StartLeaveRequest{
		UserID: "u-1", AttendanceID: opened.ID, LeaveType: string(leave.TypeBreak),
		Latitude: f64(storeLat), Longitude: f64(storeLng), PhotoRef: "p.jpg",
	})
	assert.ErrorIs(t, err, leave.ErrAttendanceNotOpen)
}

func TestAttendanceService_AutoCheckOut(t *testing.T) {
	d := setupServiceTest(t, today.Add(8*time.Hour))
	ctx := context.Background()

	opened, err := d.service.CheckIn(ctx, checkInReq(d, "u-1"))
	require.NoError(t, err)

	d.clock.Set(today.Add(12 * time.Hour))
	_, err = d.leaves.StartLeave(ctx, leave.StartLeaveRequest{
		UserID: "u-1", AttendanceID: opened.ID, LeaveType: string(leave.TypeWorkErrand),
		Latitude: f64(storeLat), Longitude: f64(storeLng), PhotoRef: "p.jpg",
	})
	require.NoError(t, err)

	d.clock.Set(today.Add(18*time.Hour + 30*time.Minute))
	closed, err := d.service.AutoCheckOut(ctx, opened.ID)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusAutoCheckedOut, closed.Status)
	assert.Equal(t, today.Add(16*time.Hour), *closed.CheckOutTime)
	assert.Nil(t, closed.CheckOutLatitude)
	assert.Nil(t, closed.CheckOutPhotoRef)

	records, err := d.leaves.ListLeaves(ctx, "u-1", opened.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, today.Add(16*time.Hour), *records[0].EndTime)

	_, err = d.service.AutoCheckOut(ctx, opened.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceAlreadyClosed)

	_, err = d.service.CheckOut(ctx, checkOutReq("u-1"))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestAttendanceService_AutoCheckOutBeforeShiftEnd(t *testing.T) {
	d := setupServiceTest(t, today.Add(8*time.Hour))
	ctx := context.Background()

	opened, err := d.service.CheckIn(ctx, checkInReq(d, "u-1"))
	require.NoError(t, err)

	d.clock.Set(today.Add(11 * time.Hour))
	closed, err := d.service.AutoCheckOut(ctx, opened.ID)
	require.NoError(t, err)
	assert.Equal(t, today.Add(11*time.Hour), *closed.CheckOutTime)
}

func TestAttendanceService_MarkAbsent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an absence record once", func(t *testing.T) {
		d := setupServiceTest(t, today.Add(20*time.Hour))
		assigned := shift.AssignedShift{UserID: "u-1", Shift: d.shift}

		got, created, err := d.service.MarkAbsent(ctx, assigned)
		require.NoError(t, err)
		require.True(t, created)
		assert.Equal(t, attendance.StatusAutoCheckedOut, got.Status)
		assert.Equal(t, attendance.TimingAbsent, got.TimingStatus)
		assert.Nil(t, got.CheckInTime)

		_, created, err = d.service.MarkAbsent(ctx, assigned)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("skips users who checked in", func(t *testing.T) {
		d := setupServiceTest(t, today.Add(8*time.Hour))
		_, err := d.service.CheckIn(ctx, checkInReq(d, "u-1"))
		require.NoError(t, err)

		d.clock.Set(today.Add(20 * time.Hour))
		_, created, err := d.service.MarkAbsent(ctx, shift.AssignedShift{UserID: "u-1", Shift: d.shift})
		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestAttendanceService_GetAndList(t *testing.T) {
	d := setupServiceTest(t, today.Add(8*time.Hour))
	ctx := context.Background()

	opened, err := d.service.CheckIn(ctx, checkInReq(d, "u-1"))
	require.NoError(t, err)

	got, err := d.service.GetAttendance(ctx, "u-1", opened.ID)
	require.NoError(t, err)
	assert.Equal(t, opened.ID, got.ID)

	_, err = d.service.GetAttendance(ctx, "u-2", opened.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	start := "2026-10-19"
	result, err := d.service.ListAttendances(ctx, attendance.AttendanceFilter{UserID: "u-1", ProjectID: "p-1", StartDate: &start, EndDate: &start})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	assert.Equal(t, 1, result.TotalPages())

	next := "2026-10-20"
	result, err = d.service.ListAttendances(ctx, attendance.AttendanceFilter{UserID: "u-1", ProjectID: "p-1", StartDate: &next})
	require.NoError(t, err)
	assert.Zero(t, result.TotalCount)
}

func TestAttendanceService_PublishFailureDoesNotFailCheckIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := eventsMock.NewMockPublisher(ctrl)
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evts ...events.Event) error {
			require.Len(t, evts, 1)
			assert.Equal(t, events.AttendanceCheckedIn, evts[0].Type)
			assert.Equal(t, "u-1", evts[0].Key)
			return errors.New("broker unavailable")
		})

	d := setupWith(t, today.Add(8*time.Hour), nil, publisher)

	got, err := d.service.CheckIn(context.Background(), checkInReq(d, "u-1"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCheckedIn, got.Status)
}

func TestAttendanceService_RetriesTransientFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := attendanceMock.NewMockAttendanceRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().GetOpen(gomock.Any(), "u-1", "p-1").
			Return(nil, fmt.Errorf("query: %w", database.ErrUnavailable)),
		repo.EXPECT().GetOpen(gomock.Any(), "u-1", "p-1").Return(nil, nil),
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
				return a, nil
			}),
	)

	clk := clock.NewManual(today.Add(8 * time.Hour))
	store := memory.NewStore(clk)
	loc := store.AddLocation(location.Location{ProjectID: "p-1", Latitude: storeLat, Longitude: storeLng, RadiusMeters: 100})
	logger := newLogger()
	locations := memory.NewLocationRepository(store)
	shifts := shiftservice.NewShiftService(memory.NewShiftRepository(store), locations, clk, logger)
	policy := retry.Policy{Attempts: 3, Delay: time.Millisecond, Retryable: database.IsTransient}

	svc := attendanceservice.NewAttendanceService(store, repo, memory.NewLeaveRepository(store), locations, shifts, events.Noop(), policy, clk, logger)

	got, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{
		UserID: "u-1", ProjectID: "p-1", LocationID: loc.ID,
		Latitude: f64(storeLat), Longitude: f64(storeLng), PhotoRef: "in.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCheckedIn, got.Status)
}

func TestAttendanceService_InvariantErrorsAreNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := attendanceMock.NewMockAttendanceRepository(ctrl)
	repo.EXPECT().GetOpen(gomock.Any(), "u-1", "p-1").Return(nil, nil).Times(1)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(attendance.Attendance{}, attendance.ErrAlreadyCheckedIn).Times(1)

	clk := clock.NewManual(today.Add(8 * time.Hour))
	store := memory.NewStore(clk)
	loc := store.AddLocation(location.Location{ProjectID: "p-1", Latitude: storeLat, Longitude: storeLng, RadiusMeters: 100})
	logger := newLogger()
	locations := memory.NewLocationRepository(store)
	shifts := shiftservice.NewShiftService(memory.NewShiftRepository(store), locations, clk, logger)
	policy := retry.Policy{Attempts: 3, Delay: time.Millisecond, Retryable: database.IsTransient}

	svc := attendanceservice.NewAttendanceService(store, repo, memory.NewLeaveRepository(store), locations, shifts, events.Noop(), policy, clk, logger)

	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{
		UserID: "u-1", ProjectID: "p-1", LocationID: loc.ID,
		Latitude: f64(storeLat), Longitude: f64(storeLng), PhotoRef: "in.jpg",
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}
