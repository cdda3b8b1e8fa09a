package leave_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nexts-consulting/fms-attendance/internal/domain/attendance"
	"github.com/nexts-consulting/fms-attendance/internal/domain/leave"
	leaveMock "github.com/nexts-consulting/fms-attendance/internal/domain/leave/mock"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/clock"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/database"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/events"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/retry"
	"github.com/nexts-consulting/fms-attendance/internal/repository/memory"
	leaveservice "github.com/nexts-consulting/fms-attendance/internal/service/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var today = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type serviceDeps struct {
	store       *memory.Store
	clock       *clock.Manual
	attendances attendance.AttendanceRepository
	service     leave.LeaveService
}

func setupServiceTest(t *testing.T, leaves leave.LeaveRepository) *serviceDeps {
	t.Helper()

	clk := clock.NewManual(today.Add(10 * time.Hour))
	store := memory.NewStore(clk)
	attendances := memory.NewAttendanceRepository(store)
	if leaves == nil {
		leaves = memory.NewLeaveRepository(store)
	}

	svc := leaveservice.NewLeaveService(
		store,
		leaves,
		attendances,
		events.Noop(),
		retry.Policy{Attempts: 1, Retryable: database.IsTransient},
		clk,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return &serviceDeps{store: store, clock: clk, attendances: attendances, service: svc}
}

func (d *serviceDeps) openAttendance(t *testing.T, userID string) attendance.Attendance {
	t.Helper()
	in := today.Add(8 * time.Hour)
	a, err := d.attendances.Create(context.Background(), attendance.Attendance{
		UserID:       userID,
		ProjectID:    "p-1",
		LocationID:   "loc-1",
		ShiftStart:   today.Add(8 * time.Hour),
		ShiftEnd:     today.Add(16 * time.Hour),
		Status:       attendance.StatusCheckedIn,
		TimingStatus: attendance.TimingOnTime,
		CheckInTime:  &in,
	})
	require.NoError(t, err)
	return a
}

func f64(v float64) *float64 { return &v }

func startReq(userID, attendanceID string) leave.StartLeaveRequest {
	note := "coffee"
	return leave.StartLeaveRequest{
		UserID:       userID,
		AttendanceID: attendanceID,
		LeaveType:    string(leave.TypeBreak),
		Note:         &note,
		Latitude:     f64(10.7769),
		Longitude:    f64(106.7009),
		PhotoRef:     "photos/start.jpg",
	}
}

func endReq(userID, recordID string) leave.EndLeaveRequest {
	return leave.EndLeaveRequest{
		UserID:        userID,
		LeaveRecordID: recordID,
		Latitude:      f64(10.7769),
		Longitude:     f64(106.7009),
		PhotoRef:      "photos/end.jpg",
	}
}

func TestLeaveService_StartLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		a := d.openAttendance(t, "u-1")

		got, err := d.service.StartLeave(ctx, startReq("u-1", a.ID))
		require.NoError(t, err)
		assert.True(t, got.IsOpen())
		assert.Equal(t, leave.TypeBreak, got.LeaveType)
		assert.Equal(t, "coffee", *got.Note)
		assert.Equal(t, today.Add(10*time.Hour), got.StartTime)
		assert.Equal(t, "photos/start.jpg", got.StartPhotoRef)
	})

	t.Run("twice without ending", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		a := d.openAttendance(t, "u-1")

		_, err := d.service.StartLeave(ctx, startReq("u-1", a.ID))
		require.NoError(t, err)

		_, err = d.service.StartLeave(ctx, startReq("u-1", a.ID))
		assert.ErrorIs(t, err, leave.ErrLeaveAlreadyActive)
	})

	t.Run("attendance closed", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		a := d.openAttendance(t, "u-1")
		_, err := d.attendances.Close(ctx, a.ID, attendance.CheckOut{Status: attendance.StatusCheckedOut, Time: today.Add(9 * time.Hour)})
		require.NoError(t, err)

		_, err = d.service.StartLeave(ctx, startReq("u-1", a.ID))
		assert.ErrorIs(t, err, leave.ErrAttendanceNotOpen)
	})

	t.Run("someone else's attendance", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		a := d.openAttendance(t, "u-1")

		_, err := d.service.StartLeave(ctx, startReq("u-2", a.ID))
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})

	t.Run("invalid leave type", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		a := d.openAttendance(t, "u-1")

		req := startReq("u-1", a.ID)
		req.LeaveType = "NAP"
		_, err := d.service.StartLeave(ctx, req)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, leave.ErrLeaveAlreadyActive)
	})
}

// closingLeaveRepository closes the parent attendance right after StartLeave
// has checked it, the way a concurrent checkout would.
type closingLeaveRepository struct {
	leave.LeaveRepository
	onLookup func()
}

func (r *closingLeaveRepository) GetOpenByAttendance(ctx context.Context, attendanceID string) (*leave.LeaveRecord, error) {
	if r.onLookup != nil {
		fn := r.onLookup
		r.onLookup = nil
		fn()
	}
	return r.LeaveRepository.GetOpenByAttendance(ctx, attendanceID)
}

func TestLeaveService_StartLeaveRacesCheckOut(t *testing.T) {
	ctx := context.Background()
	leaves := &closingLeaveRepository{}
	d := setupServiceTest(t, leaves)
	leaves.LeaveRepository = memory.NewLeaveRepository(d.store)
	a := d.openAttendance(t, "u-1")

	leaves.onLookup = func() {
		_, err := d.attendances.Close(ctx, a.ID, attendance.CheckOut{Status: attendance.StatusCheckedOut, Time: d.clock.Now()})
		require.NoError(t, err)
	}

	_, err := d.service.StartLeave(ctx, startReq("u-1", a.ID))
	assert.ErrorIs(t, err, leave.ErrAttendanceNotOpen)

	open, err := leaves.GetOpenByAttendance(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, open)

	parent, err := d.attendances.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCheckedOut, parent.Status)
}

func TestLeaveService_EndLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("freezes duration at end time", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		a := d.openAttendance(t, "u-1")
		started, err := d.service.StartLeave(ctx, startReq("u-1", a.ID))
		require.NoError(t, err)

		d.clock.Advance(20 * time.Minute)
		ended, err := d.service.EndLeave(ctx, endReq("u-1", started.ID))
		require.NoError(t, err)
		assert.False(t, ended.IsOpen())
		assert.Equal(t, "photos/end.jpg", *ended.EndPhotoRef)

		d.clock.Advance(3 * time.Hour)
		assert.Equal(t, 20*time.Minute, ended.Duration(d.clock.Now()))
	})

	t.Run("replay returns the closed record", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		a := d.openAttendance(t, "u-1")
		started, err := d.service.StartLeave(ctx, startReq("u-1", a.ID))
		require.NoError(t, err)

		d.clock.Advance(20 * time.Minute)
		first, err := d.service.EndLeave(ctx, endReq("u-1", started.ID))
		require.NoError(t, err)

		d.clock.Advance(5 * time.Minute)
		second, err := d.service.EndLeave(ctx, endReq("u-1", started.ID))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("unknown record", func(t *testing.T) {
		d := setupServiceTest(t, nil)

		_, err := d.service.EndLeave(ctx, endReq("u-1", "missing"))
		assert.ErrorIs(t, err, leave.ErrNoOpenLeave)
	})

	t.Run("someone else's record", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		a := d.openAttendance(t, "u-1")
		started, err := d.service.StartLeave(ctx, startReq("u-1", a.ID))
		require.NoError(t, err)

		_, err = d.service.EndLeave(ctx, endReq("u-2", started.ID))
		assert.ErrorIs(t, err, leave.ErrNoOpenLeave)
	})
}

func TestLeaveService_EndLeaveLosesRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	leaves := leaveMock.NewMockLeaveRepository(ctrl)
	d := setupServiceTest(t, leaves)
	a := d.openAttendance(t, "u-1")

	start := today.Add(10 * time.Hour)
	end := start.Add(20 * time.Minute)
	open := leave.LeaveRecord{ID: "lr-1", AttendanceID: a.ID, LeaveType: leave.TypeMeal, StartTime: start}
	closed := open
	closed.EndTime = &end

	gomock.InOrder(
		leaves.EXPECT().GetByID(gomock.Any(), "lr-1").Return(open, nil),
		leaves.EXPECT().Close(gomock.Any(), "lr-1", gomock.Any()).Return(leave.LeaveRecord{}, leave.ErrLeaveAlreadyEnded),
		leaves.EXPECT().GetByID(gomock.Any(), "lr-1").Return(closed, nil),
	)

	got, err := d.service.EndLeave(context.Background(), endReq("u-1", "lr-1"))
	require.NoError(t, err)
	assert.Equal(t, closed, got)
}

func TestLeaveService_EndOpenLeave(t *testing.T) {
	ctx := context.Background()
	d := setupServiceTest(t, nil)
	a := d.openAttendance(t, "u-1")

	_, err := d.service.EndOpenLeave(ctx, leave.EndOpenLeaveRequest{
		UserID: "u-1", AttendanceID: a.ID, Latitude: f64(10.7769), Longitude: f64(106.7009), PhotoRef: "end.jpg",
	})
	assert.ErrorIs(t, err, leave.ErrNoOpenLeave)

	started, err := d.service.StartLeave(ctx, startReq("u-1", a.ID))
	require.NoError(t, err)

	d.clock.Advance(65 * time.Minute)
	ended, err := d.service.EndOpenLeave(ctx, leave.EndOpenLeaveRequest{
		UserID: "u-1", AttendanceID: a.ID, Latitude: f64(10.7769), Longitude: f64(106.7009), PhotoRef: "end.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, started.ID, ended.ID)
	assert.Equal(t, "1 hour 5 minutes", leave.FormatDuration(ended.Duration(d.clock.Now())))

	// A new leave can start once the previous one ended.
	_, err = d.service.StartLeave(ctx, startReq("u-1", a.ID))
	assert.NoError(t, err)

	records, err := d.service.ListLeaves(ctx, "u-1", a.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = d.service.ListLeaves(ctx, "u-2", a.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}
