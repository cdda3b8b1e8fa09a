package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nexts-consulting/fms-attendance/internal/domain/leave"
	"github.com/nexts-consulting/fms-attendance/internal/handler/http/response"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/clock"
)

type LeaveHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	EndOpen(w http.ResponseWriter, r *http.Request)
	End(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	clock        clock.Clock
}

func NewLeaveHandler(leaveService leave.LeaveService, clk clock.Clock) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
		clock:        clk,
	}
}

// Start implements LeaveHandler.
func (l *LeaveHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req leave.StartLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = c.UserID
	req.AttendanceID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := l.leaveService.StartLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave started", leave.NewLeaveRecordResponse(record, l.clock.Now()))
}

// EndOpen implements LeaveHandler.
func (l *LeaveHandlerImpl) EndOpen(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req leave.EndOpenLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = c.UserID
	req.AttendanceID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := l.leaveService.EndOpenLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave ended", leave.NewLeaveRecordResponse(record, l.clock.Now()))
}

// End implements LeaveHandler.
func (l *LeaveHandlerImpl) End(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req leave.EndLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = c.UserID
	req.LeaveRecordID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := l.leaveService.EndLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave ended", leave.NewLeaveRecordResponse(record, l.clock.Now()))
}

// List implements LeaveHandler.
func (l *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	records, err := l.leaveService.ListLeaves(r.Context(), c.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveRecordResponses(records, l.clock.Now()))
}
