package http

import (
	"net/http"

	"github.com/nexts-consulting/fms-attendance/internal/domain/location"
	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/handler/http/response"
)

type ShiftHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{shiftService: shiftService}
}

// Today implements ShiftHandler.
func (h *shiftHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	req := shift.ResolveTodayRequest{
		UserID:     c.UserID,
		LocationID: r.URL.Query().Get("location_id"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	window, err := h.shiftService.ResolveShiftForToday(r.Context(), req.UserID, req.LocationID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if window.ProjectID != c.ProjectID {
		response.HandleError(w, location.ErrLocationNotFound)
		return
	}

	response.Success(w, shift.NewWindowResponse(window))
}
