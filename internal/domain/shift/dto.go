package shift

import (
	"time"

	"github.com/nexts-consulting/fms-attendance/internal/pkg/validator"
)

type ResolveTodayRequest struct {
	UserID     string `json:"-"`
	LocationID string `json:"location_id" validate:"required"`
}

func (r ResolveTodayRequest) Validate() error {
	return validator.Struct(r)
}

type WindowResponse struct {
	ShiftID    *string   `json:"shift_id"`
	Name       string    `json:"name"`
	LocationID string    `json:"location_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Source     Source    `json:"source"`
}

func NewWindowResponse(w Window) WindowResponse {
	return WindowResponse{
		ShiftID:    w.ShiftID,
		Name:       w.Name,
		LocationID: w.LocationID,
		Start:      w.Start,
		End:        w.End,
		Source:     w.Source,
	}
}
