package dto

import (
	"time"

	"caseclub/internal/domains/slot/model"
	"caseclub/shared"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	gModel "caseclub/shared/model"
	"caseclub/shared/timezone"

	"github.com/google/uuid"
)

// CreateSlotsRequest opens one or more practice windows. Start times are
// wall-clock values in the member's zone; an empty zone falls back to the
// club default.
type CreateSlotsRequest struct {
	StartTimes []string `json:"start_times" validate:"omitempty,dive,required"`
	Timezone   string   `json:"timezone"    validate:"omitempty"`
}

func (c *CreateSlotsRequest) ToModels(user string) ([]model.Slot, error) {
	slots := make([]model.Slot, len(c.StartTimes))

	for i, startTime := range c.StartTimes {
		startAt, err := timezone.ParseLocal(constant.LocalTimeFormat, startTime, c.Timezone)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		slots[i] = model.Slot{
			ID:       uuid.NewString(),
			UserID:   user,
			StartAt:  startAt,
			EndAt:    startAt.Add(constant.SlotDurationMinutes * time.Minute),
			IsBooked: false,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}
	}

	return slots, nil
}

type SlotResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	StartAt  string `json:"start_at"`
	EndAt    string `json:"end_at"`
	IsBooked bool   `json:"is_booked"`
	gDto.Metadata
}

func (r *SlotResponse) FromModel(mod model.Slot, zone string) {
	r.ID = mod.ID
	r.UserID = mod.UserID
	r.StartAt = timezone.Format(mod.StartAt, constant.DateFormat, zone)
	r.EndAt = timezone.Format(mod.EndAt, constant.DateFormat, zone)
	r.IsBooked = mod.IsBooked
	r.Metadata.FromModel(mod.Metadata)
}

type GetSlotsResponse struct {
	Slots     []SlotResponse `json:"slots"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetSlotsResponse) FromModels(models []model.Slot, totalData, limit int, zone string) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Slots = make([]SlotResponse, len(models))
	for i, mod := range models {
		r.Slots[i].FromModel(mod, zone)
	}
}
