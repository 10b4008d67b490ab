package dto

import (
	"caseclub/internal/domains/appointment/model"
	slotModel "caseclub/internal/domains/slot/model"
	"caseclub/shared"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	gModel "caseclub/shared/model"
	"caseclub/shared/timezone"

	"github.com/google/uuid"
)

type BookAppointmentRequest struct {
	SlotID string `json:"slot_id" validate:"required"`
	Notes  string `json:"notes"   validate:"omitempty,max=500"`
}

func (b *BookAppointmentRequest) ToModel(slot slotModel.Slot, guest string) model.Appointment {
	return model.Appointment{
		ID:      uuid.NewString(),
		SlotID:  slot.ID,
		HostID:  slot.UserID,
		GuestID: guest,
		Status:  constant.AppointmentStatusPending,
		Notes:   b.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  guest,
			ModifiedBy: guest,
		},
	}
}

type AppointmentResponse struct {
	ID      string `json:"id"`
	SlotID  string `json:"slot_id"`
	HostID  string `json:"host_id"`
	GuestID string `json:"guest_id"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
	gDto.Metadata
}

func (r *AppointmentResponse) FromModel(mod model.Appointment, zone string) {
	r.ID = mod.ID
	r.SlotID = mod.SlotID
	r.HostID = mod.HostID
	r.GuestID = mod.GuestID
	r.Status = mod.Status
	r.Notes = mod.Notes
	r.StartAt = timezone.Format(mod.StartAt, constant.DateFormat, zone)
	r.EndAt = timezone.Format(mod.EndAt, constant.DateFormat, zone)
	r.Metadata.FromModel(mod.Metadata)
}

type GetAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetAppointmentsResponse) FromModels(models []model.Appointment, totalData, limit int, zone string) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Appointments = make([]AppointmentResponse, len(models))
	for i, mod := range models {
		r.Appointments[i].FromModel(mod, zone)
	}
}

// SessionEvent is the broker payload emitted on booking and cancellation.
type SessionEvent struct {
	Type          string `json:"type"`
	AppointmentID string `json:"appointment_id"`
	SlotID        string `json:"slot_id"`
	HostID        string `json:"host_id"`
	GuestID       string `json:"guest_id"`
	StartAt       string `json:"start_at"`
	OccurredAt    string `json:"occurred_at"`
}

func NewSessionEvent(eventType string, mod model.Appointment) SessionEvent {
	return SessionEvent{
		Type:          eventType,
		AppointmentID: mod.ID,
		SlotID:        mod.SlotID,
		HostID:        mod.HostID,
		GuestID:       mod.GuestID,
		StartAt:       timezone.Format(mod.StartAt, constant.DateFormat, ""),
		OccurredAt:    timezone.Format(timezone.Now(), constant.DateFormat, ""),
	}
}
