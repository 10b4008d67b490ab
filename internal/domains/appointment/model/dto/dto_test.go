package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"caseclub/internal/domains/appointment/model"
	"caseclub/internal/domains/appointment/model/dto"
	slotModel "caseclub/internal/domains/slot/model"
	"caseclub/shared/constant"
)

func TestBookAppointmentRequest_ToModel(t *testing.T) {
	start := time.Date(2026, 10, 2, 14, 0, 0, 0, time.UTC)

	slot := slotModel.Slot{
		ID:      "slot-1",
		UserID:  "host-user",
		StartAt: start,
		EndAt:   start.Add(constant.SlotDurationMinutes * time.Minute),
	}

	req := dto.BookAppointmentRequest{
		SlotID: "slot-1",
		Notes:  "market sizing warm-up first",
	}

	appointment := req.ToModel(slot, "guest-user")

	assert.NotEmpty(t, appointment.ID)
	assert.Equal(t, "slot-1", appointment.SlotID)
	assert.Equal(t, "host-user", appointment.HostID)
	assert.Equal(t, "guest-user", appointment.GuestID)
	assert.Equal(t, constant.AppointmentStatusPending, appointment.Status)
	assert.Equal(t, "market sizing warm-up first", appointment.Notes)
	assert.Equal(t, "guest-user", appointment.Metadata.CreatedBy)
}

func TestAppointmentResponse_FromModel(t *testing.T) {
	start := time.Date(2026, 10, 2, 14, 0, 0, 0, time.UTC)

	mod := model.Appointment{
		ID:      "appt-1",
		SlotID:  "slot-1",
		HostID:  "host-user",
		GuestID: "guest-user",
		Status:  constant.AppointmentStatusConfirmed,
		Notes:   "market sizing warm-up first",
		StartAt: start,
		EndAt:   start.Add(constant.SlotDurationMinutes * time.Minute),
	}

	var response dto.AppointmentResponse
	response.FromModel(mod, "UTC")

	assert.Equal(t, mod.ID, response.ID)
	assert.Equal(t, mod.Status, response.Status)
	assert.Equal(t, mod.Notes, response.Notes)
	assert.Equal(t, start.Format(constant.DateFormat), response.StartAt)
}
