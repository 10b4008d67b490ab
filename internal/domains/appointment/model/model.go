package model

import (
	"fmt"
	"time"

	slotModel "caseclub/internal/domains/slot/model"
	"caseclub/shared/model"
)

const (
	TableName  = "appointments"
	EntityName = "appointment"

	FieldID      = "id"
	FieldSlotID  = "slot_id"
	FieldHostID  = "host_id"
	FieldGuestID = "guest_id"
	FieldStatus  = "status"
	FieldNotes   = "notes"
)

// Appointment pairs a guest with the member who offered the slot. The slot
// times are joined in for display; the appointment row itself only holds the
// pairing and its lifecycle status.
type Appointment struct {
	ID      string    `db:"id"`
	SlotID  string    `db:"slot_id"`
	HostID  string    `db:"host_id"`
	GuestID string    `db:"guest_id"`
	Status  string    `db:"status"`
	Notes   string    `db:"notes"`
	StartAt time.Time `db:"slot_start_at" table:"availability_slots" column:"start_at"`
	EndAt   time.Time `db:"slot_end_at"   table:"availability_slots" column:"end_at"`
	model.Metadata
}

func (Appointment) GetJoinQuery() string {
	return fmt.Sprintf(
		"LEFT JOIN %s ON %s.%s = %s.%s",
		slotModel.TableName,
		slotModel.TableName, slotModel.FieldID,
		TableName, FieldSlotID,
	)
}
