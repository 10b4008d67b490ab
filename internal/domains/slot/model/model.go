package model

import (
	"time"

	"caseclub/shared/model"
)

const (
	TableName  = "availability_slots"
	EntityName = "slot"

	FieldID       = "id"
	FieldUserID   = "user_id"
	FieldStartAt  = "start_at"
	FieldEndAt    = "end_at"
	FieldIsBooked = "is_booked"
)

// Slot is a fixed-length practice window a member offers. StartAt and EndAt
// are stored in UTC; wall-clock input is normalized before it reaches here.
type Slot struct {
	ID       string    `db:"id"`
	UserID   string    `db:"user_id"`
	StartAt  time.Time `db:"start_at"`
	EndAt    time.Time `db:"end_at"`
	IsBooked bool      `db:"is_booked"`
	model.Metadata
}
