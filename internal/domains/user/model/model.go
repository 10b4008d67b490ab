package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"caseclub/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID              = "id"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldRole            = "role"
	FieldFullName        = "full_name"
	FieldLanguage        = "language"
	FieldExperienceLevel = "experience_level"
	FieldTimezone        = "timezone"
	FieldFirmsApplying   = "firms_applying"
	FieldLastLogin       = "last_login"
	FieldActive          = "active"
)

const (
	ExperienceLevelBeginner     = "Beginner"
	ExperienceLevelIntermediate = "Intermediate"
	ExperienceLevelAdvanced     = "Advanced"
)

// StringList is a jsonb array of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	value, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}

	return value, nil
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}

		return nil
	}

	var raw []byte

	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported string list source type")
	}

	if err := json.Unmarshal(raw, l); err != nil {
		return fmt.Errorf("failed to unmarshal string list: %w", err)
	}

	return nil
}

type User struct {
	ID              string     `db:"id"`
	Email           string     `db:"email"`
	Password        string     `db:"password"`
	Role            string     `db:"role"`
	FullName        string     `db:"full_name"`
	Language        string     `db:"language"`
	ExperienceLevel string     `db:"experience_level"`
	Timezone        string     `db:"timezone"`
	FirmsApplying   StringList `db:"firms_applying"`
	Bio             string     `db:"bio"`
	Availability    string     `db:"availability"`
	LinkedinURL     string     `db:"linkedin_url"`
	LastLogin       *time.Time `db:"last_login"`
	Active          bool       `db:"active"`
	model.Metadata
}
