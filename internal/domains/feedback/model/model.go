package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"caseclub/shared/constant"
	"caseclub/shared/model"
)

const (
	TableName  = "skill_feedback"
	EntityName = "feedback"

	FieldID            = "id"
	FieldAuthorID      = "author_id"
	FieldRecipientID   = "recipient_id"
	FieldAppointmentID = "appointment_id"
	FieldComment       = "comment"
	FieldSkillScores   = "skill_scores"
	FieldStatus        = "status"
)

// SkillScores maps skill name to a 1..5 rating, stored as jsonb.
type SkillScores map[string]float64

func (s SkillScores) Value() (driver.Value, error) {
	value, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skill scores: %w", err)
	}

	return value, nil
}

func (s *SkillScores) Scan(src any) error {
	if src == nil {
		*s = SkillScores{}

		return nil
	}

	var raw []byte

	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported skill scores source type")
	}

	if err := json.Unmarshal(raw, s); err != nil {
		return fmt.Errorf("failed to unmarshal skill scores: %w", err)
	}

	return nil
}

// AverageScores folds feedback into one rating per canonical skill. A skill
// nobody has rated yet sits at the neutral rating rather than zero, so a new
// member is neither penalized nor inflated.
func AverageScores(feedbacks []Feedback) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}

	for _, feedback := range feedbacks {
		for skill, score := range feedback.SkillScores {
			sums[skill] += score
			counts[skill]++
		}
	}

	averages := make(map[string]float64, len(constant.Skills))

	for _, skill := range constant.Skills {
		if counts[skill] > 0 {
			averages[skill] = sums[skill] / float64(counts[skill])
		} else {
			averages[skill] = constant.NeutralSkillRating
		}
	}

	return averages
}

// Feedback is a peer review of one practice partner. It only counts toward
// the recipient's skill profile once the recipient accepts it.
type Feedback struct {
	ID            string      `db:"id"`
	AuthorID      string      `db:"author_id"`
	RecipientID   string      `db:"recipient_id"`
	AppointmentID *string     `db:"appointment_id"`
	Comment       string      `db:"comment"`
	SkillScores   SkillScores `db:"skill_scores"`
	Status        string      `db:"status"`
	model.Metadata
}
