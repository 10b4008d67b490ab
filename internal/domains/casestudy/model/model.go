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
	TableName  = "case_studies"
	EntityName = "casestudy"

	FieldID            = "id"
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldIndustry      = "industry"
	FieldSkillWeights  = "skill_weights"
	FieldAttachmentURL = "attachment_url"
)

// SkillWeights maps skill name to how heavily a case exercises it, stored as
// jsonb.
type SkillWeights map[string]float64

func (w SkillWeights) Value() (driver.Value, error) {
	value, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skill weights: %w", err)
	}

	return value, nil
}

func (w *SkillWeights) Scan(src any) error {
	if src == nil {
		*w = SkillWeights{}

		return nil
	}

	var raw []byte

	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported skill weights source type")
	}

	if err := json.Unmarshal(raw, w); err != nil {
		return fmt.Errorf("failed to unmarshal skill weights: %w", err)
	}

	return nil
}

// CaseStudy is one practice case in the club library.
type CaseStudy struct {
	ID            string       `db:"id"`
	Title         string       `db:"title"`
	Description   string       `db:"description"`
	Industry      string       `db:"industry"`
	SkillWeights  SkillWeights `db:"skill_weights"`
	AttachmentURL string       `db:"attachment_url"`
	model.Metadata
}

// Score ranks the case against a member's skill averages. Fixing weaknesses
// rewards cases that train the member's weakest skills; building strengths
// rewards cases that lean on what the member is already good at. A skill the
// member has no rating for counts as neutral.
func (c CaseStudy) Score(mode string, averages map[string]float64) float64 {
	var score float64

	for skill, weight := range c.SkillWeights {
		rating, ok := averages[skill]
		if !ok {
			rating = constant.NeutralSkillRating
		}

		if mode == constant.RecommendModeBuildStrengths {
			score += weight * rating
		} else {
			score += weight * (constant.MaxSkillRating - rating)
		}
	}

	return score
}
