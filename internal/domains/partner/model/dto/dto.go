package dto

import (
	userModel "caseclub/internal/domains/user/model"
)

// PartnerResponse is one ranked practice-partner candidate.
type PartnerResponse struct {
	ID              string             `json:"id"`
	FullName        string             `json:"full_name"`
	Language        string             `json:"language,omitempty"`
	ExperienceLevel string             `json:"experience_level,omitempty"`
	Timezone        string             `json:"timezone,omitempty"`
	FirmsApplying   []string           `json:"firms_applying,omitempty"`
	Availability    string             `json:"availability,omitempty"`
	LinkedinURL     string             `json:"linkedin_url,omitempty"`
	Averages        map[string]float64 `json:"averages"`
	CaseCount       int                `json:"case_count"`
	Score           float64            `json:"score"`
}

func (r *PartnerResponse) FromModel(mod userModel.User) {
	r.ID = mod.ID
	r.FullName = mod.FullName
	r.Language = mod.Language
	r.ExperienceLevel = mod.ExperienceLevel
	r.Timezone = mod.Timezone
	r.FirmsApplying = []string(mod.FirmsApplying)
	r.Availability = mod.Availability
	r.LinkedinURL = mod.LinkedinURL
}

type RecommendPartnersResponse struct {
	Mode     string            `json:"mode"`
	Partners []PartnerResponse `json:"partners"`
}
