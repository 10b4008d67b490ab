package dto

import (
	"time"

	"caseclub/internal/domains/user/model"
	"caseclub/shared"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	gModel "caseclub/shared/model"
	"caseclub/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Role     string `json:"role"      validate:"omitempty,oneof=admin member"`
	Timezone string `json:"timezone"  validate:"omitempty,max=64"`
}

func (r *CreateUserRequest) ToModel(username, hashedPassword string) model.User {
	role := r.Role
	if role == "" {
		role = constant.RoleMember
	}

	zone := r.Timezone
	if zone == "" {
		zone = constant.DefaultTimezone
	}

	return model.User{
		ID:              uuid.NewString(),
		Email:           r.Email,
		Password:        hashedPassword,
		Role:            role,
		FullName:        r.FullName,
		Language:        "English",
		ExperienceLevel: model.ExperienceLevelBeginner,
		Timezone:        zone,
		FirmsApplying:   model.StringList{},
		Active:          true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UpdateUserRequest struct {
	Role   *string `db:"role"   json:"role,omitempty"   validate:"omitempty,oneof=admin member"`
	Active *bool   `db:"active" json:"active,omitempty"`
}

type UpdateProfileRequest struct {
	FullName        string           `db:"full_name"        json:"full_name,omitempty"        validate:"omitempty,min=2,max=100"`
	Language        string           `db:"language"         json:"language,omitempty"         validate:"omitempty,max=50"`
	ExperienceLevel string           `db:"experience_level" json:"experience_level,omitempty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Timezone        string           `db:"timezone"         json:"timezone,omitempty"         validate:"omitempty,max=64"`
	FirmsApplying   model.StringList `db:"firms_applying"   json:"firms_applying,omitempty"`
	Bio             string           `db:"bio"              json:"bio,omitempty"              validate:"omitempty,max=1000"`
	Availability    string           `db:"availability"     json:"availability,omitempty"     validate:"omitempty,max=200"`
	LinkedinURL     string           `db:"linkedin_url"     json:"linkedin_url,omitempty"     validate:"omitempty,url"`
}

type UserResponse struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	FullName        string   `json:"full_name"`
	Language        string   `json:"language,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	Timezone        string   `json:"timezone,omitempty"`
	FirmsApplying   []string `json:"firms_applying,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Availability    string   `json:"availability,omitempty"`
	LinkedinURL     string   `json:"linkedin_url,omitempty"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	Active          bool     `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(mod model.User) {
	r.ID = mod.ID
	r.Email = mod.Email
	r.Role = mod.Role
	r.FullName = mod.FullName
	r.Language = mod.Language
	r.ExperienceLevel = mod.ExperienceLevel
	r.Timezone = mod.Timezone
	r.FirmsApplying = []string(mod.FirmsApplying)
	r.Bio = mod.Bio
	r.Availability = mod.Availability
	r.LinkedinURL = mod.LinkedinURL
	r.LastLogin = mod.LastLogin
	r.Active = mod.Active
	r.Metadata.FromModel(mod.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
