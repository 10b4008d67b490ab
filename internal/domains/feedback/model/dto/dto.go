package dto

import (
	"caseclub/internal/domains/feedback/model"
	"caseclub/shared"
	gDto "caseclub/shared/dto"
	gModel "caseclub/shared/model"
	"caseclub/shared/constant"
	"caseclub/shared/timezone"

	"github.com/google/uuid"
)

type CreateFeedbackRequest struct {
	RecipientID   string             `json:"recipient_id"   validate:"required"`
	AppointmentID string             `json:"appointment_id" validate:"omitempty"`
	Comment       string             `json:"comment"        validate:"omitempty,max=2000"`
	SkillScores   map[string]float64 `json:"skill_scores"   validate:"required,min=1"`
}

func (c *CreateFeedbackRequest) ToModel(author string) model.Feedback {
	var appointmentID *string
	if c.AppointmentID != "" {
		appointmentID = &c.AppointmentID
	}

	return model.Feedback{
		ID:            uuid.NewString(),
		AuthorID:      author,
		RecipientID:   c.RecipientID,
		AppointmentID: appointmentID,
		Comment:       c.Comment,
		SkillScores:   model.SkillScores(c.SkillScores),
		Status:        constant.FeedbackStatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  author,
			ModifiedBy: author,
		},
	}
}

type ReviewFeedbackRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

type FeedbackResponse struct {
	ID            string             `json:"id"`
	AuthorID      string             `json:"author_id"`
	RecipientID   string             `json:"recipient_id"`
	AppointmentID string             `json:"appointment_id,omitempty"`
	Comment       string             `json:"comment"`
	SkillScores   map[string]float64 `json:"skill_scores"`
	Status        string             `json:"status"`
	gDto.Metadata
}

func (r *FeedbackResponse) FromModel(mod model.Feedback) {
	r.ID = mod.ID
	r.AuthorID = mod.AuthorID
	r.RecipientID = mod.RecipientID
	r.Comment = mod.Comment
	r.SkillScores = map[string]float64(mod.SkillScores)
	r.Status = mod.Status
	r.Metadata.FromModel(mod.Metadata)

	if mod.AppointmentID != nil {
		r.AppointmentID = *mod.AppointmentID
	}
}

type GetFeedbacksResponse struct {
	Feedbacks []FeedbackResponse `json:"feedbacks"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetFeedbacksResponse) FromModels(models []model.Feedback, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Feedbacks = make([]FeedbackResponse, len(models))
	for i, mod := range models {
		r.Feedbacks[i].FromModel(mod)
	}
}

// SkillAveragesResponse is a member's skill profile over accepted feedback.
// Every canonical skill is present; unrated skills sit at the neutral rating.
type SkillAveragesResponse struct {
	UserID        string             `json:"user_id"`
	Averages      map[string]float64 `json:"averages"`
	FeedbackCount int                `json:"feedback_count"`
}
