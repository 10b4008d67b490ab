package dto

import (
	"caseclub/internal/domains/casestudy/model"
	"caseclub/shared"
	gDto "caseclub/shared/dto"
	gModel "caseclub/shared/model"
	"caseclub/shared/timezone"

	"github.com/google/uuid"
)

type CreateCaseStudyRequest struct {
	Title        string             `json:"title"        validate:"required,min=3,max=200"`
	Description  string             `json:"description"  validate:"omitempty"`
	Industry     string             `json:"industry"     validate:"omitempty,max=100"`
	SkillWeights map[string]float64 `json:"skill_weights" validate:"required,min=1"`
	Attachment   string             `json:"attachment"   validate:"omitempty,mimetypes=application/pdf image/png image/jpeg,maxfilesize=10"`
	FileName     string             `json:"file_name"    validate:"omitempty,max=200"`
}

func (c *CreateCaseStudyRequest) ToModel(user, attachmentURL string) model.CaseStudy {
	return model.CaseStudy{
		ID:            uuid.NewString(),
		Title:         c.Title,
		Description:   c.Description,
		Industry:      c.Industry,
		SkillWeights:  model.SkillWeights(c.SkillWeights),
		AttachmentURL: attachmentURL,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateCaseStudyRequest struct {
	Title       string `db:"title"       json:"title"       validate:"omitempty,min=3,max=200"`
	Description string `db:"description" json:"description" validate:"omitempty"`
	Industry    string `db:"industry"    json:"industry"    validate:"omitempty,max=100"`
}

type CaseStudyResponse struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Industry      string             `json:"industry"`
	SkillWeights  map[string]float64 `json:"skill_weights"`
	AttachmentURL string             `json:"attachment_url,omitempty"`
	gDto.Metadata
}

func (r *CaseStudyResponse) FromModel(mod model.CaseStudy) {
	r.ID = mod.ID
	r.Title = mod.Title
	r.Description = mod.Description
	r.Industry = mod.Industry
	r.SkillWeights = map[string]float64(mod.SkillWeights)
	r.AttachmentURL = mod.AttachmentURL
	r.Metadata.FromModel(mod.Metadata)
}

type GetCaseStudiesResponse struct {
	CaseStudies []CaseStudyResponse `json:"case_studies"`
	TotalPage   int                 `json:"total_page"`
	TotalData   int                 `json:"total_data"`
}

func (r *GetCaseStudiesResponse) FromModels(models []model.CaseStudy, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.CaseStudies = make([]CaseStudyResponse, len(models))
	for i, mod := range models {
		r.CaseStudies[i].FromModel(mod)
	}
}

// RecommendedCase pairs a case with its score under the requested mode.
type RecommendedCase struct {
	CaseStudyResponse
	Score float64 `json:"score"`
}

type RecommendCasesResponse struct {
	Mode  string            `json:"mode"`
	Cases []RecommendedCase `json:"cases"`
}
