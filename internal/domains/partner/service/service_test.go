package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "caseclub/infras/otel/mocks"
	feedbackMocks "caseclub/internal/domains/feedback/mocks"
	feedbackModel "caseclub/internal/domains/feedback/model"
	"caseclub/internal/domains/partner/service"
	userMocks "caseclub/internal/domains/user/mocks"
	userModel "caseclub/internal/domains/user/model"
	"caseclub/shared/constant"
)

func newPartnerService(t *testing.T) (service.Partner, *userMocks.MockUser, *feedbackMocks.MockFeedback) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockUsers := userMocks.NewMockUser(ctrl)
	mockFeedback := feedbackMocks.NewMockFeedback(ctrl)

	return service.New(mockUsers, mockFeedback, otelMocks.NewOtel()), mockUsers, mockFeedback
}

func acceptedFeedback(recipient string, scores map[string]float64, count int) []feedbackModel.Feedback {
	feedbacks := make([]feedbackModel.Feedback, count)
	for i := range feedbacks {
		feedbacks[i] = feedbackModel.Feedback{
			RecipientID: recipient,
			SkillScores: feedbackModel.SkillScores(scores),
			Status:      constant.FeedbackStatusAccepted,
		}
	}

	return feedbacks
}

func TestPartnerService_Recommend(t *testing.T) {
	// The caller is strong on Framework and weak on Estimation. The twin
	// shares that shape, the mirror inverts it.
	callerScores := map[string]float64{"Framework": 5, "Estimation": 1}
	twinScores := map[string]float64{"Framework": 5, "Estimation": 1}
	mirrorScores := map[string]float64{"Framework": 1, "Estimation": 5}

	members := []userModel.User{
		{ID: "caller", FullName: "The Caller", Active: true},
		{ID: "twin", FullName: "Twin Member", Active: true},
		{ID: "mirror", FullName: "Mirror Member", Active: true},
		{ID: "silent", FullName: "Silent Member", Active: true},
	}

	var allFeedback []feedbackModel.Feedback
	allFeedback = append(allFeedback, acceptedFeedback("caller", callerScores, 1)...)
	allFeedback = append(allFeedback, acceptedFeedback("twin", twinScores, 1)...)
	allFeedback = append(allFeedback, acceptedFeedback("mirror", mirrorScores, 1)...)

	tests := []struct {
		name      string
		mode      string
		wantFirst string
	}{
		{
			name:      "similar mode ranks the matching profile first",
			mode:      constant.PartnerModeSimilar,
			wantFirst: "twin",
		},
		{
			name:      "complement mode ranks the inverse profile first",
			mode:      constant.PartnerModeComplement,
			wantFirst: "mirror",
		},
		{
			name:      "empty mode defaults to similar",
			mode:      "",
			wantFirst: "twin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockUsers, mockFeedback := newPartnerService(t)

			mockFeedback.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(allFeedback, nil)

			mockUsers.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(members, nil)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "caller")

			res, err := svc.Recommend(ctx, tt.mode, 10)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantFirst, res.Partners[0].ID)

			// The caller and members without accepted feedback never appear.
			for _, partner := range res.Partners {
				assert.NotEqual(t, "caller", partner.ID)
				assert.NotEqual(t, "silent", partner.ID)
			}
		})
	}
}

func TestPartnerService_RecommendCaseCountBonus(t *testing.T) {
	svc, mockUsers, mockFeedback := newPartnerService(t)

	scores := map[string]float64{"Framework": 4}

	var allFeedback []feedbackModel.Feedback
	allFeedback = append(allFeedback, acceptedFeedback("caller", scores, 1)...)
	allFeedback = append(allFeedback, acceptedFeedback("veteran", scores, 4)...)
	allFeedback = append(allFeedback, acceptedFeedback("rookie", scores, 1)...)

	mockFeedback.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(allFeedback, nil)

	mockUsers.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]userModel.User{
			{ID: "caller", Active: true},
			{ID: "veteran", FullName: "Veteran", Active: true},
			{ID: "rookie", FullName: "Rookie", Active: true},
		}, nil)

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "caller")

	res, err := svc.Recommend(ctx, constant.PartnerModeSimilar, 10)

	assert.NoError(t, err)
	assert.Len(t, res.Partners, 2)

	// Same skill profile, so the session-count bonus decides the order.
	assert.Equal(t, "veteran", res.Partners[0].ID)
	assert.Equal(t, 4, res.Partners[0].CaseCount)
}

func TestPartnerService_RecommendWithoutProfile(t *testing.T) {
	svc, _, mockFeedback := newPartnerService(t)

	mockFeedback.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "caller")

	res, err := svc.Recommend(ctx, constant.PartnerModeSimilar, 10)

	assert.NoError(t, err)
	assert.Empty(t, res.Partners)
}

func TestPartnerService_RecommendUnknownMode(t *testing.T) {
	svc, _, _ := newPartnerService(t)

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "caller")

	_, err := svc.Recommend(ctx, "psychic", 10)

	assert.Error(t, err)
}
