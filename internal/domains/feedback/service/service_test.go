package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"caseclub/config"
	"caseclub/infras/otel/mocks"
	feedbackMocks "caseclub/internal/domains/feedback/mocks"
	"caseclub/internal/domains/feedback/model"
	"caseclub/internal/domains/feedback/model/dto"
	"caseclub/internal/domains/feedback/service"
	cacheMocks "caseclub/shared/cache/mocks"
	"caseclub/shared/constant"
)

func newFeedbackService(t *testing.T) (service.Feedback, *feedbackMocks.MockFeedback, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := feedbackMocks.NewMockFeedback(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func TestFeedbackService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateFeedbackRequest
		setupMock func(repo *feedbackMocks.MockFeedback, cache *cacheMocks.MockRedisCache)
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreateFeedbackRequest{
				RecipientID: "partner-user",
				Comment:     "Strong framework, shaky math",
				SkillScores: map[string]float64{
					"Framework":              4,
					"Numerical Calculations": 2,
				},
			},
			setupMock: func(repo *feedbackMocks.MockFeedback, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "self feedback rejected",
			req: dto.CreateFeedbackRequest{
				RecipientID: "test-user-id",
				SkillScores: map[string]float64{"Framework": 4},
			},
			setupMock: func(repo *feedbackMocks.MockFeedback, cache *cacheMocks.MockRedisCache) {},
			wantErr:   true,
		},
		{
			name: "unknown skill rejected",
			req: dto.CreateFeedbackRequest{
				RecipientID: "partner-user",
				SkillScores: map[string]float64{"Interpretive Dance": 5},
			},
			setupMock: func(repo *feedbackMocks.MockFeedback, cache *cacheMocks.MockRedisCache) {},
			wantErr:   true,
		},
		{
			name: "out of range score rejected",
			req: dto.CreateFeedbackRequest{
				RecipientID: "partner-user",
				SkillScores: map[string]float64{"Framework": 6},
			},
			setupMock: func(repo *feedbackMocks.MockFeedback, cache *cacheMocks.MockRedisCache) {},
			wantErr:   true,
		},
		{
			name: "repository error",
			req: dto.CreateFeedbackRequest{
				RecipientID: "partner-user",
				SkillScores: map[string]float64{"Framework": 4},
			},
			setupMock: func(repo *feedbackMocks.MockFeedback, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newFeedbackService(t)
			tt.setupMock(mockRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFeedbackService_Review(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *feedbackMocks.MockFeedback, cache *cacheMocks.MockRedisCache)
		wantErr   bool
	}{
		{
			name: "recipient accepts pending feedback",
			setupMock: func(repo *feedbackMocks.MockFeedback, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Review(gomock.Any(), "fb-1", constant.FeedbackStatusAccepted, "test-user-id").
					Return(true, nil)

				cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "already settled or foreign feedback",
			setupMock: func(repo *feedbackMocks.MockFeedback, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Review(gomock.Any(), "fb-1", constant.FeedbackStatusAccepted, "test-user-id").
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			setupMock: func(repo *feedbackMocks.MockFeedback, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Review(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(false, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newFeedbackService(t)
			tt.setupMock(mockRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Review(ctx, "fb-1", dto.ReviewFeedbackRequest{Status: constant.FeedbackStatusAccepted})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFeedbackService_SkillAverages(t *testing.T) {
	svc, mockRepo, mockCache := newFeedbackService(t)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Feedback{
			{SkillScores: model.SkillScores{"Framework": 4, "Estimation": 2}},
			{SkillScores: model.SkillScores{"Framework": 2}},
		}, nil)

	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	res, err := svc.SkillAverages(context.Background(), "partner-user")

	assert.NoError(t, err)
	assert.Equal(t, 2, res.FeedbackCount)
	assert.InDelta(t, 3.0, res.Averages["Framework"], 0.0001)
	assert.InDelta(t, 2.0, res.Averages["Estimation"], 0.0001)

	// Skills with no accepted ratings sit at the neutral value.
	assert.InDelta(t, constant.NeutralSkillRating, res.Averages["Brainstorming"], 0.0001)
	assert.InDelta(t, constant.NeutralSkillRating, res.Averages["Chart Interpretation"], 0.0001)
	assert.Len(t, res.Averages, len(constant.Skills))
}
