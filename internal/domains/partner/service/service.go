package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"caseclub/infras/otel"
	feedbackModel "caseclub/internal/domains/feedback/model"
	feedbackRepository "caseclub/internal/domains/feedback/repository"
	"caseclub/internal/domains/partner/model"
	"caseclub/internal/domains/partner/model/dto"
	userModel "caseclub/internal/domains/user/model"
	userRepository "caseclub/internal/domains/user/repository"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	"caseclub/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	defaultRecommendLimit = 5

	// Similar mode favours active raters: each accepted feedback a candidate
	// has received nudges their score up.
	caseCountBonus = 0.05
)

type Partner interface {
	Recommend(ctx context.Context, mode string, limit int) (dto.RecommendPartnersResponse, error)
}

type serviceImpl struct {
	userRepo     userRepository.User
	feedbackRepo feedbackRepository.Feedback
	otel         otel.Otel
}

func New(userRepo userRepository.User, feedbackRepo feedbackRepository.Feedback, otel otel.Otel) Partner {
	return &serviceImpl{
		userRepo:     userRepo,
		feedbackRepo: feedbackRepo,
		otel:         otel,
	}
}

// Recommend ranks other club members as practice partners for the caller.
// Members without any accepted feedback have no profile yet and are skipped;
// a caller without one gets an empty list.
func (s *serviceImpl) Recommend(ctx context.Context, mode string, limit int) (res dto.RecommendPartnersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Recommend")
	defer scope.End()
	defer scope.TraceIfError(err)

	if mode == "" {
		mode = constant.PartnerModeSimilar
	}

	if mode != constant.PartnerModeSimilar && mode != constant.PartnerModeComplement {
		return res, failure.BadRequestFromString("unknown recommendation mode") //nolint:wrapcheck
	}

	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res.Mode = mode
	res.Partners = []dto.PartnerResponse{}

	grouped, err := s.acceptedFeedbackByRecipient(ctx)
	if err != nil {
		return res, err
	}

	if len(grouped[user]) == 0 {
		return res, nil
	}

	callerAverages := feedbackModel.AverageScores(grouped[user])

	candidates, err := s.activeMembers(ctx)
	if err != nil {
		return res, err
	}

	for _, candidate := range candidates {
		if candidate.ID == user {
			continue
		}

		feedbacks := grouped[candidate.ID]
		if len(feedbacks) == 0 {
			continue
		}

		averages := feedbackModel.AverageScores(feedbacks)

		var score float64
		if mode == constant.PartnerModeSimilar {
			score = model.Similarity(callerAverages, averages) + caseCountBonus*float64(len(feedbacks))
		} else {
			score = model.Complementarity(callerAverages, averages)
		}

		var partner dto.PartnerResponse
		partner.FromModel(candidate)
		partner.Averages = averages
		partner.CaseCount = len(feedbacks)
		partner.Score = score

		res.Partners = append(res.Partners, partner)
	}

	slices.SortStableFunc(res.Partners, func(a, b dto.PartnerResponse) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.FullName, b.FullName)
	})

	if len(res.Partners) > limit {
		res.Partners = res.Partners[:limit]
	}

	return res, nil
}

func (s *serviceImpl) acceptedFeedbackByRecipient(ctx context.Context) (map[string][]feedbackModel.Feedback, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    feedbackModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.FeedbackStatusAccepted,
				Table:    feedbackModel.TableName,
			},
		},
	}

	feedbacks, err := s.feedbackRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get accepted feedback")

		return nil, fmt.Errorf("failed to get accepted feedback: %w", err)
	}

	grouped := make(map[string][]feedbackModel.Feedback, len(feedbacks))
	for _, feedback := range feedbacks {
		grouped[feedback.RecipientID] = append(grouped[feedback.RecipientID], feedback)
	}

	return grouped, nil
}

func (s *serviceImpl) activeMembers(ctx context.Context) ([]userModel.User, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    userModel.TableName,
			},
		},
	}

	users, err := s.userRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get members")

		return nil, fmt.Errorf("failed to get members: %w", err)
	}

	return users, nil
}
