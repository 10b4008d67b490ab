package service

import (
	"context"
	"fmt"
	"slices"

	"caseclub/config"
	"caseclub/infras/otel"
	"caseclub/internal/domains/feedback/model"
	"caseclub/internal/domains/feedback/model/dto"
	"caseclub/internal/domains/feedback/repository"
	"caseclub/shared"
	"caseclub/shared/cache"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	"caseclub/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllFeedback = "feedback:gets"
	cacheCountFeedback  = "feedback:count"
	cacheSkillAverages  = "feedback:averages"
)

type Feedback interface {
	Create(ctx context.Context, req dto.CreateFeedbackRequest) error
	GetReceived(ctx context.Context, req gDto.QueryParams, status string) (dto.GetFeedbacksResponse, error)
	GetGiven(ctx context.Context, req gDto.QueryParams) (dto.GetFeedbacksResponse, error)
	Review(ctx context.Context, id string, req dto.ReviewFeedbackRequest) error
	SkillAverages(ctx context.Context, userID string) (dto.SkillAveragesResponse, error)
}

type serviceImpl struct {
	repo  repository.Feedback
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Feedback, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Feedback {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateFeedbackRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	author, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if req.RecipientID == author {
		return failure.BadRequestFromString("cannot leave feedback for yourself") //nolint:wrapcheck
	}

	for skill, score := range req.SkillScores {
		if !slices.Contains(constant.Skills, skill) {
			return failure.BadRequestFromString(fmt.Sprintf("unknown skill: %s", skill)) //nolint:wrapcheck
		}

		if score < 1 || score > constant.MaxSkillRating {
			return failure.BadRequestFromString(fmt.Sprintf("score for %s must be between 1 and 5", skill)) //nolint:wrapcheck
		}
	}

	if err = s.repo.Insert(ctx, req.ToModel(author)); err != nil {
		log.Error().Err(err).Msg("failed to create feedback")

		return fmt.Errorf("failed to create feedback: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllFeedback)
		shared.InvalidateCaches(c, s.cache, cacheCountFeedback)
	}()

	return nil
}

func (s *serviceImpl) GetReceived(ctx context.Context, req gDto.QueryParams, status string) (res dto.GetFeedbacksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetReceived")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRecipientID,
				Operator: gDto.FilterOperatorEq,
				Value:    user,
				Table:    model.TableName,
			},
		},
	}

	if status != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	return s.getAll(ctx, req, filter)
}

func (s *serviceImpl) GetGiven(ctx context.Context, req gDto.QueryParams) (res dto.GetFeedbacksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetGiven")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAuthorID,
				Operator: gDto.FilterOperatorEq,
				Value:    user,
				Table:    model.TableName,
			},
		},
	}

	return s.getAll(ctx, req, filter)
}

func (s *serviceImpl) getAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetFeedbacksResponse, err error) {
	if req.SortBy == "" {
		req.SortBy = constant.DefaultValueSortBy
	}

	if req.SortDir == "" {
		req.SortDir = constant.DefaultValueSortDir
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllFeedback, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for feedback")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count feedback")

		return res, fmt.Errorf("failed to count feedback: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get feedback")

		return res, fmt.Errorf("failed to get feedback: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save feedback to cache")
		}
	}()

	return res, nil
}

// Review lets the recipient accept or reject a pending entry. The recipient
// guard is part of the conditional update, so a foreign feedback id reports
// the same way as an already settled one.
func (s *serviceImpl) Review(ctx context.Context, id string, req dto.ReviewFeedbackRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Review")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reviewed, err := s.repo.Review(ctx, id, req.Status, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to review feedback")

		return fmt.Errorf("failed to review feedback: %w", err)
	}

	if !reviewed {
		return failure.Conflict("feedback not found or already reviewed") //nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllFeedback)
		shared.InvalidateCaches(c, s.cache, cacheCountFeedback)
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheSkillAverages, user))
	}()

	return nil
}

// SkillAverages builds a member's profile from accepted feedback only.
func (s *serviceImpl) SkillAverages(ctx context.Context, userID string) (res dto.SkillAveragesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SkillAverages")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheSkillAverages, userID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for skill averages")

		return res, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRecipientID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.FeedbackStatusAccepted,
				Table:    model.TableName,
			},
		},
	}

	feedbacks, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get accepted feedback")

		return res, fmt.Errorf("failed to get accepted feedback: %w", err)
	}

	res = dto.SkillAveragesResponse{
		UserID:        userID,
		Averages:      model.AverageScores(feedbacks),
		FeedbackCount: len(feedbacks),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save skill averages to cache")
		}
	}()

	return res, nil
}
