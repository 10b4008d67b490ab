package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"caseclub/config"
	"caseclub/infras/otel"
	"caseclub/infras/s3"
	"caseclub/internal/domains/casestudy/model"
	"caseclub/internal/domains/casestudy/model/dto"
	"caseclub/internal/domains/casestudy/repository"
	feedbackModel "caseclub/internal/domains/feedback/model"
	feedbackRepository "caseclub/internal/domains/feedback/repository"
	"caseclub/shared"
	"caseclub/shared/base64"
	"caseclub/shared/cache"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	"caseclub/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetCaseStudy    = "casestudy:get"
	cacheGetAllCaseStudy = "casestudy:gets"
	cacheCountCaseStudy  = "casestudy:count"

	attachmentDirectory = "cases"

	defaultRecommendLimit = 5
)

type CaseStudy interface {
	Create(ctx context.Context, req dto.CreateCaseStudyRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCaseStudiesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.CaseStudyResponse, error)
	Update(ctx context.Context, req dto.UpdateCaseStudyRequest, id string) error
	Delete(ctx context.Context, id string) error
	Recommend(ctx context.Context, mode string, limit int) (dto.RecommendCasesResponse, error)
}

type serviceImpl struct {
	repo         repository.CaseStudy
	feedbackRepo feedbackRepository.Feedback
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	storage      s3.S3
}

func New(repo repository.CaseStudy, feedbackRepo feedbackRepository.Feedback, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, storage s3.S3) CaseStudy {
	return &serviceImpl{
		repo:         repo,
		feedbackRepo: feedbackRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		storage:      storage,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCaseStudyRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	for skill, weight := range req.SkillWeights {
		if !slices.Contains(constant.Skills, skill) {
			return failure.BadRequestFromString(fmt.Sprintf("unknown skill: %s", skill)) //nolint:wrapcheck
		}

		if weight <= 0 {
			return failure.BadRequestFromString(fmt.Sprintf("weight for %s must be positive", skill)) //nolint:wrapcheck
		}
	}

	attachmentURL := constant.Empty

	if req.Attachment != "" {
		attachmentURL, err = s.uploadAttachment(ctx, req)
		if err != nil {
			return err
		}
	}

	if err = s.repo.Insert(ctx, req.ToModel(user, attachmentURL)); err != nil {
		log.Error().Err(err).Msg("failed to create case study")

		return fmt.Errorf("failed to create case study: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllCaseStudy)
		shared.InvalidateCaches(c, s.cache, cacheCountCaseStudy)
	}()

	return nil
}

func (s *serviceImpl) uploadAttachment(ctx context.Context, req dto.CreateCaseStudyRequest) (string, error) {
	contentType := base64.GetContentType(req.Attachment)

	fileData, err := base64.Decode(req.Attachment)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode case attachment")

		return constant.Empty, failure.BadRequestFromString("attachment is not a valid base64 data URI") //nolint:wrapcheck
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = uuid.NewString()
	}

	url, err := s.storage.UploadFileBytes(ctx, constant.Empty, attachmentDirectory, fileName, contentType, fileData)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload case attachment")

		return constant.Empty, fmt.Errorf("failed to upload case attachment: %w", err)
	}

	return url, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCaseStudiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.SortBy == "" {
		req.SortBy = constant.DefaultValueSortBy
	}

	if req.SortDir == "" {
		req.SortDir = constant.DefaultValueSortDir
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCaseStudy, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for case studies")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count case studies")

		return res, fmt.Errorf("failed to count case studies: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get case studies")

		return res, fmt.Errorf("failed to get case studies: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save case studies to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCaseStudy, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for case study count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count case studies")

		return res, fmt.Errorf("failed to count case studies: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save case study count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CaseStudyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetCaseStudy, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for case study")

		return res, nil
	}

	caseStudy, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get case study")

		return res, fmt.Errorf("failed to get case study: %w", err)
	}

	if caseStudy.ID == constant.Empty {
		return res, failure.NotFound("case study not found") //nolint:wrapcheck
	}

	res.FromModel(caseStudy)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save case study to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateCaseStudyRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateCaseStudyRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if case study exists")

		return fmt.Errorf("failed to check if case study exists: %w", err)
	}

	if !exist {
		return failure.NotFound("case study not found") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update case study")

		return fmt.Errorf("failed to update case study: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	caseStudy, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get case study")

		return fmt.Errorf("failed to get case study: %w", err)
	}

	if caseStudy.ID == constant.Empty {
		return failure.NotFound("case study not found") //nolint:wrapcheck
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if caseStudy.CreatedBy != user && role != constant.RoleAdmin {
		return failure.Forbidden("only the uploader or an admin can delete a case study") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete case study")

		return fmt.Errorf("failed to delete case study: %w", err)
	}

	if caseStudy.AttachmentURL != "" {
		go func() {
			c := context.WithoutCancel(ctx)

			objectName := s.storage.GetObjectNameFromURL(constant.Empty, caseStudy.AttachmentURL)
			if err := s.storage.DeleteFile(c, constant.Empty, constant.Empty, objectName); err != nil {
				log.Error().Err(err).Str("object", objectName).Msg("failed to delete case attachment")
			}
		}()
	}

	s.invalidate(ctx, id)

	return nil
}

// Recommend scores the whole library against the caller's skill profile and
// returns the top cases for the requested mode.
func (s *serviceImpl) Recommend(ctx context.Context, mode string, limit int) (res dto.RecommendCasesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Recommend")
	defer scope.End()
	defer scope.TraceIfError(err)

	if mode == "" {
		mode = constant.RecommendModeFixWeaknesses
	}

	if mode != constant.RecommendModeFixWeaknesses && mode != constant.RecommendModeBuildStrengths {
		return res, failure.BadRequestFromString("unknown recommendation mode") //nolint:wrapcheck
	}

	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	feedbackFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    feedbackModel.FieldRecipientID,
				Operator: gDto.FilterOperatorEq,
				Value:    user,
				Table:    feedbackModel.TableName,
			},
			gDto.Filter{
				Field:    feedbackModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.FeedbackStatusAccepted,
				Table:    feedbackModel.TableName,
			},
		},
	}

	feedbacks, err := s.feedbackRepo.GetAll(ctx, gDto.QueryParams{}, feedbackFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get accepted feedback")

		return res, fmt.Errorf("failed to get accepted feedback: %w", err)
	}

	averages := feedbackModel.AverageScores(feedbacks)

	cases, err := s.repo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get case studies")

		return res, fmt.Errorf("failed to get case studies: %w", err)
	}

	scored := make([]dto.RecommendedCase, len(cases))
	for i, caseStudy := range cases {
		scored[i].FromModel(caseStudy)
		scored[i].Score = caseStudy.Score(mode, averages)
	}

	slices.SortStableFunc(scored, func(a, b dto.RecommendedCase) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Title, b.Title)
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	res.Mode = mode
	res.Cases = scored

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCaseStudy, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete case study from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCaseStudy)
		shared.InvalidateCaches(c, s.cache, cacheCountCaseStudy)
	}()
}
