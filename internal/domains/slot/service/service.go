package service

import (
	"context"
	"fmt"

	"caseclub/config"
	"caseclub/infras/otel"
	"caseclub/internal/domains/slot/model"
	"caseclub/internal/domains/slot/model/dto"
	"caseclub/internal/domains/slot/repository"
	"caseclub/shared"
	"caseclub/shared/cache"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	"caseclub/shared/failure"
	"caseclub/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetSlot    = "slot:get"
	cacheGetAllSlot = "slot:gets"
	cacheCountSlot  = "slot:count"
)

type Slot interface {
	Create(ctx context.Context, req dto.CreateSlotsRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, zone string) (dto.GetSlotsResponse, error)
	GetOpen(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, zone string) (dto.GetSlotsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id, zone string) (dto.SlotResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Slot
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Slot, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Slot {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateSlotsRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	slots, err := req.ToModels(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse slot start times")

		return err //nolint:wrapcheck
	}

	if len(slots) == 0 {
		log.Info().Str("user_id", user).Msg("no slot start times provided, nothing to create")

		return nil
	}

	now := timezone.Now()
	for _, slot := range slots {
		if !slot.StartAt.After(now.UTC()) {
			return failure.BadRequestFromString("slot start time must be in the future") //nolint:wrapcheck
		}
	}

	if err = s.repo.InsertBulk(ctx, slots); err != nil {
		log.Error().Err(err).Msg("failed to create slots")

		return fmt.Errorf("failed to create slots: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllSlot)
		shared.InvalidateCaches(c, s.cache, cacheCountSlot)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, zone string) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = timezone.Resolve(zone); err != nil {
		return res, err //nolint:wrapcheck
	}

	// Slots list soonest first unless the caller asks otherwise.
	if req.SortBy == "" {
		req.SortBy = model.FieldStartAt
	}

	if req.SortDir == "" {
		req.SortDir = gDto.SortDirAsc
	}

	cacheKey := shared.BuildCacheKey(shared.BuildCacheKeyWithQuery(cacheGetAllSlot, req, filter), zone)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slots")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots")

		return res, fmt.Errorf("failed to count slots: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get slots")

		return res, fmt.Errorf("failed to get slots: %w", err)
	}

	res.FromModels(models, total, req.Limit, zone)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save slots to cache")
		}
	}()

	return res, nil
}

// GetOpen lists slots that are still claimable: open, in the future, and not
// owned by the requester. Results bypass the cache so a slot claimed a moment
// ago never shows up as bookable.
func (s *serviceImpl) GetOpen(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, zone string) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetOpen")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = timezone.Resolve(zone); err != nil {
		return res, err //nolint:wrapcheck
	}

	if req.SortBy == "" {
		req.SortBy = model.FieldStartAt
	}

	if req.SortDir == "" {
		req.SortDir = gDto.SortDirAsc
	}

	openFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsBooked,
				Operator: gDto.FilterOperatorEq,
				Value:    false,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "open_start_at",
				Field:    model.FieldStartAt,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    timezone.Now().UTC(),
				Table:    model.TableName,
			},
		},
	}

	if user, ok := ctx.Value(constant.ContextKeyUserID).(string); ok && user != "" {
		openFilter.Filters = append(openFilter.Filters, gDto.Filter{
			ArgName:  "open_user_id",
			Field:    model.FieldUserID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    user,
			Table:    model.TableName,
		})
	}

	if len(filter.Filters) > 0 {
		openFilter.Filters = append(openFilter.Filters, filter)
	}

	total, err := s.repo.Count(ctx, openFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count open slots")

		return res, fmt.Errorf("failed to count open slots: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, openFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get open slots")

		return res, fmt.Errorf("failed to get open slots: %w", err)
	}

	res.FromModels(models, total, req.Limit, zone)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountSlot, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slot count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots")

		return res, fmt.Errorf("failed to count slots: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save slot count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id, zone string) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = timezone.Resolve(zone); err != nil {
		return res, err //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGetSlot, id, zone)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slot")

		return res, nil
	}

	slot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get slot")

		return res, fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return res, failure.NotFound("slot not found") //nolint:wrapcheck
	}

	res.FromModel(slot, zone)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save slot to cache")
		}
	}()

	return res, nil
}

// Delete removes an open slot owned by the requester. The owner and
// open-state guards live in the delete filter, so a foreign or already
// booked slot is a silent no-op rather than an information leak.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    user,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldIsBooked,
				Operator: gDto.FilterOperatorEq,
				Value:    false,
				Table:    model.TableName,
			},
		},
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete slot")

		return fmt.Errorf("failed to delete slot: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetSlot, id))
		shared.InvalidateCaches(c, s.cache, cacheGetAllSlot)
		shared.InvalidateCaches(c, s.cache, cacheCountSlot)
	}()

	return nil
}
