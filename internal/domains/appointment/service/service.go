package service

import (
	"context"
	"fmt"

	"caseclub/config"
	"caseclub/infras/kafka"
	"caseclub/infras/otel"
	"caseclub/internal/domains/appointment/model"
	"caseclub/internal/domains/appointment/model/dto"
	"caseclub/internal/domains/appointment/repository"
	slotModel "caseclub/internal/domains/slot/model"
	slotRepo "caseclub/internal/domains/slot/repository"
	"caseclub/shared"
	"caseclub/shared/cache"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	"caseclub/shared/failure"
	"caseclub/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAppointment    = "appointment:get"
	cacheGetAllAppointment = "appointment:gets"
	cacheCountAppointment  = "appointment:count"

	// Booking and cancellation flip slot state, so cached slot listings go
	// stale with the appointment caches.
	cacheSlotPrefix = "slot:"
)

type Appointment interface {
	Book(ctx context.Context, req dto.BookAppointmentRequest) error
	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Get(ctx context.Context, id, zone string) (dto.AppointmentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, zone string) (dto.GetAppointmentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo     repository.Appointment
	slotRepo slotRepo.Slot
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	broker   kafka.Client
}

func New(repo repository.Appointment, slotRepo slotRepo.Slot, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, broker kafka.Client) Appointment {
	return &serviceImpl{
		repo:     repo,
		slotRepo: slotRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		broker:   broker,
	}
}

// Book claims the slot first and creates the appointment second. The claim is
// the only admission control: losing it means someone else holds the slot and
// the caller gets a conflict. If the insert after a won claim fails, the slot
// stays claimed and the orphaned slot id is logged for reconciliation;
// reporting that as a conflict would mislead the guest into retrying a slot
// that cannot be won.
func (s *serviceImpl) Book(ctx context.Context, req dto.BookAppointmentRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Book")
	defer scope.End()
	defer scope.TraceIfError(err)

	guest, _ := ctx.Value(constant.ContextKeyUserID).(string)

	slot, err := s.slotRepo.Get(ctx, shared.FilterByID(req.SlotID, slotModel.FieldID, slotModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get slot")

		return fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return failure.NotFound("slot not found") //nolint:wrapcheck
	}

	if slot.UserID == guest {
		return failure.BadRequestFromString("cannot book your own slot") //nolint:wrapcheck
	}

	if !slot.StartAt.After(timezone.Now().UTC()) {
		return failure.BadRequestFromString("slot has already started") //nolint:wrapcheck
	}

	claimed, err := s.slotRepo.Claim(ctx, slot.ID, guest)
	if err != nil {
		log.Error().Err(err).Str("slot_id", slot.ID).Msg("failed to claim slot")

		return fmt.Errorf("failed to claim slot: %w", err)
	}

	if !claimed {
		return failure.Conflict("slot is already booked") //nolint:wrapcheck
	}

	appointment := req.ToModel(slot, guest)
	appointment.StartAt = slot.StartAt
	appointment.EndAt = slot.EndAt

	if err = s.repo.Insert(ctx, appointment); err != nil {
		log.Error().Err(err).
			Str("slot_id", slot.ID).
			Str("guest_id", guest).
			Msg("appointment insert failed after slot claim, slot left claimed for reconciliation")

		return fmt.Errorf("failed to create appointment: %w", err)
	}

	s.publishEvent(ctx, constant.EventSessionBooked, appointment)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllAppointment)
		shared.InvalidateCaches(c, s.cache, cacheCountAppointment)
		shared.InvalidateCaches(c, s.cache, cacheSlotPrefix)
	}()

	return nil
}

// Confirm moves a pending appointment to confirmed. Only the host may
// confirm.
func (s *serviceImpl) Confirm(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	appointment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointment")

		return fmt.Errorf("failed to get appointment: %w", err)
	}

	if appointment.ID == constant.Empty {
		return failure.NotFound("appointment not found") //nolint:wrapcheck
	}

	// Outsiders get the same answer as a missing row so the appointment's
	// existence never leaks.
	if appointment.HostID != user && appointment.GuestID != user {
		return failure.NotFound("appointment not found") //nolint:wrapcheck
	}

	if appointment.HostID != user {
		return failure.Forbidden("only the host can confirm an appointment") //nolint:wrapcheck
	}

	transitioned, err := s.repo.Transition(ctx, id, constant.AppointmentStatusConfirmed, []string{constant.AppointmentStatusPending}, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to confirm appointment")

		return fmt.Errorf("failed to confirm appointment: %w", err)
	}

	if !transitioned {
		return failure.Conflict("appointment is not pending") //nolint:wrapcheck
	}

	s.invalidateAppointment(ctx, id)

	return nil
}

// Cancel moves a pending or confirmed appointment to cancelled and reopens
// its slot. Both writes share one transaction: a cancelled appointment whose
// slot stayed claimed would strand the window forever.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	appointment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointment")

		return fmt.Errorf("failed to get appointment: %w", err)
	}

	if appointment.ID == constant.Empty {
		return failure.NotFound("appointment not found") //nolint:wrapcheck
	}

	if appointment.HostID != user && appointment.GuestID != user {
		return failure.NotFound("appointment not found") //nolint:wrapcheck
	}

	sqltx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cancellation: %w", err)
	}

	transitioned, err := s.repo.TransitionTx(ctx, sqltx,
		id,
		constant.AppointmentStatusCancelled,
		[]string{constant.AppointmentStatusPending, constant.AppointmentStatusConfirmed},
		user,
	)
	if err != nil {
		_ = sqltx.Rollback()
		log.Error().Err(err).Msg("failed to cancel appointment")

		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	if !transitioned {
		_ = sqltx.Rollback()

		return failure.Conflict("appointment is already cancelled") //nolint:wrapcheck
	}

	if err = s.slotRepo.ReleaseTx(ctx, sqltx, appointment.SlotID, user); err != nil {
		_ = sqltx.Rollback()
		log.Error().Err(err).Str("slot_id", appointment.SlotID).Msg("failed to release slot")

		return fmt.Errorf("failed to release slot: %w", err)
	}

	if err = sqltx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit cancellation")

		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	s.publishEvent(ctx, constant.EventSessionCancelled, appointment)
	s.invalidateAppointment(ctx, id)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id, zone string) (res dto.AppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = timezone.Resolve(zone); err != nil {
		return res, err //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	cacheKey := shared.BuildCacheKey(cacheGetAppointment, id, zone)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil && (res.HostID == user || res.GuestID == user) {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for appointment")

		return res, nil
	}

	res = dto.AppointmentResponse{}

	appointment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointment")

		return res, fmt.Errorf("failed to get appointment: %w", err)
	}

	if appointment.ID == constant.Empty {
		return res, failure.NotFound("appointment not found") //nolint:wrapcheck
	}

	if appointment.HostID != user && appointment.GuestID != user {
		return res, failure.NotFound("appointment not found") //nolint:wrapcheck
	}

	res.FromModel(appointment, zone)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointment to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, zone string) (res dto.GetAppointmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = timezone.Resolve(zone); err != nil {
		return res, err //nolint:wrapcheck
	}

	// Newest appointments first; the column is table-qualified because the
	// joined slot row carries a created_at of its own.
	if req.SortBy == "" {
		req.SortBy = model.TableName + "." + constant.FieldCreatedAt
	}

	if req.SortDir == "" {
		req.SortDir = constant.DefaultValueSortDir
	}

	cacheKey := shared.BuildCacheKey(shared.BuildCacheKeyWithQuery(cacheGetAllAppointment, req, filter), zone)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for appointments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointments")

		return res, fmt.Errorf("failed to get appointments: %w", err)
	}

	res.FromModels(models, total, req.Limit, zone)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountAppointment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for appointment count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointment count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, eventType string, appointment model.Appointment) {
	event := dto.NewSessionEvent(eventType, appointment)

	go func() {
		c := context.WithoutCancel(ctx)

		err := s.broker.SendMessages(c, s.cfg.Kafka.Topics.SessionEvents, kafka.Message{
			Key:   appointment.ID,
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("event", eventType).Msg("failed to publish session event")
		}
	}()
}

func (s *serviceImpl) invalidateAppointment(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetAppointment, id))
		shared.InvalidateCaches(c, s.cache, cacheGetAllAppointment)
		shared.InvalidateCaches(c, s.cache, cacheCountAppointment)
		shared.InvalidateCaches(c, s.cache, cacheSlotPrefix)
	}()
}
