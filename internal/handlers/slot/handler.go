package slot

import (
	"net/http"

	"caseclub/infras/otel"
	"caseclub/internal/domains/slot/model"
	"caseclub/internal/domains/slot/model/dto"
	"caseclub/internal/domains/slot/service"
	"caseclub/shared"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	"caseclub/shared/failure"
	"caseclub/shared/validator"
	"caseclub/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Slot
	otel    otel.Otel
}

func New(service service.Slot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/slots", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateSlots)
		routerGroup.Get("/", handler.GetMySlots)
		routerGroup.Get("/open", handler.GetOpenSlots)
		routerGroup.Get("/{id}", handler.GetSlotByID)
		routerGroup.Delete("/{id}", handler.DeleteSlot)
	})
}

// CreateSlots publishes new availability slots for the authenticated member.
// @Summary Create availability slots
// @Description Publish one or more 90-minute availability slots given local start times.
// @Tags Slot
// @Accept json
// @Produce json
// @Param request body dto.CreateSlotsRequest true "Create Slots Request"
// @Success 201 {object} response.Message "Slots created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots [post]
// @Security BearerAuth
func (handler *Handler) CreateSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSlots")
	defer scope.End()

	req := dto.CreateSlotsRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create slots")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Slots created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Slots created successfully")
}

// GetMySlots lists the authenticated member's own availability slots.
// @Summary Get my slots
// @Description Retrieve the authenticated member's availability slots with optional filtering and pagination.
// @Tags Slot
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param include_booked query string false "Include already booked slots (default false)"
// @Param timezone query string false "IANA zone for display times"
// @Success 200 {object} response.Data[dto.GetSlotsResponse] "List of slots"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots [get]
// @Security BearerAuth
func (handler *Handler) GetMySlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMySlots")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	zone := r.URL.Query().Get(constant.RequestParamTimezone)
	includeBooked := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamIncludeBooked))

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}

	// Booked slots only appear when explicitly requested.
	if includeBooked == nil || !*includeBooked {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsBooked,
			Operator: gDto.FilterOperatorEq,
			Value:    false,
			Table:    model.TableName,
		})
	}

	slots, err := handler.service.GetAll(ctx, queryParams, filterGroup, zone)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Slots retrieved successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, slots)
}

// GetOpenSlots lists bookable slots published by other members.
// @Summary Get open slots
// @Description Retrieve unbooked future slots from other members, ready to book.
// @Tags Slot
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param user_id query string false "Only slots published by this host"
// @Param timezone query string false "IANA zone for display times"
// @Success 200 {object} response.Data[dto.GetSlotsResponse] "List of open slots"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/open [get]
// @Security BearerAuth
func (handler *Handler) GetOpenSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOpenSlots")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	zone := r.URL.Query().Get(constant.RequestParamTimezone)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if host := r.URL.Query().Get(model.FieldUserID); host != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldUserID,
			Operator: gDto.FilterOperatorEq,
			Value:    host,
			Table:    model.TableName,
		})
	}

	slots, err := handler.service.GetOpen(ctx, queryParams, filterGroup, zone)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get open slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Open slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// GetSlotByID retrieves a slot by its ID.
// @Summary Get a slot by ID
// @Description Retrieve a slot by its unique identifier.
// @Tags Slot
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param timezone query string false "IANA zone for display times"
// @Success 200 {object} response.Data[dto.SlotResponse] "Slot details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetSlotByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlotByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	zone := r.URL.Query().Get(constant.RequestParamTimezone)

	slot, err := handler.service.Get(ctx, id, zone)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slot by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Slot retrieved successfully")

	response.WithJSON(w, http.StatusOK, slot)
}

// DeleteSlot withdraws an unbooked slot owned by the authenticated member.
// @Summary Delete a slot by ID
// @Description Withdraw one of the member's own unbooked slots.
// @Tags Slot
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Message "Slot deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSlot")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete slot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Slot deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Slot deleted successfully")
}
