package feedback

import (
	"net/http"

	"caseclub/infras/otel"
	"caseclub/internal/domains/feedback/model/dto"
	"caseclub/internal/domains/feedback/service"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	"caseclub/shared/failure"
	"caseclub/shared/validator"
	"caseclub/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Feedback
	otel    otel.Otel
}

func New(service service.Feedback, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/feedback", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateFeedback)
		routerGroup.Get("/received", handler.GetReceivedFeedback)
		routerGroup.Get("/given", handler.GetGivenFeedback)
		routerGroup.Get("/averages", handler.GetSkillAverages)
		routerGroup.Patch("/{id}/review", handler.ReviewFeedback)
	})
}

// CreateFeedback submits skill feedback for a practice partner.
// @Summary Create feedback
// @Description Submit skill feedback on another member after a practice session.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body dto.CreateFeedbackRequest true "Create Feedback Request"
// @Success 201 {object} response.Message "Feedback created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/feedback [post]
// @Security BearerAuth
func (handler *Handler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateFeedback")
	defer scope.End()

	req := dto.CreateFeedbackRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create feedback")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Feedback created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Feedback created successfully")
}

// GetReceivedFeedback lists feedback addressed to the authenticated member.
// @Summary Get received feedback
// @Description Retrieve feedback other members left for the authenticated member.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by review status (pending, accepted, rejected)"
// @Success 200 {object} response.Data[dto.GetFeedbacksResponse] "List of feedback"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/feedback/received [get]
// @Security BearerAuth
func (handler *Handler) GetReceivedFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReceivedFeedback")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(constant.RequestParamStatus)

	feedback, err := handler.service.GetReceived(ctx, queryParams, status)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get received feedback")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Received feedback retrieved successfully")

	response.WithJSON(w, http.StatusOK, feedback)
}

// GetGivenFeedback lists feedback the authenticated member has written.
// @Summary Get given feedback
// @Description Retrieve feedback the authenticated member left for others.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetFeedbacksResponse] "List of feedback"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/feedback/given [get]
// @Security BearerAuth
func (handler *Handler) GetGivenFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGivenFeedback")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	feedback, err := handler.service.GetGiven(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get given feedback")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Given feedback retrieved successfully")

	response.WithJSON(w, http.StatusOK, feedback)
}

// GetSkillAverages returns the authenticated member's skill profile.
// @Summary Get skill averages
// @Description Average accepted feedback scores per skill for the authenticated member. Unrated skills sit at the neutral value.
// @Tags Feedback
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.SkillAveragesResponse] "Skill averages"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/feedback/averages [get]
// @Security BearerAuth
func (handler *Handler) GetSkillAverages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSkillAverages")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, err)

		return
	}

	averages, err := handler.service.SkillAverages(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get skill averages")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Skill averages retrieved successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, averages)
}

// ReviewFeedback accepts or rejects pending feedback.
// @Summary Review feedback
// @Description Accept or reject pending feedback addressed to the authenticated member. Only accepted feedback counts toward averages.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Feedback ID"
// @Param request body dto.ReviewFeedbackRequest true "Review Feedback Request"
// @Success 200 {object} response.Message "Feedback reviewed successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/feedback/{id}/review [patch]
// @Security BearerAuth
func (handler *Handler) ReviewFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReviewFeedback")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ReviewFeedbackRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Review(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to review feedback")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Feedback reviewed successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Feedback reviewed successfully")
}
