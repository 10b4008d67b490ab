package casestudy

import (
	"net/http"
	"strconv"

	"caseclub/infras/otel"
	"caseclub/internal/domains/casestudy/model"
	"caseclub/internal/domains/casestudy/model/dto"
	"caseclub/internal/domains/casestudy/service"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	"caseclub/shared/validator"
	"caseclub/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.CaseStudy
	otel    otel.Otel
}

func New(service service.CaseStudy, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/cases", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCaseStudy)
		routerGroup.Get("/", handler.GetCaseStudies)
		routerGroup.Get("/recommendations", handler.RecommendCases)
		routerGroup.Get("/{id}", handler.GetCaseStudyByID)
		routerGroup.Patch("/{id}", handler.UpdateCaseStudy)
		routerGroup.Delete("/{id}", handler.DeleteCaseStudy)
	})
}

// CreateCaseStudy adds a practice case to the club library.
// @Summary Create a case study
// @Description Add a practice case with skill weights and an optional base64 attachment.
// @Tags CaseStudy
// @Accept json
// @Produce json
// @Param request body dto.CreateCaseStudyRequest true "Create Case Study Request"
// @Success 201 {object} response.Message "Case study created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cases [post]
// @Security BearerAuth
func (handler *Handler) CreateCaseStudy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCaseStudy")
	defer scope.End()

	req := dto.CreateCaseStudyRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create case study")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Case study created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Case study created successfully")
}

// GetCaseStudies lists the case library.
// @Summary Get case studies
// @Description Retrieve case studies with optional filtering and pagination.
// @Tags CaseStudy
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param industry query string false "Filter by industry"
// @Param title query string false "Filter by title substring"
// @Success 200 {object} response.Data[dto.GetCaseStudiesResponse] "List of case studies"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cases [get]
// @Security BearerAuth
func (handler *Handler) GetCaseStudies(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCaseStudies")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	industry := r.URL.Query().Get(model.FieldIndustry)
	title := r.URL.Query().Get(model.FieldTitle)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if industry != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIndustry,
			Operator: gDto.FilterOperatorEq,
			Value:    industry,
			Table:    model.TableName,
		})
	}

	if title != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    title,
			Table:    model.TableName,
		})
	}

	caseStudies, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get case studies")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Case studies retrieved successfully")

	response.WithJSON(w, http.StatusOK, caseStudies)
}

// RecommendCases ranks the library against the member's skill profile.
// @Summary Recommend case studies
// @Description Rank cases for the authenticated member, either fixing weaknesses or building strengths.
// @Tags CaseStudy
// @Accept json
// @Produce json
// @Param mode query string false "Recommendation mode (fix_weaknesses, build_strengths)"
// @Param limit query int false "Maximum cases to return"
// @Success 200 {object} response.Data[dto.RecommendCasesResponse] "Ranked cases"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cases/recommendations [get]
// @Security BearerAuth
func (handler *Handler) RecommendCases(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecommendCases")
	defer scope.End()

	mode := r.URL.Query().Get(constant.RequestParamMode)
	limit, _ := strconv.Atoi(r.URL.Query().Get(constant.RequestParamLimit))

	recommendations, err := handler.service.Recommend(ctx, mode, limit)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to recommend case studies")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Case recommendations retrieved successfully")

	response.WithJSON(w, http.StatusOK, recommendations)
}

// GetCaseStudyByID retrieves a case study by its ID.
// @Summary Get a case study by ID
// @Description Retrieve a case study by its unique identifier.
// @Tags CaseStudy
// @Accept json
// @Produce json
// @Param id path string true "Case Study ID"
// @Success 200 {object} response.Data[dto.CaseStudyResponse] "Case study details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cases/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetCaseStudyByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCaseStudyByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	caseStudy, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get case study by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Case study retrieved successfully")

	response.WithJSON(w, http.StatusOK, caseStudy)
}

// UpdateCaseStudy updates an existing case study by its ID.
// @Summary Update a case study by ID
// @Description Update the details of an existing case study.
// @Tags CaseStudy
// @Accept json
// @Produce json
// @Param id path string true "Case Study ID"
// @Param request body dto.UpdateCaseStudyRequest true "Update Case Study Request"
// @Success 200 {object} response.Message "Case study updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cases/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateCaseStudy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCaseStudy")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateCaseStudyRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update case study")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Case study updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Case study updated successfully")
}

// DeleteCaseStudy deletes a case study by its ID.
// @Summary Delete a case study by ID
// @Description Delete a case study. Only the uploader or an admin may delete it.
// @Tags CaseStudy
// @Accept json
// @Produce json
// @Param id path string true "Case Study ID"
// @Success 200 {object} response.Message "Case study deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cases/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteCaseStudy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteCaseStudy")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete case study")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Case study deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Case study deleted successfully")
}
