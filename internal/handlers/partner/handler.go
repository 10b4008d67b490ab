package partner

import (
	"net/http"
	"strconv"

	"caseclub/infras/otel"
	"caseclub/internal/domains/partner/service"
	"caseclub/shared/constant"
	"caseclub/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Partner
	otel    otel.Otel
}

func New(service service.Partner, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/partners", func(routerGroup chi.Router) {
		routerGroup.Get("/recommendations", handler.RecommendPartners)
	})
}

// RecommendPartners ranks other members as practice partners.
// @Summary Recommend practice partners
// @Description Rank other active members for the authenticated member, by similar or complementary skill profiles.
// @Tags Partner
// @Accept json
// @Produce json
// @Param mode query string false "Recommendation mode (similar, complement)"
// @Param limit query int false "Maximum partners to return"
// @Success 200 {object} response.Data[dto.RecommendPartnersResponse] "Ranked partners"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/partners/recommendations [get]
// @Security BearerAuth
func (handler *Handler) RecommendPartners(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecommendPartners")
	defer scope.End()

	mode := r.URL.Query().Get(constant.RequestParamMode)
	limit, _ := strconv.Atoi(r.URL.Query().Get(constant.RequestParamLimit))

	recommendations, err := handler.service.Recommend(ctx, mode, limit)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to recommend partners")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Partner recommendations retrieved successfully")

	response.WithJSON(w, http.StatusOK, recommendations)
}
