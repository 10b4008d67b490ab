package router

import (
	"caseclub/internal/handlers/appointment"
	"caseclub/internal/handlers/auth"
	"caseclub/internal/handlers/casestudy"
	"caseclub/internal/handlers/feedback"
	"caseclub/internal/handlers/partner"
	"caseclub/internal/handlers/slot"
	"caseclub/internal/handlers/user"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Auth        auth.Handler
	User        user.Handler
	Slot        slot.Handler
	Appointment appointment.Handler
	Feedback    feedback.Handler
	CaseStudy   casestudy.Handler
	Partner     partner.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Slot.Router(routerGroup)
		r.DomainHandlers.Appointment.Router(routerGroup)
		r.DomainHandlers.Feedback.Router(routerGroup)
		r.DomainHandlers.CaseStudy.Router(routerGroup)
		r.DomainHandlers.Partner.Router(routerGroup)
	})

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
