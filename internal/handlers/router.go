package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/middleware"
)

// RouterDeps bundles everything the HTTP surface needs
type RouterDeps struct {
	Auth     *AuthHandler
	Events   *EventHandler
	Cart     *CartHandler
	Orders   *OrderHandler
	Payments *PaymentHandler
	Sales    *SalesHandler
	AuthMW   *middleware.AuthMiddleware
	Logger   *logrus.Logger
}

// NewRouter assembles the API router
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	r.Use(middleware.SecurityHeadersMiddleware)
	// Claims load before logging so request logs carry the user id.
	r.Use(deps.AuthMW.LoadClaims)
	r.Use(middleware.LoggingMiddleware(deps.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", deps.Auth.Register)
		r.Post("/login", deps.Auth.Login)

		r.Get("/events", deps.Events.List)
		r.Get("/events/{id}", deps.Events.Get)
		r.Get("/events/{id}/ticket-types", deps.Events.ListTicketTypes)

		r.Get("/cart", deps.Cart.Get)
		r.Post("/cart/items", deps.Cart.AddItem)
		r.Delete("/cart/items/{ticketTypeID}", deps.Cart.RemoveItem)
		r.Delete("/cart", deps.Cart.Clear)

		// Provider callback, authenticated by txid knowledge only.
		r.Post("/pix/confirm", deps.Payments.ConfirmCharge)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW.RequireAuth)

			r.Post("/orders", deps.Orders.Create)
			r.Get("/orders", deps.Orders.List)
			r.Get("/orders/{id}", deps.Orders.Get)
			r.Post("/orders/{id}/cancel", deps.Orders.Cancel)

			r.Post("/pix", deps.Payments.CreateCharge)
		})

		r.Route("/organizer", func(r chi.Router) {
			r.Use(deps.AuthMW.RequireOrganizer)

			r.Post("/events", deps.Events.CreateEvent)
			r.Get("/events", deps.Events.ListOrganizerEvents)
			r.Post("/ticket-types", deps.Events.CreateTicketType)
			r.Get("/sales", deps.Sales.List)
		})
	})

	return r
}
