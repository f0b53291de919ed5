package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/homeledger/homeledger/internal/auth"
	"github.com/homeledger/homeledger/internal/http/analytics"
	"github.com/homeledger/homeledger/internal/http/authapi"
	"github.com/homeledger/homeledger/internal/http/importcsv"
	"github.com/homeledger/homeledger/internal/http/reference"
	"github.com/homeledger/homeledger/internal/http/transaction"
)

func New(
	authSvc *auth.Service,
	authV1 *authapi.Handler,
	transactionsV1 *transaction.Handler,
	importV1 *importcsv.Handler,
	analyticsV1 *analytics.Handler,
	referenceV1 *reference.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authSvc.Middleware)

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})

			r.Route("/import", importV1.Routes)

			r.Route("/analytics", analyticsV1.Routes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				referenceV1.Routes(r)
			})
		})
	})

	return router
}
