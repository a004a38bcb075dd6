package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/budgie/internal/auth"
	"github.com/MrJamesThe3rd/budgie/internal/http/admin"
	"github.com/MrJamesThe3rd/budgie/internal/http/analytics"
	"github.com/MrJamesThe3rd/budgie/internal/http/budget"
	"github.com/MrJamesThe3rd/budgie/internal/http/category"
	"github.com/MrJamesThe3rd/budgie/internal/http/goal"
	"github.com/MrJamesThe3rd/budgie/internal/http/httpx"
	authmw "github.com/MrJamesThe3rd/budgie/internal/http/middleware"
	"github.com/MrJamesThe3rd/budgie/internal/http/transaction"
	"github.com/MrJamesThe3rd/budgie/internal/http/user"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	Users        *user.Handler
	Categories   *category.Handler
	Transactions *transaction.Handler
	Budgets      *budget.Handler
	Goals        *goal.Handler
	Analytics    *analytics.Handler
	Admin        *admin.Handler
}

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(
	h Handlers,
	verifier auth.Verifier,
	users authmw.UserGetter,
	db Pinger,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/health", health(db))

	authn := authmw.Authenticate(verifier)

	router.Route("/api", func(r chi.Router) {
		r.Route("/users", h.Users.Routes(authn))

		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Categories.Routes(r)
			})

			// Imports arrive as multipart, so content types are checked per route.
			r.Route("/transactions", h.Transactions.Routes)

			r.Route("/budgets", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Budgets.Routes(r)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Goals.Routes(r)
			})

			r.Route("/analytics", h.Analytics.Routes)

			r.Route("/admin", func(r chi.Router) {
				r.Use(authmw.RequireAdmin(users))
				r.Use(middleware.AllowContentType("application/json"))
				h.Admin.Routes(r)
			})
		})
	})

	return router
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}

		httpx.OK(w, map[string]string{"status": "ok"})
	}
}
