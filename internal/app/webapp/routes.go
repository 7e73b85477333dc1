package webapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
	bookssvc "github.com/lazyvar/cliffhanger-club/internal/services/books"
	reviewsvc "github.com/lazyvar/cliffhanger-club/internal/services/review"
	"github.com/lazyvar/cliffhanger-club/internal/transport/http/handlers"
	"github.com/lazyvar/cliffhanger-club/internal/transport/http/metrics"
	"github.com/lazyvar/cliffhanger-club/internal/transport/http/views"
)

type Dependencies struct {
	AuthService   *authsvc.Service
	BooksService  *bookssvc.Service
	ReviewService *reviewsvc.Service
	Cookies       authsvc.Cookies
	Renderer      *views.Renderer
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(PopulateIdentity(deps.AuthService, deps.Cookies, deps.Logger))

	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.BooksService, deps.Cookies, deps.Renderer, deps.Logger)
	pagesHandler := handlers.NewPagesHandler(deps.BooksService, deps.ReviewService, deps.Renderer, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.ReviewService, deps.Renderer, deps.Logger)

	r.Get("/healthz", healthHandler.Get)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}
	r.Get("/styles.css", pagesHandler.Styles)

	r.Get("/login", authHandler.ShowLogin)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)

	r.Get("/", pagesHandler.Home)

	r.Group(func(r chi.Router) {
		r.Use(RequireMember)
		r.Get("/books", pagesHandler.Books)
		r.Get("/books/{id}", pagesHandler.BookDetail)
		r.Get("/profile/{username}", pagesHandler.Profile)
		r.Get("/wrapped", pagesHandler.Wrapped)
		r.Get("/wrapped/questions", pagesHandler.Questions)
		r.Post("/wrapped/questions", pagesHandler.SaveAnswers)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireMember, RequireAdmin)
		r.Get("/admin", adminHandler.Dashboard)
		r.Post("/admin/toggle-wrapped", adminHandler.ToggleWrapped)
	})
}
