package webapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lazyvar/cliffhanger-club/internal/config"
	"github.com/lazyvar/cliffhanger-club/internal/jobs/cleanup"
	pgrepo "github.com/lazyvar/cliffhanger-club/internal/repo/postgres"
	redrepo "github.com/lazyvar/cliffhanger-club/internal/repo/redis"
	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
	bookssvc "github.com/lazyvar/cliffhanger-club/internal/services/books"
	reviewsvc "github.com/lazyvar/cliffhanger-club/internal/services/review"
	"github.com/lazyvar/cliffhanger-club/internal/transport/http/metrics"
	"github.com/lazyvar/cliffhanger-club/internal/transport/http/views"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
	sweepJob   *cleanup.Job
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	userRepo := pgrepo.NewUserRepo(pool)
	sessionRepo := pgrepo.NewSessionRepo(pool)
	bookRepo := pgrepo.NewBookRepo(pool)
	questionRepo := pgrepo.NewQuestionRepo(pool)
	answerRepo := pgrepo.NewAnswerRepo(pool)
	settingRepo := pgrepo.NewSettingRepo(pool)
	revealCache := redrepo.NewRevealCacheRepo(redisClient, 0)

	authService := authsvc.NewService(userRepo, sessionRepo, cfg.Auth.SessionTTL)
	booksService := bookssvc.NewService(bookRepo, userRepo)
	reviewService := reviewsvc.NewService(questionRepo, answerRepo, settingRepo, revealCache, log)

	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("build renderer: %w", err)
	}

	httpMetrics := metrics.New()
	cookies := authsvc.NewCookies(authService.SessionTTL(), cfg.Auth.SecureCookie)

	RegisterRoutes(r, Dependencies{
		AuthService:   authService,
		BooksService:  booksService,
		ReviewService: reviewService,
		Cookies:       cookies,
		Renderer:      renderer,
		Metrics:       httpMetrics,
		Logger:        log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
		sweepJob:   cleanup.NewSessionCleanupJob(authService, log),
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("web server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// RunSweeper clears expired sessions on the configured interval until
// the context is cancelled.
func (a *App) RunSweeper(ctx context.Context) error {
	if a.sweepJob == nil {
		return nil
	}

	interval := a.cfg.Cleanup.SweepInterval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	if err := a.sweepJob.Run(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.sweepJob.Run(ctx); err != nil {
				return err
			}
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
