package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/RiqueAlvess/portal/internal/config"
	pgrepo "github.com/RiqueAlvess/portal/internal/repo/postgres"
	redrepo "github.com/RiqueAlvess/portal/internal/repo/redis"
	authsvc "github.com/RiqueAlvess/portal/internal/services/auth"
	companiessvc "github.com/RiqueAlvess/portal/internal/services/companies"
	ratesvc "github.com/RiqueAlvess/portal/internal/services/rate"
	userssvc "github.com/RiqueAlvess/portal/internal/services/users"
	"github.com/RiqueAlvess/portal/internal/transport/http/cookies"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
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
	rateRepo := redrepo.NewRateRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	companyRepo := pgrepo.NewCompanyRepo(pool)

	secureCookies := cfg.Env == "production"

	tokenCodec, err := authsvc.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.PayloadSecret, cfg.Auth.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("create token codec: %w", err)
	}
	csrfGuard, err := authsvc.NewGuard(cfg.Auth.CSRFSecret, secureCookies)
	if err != nil {
		return nil, fmt.Errorf("create csrf guard: %w", err)
	}
	cookieManager, err := cookies.NewManager(cfg.Auth.CompanySecret, secureCookies)
	if err != nil {
		return nil, fmt.Errorf("create cookie manager: %w", err)
	}

	authService := authsvc.NewService(tokenCodec, userRepo, log)
	authService.AttachLimiter(ratesvc.NewLimiter(rateRepo, cfg.Login.MaxPerMinute, cfg.Login.MaxPer10Sec))
	userService := userssvc.NewService(userRepo)
	companyService := companiessvc.NewService(companyRepo)

	r.Use(RouteGate(tokenCodec, cookieManager, log))

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		CSRFGuard:      csrfGuard,
		UserService:    userService,
		CompanyService: companyService,
		CookieManager:  cookieManager,
		Logger:         log,
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
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
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
