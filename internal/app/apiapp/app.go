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

	"github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/config"
	pgrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/postgres"
	redrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/redis"
	authsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/auth"
	buddysvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/buddies"
	chatsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/chat"
	discoversvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/discover"
	interestsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/interests"
	swipesvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/swipes"
	"github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/ws"
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

	var redisClient *goredis.Client
	if c, err := redrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warn("redis init failed, continuing in degraded mode", zap.Error(err))
	} else {
		redisClient = c
	}

	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	notifier := redrepo.NewChatNotifier(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	eventRepo := pgrepo.NewEventRepo(pool)
	interestRepo := pgrepo.NewInterestRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	buddyRepo := pgrepo.NewBuddyRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo)
	interestService := interestsvc.NewService(interestRepo, eventRepo)
	swipeService := swipesvc.NewService(pgrepo.NewTxRunner(pool), swipeRepo, buddyRepo, eventRepo)
	buddyService := buddysvc.NewService(buddyRepo, userRepo, eventRepo)
	discoverService := discoversvc.NewService(interestRepo, swipeRepo)
	chatService := chatsvc.NewService(buddyRepo, messageRepo, rateRepo, notifier, chatsvc.Config{
		SendMaxPerWindow: cfg.Chat.SendMaxPerWindow,
		SendWindow:       cfg.Chat.SendWindow,
		MaxMessageBytes:  cfg.Chat.MaxMessageBytes,
	}, log)

	hub := ws.NewHub(log)
	wsHandler := ws.NewHandler(authService, chatService, hub, log)

	if redisClient != nil {
		if err := notifier.Subscribe(ctx, hub.BroadcastMessage); err != nil {
			log.Warn("chat subscriber init failed, sockets run without fan-in", zap.Error(err))
		}
	}

	RegisterRoutes(r, Dependencies{
		AuthService:     authService,
		InterestService: interestService,
		SwipeService:    swipeService,
		BuddyService:    buddyService,
		DiscoverService: discoverService,
		ChatService:     chatService,
		ChatSocket:      wsHandler,
		Logger:          log,
		Config:          cfg,
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
