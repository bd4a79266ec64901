package app

import (
	"context"
	"database/sql"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargebook/internal/audit"
	"chargebook/internal/clients"
	"chargebook/internal/config"
	httpserver "chargebook/internal/http"
	"chargebook/internal/http/handlers"
	"chargebook/internal/http/middleware"
	"chargebook/internal/live"
	"chargebook/internal/service"
	"chargebook/internal/session"
	libdb "chargebook/libs/db"
	libredis "chargebook/libs/redis"
)

// App wires the dashboard gateway dependency graph.
type App struct {
	server *httpserver.Server
	poller *live.Poller
	redis  *goredis.Client
	db     *sql.DB
	logger *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	redisClient, err := libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewStore(redisClient, cfg.Session.SealKey, cfg.Session.TTL)
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	var auditor audit.Recorder = audit.Nop{}
	var auditDB *sql.DB
	if cfg.Audit.PostgresDSN != "" {
		auditDB, err = libdb.NewPostgresDB(cfg.Audit.PostgresDSN)
		if err != nil {
			redisClient.Close()
			return nil, err
		}
		repo := audit.NewRepository(auditDB)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			auditDB.Close()
			redisClient.Close()
			return nil, err
		}
		auditor = repo
	} else {
		logger.Warn("audit database not configured, mutations will not be recorded")
	}

	base := clients.NewBaseClient(cfg.Backend.BaseURL, clients.NewDefaultHTTPClient(cfg.Backend.Timeout))
	authClient := clients.NewAuthClient(base)
	usersClient := clients.NewUsersClient(base)
	ownersClient := clients.NewOwnersClient(base)
	stationsClient := clients.NewStationsClient(base)
	bookingsClient := clients.NewBookingsClient(base)

	authSvc := service.NewAuthService(authClient, usersClient, ownersClient, sessions, logger)
	usersSvc := service.NewUsersService(usersClient, auditor, logger)
	ownersSvc := service.NewOwnersService(ownersClient, auditor, logger)
	stationsSvc := service.NewStationsService(stationsClient, auditor, logger)
	bookingsSvc := service.NewBookingsService(bookingsClient, auditor, logger)
	dashboardSvc := service.NewDashboardService(usersClient, ownersClient, stationsClient, bookingsClient, logger)

	responder := handlers.NewResponder(sessions, logger, cfg.HTTP.SecureCookies)
	manager := live.NewManager()
	poller := live.NewPoller(stationsClient, manager, cfg.Backend.ServiceToken, cfg.Live.PollInterval, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Auth:      handlers.NewAuthHandlers(authSvc, responder, logger, cfg.Session.TTL, cfg.HTTP.SecureCookies),
		Users:     handlers.NewUsersHandlers(usersSvc, responder),
		Owners:    handlers.NewOwnersHandlers(ownersSvc, responder),
		Stations:  handlers.NewStationsHandlers(stationsSvc, responder),
		Bookings:  handlers.NewBookingsHandlers(bookingsSvc, responder),
		Dashboard: handlers.NewDashboardHandlers(dashboardSvc, responder),
		Audit:     handlers.NewAuditHandlers(auditor, responder),
		Live:      live.NewHandler(manager, logger),
		Health:    handlers.NewHealthHandler(),
		Sessions:  sessions,
	})

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		cfg.HTTP.CORSOrigins,
		logger,
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
	)

	return &App{
		server: server,
		poller: poller,
		redis:  redisClient,
		db:     auditDB,
		logger: logger,
	}, nil
}

// Run serves HTTP traffic and the availability poller until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	go a.poller.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases connections.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("closing audit db", zap.Error(err))
		}
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("closing redis", zap.Error(err))
	}
}
