package app

import (
	"context"
	"net/http"

	"pet-custody-go/internal/config"
	"pet-custody-go/internal/db"
	invitationdomain "pet-custody-go/internal/domain/invitation"
	petdomain "pet-custody-go/internal/domain/pet"
	placementdomain "pet-custody-go/internal/domain/placement"
	relationshipdomain "pet-custody-go/internal/domain/relationship"
	responsedomain "pet-custody-go/internal/domain/response"
	transferdomain "pet-custody-go/internal/domain/transfer"
	"pet-custody-go/internal/events"
	invitationrepo "pet-custody-go/internal/repository/postgres/invitation"
	petrepo "pet-custody-go/internal/repository/postgres/pet"
	placementrepo "pet-custody-go/internal/repository/postgres/placement"
	relationshiprepo "pet-custody-go/internal/repository/postgres/relationship"
	responserepo "pet-custody-go/internal/repository/postgres/response"
	transferrepo "pet-custody-go/internal/repository/postgres/transfer"
	"pet-custody-go/internal/repository/rediscache"
	"pet-custody-go/internal/sweep"
	"pet-custody-go/internal/transport/httpserver"
	"pet-custody-go/internal/transport/httpserver/handler"
	"pet-custody-go/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
	stopSweep  context.CancelFunc
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	var publisher events.Publisher = events.NewLogPublisher(log)
	var relCache relationshipdomain.Cache
	if cfg.Redis.Enabled {
		log.Info("app: initializing redis", "addr", cfg.Redis.Addr)
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		publisher = events.NewRedisPublisher(redisClient, cfg.Redis.EventChannel, log)
		relCache = rediscache.NewRelationshipCache(redisClient, log)
	}

	relationships := relationshipdomain.NewService(
		relationshiprepo.NewPostgres(dbConn), relCache, cfg.Cache.RelationshipTTL, publisher)
	pets := petdomain.NewService(petrepo.NewPostgres(dbConn), relationships)
	invitations := invitationdomain.NewService(
		invitationrepo.NewPostgres(dbConn), relationships,
		invitationdomain.NewTokenSigner(cfg.Invites.TokenSecret), publisher,
		cfg.Invites.DefaultTTL, cfg.Invites.MaxTTL)
	placements := placementdomain.NewService(
		placementrepo.NewPostgres(dbConn), relationships, publisher)
	transfers := transferdomain.NewService(
		transferrepo.NewPostgres(dbConn), relationships, placements, publisher,
		cfg.Transfer.RequestTTL)
	responses := responsedomain.NewService(
		responserepo.NewPostgres(dbConn), placements, transfers, publisher)

	sweeper := sweep.New(invitations, placements, transfers, log)

	log.Info("app: initializing router")
	handlers := handler.New(pets, relationships, invitations, placements, responses, transfers, sweeper, log)
	router := httpserver.NewRouter(cfg, handlers, log)
	srv := httpserver.New(cfg, router)

	application := &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		db:         dbConn,
		redis:      redisClient,
	}

	if cfg.Sweep.Enabled {
		sweepCtx, cancel := context.WithCancel(context.Background())
		application.stopSweep = cancel
		log.Info("app: starting sweep loop", "interval", cfg.Sweep.Interval)
		go sweeper.Run(sweepCtx, cfg.Sweep.Interval)
	}

	return application, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.stopSweep != nil {
		a.stopSweep()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("app: redis close failed", "err", err)
		}
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
