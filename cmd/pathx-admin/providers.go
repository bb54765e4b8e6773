package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Jannatul-Ferdauss/PathX-sub001/common/cache"
	"github.com/Jannatul-Ferdauss/PathX-sub001/common/cache/redis"
	"github.com/Jannatul-Ferdauss/PathX-sub001/common/database"
	"github.com/Jannatul-Ferdauss/PathX-sub001/common/telemetry"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/audit"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/config"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/events"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/roles"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/seeding"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/session"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store/firestore"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store/memstore"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store/mongo"
)

const (
	serviceName    = "pathx-admin"
	serviceVersion = "0.1.0"
	connectTimeout = 15 * time.Second
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogLevel == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func registerTelemetry(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) error {
	shutdown, err := telemetry.InitTracer(context.Background(), serviceName, serviceVersion, cfg.OTELCollectorURL)
	if err != nil {
		return err
	}
	if cfg.OTELCollectorURL != "" {
		logger.Info("tracing enabled", zap.String("collector", cfg.OTELCollectorURL))
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			shutdown()
			return nil
		},
	})
	return nil
}

func newStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (store.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var (
		st  store.Client
		err error
	)
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		st, err = firestore.New(ctx, firestore.Options{
			ProjectID:       cfg.FirestoreProjectID,
			CredentialsFile: cfg.FirestoreCredentialsFile,
		}, logger)
	case config.BackendMongo:
		st, err = mongo.New(ctx, mongo.Options{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			ConnectTimeout: connectTimeout,
		}, logger)
	case config.BackendMemory:
		logger.Warn("using the in-memory store, nothing will be persisted")
		st = memstore.New()
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return st.Close()
		},
	})
	return st, nil
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	pub, err := events.NewPublisher(events.Options{
		URL:          cfg.NATSURL,
		ConnTimeout:  cfg.NATSConnTimeout,
		FlushTimeout: cfg.NATSFlushTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pub.Close()
			return nil
		},
	})
	return pub, nil
}

func newClickHouse(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*database.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := database.New(ctx, database.Options{
		DSN:             cfg.ClickHouseDSN,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	}, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

func newAuditRecorder(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (audit.Recorder, error) {
	if cfg.ClickHouseDSN == "" {
		logger.Info("CLICKHOUSE_DSN not set, audit log disabled")
		return audit.Nop{}, nil
	}
	db, err := newClickHouse(lc, cfg, logger)
	if err != nil {
		return nil, err
	}
	return audit.NewClickHouseRecorder(db.Conn(), logger), nil
}

func newSessionProvider(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (session.Provider, error) {
	switch cfg.SessionBackend {
	case config.SessionJWT:
		return session.NewJWTProvider(cfg.SessionSecret, cfg.SessionToken)
	case config.SessionRedis:
		c := redis.New(cache.Options{
			DefaultTTL:    cfg.SessionTTL,
			RedisURL:      cfg.RedisAddr,
			RedisPassword: cfg.RedisPassword,
			RedisDB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
		logger.Info("session store connected", zap.String("addr", cfg.RedisAddr))
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return c.Close()
			},
		})
		return session.NewCacheProvider(c, cfg.SessionToken, cfg.SessionTTL), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}
}

func newSeedingService(st store.Client, pub events.Publisher, rec audit.Recorder, cfg *config.Config, logger *zap.Logger) *seeding.Service {
	return seeding.NewService(st, pub, rec, seeding.Options{
		JobsCollection:    cfg.JobsCollection,
		AtomicBatch:       cfg.SeedAtomicBatch,
		CompensatePartial: cfg.SeedCompensatePartial,
	}, logger)
}

func newPromoter(st store.Client, sessions session.Provider, pub events.Publisher, rec audit.Recorder, cfg *config.Config, logger *zap.Logger) *roles.Promoter {
	allow := roles.NewAllowList(cfg.AdminAllowedEmails, cfg.AdminAllowedIDs)
	if allow.Empty() {
		logger.Warn("admin allow-list is empty, promote will refuse every operator")
	}
	return roles.NewPromoter(st, sessions, pub, rec, roles.Options{
		UsersCollection: cfg.UsersCollection,
		AllowList:       allow,
	}, logger)
}
