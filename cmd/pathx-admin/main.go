package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Jannatul-Ferdauss/PathX-sub001/common/database"
	"github.com/Jannatul-Ferdauss/PathX-sub001/common/database/schema"
	"github.com/Jannatul-Ferdauss/PathX-sub001/common/database/schema/migrations"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/admin"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/config"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/roles"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/scheduler"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/seeding"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd, err := parseCommand(args, os.Stderr)
	if err != nil {
		return exitUsage
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return exitFailure
	}
	if cmd.token != "" {
		cfg.SessionToken = cmd.token
	}

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newStore,
			newPublisher,
			newAuditRecorder,
			newSessionProvider,
			newSeedingService,
			newPromoter,
			admin.NewHandler,
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: logger.Named("fx")}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Invoke(registerTelemetry),
		commandModule(cmd),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Printf("pathx-admin %s: %v", cmd.name, err)
		return exitFailure
	}

	sig := <-app.Wait()

	if err := app.Stop(context.Background()); err != nil {
		log.Printf("pathx-admin %s: shutdown: %v", cmd.name, err)
	}
	return sig.ExitCode
}

func commandModule(cmd command) fx.Option {
	switch cmd.name {
	case "seed":
		return fx.Invoke(func(lc fx.Lifecycle, sd fx.Shutdowner, cfg *config.Config, svc *seeding.Service, logger *zap.Logger) {
			runOnce(lc, sd, cfg, func(ctx context.Context) error {
				res, err := svc.Seed(ctx, seeding.SeedOptions{
					ClearFirst: cmd.clearFirst,
					Clear:      seeding.ClearOptions{Scope: cmd.scope, Confirmed: cmd.confirm},
					Actor:      "cli",
				})
				if len(res.CleanupLog) > 0 {
					logger.Warn("partial seed left documents behind",
						zap.Int("documents", len(res.CleanupLog)),
						zap.String("run_id", res.RunID))
				}
				printJSON(os.Stdout, res)
				return err
			})
		})
	case "clear":
		return fx.Invoke(func(lc fx.Lifecycle, sd fx.Shutdowner, cfg *config.Config, svc *seeding.Service) {
			runOnce(lc, sd, cfg, func(ctx context.Context) error {
				res, err := svc.Clear(ctx, seeding.ClearOptions{Scope: cmd.scope, Confirmed: cmd.confirm, Actor: "cli"})
				printJSON(os.Stdout, map[string]any{
					"success": err == nil,
					"count":   res.Deleted,
					"error":   seeding.Message(err),
				})
				return err
			})
		})
	case "promote":
		return fx.Invoke(func(lc fx.Lifecycle, sd fx.Shutdowner, cfg *config.Config, p *roles.Promoter) {
			runOnce(lc, sd, cfg, func(ctx context.Context) error {
				res, err := p.PromoteCurrentUser(ctx)
				if err == nil {
					printJSON(os.Stdout, res)
				}
				return err
			})
		})
	case "migrate":
		return fx.Invoke(func(lc fx.Lifecycle, sd fx.Shutdowner, cfg *config.Config, logger *zap.Logger) {
			runOnce(lc, sd, cfg, func(ctx context.Context) error {
				return migrate(ctx, cfg, cmd.down, logger)
			})
		})
	default:
		return fx.Invoke(registerServer)
	}
}

// runOnce runs fn after the app has started and shuts the app down with an
// exit code reflecting fn's outcome.
func runOnce(lc fx.Lifecycle, sd fx.Shutdowner, cfg *config.Config, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.OperationTimeout)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := exitOK
				if err := fn(ctx); err != nil {
					fmt.Fprintf(os.Stderr, "error: %s\n", seeding.Message(err))
					code = exitFailure
				}
				if err := sd.Shutdown(fx.ExitCode(code)); err != nil {
					fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func migrate(ctx context.Context, cfg *config.Config, down bool, logger *zap.Logger) error {
	if cfg.ClickHouseDSN == "" {
		return errors.New("CLICKHOUSE_DSN is required for migrate")
	}
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
		return err
	}
	defer db.Close()

	migrator := schema.NewMigrator(db.Conn(), logger)
	if down {
		_, err = migrator.RollbackLatest(ctx, migrations.All)
		return err
	}
	_, err = migrator.Migrate(ctx, migrations.All)
	return err
}

func registerServer(lc fx.Lifecycle, cfg *config.Config, h *admin.Handler, svc *seeding.Service, logger *zap.Logger) error {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h.Router(cfg.CORSAllowedOrigins),
	}

	var reset *scheduler.DemoReset
	if cfg.DemoResetSchedule != "" {
		reset = scheduler.NewDemoReset(svc, cfg.DemoResetSchedule, logger)
	}
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				cancel()
				return fmt.Errorf("listen on %s: %w", srv.Addr, err)
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("admin server stopped", zap.Error(err))
				}
			}()
			logger.Info("admin server listening", zap.String("addr", srv.Addr))

			if reset != nil {
				return reset.Start(runCtx)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if reset != nil {
				reset.Stop()
			}
			cancel()
			return srv.Shutdown(ctx)
		},
	})
	return nil
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
