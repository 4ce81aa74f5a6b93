package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noteshare/cmd/internal/config"
	"noteshare/cmd/internal/domain/policy"
	"noteshare/cmd/internal/domain/sqlite"
	"noteshare/cmd/internal/domain/sqlite/repository"
	"noteshare/cmd/internal/http/handler"
	"noteshare/cmd/internal/service"
	"noteshare/cmd/internal/utils"
	"noteshare/cmd/internal/utils/uid"
	"noteshare/cmd/internal/utils/validators"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [--addr host:port]",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.HTTPAddr = addr
			}
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address, overrides HTTP_ADDR")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	if !cfg.IsProduction() {
		log.SetLevel(log.DEBUG)
	}

	if err := uid.Init(cfg.NodeID); err != nil {
		return err
	}

	db, err := sqlite.Init(cfg.DatabasePath)
	if err != nil {
		return err
	}

	validate := validators.New()

	// Getting repos
	noteRepo := repository.NewNoteRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Getting services
	tokens := utils.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	noteService := service.NewNoteService(noteRepo, policy.NewNotePolicy(), validate, service.NewPagination(cfg.PageSize, cfg.MaxPageSize))
	userService := service.NewUserService(userRepo, validate, tokens)
	statsService := service.NewStatsService(noteRepo, userRepo)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.Level())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Warnf("%s %s %d %s: %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			log.Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	handler.RegisterRoutes(e, &handler.Routes{
		Notes: handler.NewNoteDefault(noteService),
		Users: handler.NewUserDefault(userService, statsService),
		Util:  handler.NewUtilRoute(statsService),
		Auth:  userService,
	})

	errs := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.HTTPAddr)
		errs <- e.Start(cfg.HTTPAddr)
	}()

	select {
	case err = <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
