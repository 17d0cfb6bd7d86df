package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	grpcRouter "github.com/dtroode/ipgeo-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/ipgeo-server/internal/api/grpc/server"
	httpctx "github.com/dtroode/ipgeo-server/internal/api/http/context"
	httpRouter "github.com/dtroode/ipgeo-server/internal/api/http/router"
	httpServer "github.com/dtroode/ipgeo-server/internal/api/http/server"
	"github.com/dtroode/ipgeo-server/internal/config"
	"github.com/dtroode/ipgeo-server/internal/geo/ipinfo"
	"github.com/dtroode/ipgeo-server/internal/logger"
	"github.com/dtroode/ipgeo-server/internal/model"
	"github.com/dtroode/ipgeo-server/internal/password"
	"github.com/dtroode/ipgeo-server/internal/repository"
	"github.com/dtroode/ipgeo-server/internal/server"
	"github.com/dtroode/ipgeo-server/internal/service"
	storage "github.com/dtroode/ipgeo-server/internal/storage/minio"
	"github.com/dtroode/ipgeo-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithFormat(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	logAppVersion()

	stores, err := repository.Open(ctx, cfg.Store)
	if err != nil {
		logger.Fatal("failed to initialize storage", "driver", cfg.Store.Driver, "error", err)
	}
	defer stores.Close()

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	tokenService := service.NewTokenService(tokenManager, logger)
	authService := service.NewAuth(stores.Users, password.NewBcrypt(cfg.Bcrypt.Cost), tokenService, cfg.Store.Timeout, logger)
	historyService := service.NewHistory(stores.History, cfg.Store.Timeout, logger)
	geoService := service.NewGeo(ipinfo.NewClient(cfg.Geo.BaseURL, cfg.Geo.Token, cfg.Geo.Timeout), logger)

	if cfg.Seed.Email != "" {
		if _, err := authService.EnsureUser(ctx, cfg.Seed.Email, cfg.Seed.Password, cfg.Seed.Name); err != nil {
			logger.Fatal("failed to seed user", "email", cfg.Seed.Email, "error", err)
		}
	}

	router := httpRouter.New(
		authService,
		historyService,
		geoService,
		tokenService,
		httpctx.NewManager(),
		httpRouter.Options{
			CORSOrigin: cfg.HTTP.CORSOrigin,
			LoginRPS:   cfg.RateLimit.LoginRPS,
			LoginBurst: cfg.RateLimit.LoginBurst,
		},
		logger,
	)

	if cfg.Storage.Enabled {
		storageClient, err := storage.Connect(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		router.WithExport(service.NewExport(historyService, storageClient, logger))
	}

	servers := []model.Server{
		httpServer.NewHTTPServer(router.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout),
	}

	var health *grpcRouter.Router
	if cfg.GRPC.Enabled {
		health = grpcRouter.New(logger)
		servers = append(servers, grpcServer.NewGRPCServer(health.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port)))
	}

	sl := server.NewReadyListener(
		server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName),
		len(servers),
		func() {
			logger.Info("all listeners bound")
			if health != nil {
				health.SetServing(true)
			}
		},
	)

	g, gCtx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			l := logger.With("server", s.Name(), "address", s.Address())
			l.Info("Starting server on")
			if err := s.Start(sl); err != nil {
				l.Error("server failed", "error", err)
				return fmt.Errorf("%s server: %w", s.Name(), err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")

		if health != nil {
			health.SetServing(false)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, s := range servers {
			if err := s.Stop(shutdownCtx); err != nil {
				logger.Error("error during server shutdown", "server", s.Name(), "address", s.Address(), "error", err)
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
	}
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
