package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/userdir/userdir-server/internal/api/http/middleware"
	"github.com/userdir/userdir-server/internal/api/http/router"
	httpServer "github.com/userdir/userdir-server/internal/api/http/server"
	"github.com/userdir/userdir-server/internal/auth"
	"github.com/userdir/userdir-server/internal/config"
	"github.com/userdir/userdir-server/internal/logger"
	"github.com/userdir/userdir-server/internal/model"
	"github.com/userdir/userdir-server/internal/server"
	"github.com/userdir/userdir-server/internal/service"
	"github.com/userdir/userdir-server/internal/store/dynamo"
	"github.com/userdir/userdir-server/internal/store/memory"
	"github.com/userdir/userdir-server/internal/store/postgres"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize store", "error", err)
	}
	if closeStore != nil {
		defer closeStore()
	}
	logger.Info("store initialized", "driver", cfg.Store.Driver)

	authorizer, closeAuthorizer := newAuthorizer(cfg, logger.WithComponent("auth"))
	defer closeAuthorizer()

	userService := service.NewUser(store, cfg.Store.Index, logger)

	r := router.New(userService, authorizer, logger)
	app := r.Register()
	srv := httpServer.NewHTTPServer(app, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newStore(ctx context.Context, cfg *config.Config) (model.Store, func() error, error) {
	switch cfg.Store.Driver {
	case "dynamo":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Store.Region))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		var opts []func(*dynamodb.Options)
		if cfg.Store.Endpoint != "" {
			opts = append(opts, func(o *dynamodb.Options) {
				o.BaseEndpoint = aws.String(cfg.Store.Endpoint)
			})
		}
		client := dynamodb.NewFromConfig(awsCfg, opts...)
		return dynamo.New(client, cfg.Store.Table), nil, nil
	case "postgres":
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewStore(db), db.Close, nil
	case "memory":
		return memory.New(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// allowAll grants every request. Used when no JWKS URL is configured,
// for local development only.
type allowAll struct{}

func (allowAll) Authorize(_ context.Context, _ string) bool { return true }

func newAuthorizer(cfg *config.Config, logger *logger.Logger) (middleware.Authorizer, func()) {
	if cfg.Auth.JWKSURL == "" {
		logger.Warn("JWKS URL not configured, authorization disabled")
		return allowAll{}, func() {}
	}

	keys := auth.NewKeySet(auth.KeySetConfig{
		URL:               cfg.Auth.JWKSURL,
		RefreshInterval:   cfg.Auth.RefreshInterval,
		RefreshTimeout:    cfg.Auth.RefreshTimeout,
		RefreshUnknownKID: cfg.Auth.RefreshUnknownKID,
	}, logger)

	return auth.NewAuthorizer(keys, cfg.Auth.Issuer, logger), keys.Close
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
