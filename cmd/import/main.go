// Command import loads user records in bulk from a local JSON file or
// an object in the configured bucket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/userdir/userdir-server/internal/config"
	"github.com/userdir/userdir-server/internal/importer"
	"github.com/userdir/userdir-server/internal/logger"
	"github.com/userdir/userdir-server/internal/model"
	storage "github.com/userdir/userdir-server/internal/storage/minio"
	"github.com/userdir/userdir-server/internal/store/dynamo"
	"github.com/userdir/userdir-server/internal/store/memory"
	"github.com/userdir/userdir-server/internal/store/postgres"
)

func main() {
	file := flag.String("file", "", "path to a local JSON file with an array of users")
	object := flag.String("object", "", "object key in the configured bucket")
	flag.Parse()

	if (*file == "") == (*object == "") {
		log.Fatal("exactly one of -file or -object must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
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

	imp := importer.New(store, logger)

	var summary importer.Summary
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			logger.Fatal("failed to open import file", "error", err)
		}
		defer f.Close()

		summary, err = imp.Run(ctx, f)
		if err != nil {
			logger.Fatal("import failed", "error", err)
		}
	} else {
		storageClient, err := newStorage(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}

		summary, err = imp.RunObject(ctx, storageClient, *object)
		if err != nil {
			logger.Fatal("import failed", "error", err)
		}
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
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

func newStorage(ctx context.Context, cfg *config.Config) (model.Storage, error) {
	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
}
