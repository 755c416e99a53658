package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"port-customs-clearance/internal/catalog"
	"port-customs-clearance/internal/config"
	"port-customs-clearance/internal/domain"
	"port-customs-clearance/internal/events"
	"port-customs-clearance/internal/registry"
	"port-customs-clearance/internal/storage"
	"port-customs-clearance/internal/workflow"
)

// The event handler lets exporter tooling drop documents straight into the
// artifact bucket: each object-created notification becomes a
// SubmitExporterDocument call against the workflow.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("connect minio: %v", err)
	}

	store, err := storage.NewPostgresCargoStore(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer store.Close()

	cat := catalog.Default()
	var reg *registry.Registry
	if cfg.AgencyRosterPath != "" {
		reg, err = registry.LoadFile(cat, cfg.AgencyRosterPath)
		if err != nil {
			log.Fatalf("load agency roster: %v", err)
		}
	} else {
		reg = registry.Default(cat)
	}
	flow := workflow.NewOrchestrator(cat, reg, store)

	source := events.NewMinioUploadEventSource(minioClient, cfg.MinioBucket, "", "")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("event-handler listening for object-created events on bucket=%s", cfg.MinioBucket)
	err = source.Run(ctx, func(parent context.Context, event events.UploadEvent) error {
		submitCtx, cancel := context.WithTimeout(parent, 15*time.Second)
		defer cancel()

		_, submitErr := flow.SubmitExporterDocument(submitCtx, event.BookingID, event.CargoID, event.DocumentName, event.ObjectKey)
		if submitErr != nil {
			// A bad object key or unregistered cargo is an operator problem
			// with that one upload; keep listening.
			var validationErr *domain.ValidationError
			var notFoundErr *domain.NotFoundError
			if errors.As(submitErr, &validationErr) || errors.As(submitErr, &notFoundErr) {
				log.Printf("skipping object=%s: %v", event.ObjectKey, submitErr)
				return nil
			}
			return submitErr
		}

		log.Printf("submitted document=%s booking=%s cargo=%s object=%s", event.DocumentName, event.BookingID, event.CargoID, event.ObjectKey)
		return nil
	})
	if err != nil {
		log.Fatalf("event-handler stopped with error: %v", err)
	}
}
