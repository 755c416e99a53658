package events

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
)

const objectCreatedEvent = "s3:ObjectCreated:*"

// UploadEvent describes one exporter document dropped into the artifact
// bucket. Object keys follow booking_id/cargo_id/document_name/filename.
type UploadEvent struct {
	BookingID    string
	CargoID      string
	DocumentName string
	Filename     string
	ObjectKey    string
	EventName    string
}

type UploadEventSource interface {
	Run(ctx context.Context, handler func(context.Context, UploadEvent) error) error
}

type MinioUploadEventSource struct {
	client *minio.Client
	bucket string
	prefix string
	suffix string
}

func NewMinioUploadEventSource(client *minio.Client, bucket string, prefix string, suffix string) *MinioUploadEventSource {
	return &MinioUploadEventSource{
		client: client,
		bucket: bucket,
		prefix: prefix,
		suffix: suffix,
	}
}

func (s *MinioUploadEventSource) Run(ctx context.Context, handler func(context.Context, UploadEvent) error) error {
	notificationCh := s.client.ListenBucketNotification(ctx, s.bucket, s.prefix, s.suffix, []string{objectCreatedEvent})
	for {
		select {
		case <-ctx.Done():
			return nil
		case info, ok := <-notificationCh:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("minio notification stream closed")
			}
			if info.Err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("minio notification stream error: %w", info.Err)
			}
			for _, record := range info.Records {
				objectKey, err := decodeObjectKey(record.S3.Object.Key)
				if err != nil {
					continue
				}
				event, err := parseObjectKey(objectKey)
				if err != nil {
					continue
				}
				event.EventName = record.EventName
				if err := handler(ctx, event); err != nil {
					return err
				}
			}
		}
	}
}

func decodeObjectKey(encoded string) (string, error) {
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		return "", err
	}
	decoded = strings.TrimSpace(decoded)
	if decoded == "" {
		return "", fmt.Errorf("object key is empty")
	}
	return decoded, nil
}

func parseObjectKey(objectKey string) (UploadEvent, error) {
	cleaned := strings.Trim(strings.ReplaceAll(objectKey, "\\", "/"), "/")
	parts := strings.SplitN(cleaned, "/", 4)
	if len(parts) != 4 {
		return UploadEvent{}, fmt.Errorf("object key %q does not match booking_id/cargo_id/document_name/filename", objectKey)
	}
	event := UploadEvent{
		BookingID:    strings.TrimSpace(parts[0]),
		CargoID:      strings.TrimSpace(parts[1]),
		DocumentName: strings.TrimSpace(parts[2]),
		Filename:     strings.TrimSpace(parts[3]),
		ObjectKey:    objectKey,
	}
	if event.BookingID == "" || event.CargoID == "" || event.DocumentName == "" || event.Filename == "" {
		return UploadEvent{}, fmt.Errorf("object key %q has empty path segments", objectKey)
	}
	return event, nil
}
