package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioArtifactStore holds uploaded document artifacts. The workflow core
// only ever sees the object key it returns, never raw bytes.
type MinioArtifactStore struct {
	client *minio.Client
	bucket string
}

func NewMinioArtifactStore(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (*MinioArtifactStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &MinioArtifactStore{client: client, bucket: bucket}, nil
}

// PutArtifact stores one uploaded document and returns its object key,
// laid out as bookingID/cargoID/documentName/filename.
func (m *MinioArtifactStore) PutArtifact(ctx context.Context, bookingID, cargoID, documentName, filename string, content []byte) (string, error) {
	objectKey := path.Join(bookingID, cargoID, documentName, filename)
	_, err := m.client.PutObject(ctx, m.bucket, objectKey, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

// GetArtifact fetches a stored artifact by object key.
func (m *MinioArtifactStore) GetArtifact(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data := new(bytes.Buffer)
	if _, err := data.ReadFrom(obj); err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data.Bytes(), nil
}
