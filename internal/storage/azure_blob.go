package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AzureBlobStorage keeps portal documents in a single Azure Blob
// container. Blob names are opaque UUIDs prefixed by upload month, so
// client filenames never leak into storage paths.
type AzureBlobStorage struct {
	client    *azblob.Client
	container string
	logger    *zap.Logger
}

// NewAzureBlobStorage connects to the storage account and ensures the
// container exists.
func NewAzureBlobStorage(connectionString, container string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}

	_, err = client.CreateContainer(context.Background(), container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("create container %s: %w", container, err)
	}

	logger.Info("Azure Blob Storage ready", zap.String("container", container))

	return &AzureBlobStorage{
		client:    client,
		container: container,
		logger:    logger,
	}, nil
}

// Upload streams a document to blob storage and returns its storage
// path and size.
func (s *AzureBlobStorage) Upload(ctx context.Context, filename string, contentType string, data io.Reader) (string, int64, error) {
	blobName := path.Join(
		time.Now().UTC().Format("2006/01"),
		uuid.NewString()+filepath.Ext(filename),
	)

	counter := &byteCounter{r: data}
	_, err := s.client.UploadStream(ctx, s.container, blobName, counter, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("upload blob: %w", err)
	}

	s.logger.Info("document uploaded",
		zap.String("blob_name", blobName),
		zap.String("container", s.container),
		zap.String("content_type", contentType),
		zap.Int64("size", counter.n),
	)

	return blobName, counter.n, nil
}

// Download streams a stored document back to the caller.
func (s *AzureBlobStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, storagePath, nil)
	if err != nil {
		return nil, fmt.Errorf("download blob %s: %w", storagePath, err)
	}
	return resp.Body, nil
}

// Delete removes a stored document. A missing blob is not an error;
// deletes are retried by callers after partial failures.
func (s *AzureBlobStorage) Delete(ctx context.Context, storagePath string) error {
	_, err := s.client.DeleteBlob(ctx, s.container, storagePath, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil
		}
		return fmt.Errorf("delete blob %s: %w", storagePath, err)
	}

	s.logger.Info("document deleted",
		zap.String("blob_name", storagePath),
		zap.String("container", s.container),
	)
	return nil
}

// byteCounter counts bytes as the SDK drains the upload stream.
type byteCounter struct {
	r io.Reader
	n int64
}

func (c *byteCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
