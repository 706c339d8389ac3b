package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AzureBlobStorage stores shared files as blobs in a single container
type AzureBlobStorage struct {
	client    *azblob.Client
	container string
	logger    *zap.Logger
}

// NewAzureBlobStorage creates the blob client and ensures the container
// exists.
func NewAzureBlobStorage(connectionString, container string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	_, err = client.CreateContainer(context.Background(), container, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	logger.Info("azure blob storage initialized", zap.String("container", container))

	return &AzureBlobStorage{
		client:    client,
		container: container,
		logger:    logger,
	}, nil
}

// countingReader tracks the number of bytes read so the blob size can be
// reported without buffering the upload.
type countingReader struct {
	r     io.Reader
	count int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.count += int64(n)
	return n, err
}

// Upload streams the data into a new blob named by a fresh UUID plus the
// original file extension.
func (s *AzureBlobStorage) Upload(ctx context.Context, filename string, contentType string, data io.Reader) (string, int64, error) {
	blobName := uuid.New().String() + filepath.Ext(filename)

	reader := &countingReader{r: data}
	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}

	if _, err := s.client.UploadStream(ctx, s.container, blobName, reader, opts); err != nil {
		return "", 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Debug("uploaded blob",
		zap.String("blob", blobName),
		zap.Int64("size", reader.count),
	)

	return blobName, reader.count, nil
}

// Download opens a stream over the blob at the given storage path
func (s *AzureBlobStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, storagePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	return resp.Body, nil
}

// Delete removes the blob at the given storage path. Deleting a missing
// blob is not an error.
func (s *AzureBlobStorage) Delete(ctx context.Context, storagePath string) error {
	if _, err := s.client.DeleteBlob(ctx, s.container, storagePath, nil); err != nil {
		if strings.Contains(err.Error(), "BlobNotFound") {
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}
