package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	"docedit/internal/config"
)

// azureStorage implements Storage on Azure Blob Storage using
// connection-string authentication. Safe for concurrent use.
type azureStorage struct {
	client    *azblob.Client
	container string
	timeout   time.Duration
}

// NewAzure creates an Azure Blob Storage client and ensures the container
// exists. Missing connection string or container name is a configuration
// error reported before any network call.
func NewAzure(cfg config.AzureBlobConfig, timeout time.Duration) (Storage, error) {
	if cfg.ConnectionString == "" {
		return nil, fmt.Errorf("%w: AZURE_STORAGE_CONNECTION_STRING is empty", ErrNotConfigured)
	}
	if cfg.ContainerName == "" {
		return nil, fmt.Errorf("%w: AZURE_CONTAINER_NAME is empty", ErrNotConfigured)
	}

	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid connection string: %v", ErrNotConfigured, err)
	}

	as := &azureStorage{client: client, container: cfg.ContainerName, timeout: timeout}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if _, err := client.CreateContainer(ctx, cfg.ContainerName, nil); err != nil {
		if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil, fmt.Errorf("ensure container: %w", err)
		}
	}

	return as, nil
}

func (a *azureStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	opts := &azblob.UploadStreamOptions{}
	if opt.ContentType != "" {
		ct := opt.ContentType
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &ct}
	}
	if len(opt.Metadata) > 0 {
		meta := make(map[string]*string, len(opt.Metadata))
		for k, v := range opt.Metadata {
			v := v
			meta[k] = &v
		}
		opts.Metadata = meta
	}

	if _, err := a.client.UploadStream(ctx, a.container, key, r, opts); err != nil {
		return ObjectInfo{}, fmt.Errorf("upload blob %q: %w", key, err)
	}

	return ObjectInfo{
		Key:          key,
		Size:         opt.Size,
		ContentType:  opt.ContentType,
		LastModified: time.Now().UTC(),
		Metadata:     opt.Metadata,
	}, nil
}

// Get downloads the blob in full within the call timeout. The returned reader
// is backed by memory, so it stays readable after the timeout context is
// released.
func (a *azureStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ObjectInfo{}, fmt.Errorf("blob %q: %w", key, ErrNotFound)
		}
		return nil, ObjectInfo{}, fmt.Errorf("download blob %q: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("read blob %q: %w", key, err)
	}

	info := ObjectInfo{Key: key}
	if resp.ContentLength != nil {
		info.Size = *resp.ContentLength
	}
	if resp.ContentType != nil {
		info.ContentType = *resp.ContentType
	}
	if resp.LastModified != nil {
		info.LastModified = *resp.LastModified
	}
	if resp.ETag != nil {
		info.ETag = string(*resp.ETag)
	}

	return io.NopCloser(bytes.NewReader(data)), info, nil
}

// PresignGet issues a read-only SAS URL. Connection strings carry the shared
// key SAS signing needs; other credential types surface as
// ErrPresignNotSupported.
func (a *azureStorage) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	blobClient := a.client.ServiceClient().NewContainerClient(a.container).NewBlobClient(key)
	u, err := blobClient.GetSASURL(sas.BlobPermissions{Read: true}, time.Now().UTC().Add(expiry), nil)
	if err != nil {
		return "", fmt.Errorf("presign blob %q: %w: %v", key, ErrPresignNotSupported, err)
	}
	return u, nil
}

func (a *azureStorage) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if _, err := a.client.DeleteBlob(ctx, a.container, key, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return fmt.Errorf("blob %q: %w", key, ErrNotFound)
		}
		return fmt.Errorf("delete blob %q: %w", key, err)
	}
	return nil
}

func (a *azureStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var out []ObjectInfo
	pager := a.client.NewListBlobsFlatPager(a.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list blobs: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			info := ObjectInfo{Key: *item.Name}
			if p := item.Properties; p != nil {
				if p.ContentLength != nil {
					info.Size = *p.ContentLength
				}
				if p.ContentType != nil {
					info.ContentType = *p.ContentType
				}
				if p.LastModified != nil {
					info.LastModified = *p.LastModified
				}
			}
			out = append(out, info)
		}
	}
	return out, nil
}
