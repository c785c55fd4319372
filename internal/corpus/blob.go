package corpus

//go:generate go tool mockgen -source=blob.go -destination=blob_mock_test.go -package=corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

const blobHostSuffix = ".blob.core.windows.net"

// blobDownloader is just an interface over the download call of [*azblob.Client]
type blobDownloader interface {
	// Download maps to [azblob.Client.DownloadStream]
	Download(ctx context.Context, container, blob string) (io.ReadCloser, error)
}

type azureBlobDownloader struct {
	inner *azblob.Client
}

func newAzureBlobDownloader(serviceURL string) (blobDownloader, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating Azure credential: %w", err)
	}
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client for %s: %w", serviceURL, err)
	}
	return &azureBlobDownloader{inner: client}, nil
}

func (d *azureBlobDownloader) Download(ctx context.Context, container, blob string) (io.ReadCloser, error) {
	resp, err := d.inner.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func isBlobURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && strings.HasSuffix(strings.ToLower(u.Hostname()), blobHostSuffix)
}

func (l *Loader) loadBlob(ctx context.Context, location string) (string, error) {
	parts, err := azblob.ParseURL(location)
	if err != nil {
		return "", fmt.Errorf("parsing blob URL %q: %w", location, err)
	}
	if parts.ContainerName == "" || parts.BlobName == "" {
		return "", fmt.Errorf("blob URL %q must name a container and a blob", location)
	}

	serviceURL := parts.Scheme + "://" + parts.Host + "/"
	downloader, err := l.newBlobDownloader(serviceURL)
	if err != nil {
		return "", err
	}

	body, err := downloader.Download(ctx, parts.ContainerName, parts.BlobName)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) {
			return "", fmt.Errorf("downloading %s/%s: %s (HTTP %d): %w",
				parts.ContainerName, parts.BlobName, respErr.ErrorCode, respErr.StatusCode, err)
		}
		return "", fmt.Errorf("downloading %s/%s: %w", parts.ContainerName, parts.BlobName, err)
	}
	defer body.Close() //nolint:errcheck

	return l.decode(body, parts.BlobName)
}
