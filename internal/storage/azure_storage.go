package storage

import (
	"context"
	"fmt"
	"image"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureImageFetcher serves screenshots captured into blob storage by an
// ingestion job, for installs where store CDNs are not reachable directly.
type AzureImageFetcher struct {
	client *azblob.Client
}

func NewAzureImageFetcher(accountName, accountKey string) (ImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &AzureImageFetcher{client: client}, nil
}

// FetchImage resolves a blob URL of the form
// https://<account>.blob.core.windows.net/<container>?blob=<name>
func (s *AzureImageFetcher) FetchImage(ctx context.Context, blobURL string) (image.Image, error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}
	if len(parsedURL.Path) < 2 {
		return nil, fmt.Errorf("blob URL missing container: %q", blobURL)
	}

	containerName := parsedURL.Path[1:]
	blobName := parsedURL.Query().Get("blob")
	if blobName == "" {
		return nil, fmt.Errorf("blob URL missing blob parameter: %q", blobURL)
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	img, _, err := image.Decode(retryReader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode blob image: %w", err)
	}
	return img, nil
}
