package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps the HTTP operations the downloader needs besides the
// transfers yt-dlp performs itself, which today is fetching cover-art
// images.
//
// Example usage:
//
//	client := NewClient()
//	art, err := client.DownloadBytes(ctx, thumbnailURL)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client for cover-art fetches.
//
// The client is configured with:
//   - 15 second timeout (cover images are small; a hung fetch must not
//     stall the tagging pipeline)
//   - "ytmp3-downloader" User-Agent header
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: "ytmp3-downloader",
	}
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails or times out
//   - The response status is not 200 OK
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Use this for small files like cover art images; audio transfers are
// the extraction engine's job.
//
// Example:
//
//	imageData, err := client.DownloadBytes(ctx, artworkURL)
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}
