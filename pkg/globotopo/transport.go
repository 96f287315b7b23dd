package globotopo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/rs/zerolog"
)

// Transport retrieves remote resources into local files.
type Transport interface {
	// List returns the plain file names in the remote directory.
	List(ctx context.Context, dir *url.URL) ([]string, error)
	// Retrieve downloads src into the local file dst, overwriting it,
	// and returns the number of bytes written.
	Retrieve(ctx context.Context, src *url.URL, dst string) (int64, error)
}

type httpTransport struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

func newHTTPTransport(userAgent string, logger zerolog.Logger) *httpTransport {
	return &httpTransport{
		client: &http.Client{
			Transport: &http.Transport{},
		},
		userAgent: userAgent,
		logger:    logger,
	}
}

// List is not available over http, there is no directory surface
func (t *httpTransport) List(ctx context.Context, dir *url.URL) ([]string, error) {
	return nil, fmt.Errorf("directory listing not supported over %s", dir.Scheme)
}

func (t *httpTransport) Retrieve(ctx context.Context, src *url.URL, dst string) (int64, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", src.String(), nil)
	if err != nil {
		t.logger.Warn().Err(err).Str("url", src.String()).Msg("Create Request")
		return 0, err
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn().Err(err).Str("url", src.String()).Msg("Fetch")
		return 0, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.logger.Error().Err(err).Str("url", src.String()).Msg("Read data")
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		t.logger.Warn().Str("url", src.String()).Int("status", resp.StatusCode).Msg("Status")
		return 0, fmt.Errorf("fetch %s: status %d", src.String(), resp.StatusCode)
	}
	if err := os.WriteFile(dst, body, 0644); err != nil {
		t.logger.Error().Err(err).Str("path", dst).Msg("Write data")
		return 0, err
	}
	return int64(len(body)), nil
}
