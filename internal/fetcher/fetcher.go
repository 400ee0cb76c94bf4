package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bnema/scriptlet-converter/internal/logging"
	"github.com/bnema/scriptlet-converter/internal/models"
)

const userAgent = "scriptlet-converter/1.0"

// ErrNoSource is returned for a list with neither a path nor a URL
var ErrNoSource = errors.New("filter list has no path or url")

// Fetcher reads filter lists from disk or over HTTP
type Fetcher struct {
	client  *http.Client
	retries int
	backoff time.Duration
}

// New creates a new fetcher from config
func New(cfg models.HTTPConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retries := cfg.Retries
	if retries == 0 {
		retries = 3
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		retries: retries,
		backoff: time.Second,
	}
}

// Fetch returns the content of a filter list. A local path takes precedence
// over the URL.
func (f *Fetcher) Fetch(ctx context.Context, list models.FilterList) ([]byte, error) {
	switch {
	case list.Path != "":
		data, err := os.ReadFile(list.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", list.Path, err)
		}
		return data, nil
	case list.URL != "":
		return f.FetchURL(ctx, list.URL)
	}
	return nil, fmt.Errorf("%s: %w", list.Name, ErrNoSource)
}

// FetchURL downloads content from a URL with retries
func (f *Fetcher) FetchURL(ctx context.Context, url string) ([]byte, error) {
	logger := logging.FromContext(ctx)
	var lastErr error

	for i := 0; i < f.retries; i++ {
		if i > 0 {
			// Linear backoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(i) * f.backoff):
			}
		}

		data, err := f.doFetch(ctx, url)
		if err == nil {
			logger.Debug().Str("url", url).Int("bytes", len(data)).Msg("fetched")
			return data, nil
		}
		lastErr = err
		logger.Warn().Err(err).Str("url", url).Int("attempt", i+1).Msg("fetch failed")
	}

	return nil, fmt.Errorf("failed after %d retries: %w", f.retries, lastErr)
}

func (f *Fetcher) doFetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
