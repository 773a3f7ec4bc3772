package feeds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/angelmondragon/supplyhub-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/angelmondragon/supplyhub-backend/pkg/logger"
)

var errFeedTooLarge = errors.New("feed exceeds size limit")

// Fetcher downloads feed documents with bounded time, size and retries.
type Fetcher struct {
	client *http.Client
	cfg    config.FeedConfig
	logg   *logger.Logger
}

func NewFetcher(cfg config.FeedConfig, logg *logger.Logger) *Fetcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 250 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10 << 20
	}
	return &Fetcher{
		client: &http.Client{Timeout: cfg.FetchTimeout},
		cfg:    cfg,
		logg:   logg,
	}
}

// Fetch returns the response body of url. Transport errors, 429 and 5xx are retried.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	backoff := retry.NewExponential(f.cfg.InitialBackoff)
	backoff = retry.WithCappedDuration(f.cfg.MaxBackoff, backoff)
	backoff = retry.WithMaxRetries(uint64(f.cfg.MaxAttempts-1), backoff)

	var body []byte
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		data, err := f.fetchOnce(ctx, url)
		if err != nil {
			if f.logg != nil {
				logCtx := f.logg.WithFields(ctx, map[string]any{
					"feed_url": url,
					"attempt":  attempt,
				})
				f.logg.Warn(logCtx, fmt.Sprintf("feed fetch attempt failed: %v", err))
			}
			return err
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "feed could not be fetched")
	}
	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/yaml, text/yaml, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, retry.RetryableError(fmt.Errorf("feed responded %d", resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed responded %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, retry.RetryableError(err)
	}
	if int64(len(data)) > f.cfg.MaxBodyBytes {
		return nil, errFeedTooLarge
	}
	return data, nil
}
