package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
)

const (
	// Bodies shorter than this are a failed scrape, not a real article.
	minBodyLength = 500

	// How long fetched HTML stays in the cache.
	fetchCacheTTL = time.Hour

	fetchCachePrefix = "wikiquiz:html:"
)

// Browser-like headers reduce the chance of Wikipedia refusing the request.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// Fetcher retrieves raw article HTML over HTTP. When a cache is configured,
// successful responses are reused for fetchCacheTTL.
type Fetcher struct {
	client *http.Client
	cache  domain.Cache
}

// NewFetcher creates a Fetcher. cache may be nil, which disables caching.
func NewFetcher(client *http.Client, cache domain.Cache) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client, cache: cache}
}

// Fetch implements domain.ArticleFetcher.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	l := logger.Get()

	if f.cache != nil {
		cached, err := f.cache.Get(ctx, fetchCachePrefix+url)
		if err == nil {
			l.Debug("Serving article HTML from cache", zap.String("url", url))
			return cached, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			l.Warn("Article cache read failed, fetching directly", zap.Error(err), zap.String("url", url))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domain.NewFetchFailedError(url, 0)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", domain.NewError(domain.CodeFetchFailed, "failed to fetch "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return "", domain.NewFetchBlockedError(url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", domain.NewFetchFailedError(url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewError(domain.CodeFetchFailed, "failed to read response body for "+url, err)
	}
	if len(body) < minBodyLength {
		return "", domain.NewFetchEmptyError(url)
	}

	html := string(body)

	if f.cache != nil {
		if err := f.cache.Set(ctx, fetchCachePrefix+url, html, fetchCacheTTL); err != nil {
			l.Warn("Failed to cache article HTML", zap.Error(err), zap.String("url", url))
		}
	}

	return html, nil
}
