// Package fetch retrieves raw page HTML for URL-driven imports.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"trade-journal/internal/interfaces"
	"trade-journal/internal/logger"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// PageFetcher downloads a single page body. It is the plain-HTTP
// stand-in for the external snapshot fetcher feeding the HTML parser.
type PageFetcher struct {
	timeout time.Duration
}

var _ interfaces.Fetcher = (*PageFetcher)(nil)

func New(timeout time.Duration) *PageFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PageFetcher{timeout: timeout}
}

// Fetch visits pageURL and returns the raw response body.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("invalid url %q", pageURL)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Page fetch failed", err, "url", pageURL)
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	c.Wait()

	if len(body) == 0 {
		return nil, fmt.Errorf("empty response from %s", pageURL)
	}
	return body, nil
}
