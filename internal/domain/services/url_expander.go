package services

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"elderguard/internal/domain/models"
	"elderguard/pkg/logger"
)

const (
	expandTimeout   = 5 * time.Second
	expandBodyCap   = 1024
	maxExpandHops   = 10
	expandUserAgent = "Mozilla/5.0 (compatible; ElderGuard/1.0; +link-preview)"
)

// URLExpander resolves shortened links by following redirects
type URLExpander struct {
	httpClient *http.Client
	logger     *logger.Logger
}

// NewURLExpander creates an expander with a 5 second budget per request
func NewURLExpander(log *logger.Logger) *URLExpander {
	return &URLExpander{
		httpClient: &http.Client{
			Timeout: expandTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxExpandHops {
					return http.ErrUseLastResponse
				}
				if !fetchable(req.URL) {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		logger: log.WithComponent("url-expander"),
	}
}

// Expand follows redirects with HEAD, falling back to a capped GET.
// On any failure the original URL is returned unexpanded.
func (e *URLExpander) Expand(ctx context.Context, rawURL string) models.ExpandedURL {
	result := models.ExpandedURL{OriginalURL: rawURL, ExpandedURL: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil || !fetchable(u) {
		return result
	}

	final, err := e.resolve(ctx, http.MethodHead, rawURL)
	if err != nil {
		e.logger.Debug().Err(err).Str("url", rawURL).Msg("HEAD failed, trying GET")
		final, err = e.resolve(ctx, http.MethodGet, rawURL)
	}
	if err != nil {
		e.logger.Debug().Err(err).Str("url", rawURL).Msg("expansion failed")
		return result
	}

	result.ExpandedURL = final
	result.WasExpanded = final != rawURL
	return result
}

func (e *URLExpander) resolve(ctx context.Context, method, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", expandUserAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if method == http.MethodGet {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, expandBodyCap))
	}

	return resp.Request.URL.String(), nil
}

func fetchable(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
