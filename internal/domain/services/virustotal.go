package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"elderguard/internal/domain/models"
	"elderguard/internal/infrastructure/cache"
	"elderguard/pkg/logger"
)

// PendingAnalysisWait is how long to wait before re-reading an analysis with no votes
const PendingAnalysisWait = 12 * time.Second

// VirusTotalClient scans URLs through the VirusTotal v3 API
type VirusTotalClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *cache.RedisCache
	cacheTTL   time.Duration
	logger     *logger.Logger

	pendingWait time.Duration
}

// VirusTotalOptions configures a VirusTotalClient
type VirusTotalOptions struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type vtAnalysis struct {
	Stats  models.ScanStats
	Status string
}

// NewVirusTotalClient creates a new VirusTotal client. redisCache may be nil.
func NewVirusTotalClient(opts VirusTotalOptions, redisCache *cache.RedisCache, log *logger.Logger) *VirusTotalClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.virustotal.com/api/v3"
	}
	return &VirusTotalClient{
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  &http.Client{Timeout: opts.Timeout},
		cache:       redisCache,
		cacheTTL:    opts.CacheTTL,
		logger:      log.WithComponent("virustotal"),
		pendingWait: PendingAnalysisWait,
	}
}

// Configured reports whether an API key is set
func (c *VirusTotalClient) Configured() bool {
	return c.apiKey != ""
}

// ScanURL submits rawURL, reads its analysis, and waits once if no engine has voted yet
func (c *VirusTotalClient) ScanURL(ctx context.Context, rawURL string) (*models.URLScan, error) {
	if !c.Configured() {
		return nil, ErrReputationNotConfigured
	}

	if scan := c.cached(ctx, rawURL); scan != nil {
		return scan, nil
	}

	analysisID, err := c.submit(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to submit url: %w", err)
	}

	analysis, err := c.analysis(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch analysis: %w", err)
	}

	// The reported status is the one from the first read, even after a wait
	status := analysis.Status

	if analysis.Stats.Empty() {
		c.logger.Debug().Str("url", rawURL).Str("analysis_id", analysisID).Msg("analysis pending, waiting")

		timer := time.NewTimer(c.pendingWait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("waiting for analysis: %w", ctx.Err())
		}

		analysis, err = c.analysis(ctx, analysisID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch analysis: %w", err)
		}
	}

	stats := analysis.Stats
	safety := DetermineSafety(&stats)

	scan := &models.URLScan{
		URL:            rawURL,
		AnalysisID:     analysisID,
		Stats:          &stats,
		IsSafe:         safety.IsSafe,
		RiskLevel:      safety.Level(),
		Confidence:     safety.Confidence,
		AnalysisStatus: status,
	}

	c.logger.Info().
		Str("url", rawURL).
		Int("malicious", stats.Malicious).
		Int("suspicious", stats.Suspicious).
		Int("harmless", stats.Harmless).
		Str("risk_level", string(scan.RiskLevel)).
		Msg("URL scan complete")

	if analysis.Status == "completed" && !stats.Empty() {
		c.store(ctx, scan)
	}

	return scan, nil
}

func (c *VirusTotalClient) submit(ctx context.Context, rawURL string) (string, error) {
	form := url.Values{}
	form.Set("url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/urls", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var response struct {
		Data struct {
			Type string `json:"type"`
			ID   string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to decode submission: %w", err)
	}
	if response.Data.ID == "" {
		return "", fmt.Errorf("submission returned no analysis id")
	}

	return response.Data.ID, nil
}

func (c *VirusTotalClient) analysis(ctx context.Context, id string) (*vtAnalysis, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/analyses/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var response struct {
		Data struct {
			Attributes struct {
				Stats  models.ScanStats `json:"stats"`
				Status string           `json:"status"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}

	return &vtAnalysis{
		Stats:  response.Data.Attributes.Stats,
		Status: response.Data.Attributes.Status,
	}, nil
}

func (c *VirusTotalClient) do(req *http.Request) ([]byte, error) {
	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &CollaboratorStatusError{Service: "virustotal", StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func (c *VirusTotalClient) cached(ctx context.Context, rawURL string) *models.URLScan {
	if c.cache == nil || c.cacheTTL <= 0 {
		return nil
	}
	key := cache.URLScanKey(rawURL)
	var scan models.URLScan
	if err := c.cache.GetJSON(ctx, key, &scan); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			c.logger.Warn().Str("url", rawURL).Msg("dropping unreadable cached scan")
			_ = c.cache.Delete(ctx, key)
		}
		return nil
	}
	scan.Cached = true
	c.logger.Debug().Str("url", rawURL).Msg("cache hit")
	return &scan
}

func (c *VirusTotalClient) store(ctx context.Context, scan *models.URLScan) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	if err := c.cache.SetJSON(ctx, cache.URLScanKey(scan.URL), scan, c.cacheTTL); err != nil {
		c.logger.Warn().Err(err).Str("url", scan.URL).Msg("failed to cache scan")
	}
}
