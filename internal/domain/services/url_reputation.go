package services

import (
	"context"

	"elderguard/internal/domain/models"
	"elderguard/pkg/logger"
)

// URLScanner runs one reputation scan
type URLScanner interface {
	ScanURL(ctx context.Context, rawURL string) (*models.URLScan, error)
}

// URLReputationService turns reputation scans into link verdicts
type URLReputationService struct {
	scanner  URLScanner
	expander *URLExpander
	logger   *logger.Logger
}

// NewURLReputationService creates the link checker. A nil expander disables expansion.
func NewURLReputationService(scanner URLScanner, expander *URLExpander, log *logger.Logger) *URLReputationService {
	return &URLReputationService{
		scanner:  scanner,
		expander: expander,
		logger:   log.WithComponent("url-reputation"),
	}
}

// Check always returns a verdict. When the scan fails the verdict is the
// non-blocking unknown verdict and the error is returned alongside it.
func (s *URLReputationService) Check(ctx context.Context, rawURL string) (models.LinkVerdict, error) {
	target := rawURL
	var expanded string
	if s.expander != nil {
		if e := s.expander.Expand(ctx, rawURL); e.WasExpanded {
			target, expanded = e.ExpandedURL, e.ExpandedURL
		}
	}

	scan, err := s.scanner.ScanURL(ctx, target)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", rawURL).Msg("reputation check failed")
		v := models.FailedVerdict(rawURL, err)
		v.ExpandedURL = expanded
		return v, err
	}

	v := models.VerdictFromScan(scan)
	v.URL = rawURL
	v.ExpandedURL = expanded
	return v, nil
}
