package models

// RiskLevel is the outcome of a link check or a whole analysis
type RiskLevel string

const (
	RiskSafe       RiskLevel = "safe"
	RiskLikelyScam RiskLevel = "likely-scam"
	RiskScam       RiskLevel = "scam"
	RiskUnknown    RiskLevel = "unknown" // link checks only
)

// Valid reports whether r is one of the final analysis levels
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskSafe, RiskLikelyScam, RiskScam:
		return true
	}
	return false
}

// Confidence qualifies a safety determination
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceUnknown Confidence = "unknown"
)

// ScanStats are the engine vote counts returned by the reputation service
type ScanStats struct {
	Malicious  int `json:"malicious"`
	Suspicious int `json:"suspicious"`
	Harmless   int `json:"harmless"`
	Undetected int `json:"undetected"`
	Timeout    int `json:"timeout,omitempty"`
}

// Empty reports whether no engine has voted yet
func (s ScanStats) Empty() bool {
	return s.Malicious == 0 && s.Suspicious == 0 && s.Harmless == 0 && s.Undetected == 0
}

// Safety is the result of applying the safety rules to ScanStats.
// RiskLevel is empty when the rule leaves it to be derived from IsSafe.
type Safety struct {
	IsSafe     bool
	Confidence Confidence
	RiskLevel  RiskLevel
}

// Level returns the explicit risk level, or safe / likely-scam derived from IsSafe
func (s Safety) Level() RiskLevel {
	if s.RiskLevel != "" {
		return s.RiskLevel
	}
	if s.IsSafe {
		return RiskSafe
	}
	return RiskLikelyScam
}

// URLScan is the full result of one reputation scan
type URLScan struct {
	URL            string     `json:"url"`
	AnalysisID     string     `json:"analysisId"`
	Stats          *ScanStats `json:"stats"`
	IsSafe         bool       `json:"isSafe"`
	RiskLevel      RiskLevel  `json:"riskLevel"`
	Confidence     Confidence `json:"confidence"`
	AnalysisStatus string     `json:"analysisStatus"`
	Cached         bool       `json:"cached,omitempty"`
}

// LinkVerdict is the per-URL entry of an analysis
type LinkVerdict struct {
	URL         string     `json:"url"`
	ExpandedURL string     `json:"expandedUrl,omitempty"`
	IsSafe      bool       `json:"isSafe"`
	RiskLevel   RiskLevel  `json:"riskLevel"`
	Confidence  Confidence `json:"confidence"`
	Stats       *ScanStats `json:"stats,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// VerdictFromScan converts a completed scan into a link verdict
func VerdictFromScan(s *URLScan) LinkVerdict {
	return LinkVerdict{
		URL:        s.URL,
		IsSafe:     s.IsSafe,
		RiskLevel:  s.RiskLevel,
		Confidence: s.Confidence,
		Stats:      s.Stats,
	}
}

// FailedVerdict is used when a link could not be checked
func FailedVerdict(url string, err error) LinkVerdict {
	return LinkVerdict{
		URL:        url,
		IsSafe:     true,
		RiskLevel:  RiskUnknown,
		Confidence: ConfidenceUnknown,
		Error:      err.Error(),
	}
}

// ExpandedURL is the result of redirect resolution
type ExpandedURL struct {
	OriginalURL string `json:"originalUrl"`
	ExpandedURL string `json:"expandedUrl"`
	WasExpanded bool   `json:"wasExpanded"`
}
