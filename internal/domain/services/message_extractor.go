package services

import (
	"math"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"elderguard/internal/domain/models"
)

var (
	fullURLPattern = regexp2.MustCompile(`https?://[^\s]+`, regexp2.None)

	// Bare domains not touching a path or another hostname character
	bareDomainPattern = regexp2.MustCompile(
		`(?<![/A-Za-z0-9_.-])([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?![/A-Za-z0-9_.-])`,
		regexp2.None,
	)
)

func init() {
	fullURLPattern.MatchTimeout = 250 * time.Millisecond
	bareDomainPattern.MatchTimeout = 250 * time.Millisecond
}

// Keyword classes for metadata flags, matched as upper-case substrings
var (
	otpKeywords     = []string{"OTP", "PIN", "PASSWORD", "VERIFY", "CONFIRM"}
	urgencyKeywords = []string{"URGENT", "IMMEDIATELY", "NOW", "ASAP", "QUICKLY", "HURRY", "RUSH"}
	threatKeywords  = []string{"FREEZE", "BLOCK", "CANCEL", "SUSPEND", "DELETE", "ACCOUNT", "CLOSE"}
	upiKeywords     = []string{"UPI", "GPAY", "PAYTM", "PHONEPE", "RUPAY"}
)

// ExtractURLs returns the distinct absolute URLs found in text.
// Full http(s) URLs come first, then bare domains prefixed with https://.
func ExtractURLs(text string) []string {
	if text == "" {
		return []string{}
	}

	full := findAll(fullURLPattern, text)
	seen := make(map[string]bool, len(full))
	urls := make([]string, 0, len(full))

	for _, u := range full {
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}

	for _, domain := range findAll(bareDomainPattern, text) {
		if containedIn(domain, full) {
			continue
		}
		u := "https://" + domain
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}

	return urls
}

// ExtractMetadata derives the classifier side signals from the (translated) text
// and the URLs extracted from the original message.
func ExtractMetadata(text string, urls []string) models.Metadata {
	upper := strings.ToUpper(text)

	md := models.Metadata{
		HasOTP:     flag(containsAny(upper, otpKeywords)),
		HasUrgency: flag(containsAny(upper, urgencyKeywords)),
		HasThreat:  flag(containsAny(upper, threatKeywords)),
		HasUPI:     flag(containsAny(upper, upiKeywords)),
		HasURL:     flag(len(urls) > 0),
	}
	md.Severity = math.Min(1, float64(md.FlagCount())/5)

	return md
}

// findAll collects every non-overlapping match. A match timeout ends the scan early.
func findAll(re *regexp2.Regexp, text string) []string {
	var out []string
	m, err := re.FindStringMatch(text)
	for err == nil && m != nil {
		out = append(out, m.String())
		m, err = re.FindNextMatch(m)
	}
	return out
}

func containedIn(s string, in []string) bool {
	for _, v := range in {
		if strings.Contains(v, s) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
