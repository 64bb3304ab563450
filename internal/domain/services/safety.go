package services

import "elderguard/internal/domain/models"

// DetermineSafety classifies reputation engine votes. Rules are evaluated in
// order and the first match wins; the thresholds are tuned and must not drift.
// Undetected votes do not count toward the total.
func DetermineSafety(stats *models.ScanStats) models.Safety {
	if stats == nil {
		return models.Safety{IsSafe: true, Confidence: models.ConfidenceUnknown}
	}

	malicious, suspicious, harmless := stats.Malicious, stats.Suspicious, stats.Harmless
	total := malicious + suspicious + harmless
	if total == 0 {
		return models.Safety{IsSafe: true, Confidence: models.ConfidenceUnknown}
	}

	maliciousPct := float64(malicious) / float64(total) * 100

	switch {
	case malicious == 0:
		return models.Safety{IsSafe: true, Confidence: models.ConfidenceHigh}

	// A couple of engines flagging a domain most engines vouch for is noise
	case malicious <= 2 && harmless >= 50:
		return models.Safety{IsSafe: true, Confidence: models.ConfidenceHigh}

	case maliciousPct < 3:
		return models.Safety{IsSafe: true, Confidence: models.ConfidenceMedium}

	case malicious > 10:
		return scam(models.ConfidenceHigh)
	case maliciousPct > 20:
		return scam(models.ConfidenceHigh)
	case harmless > 0 && float64(malicious) > float64(harmless)*0.2:
		return scam(models.ConfidenceHigh)

	case malicious > 2 && malicious <= 10:
		return likelyScam(models.ConfidenceMedium)
	case maliciousPct > 3 && maliciousPct <= 20:
		return likelyScam(models.ConfidenceMedium)

	case suspicious > 0 || malicious > 0:
		return likelyScam(models.ConfidenceLow)
	}

	return models.Safety{IsSafe: true, Confidence: models.ConfidenceHigh}
}

func scam(c models.Confidence) models.Safety {
	return models.Safety{IsSafe: false, Confidence: c, RiskLevel: models.RiskScam}
}

func likelyScam(c models.Confidence) models.Safety {
	return models.Safety{IsSafe: false, Confidence: c, RiskLevel: models.RiskLikelyScam}
}
