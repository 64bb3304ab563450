package services

import (
	"strings"

	"elderguard/internal/domain/models"
)

// AggregateRisk combines the message prediction with the link verdicts.
// A scam prediction is final; otherwise the worst link decides.
func AggregateRisk(p models.Prediction, links []models.LinkVerdict) models.RiskLevel {
	if strings.EqualFold(p.Prediction, "scam") {
		return models.RiskScam
	}

	for _, l := range links {
		if l.RiskLevel == models.RiskScam {
			return models.RiskScam
		}
	}

	for _, l := range links {
		if l.RiskLevel == models.RiskLikelyScam || !l.IsSafe {
			return models.RiskLikelyScam
		}
	}

	return models.RiskSafe
}
