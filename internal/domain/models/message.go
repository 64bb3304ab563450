package models

// Metadata holds the heuristic signals sent to the classifier alongside the message.
// Each flag is 0 or 1.
type Metadata struct {
	HasOTP     int     `json:"has_otp"`
	HasUrgency int     `json:"has_urgency"`
	HasThreat  int     `json:"has_threat"`
	HasUPI     int     `json:"has_upi"`
	HasURL     int     `json:"has_url"`
	Severity   float64 `json:"severity"`
}

// FlagCount returns the number of raised flags
func (m Metadata) FlagCount() int {
	return m.HasOTP + m.HasUrgency + m.HasThreat + m.HasUPI + m.HasURL
}

// DetectionMethod records how the source language was identified
type DetectionMethod string

const (
	DetectionTransliteration DetectionMethod = "transliteration"
	DetectionScript          DetectionMethod = "script"
	DetectionTranslator      DetectionMethod = "google"
)

// LanguageUnknown is reported when translation failed
const LanguageUnknown = "unknown"

// Translation is the normalized output of the translation step
type Translation struct {
	OriginalText     string          `json:"originalText"`
	TranslatedText   string          `json:"translatedText"`
	DetectedLanguage string          `json:"detectedLanguage"`
	WasTranslated    bool            `json:"wasTranslated"`
	DetectionMethod  DetectionMethod `json:"detectionMethod,omitempty"`
	Error            string          `json:"error,omitempty"`
}

// Prediction is the message-level classifier verdict
type Prediction struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// DefaultPrediction is used whenever the classifier is unavailable
func DefaultPrediction() Prediction {
	return Prediction{Prediction: "safe", Confidence: 0}
}
