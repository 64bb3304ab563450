package ai

import (
	"unicode"

	"elderguard/pkg/logger"
)

// LanguageDetector identifies the language of a message from its script.
// Latin text is reported as English; the translator resolves Latin languages.
type LanguageDetector struct {
	logger *logger.Logger
}

// NewLanguageDetector creates a new language detector
func NewLanguageDetector(log *logger.Logger) *LanguageDetector {
	return &LanguageDetector{
		logger: log.WithComponent("language-detector"),
	}
}

type script string

const (
	scriptLatin      script = "latin"
	scriptDevanagari script = "devanagari"
	scriptBengali    script = "bengali"
	scriptGurmukhi   script = "gurmukhi"
	scriptGujarati   script = "gujarati"
	scriptOriya      script = "oriya"
	scriptTamil      script = "tamil"
	scriptTelugu     script = "telugu"
	scriptKannada    script = "kannada"
	scriptMalayalam  script = "malayalam"
	scriptArabic     script = "arabic"
	scriptCJK        script = "cjk"
	scriptKana       script = "kana"
	scriptHangul     script = "hangul"
	scriptCyrillic   script = "cyrillic"
	scriptThai       script = "thai"
)

var scriptLanguage = map[script]string{
	scriptDevanagari: "hi",
	scriptBengali:    "bn",
	scriptGurmukhi:   "pa",
	scriptGujarati:   "gu",
	scriptOriya:      "or",
	scriptTamil:      "ta",
	scriptTelugu:     "te",
	scriptKannada:    "kn",
	scriptMalayalam:  "ml",
	scriptCJK:        "zh",
	scriptKana:       "ja",
	scriptHangul:     "ko",
	scriptCyrillic:   "ru",
	scriptThai:       "th",
}

// Detect returns an ISO 639-1 code, "en" when the text is Latin or empty
func (d *LanguageDetector) Detect(text string) string {
	lang, _ := d.DetectWithConfidence(text)
	return lang
}

// DetectWithConfidence returns the language and the share of letters in its script
func (d *LanguageDetector) DetectWithConfidence(text string) (string, float64) {
	counts := make(map[script]int)
	total := 0
	for _, r := range text {
		if s := scriptOf(r); s != "" {
			counts[s]++
			total++
		}
	}
	if total == 0 {
		return "en", 0
	}

	primary, max := scriptLatin, 0
	for s, n := range counts {
		if n > max || (n == max && s != scriptLatin) {
			primary, max = s, n
		}
	}
	confidence := float64(max) / float64(total)

	// Kana anywhere means Japanese even when kanji dominate
	if primary == scriptCJK && counts[scriptKana] > 0 {
		primary = scriptKana
	}

	switch primary {
	case scriptLatin:
		return "en", confidence
	case scriptArabic:
		return d.arabicVariant(text), confidence
	}

	lang := scriptLanguage[primary]
	d.logger.Debug().Str("script", string(primary)).Str("language", lang).Float64("confidence", confidence).Msg("script detected")
	return lang, confidence
}

func scriptOf(r rune) script {
	switch {
	case r >= 0x0900 && r <= 0x097F:
		return scriptDevanagari
	case r >= 0x0980 && r <= 0x09FF:
		return scriptBengali
	case r >= 0x0A00 && r <= 0x0A7F:
		return scriptGurmukhi
	case r >= 0x0A80 && r <= 0x0AFF:
		return scriptGujarati
	case r >= 0x0B00 && r <= 0x0B7F:
		return scriptOriya
	case r >= 0x0B80 && r <= 0x0BFF:
		return scriptTamil
	case r >= 0x0C00 && r <= 0x0C7F:
		return scriptTelugu
	case r >= 0x0C80 && r <= 0x0CFF:
		return scriptKannada
	case r >= 0x0D00 && r <= 0x0D7F:
		return scriptMalayalam
	case r >= 0x0600 && r <= 0x06FF, r >= 0x0750 && r <= 0x077F:
		return scriptArabic
	case r >= 0x4E00 && r <= 0x9FFF:
		return scriptCJK
	case r >= 0x3040 && r <= 0x30FF:
		return scriptKana
	case r >= 0xAC00 && r <= 0xD7AF:
		return scriptHangul
	case r >= 0x0400 && r <= 0x04FF:
		return scriptCyrillic
	case r >= 0x0E00 && r <= 0x0E7F:
		return scriptThai
	case unicode.IsLetter(r) && r < 0x0250:
		return scriptLatin
	default:
		return ""
	}
}

// arabicVariant separates Urdu from Arabic by Urdu-only letters
func (d *LanguageDetector) arabicVariant(text string) string {
	for _, r := range text {
		switch r {
		case 'ٹ', 'ڈ', 'ڑ', 'ں', 'ے', 'ہ':
			return "ur"
		}
	}
	return "ar"
}
