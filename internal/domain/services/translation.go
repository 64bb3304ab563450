package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"elderguard/internal/domain/models"
	"elderguard/internal/domain/services/ai"
	"elderguard/pkg/logger"
)

// TranslationFailedMessage is attached to fallback translations
const TranslationFailedMessage = "Translation failed, using original text"

// TranslationService detects the message language and translates it to English
type TranslationService struct {
	endpoint   string
	httpClient *http.Client
	detector   *ai.LanguageDetector
	logger     *logger.Logger
}

// NewTranslationService creates a translation service against a
// translate_a/single compatible endpoint
func NewTranslationService(endpoint string, timeout time.Duration, detector *ai.LanguageDetector, log *logger.Logger) *TranslationService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TranslationService{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		detector:   detector,
		logger:     log.WithComponent("translation"),
	}
}

// Translate always returns a usable Translation. When the translator fails the
// original text is returned unchanged together with a non-nil error.
func (s *TranslationService) Translate(ctx context.Context, text string) (*models.Translation, error) {
	lang, method := "en", models.DetectionTranslator
	if l, ok := ai.DetectTransliteration(text); ok {
		lang, method = l, models.DetectionTransliteration
	} else if l := s.detector.Detect(text); l != "" && l != "en" {
		lang, method = l, models.DetectionScript
	}

	translated, source, err := s.fetch(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).Int("length", len(text)).Msg("translation failed, using original text")
		return &models.Translation{
			OriginalText:     text,
			TranslatedText:   text,
			DetectedLanguage: models.LanguageUnknown,
			WasTranslated:    false,
			Error:            TranslationFailedMessage,
		}, fmt.Errorf("translation failed: %w", err)
	}

	if method == models.DetectionTranslator && source != "" {
		lang = source
	}

	return &models.Translation{
		OriginalText:     text,
		TranslatedText:   translated,
		DetectedLanguage: lang,
		WasTranslated:    translated != text,
		DetectionMethod:  method,
	}, nil
}

// fetch returns the English text and the source language reported by the translator
func (s *TranslationService) fetch(ctx context.Context, text string) (string, string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", "en")
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", &CollaboratorStatusError{Service: "translator", StatusCode: resp.StatusCode, Body: string(body)}
	}

	return parseTranslateResponse(body)
}

// parseTranslateResponse reads [[["seg","orig",...],...],null,"src",...]
func parseTranslateResponse(body []byte) (string, string, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return "", "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(top) == 0 {
		return "", "", fmt.Errorf("empty translation response")
	}

	var segments [][]any
	if err := json.Unmarshal(top[0], &segments); err != nil {
		return "", "", fmt.Errorf("failed to decode segments: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if piece, ok := seg[0].(string); ok {
			b.WriteString(piece)
		}
	}
	if b.Len() == 0 {
		return "", "", fmt.Errorf("translation response has no text")
	}

	var source string
	if len(top) > 2 {
		_ = json.Unmarshal(top[2], &source)
	}

	return b.String(), source, nil
}
