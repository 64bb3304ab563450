package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"elderguard/internal/domain/models"
	"elderguard/pkg/logger"
)

// Translator translates a message to English. It must return a usable
// Translation even when it also returns an error.
type Translator interface {
	Translate(ctx context.Context, text string) (*models.Translation, error)
}

// MessageClassifier predicts whether a message is a scam. It must return the
// default prediction when it also returns an error.
type MessageClassifier interface {
	Classify(ctx context.Context, text string, md models.Metadata) (models.Prediction, error)
}

// LinkChecker produces a verdict for one URL. It must return a usable verdict
// even when it also returns an error.
type LinkChecker interface {
	Check(ctx context.Context, rawURL string) (models.LinkVerdict, error)
}

// AnalyzerConfig bounds a single analysis
type AnalyzerConfig struct {
	Timeout            time.Duration
	MaxConcurrentScans int
}

// Analyzer runs the message through translation, classification and link
// checks and merges the outcome into one risk level.
type Analyzer struct {
	translator Translator
	classifier MessageClassifier
	links      LinkChecker
	cfg        AnalyzerConfig
	logger     *logger.Logger
	now        func() time.Time
}

// NewAnalyzer creates the analysis pipeline
func NewAnalyzer(t Translator, c MessageClassifier, l LinkChecker, cfg AnalyzerConfig, log *logger.Logger) *Analyzer {
	return &Analyzer{
		translator: t,
		classifier: c,
		links:      l,
		cfg:        cfg,
		logger:     log.WithComponent("analyzer"),
		now:        time.Now,
	}
}

// Analyze never fails; collaborator failures fall back to their defaults and
// are listed in DegradedReasons.
func (a *Analyzer) Analyze(ctx context.Context, message string) *models.AnalysisResult {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	start := a.now()
	result := &models.AnalysisResult{
		ID:      uuid.New(),
		Message: message,
	}

	urls := ExtractURLs(message)

	tr, err := a.translator.Translate(ctx, message)
	if err != nil {
		result.MarkDegraded("translation")
	}
	if tr == nil {
		tr = &models.Translation{OriginalText: message, TranslatedText: message, DetectedLanguage: models.LanguageUnknown}
	}
	result.MessageToAnalyze = tr.TranslatedText
	result.DetectedLanguage = tr.DetectedLanguage
	result.WasTranslated = tr.WasTranslated

	result.Metadata = ExtractMetadata(result.MessageToAnalyze, urls)

	prediction, err := a.classifier.Classify(ctx, result.MessageToAnalyze, result.Metadata)
	if err != nil {
		prediction = models.DefaultPrediction()
		result.MarkDegraded("classifier")
	}
	result.MLPrediction = prediction.Prediction
	result.MLConfidence = prediction.Confidence

	verdicts, failed := a.checkLinks(ctx, urls)
	result.URLs = verdicts
	for _, u := range failed {
		result.MarkDegraded("reputation:" + u)
	}

	result.RiskLevel = AggregateRisk(prediction, verdicts)
	result.Timestamp = a.now().UTC()

	a.logger.Info().
		Str("analysis_id", result.ID.String()).
		Int("length", len(message)).
		Int("urls", len(urls)).
		Str("language", result.DetectedLanguage).
		Str("prediction", result.MLPrediction).
		Str("risk_level", string(result.RiskLevel)).
		Bool("degraded", result.Degraded).
		Dur("duration", a.now().Sub(start)).
		Msg("message analyzed")

	return result
}

// checkLinks scans every URL concurrently and returns the verdicts in input
// order together with the URLs whose check failed.
func (a *Analyzer) checkLinks(ctx context.Context, urls []string) ([]models.LinkVerdict, []string) {
	verdicts := make([]models.LinkVerdict, len(urls))
	errs := make([]error, len(urls))

	var g errgroup.Group
	if a.cfg.MaxConcurrentScans > 0 {
		g.SetLimit(a.cfg.MaxConcurrentScans)
	}

	for i, u := range urls {
		g.Go(func() error {
			verdicts[i], errs[i] = a.links.Check(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for i, err := range errs {
		if err != nil {
			failed = append(failed, urls[i])
		}
	}

	return verdicts, failed
}
