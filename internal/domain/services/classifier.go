package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"elderguard/internal/domain/models"
	"elderguard/pkg/logger"
)

// ClassifierClient talks to the ML scam classification service
type ClassifierClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *logger.Logger
}

type classifyRequest struct {
	Text     string `json:"text"`
	Metadata any    `json:"metadata,omitempty"`
}

// NewClassifierClient creates a classifier client posting to endpoint
func NewClassifierClient(endpoint string, timeout time.Duration, log *logger.Logger) *ClassifierClient {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ClassifierClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithComponent("classifier"),
	}
}

// Predict forwards text and metadata and returns the service's JSON body untouched.
// A non-2xx answer yields *CollaboratorStatusError.
func (c *ClassifierClient) Predict(ctx context.Context, text string, metadata any) (json.RawMessage, error) {
	payload, err := json.Marshal(classifyRequest{Text: text, Metadata: metadata})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &CollaboratorStatusError{Service: "classifier", StatusCode: resp.StatusCode, Body: string(body)}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("classifier returned invalid JSON")
	}

	return json.RawMessage(body), nil
}

// Classify returns the message verdict, or the safe default with an error when
// the classifier cannot be used.
func (c *ClassifierClient) Classify(ctx context.Context, text string, md models.Metadata) (models.Prediction, error) {
	raw, err := c.Predict(ctx, text, md)
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", c.endpoint).Msg("classifier unavailable, using default prediction")
		return models.DefaultPrediction(), err
	}

	var p models.Prediction
	if err := json.Unmarshal(raw, &p); err != nil {
		c.logger.Warn().Err(err).Msg("classifier response not understood, using default prediction")
		return models.DefaultPrediction(), fmt.Errorf("failed to decode prediction: %w", err)
	}
	if p.Prediction == "" {
		return models.DefaultPrediction(), fmt.Errorf("classifier response has no prediction")
	}

	return p, nil
}
