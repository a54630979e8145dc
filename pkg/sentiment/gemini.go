package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang-stock-sentiment/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	geminiInitialBackoff = time.Second
	geminiMaxBackoff     = 10 * time.Second
)

var fencePattern = regexp.MustCompile("(?s)^\\s*```(?:json|JSON)?\\s*\\n?(.*?)\\n?\\s*```\\s*$")

// GeminiScorer asks a Gemini model for a headline polarity. Requests are
// paced by a per-minute limiter and transient failures retried with backoff.
type GeminiScorer struct {
	client     *genai.Client
	model      string
	limiter    *rate.Limiter
	maxRetries int
	log        *logger.Logger
}

// NewGeminiScorer creates a scorer. maxRequestPerMinute <= 0 disables pacing.
func NewGeminiScorer(client *genai.Client, model string, maxRequestPerMinute, maxRetries int, log *logger.Logger) *GeminiScorer {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if maxRequestPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxRequestPerMinute)), 1)
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &GeminiScorer{
		client:     client,
		model:      model,
		limiter:    limiter,
		maxRetries: maxRetries,
		log:        log,
	}
}

func (s *GeminiScorer) Polarity(ctx context.Context, text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0)),
		ResponseMIMEType: "application/json",
	}

	var (
		resp   *genai.GenerateContentResponse
		apiErr error
	)
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("failed to wait for request limit: %w", err)
		}

		resp, apiErr = s.client.Models.GenerateContent(ctx, s.model, genai.Text(buildPolarityPrompt(text)), cfg)
		if apiErr == nil {
			break
		}
		if attempt == s.maxRetries {
			break
		}

		backoff := geminiInitialBackoff << uint(attempt)
		if backoff > geminiMaxBackoff {
			backoff = geminiMaxBackoff
		}
		s.log.Warn("Gemini polarity request failed, retrying",
			logger.ErrorField(apiErr),
			logger.IntField("attempt", attempt+1),
			logger.Field("backoff", backoff),
		)

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(backoff):
		}
	}
	if apiErr != nil {
		return 0, fmt.Errorf("failed to score headline after %d retries: %w", s.maxRetries, apiErr)
	}

	return parsePolarityResponse(resp.Text())
}

func buildPolarityPrompt(headline string) string {
	return fmt.Sprintf(`You are a financial news sentiment rater.
Rate the sentiment of the headline below for the stock it mentions.
Answer with JSON only, in the form {"polarity": <number>} where the number is between -1 (very negative) and 1 (very positive), 0 meaning neutral.

Headline: %s`, headline)
}

func parsePolarityResponse(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(raw); len(m) > 1 {
		raw = m[1]
	}
	if raw == "" {
		return 0, fmt.Errorf("empty polarity response")
	}

	var out struct {
		Polarity *float64 `json:"polarity"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return 0, fmt.Errorf("failed to parse polarity response %q: %w", raw, err)
	}
	if out.Polarity == nil {
		return 0, fmt.Errorf("polarity missing in response %q", raw)
	}
	return clamp(*out.Polarity), nil
}
