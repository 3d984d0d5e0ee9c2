// Package rewrite optionally upgrades the deterministic Arabic narrative to
// executive-level prose through Gemini. The whole package fails closed: any
// error, timeout or malformed response leaves the deterministic text in
// place, so an analysis never depends on the model being reachable.
package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/mizanhq/mizan-api/internal/domain/analysis"
)

const systemPrompt = `You are a senior CFO writing a financial executive summary in Arabic.
Your goal is to rewrite the provided financial analysis into a professional, concise, and high-level format suitable for a CEO or Board of Directors.
Tone: Professional, Neutral, Insightful, No emojis, No marketing fluff.
Language: Arabic only.

You will receive a JSON payload containing:
- summary: (Draft summary)
- kpis: (List of key performance indicators)
- risks: (List of identified risks)
- recommendations: (List of draft recommendations)

REQUIREMENTS:
1. DO NOT change the meaning of the data.
2. DO NOT invent numbers or metrics. Use only what is provided.
3. Rewrite the "summary" to be a single powerful paragraph highlighting the most critical insights (Revenue, Profit, Margin, and key risks).
4. Rewrite the "recommendations" to be strategic, actionable, and executive-level.
5. Output MUST be valid JSON with exactly two keys: "executive_summary" (string) and "executive_recommendations" (list of strings).`

// Payload is the analysis material handed to the model.
type Payload struct {
	Summary         string               `json:"summary"`
	KPIs            []analysis.KPIRecord `json:"kpis"`
	Risks           []string             `json:"risks"`
	Recommendations []string             `json:"recommendations"`
}

// Executive is the rewritten narrative.
type Executive struct {
	Summary         string   `json:"executive_summary"`
	Recommendations []string `json:"executive_recommendations"`
}

// Writer rewrites a draft narrative. A nil result means the caller keeps the
// deterministic draft; Rewrite never reports an error.
type Writer interface {
	Rewrite(ctx context.Context, payload Payload) *Executive
}

// Disabled is the no-op writer used when no API key is configured
type Disabled struct{}

func (Disabled) Rewrite(ctx context.Context, payload Payload) *Executive { return nil }

// GeminiWriter rewrites through the Gemini API
type GeminiWriter struct {
	client  *genai.Client
	model   string
	logger  *slog.Logger
	timeout time.Duration
}

// NewGeminiWriter creates a new Gemini-backed writer
func NewGeminiWriter(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiWriter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiWriter{
		client:  client,
		model:   model,
		logger:  logger,
		timeout: 10 * time.Second,
	}, nil
}

// Rewrite asks the model for executive-level text, retrying once. Failure in
// any form returns nil.
func (w *GeminiWriter) Rewrite(ctx context.Context, payload Payload) *Executive {
	userJSON, err := json.Marshal(payload)
	if err != nil {
		w.logger.Warn("rewrite payload marshal failed", slog.Any("error", err))
		return nil
	}

	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			w.logger.Info("rewrite retrying")
			time.Sleep(500 * time.Millisecond)
		}

		exec, err := w.call(ctx, string(userJSON))
		if err != nil {
			w.logger.Warn("rewrite attempt failed", slog.Any("error", err))
			continue
		}
		return exec
	}

	w.logger.Warn("rewrite failed after retry, keeping deterministic text")
	return nil
}

func (w *GeminiWriter) call(ctx context.Context, userJSON string) (*Executive, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		Temperature:       genai.Ptr[float32](0.3),
		ResponseMIMEType:  "application/json",
	}

	resp, err := w.client.Models.GenerateContent(ctx, w.model, genai.Text(userJSON), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("empty model response")
	}

	return parseExecutive(raw)
}

// parseExecutive validates the strict two-key contract. Markdown fences are
// stripped first; models occasionally wrap JSON despite the response mime.
func parseExecutive(raw string) (*Executive, error) {
	clean := stripFences(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(clean), &fields); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	summaryRaw, ok := fields["executive_summary"]
	if !ok {
		return nil, fmt.Errorf("response missing executive_summary")
	}
	recsRaw, ok := fields["executive_recommendations"]
	if !ok {
		return nil, fmt.Errorf("response missing executive_recommendations")
	}

	var exec Executive
	if err := json.Unmarshal(summaryRaw, &exec.Summary); err != nil {
		return nil, fmt.Errorf("decode executive_summary: %w", err)
	}
	if err := json.Unmarshal(recsRaw, &exec.Recommendations); err != nil {
		return nil, fmt.Errorf("decode executive_recommendations: %w", err)
	}
	if strings.TrimSpace(exec.Summary) == "" || len(exec.Recommendations) == 0 {
		return nil, fmt.Errorf("response has empty executive fields")
	}
	return &exec, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
