package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/spendwise/backend/config"
	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/infra/observability"
)

// errGeminiNotConfigured is returned when no API key is set.
var errGeminiNotConfigured = errors.New("gemini service is not configured")

// GeminiAdviceGenerator implements adapter.AdviceGenerator using Google Gemini.
type GeminiAdviceGenerator struct {
	apiKey          string
	modelName       string
	temperature     float32
	maxOutputTokens int32
	timeout         time.Duration
	metrics         *observability.Metrics
}

var _ adapter.AdviceGenerator = (*GeminiAdviceGenerator)(nil)

// NewGeminiAdviceGenerator creates a new Gemini advice generator. metrics may be nil.
func NewGeminiAdviceGenerator(cfg config.GeminiConfig, metrics *observability.Metrics) *GeminiAdviceGenerator {
	return &GeminiAdviceGenerator{
		apiKey:          cfg.APIKey,
		modelName:       cfg.Model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		timeout:         cfg.Timeout,
		metrics:         metrics,
	}
}

// IsAvailable checks if the Gemini service is properly configured.
func (g *GeminiAdviceGenerator) IsAvailable() bool {
	return g.apiKey != ""
}

// Generate sends the prompt to Gemini and returns the concatenated text parts.
func (g *GeminiAdviceGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.IsAvailable() {
		return "", errGeminiNotConfigured
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.modelName)
	model.SetTemperature(g.temperature)
	if g.maxOutputTokens > 0 {
		model.SetMaxOutputTokens(g.maxOutputTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp != nil && resp.UsageMetadata != nil {
		g.metrics.RecordTokens(
			int(resp.UsageMetadata.PromptTokenCount),
			int(resp.UsageMetadata.CandidatesTokenCount),
		)
	}

	return extractText(resp), nil
}

// extractText joins the text parts of the first candidate. A response with no
// candidates yields "".
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}
