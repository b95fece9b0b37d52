package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scry-completion/internal/config"
	"github.com/phrazzld/scry-completion/internal/generation"
	"github.com/phrazzld/scry-completion/internal/redact"
	"google.golang.org/genai"
)

// jsonMIMEType switches Gemini into JSON response mode.
const jsonMIMEType = "application/json"

// contentGenerator is the subset of *genai.Models used by the completer.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Completer implements generation.Completer using the Gemini API.
type Completer struct {
	// logger is used for structured logging
	logger *slog.Logger

	// models issues the GenerateContent calls
	models contentGenerator

	// timeout bounds a single call; zero disables it
	timeout time.Duration
}

var _ generation.Completer = (*Completer)(nil)

// NewCompleter creates a Gemini-backed Completer from the LLM configuration.
//
// Parameters:
//   - ctx: Context for client initialization
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing the API key and call timeout
//
// Returns:
//   - A ready Completer or an error if the configuration is invalid or the
//     client cannot be created
func NewCompleter(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Completer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %s",
			generation.ErrInvalidConfig, redact.Error(err))
	}

	return newCompleter(logger, client.Models, cfg.RequestTimeout), nil
}

func newCompleter(logger *slog.Logger, models contentGenerator, timeout time.Duration) *Completer {
	return &Completer{
		logger:  logger,
		models:  models,
		timeout: timeout,
	}
}

// Complete sends the prompt to the requested Gemini model and returns the
// generated text.
func (c *Completer) Complete(ctx context.Context, req generation.CompletionRequest) (string, error) {
	if req.Prompt == "" {
		return "", generation.ErrEmptyPrompt
	}
	if req.Model == "" {
		return "", fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	callConfig := &genai.GenerateContentConfig{}
	if req.Structured {
		callConfig.ResponseMIMEType = jsonMIMEType
	}

	c.logger.DebugContext(ctx, "calling Gemini API",
		"model", req.Model,
		"structured", req.Structured,
		"prompt_length", len(req.Prompt))

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, req.Model, contents, callConfig)
	if err != nil {
		return "", translateError(req.Model, err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", fmt.Errorf("model %s: %w", req.Model, err)
	}

	c.logger.DebugContext(ctx, "Gemini API call successful",
		"model", req.Model,
		"response_length", len(text),
		"duration_ms", time.Since(start).Milliseconds())

	return text, nil
}

// translateError maps a GenerateContent failure onto the generation error
// taxonomy, keeping the upstream message for diagnosis.
func translateError(model string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("gemini call to %s aborted: %w", model, err)
	}

	message := redact.Error(err)
	if generation.IsCapacityMessage(message) {
		return fmt.Errorf("%w: gemini model %s: %s", generation.ErrCapacityExceeded, model, message)
	}

	return fmt.Errorf("%w: gemini call to %s failed: %s", generation.ErrGenerationFailed, model, message)
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	case genai.FinishReasonMaxTokens:
		// The output was cut off; a larger model may fit the response
		return "", fmt.Errorf("%w: output token limit reached", generation.ErrCapacityExceeded)
	}

	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	return text.String(), nil
}
