package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"github.com/quizdeck/quizdeck-api/internal/config"
	"github.com/quizdeck/quizdeck-api/internal/generation"
	"google.golang.org/genai"
)

// defaultPromptTemplate asks for strict JSON so the response parses
// without prose stripping.
const defaultPromptTemplate = `You are writing study flashcards for the deck "{{.DeckName}}"
(subject: {{.Subject}}). Produce exactly {{.Count}} flashcards covering: {{.Topic}}.

Respond with JSON only, in the form:
{"cards": [{"front": "question text", "back": "answer text"}]}

Keep fronts to a single focused question and backs to a concise answer.`

// responseSchema is the JSON structure the model is asked to return.
type responseSchema struct {
	Cards []generation.CardDraft `json:"cards"`
}

// promptData carries template values for the prompt.
type promptData struct {
	DeckName string
	Subject  string
	Topic    string
	Count    int
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API to draft flashcards.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// Ensure GeminiGenerator implements generation.Generator interface
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator from the LLM
// configuration. The context is used for client initialization only.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("flashcard").Parse(defaultPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateCards implements generation.Generator.GenerateCards
func (g *GeminiGenerator) GenerateCards(ctx context.Context, req generation.Request) ([]generation.CardDraft, error) {
	prompt, err := g.createPrompt(req)
	if err != nil {
		return nil, err
	}

	resp, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if len(resp.Cards) == 0 {
		return nil, fmt.Errorf("%w: response contained no cards", generation.ErrInvalidResponse)
	}

	drafts := make([]generation.CardDraft, 0, len(resp.Cards))
	for _, card := range resp.Cards {
		if card.Front == "" || card.Back == "" {
			g.logger.WarnContext(ctx, "skipping draft with empty side",
				slog.String("front", card.Front))
			continue
		}
		drafts = append(drafts, card)
	}

	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: all drafts had empty sides", generation.ErrInvalidResponse)
	}

	return drafts, nil
}

// createPrompt renders the prompt template for the request.
func (g *GeminiGenerator) createPrompt(req generation.Request) (string, error) {
	if req.Topic == "" {
		return "", generation.ErrEmptyTopic
	}

	count := req.Count
	if count <= 0 {
		count = 10
	}

	data := promptData{
		DeckName: req.DeckName,
		Subject:  string(req.Subject),
		Topic:    req.Topic,
		Count:    count,
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}

// callWithRetry calls the Gemini API with exponential backoff and jitter
// for transient errors. Safety blocks and unparseable responses are
// permanent and returned immediately.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		g.logger.DebugContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		resp, err := g.callOnce(ctx, prompt)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// Permanent errors are never retried.
		if errors.Is(err, generation.ErrContentBlocked) ||
			errors.Is(err, generation.ErrInvalidResponse) {
			return nil, err
		}

		g.logger.WarnContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if attempt == maxRetries {
			break
		}

		delay := time.Duration(float64(baseDelaySeconds)*math.Pow(2, float64(attempt))) * time.Second
		jitter := time.Duration(rng.Int63n(int64(time.Second)))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay + jitter):
		}
	}

	return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, lastErr)
}

// callOnce makes a single Gemini API call and parses the JSON body.
func (g *GeminiGenerator) callOnce(ctx context.Context, prompt string) (*responseSchema, error) {
	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genConfig)
	if err != nil {
		return nil, err
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, generation.ErrContentBlocked
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return &parsed, nil
}
