package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
)

// Content is truncated to this many characters before prompting, to stay
// inside the model's context budget.
const maxPromptContent = 3500

const systemPrompt = `You are an educational quiz generator specializing in factual quiz questions. You respond with JSON only, no additional text.`

const userPromptTemplate = `Using ONLY the provided Wikipedia article text below, generate 5 multiple-choice quiz questions, extract key entities, and suggest related topics.

ARTICLE TITLE: %s

ARTICLE CONTENT:
%s

RULES:
1. Questions must be STRICTLY grounded in the article text - no hallucinations
2. Each question must have exactly 4 options
3. Only ONE option should be correct, and "answer" must match that option exactly
4. Include a brief explanation referencing the article content
5. Assign difficulty: "easy", "medium", or "hard"
6. Make incorrect options plausible but clearly wrong based on the text
7. key_entities lists only entities clearly mentioned in the text, 5-8 per category
8. related_topics are 5-7 Wikipedia topics directly related to the main subject

Return your response as a single valid JSON object with this exact structure:
{
  "quiz": [
    {
      "question": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "The correct option text (must match one of the options exactly)",
      "difficulty": "easy|medium|hard",
      "explanation": "Brief explanation referencing the article"
    }
  ],
  "key_entities": {"people": [], "organizations": [], "locations": []},
  "related_topics": ["Topic 1", "Topic 2"]
}

Return ONLY the JSON object, no additional text.`

// LLMGenerator produces quizzes through a hosted chat-completion endpoint.
// Every failure mode (missing key, transport, malformed JSON, contract
// violations) surfaces as an error so the caller can fall back.
type LLMGenerator struct {
	llm    *openai.LLM
	cfg    config.LLMConfig
	logger *zap.Logger
}

// NewLLMGenerator creates the remote-model generator. A missing API key is
// not fatal here: the generator is constructed non-functional and fails fast
// on Generate, which sends the service to the fallback path.
func NewLLMGenerator(cfg config.LLMConfig) (*LLMGenerator, error) {
	l := logger.Get()
	if cfg.APIKey == "" {
		l.Warn("LLM API key is not set; quiz synthesis will always use the fallback generator")
		return &LLMGenerator{llm: nil, cfg: cfg, logger: l}, nil
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat-completion client: %w", err)
	}
	return &LLMGenerator{llm: llm, cfg: cfg, logger: l}, nil
}

// Generate implements domain.QuizGenerator.
func (g *LLMGenerator) Generate(ctx context.Context, article *domain.Article) (*domain.GeneratedQuiz, error) {
	if g.llm == nil {
		return nil, fmt.Errorf("chat-completion client not configured")
	}

	content := article.Content
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent]
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, fmt.Sprintf(userPromptTemplate, article.Title, content)),
	}

	resp, err := g.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(g.cfg.Temperature),
		llms.WithMaxTokens(g.cfg.MaxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("chat-completion call failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return nil, fmt.Errorf("chat-completion returned no content")
	}

	raw := resp.Choices[0].Content
	generated, err := parseGeneratedQuiz(raw)
	if err != nil {
		g.logger.Warn("Failed to parse model response",
			zap.Error(err),
			zap.String("model", g.cfg.Model),
			zap.String("response_excerpt", truncate(raw, 300)))
		return nil, err
	}

	g.logger.Info("Quiz synthesized by model",
		zap.String("model", g.cfg.Model),
		zap.String("title", article.Title),
		zap.Int("questions", len(generated.Quiz)))
	return generated, nil
}

// parseGeneratedQuiz extracts the first top-level JSON object from model
// output that may carry markdown fences or surrounding prose, then enforces
// the quiz contract (non-empty quiz, 4 options, answer among options).
func parseGeneratedQuiz(raw string) (*domain.GeneratedQuiz, error) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON object found in model response")
	}

	var generated domain.GeneratedQuiz
	if err := json.Unmarshal([]byte(jsonStr), &generated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model response: %w", err)
	}
	if err := generated.Validate(); err != nil {
		return nil, fmt.Errorf("model response violates quiz contract: %w", err)
	}
	return &generated, nil
}

// extractJSON strips markdown code fences and locates the outermost
// brace-delimited object, tolerating leading and trailing prose.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		start := 3
		if newlineIdx := strings.Index(content[start:], "\n"); newlineIdx != -1 {
			start += newlineIdx + 1
		}
		if endIdx := strings.Index(content[start:], "```"); endIdx != -1 {
			content = content[start : start+endIdx]
		} else {
			content = content[start:]
		}
		content = strings.TrimSpace(content)
	}

	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return content[startIdx : endIdx+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
