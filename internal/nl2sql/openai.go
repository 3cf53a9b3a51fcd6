package nl2sql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// OpenAITranslator asks an OpenAI-compatible chat model for a single SQLite
// SELECT statement answering the question.
type OpenAITranslator struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

func NewOpenAITranslator(cfg OpenAIConfig) (*OpenAITranslator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	temperature := cfg.Temperature
	if temperature < 0 {
		temperature = 0
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &OpenAITranslator{
		api:         openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
		timeout:     timeout,
	}, nil
}

func (t *OpenAITranslator) Translate(ctx context.Context, req Request) (Result, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Result{}, fmt.Errorf("question is required")
	}

	userPrompt, err := buildUserPrompt(question, req.Tables)
	if err != nil {
		return Result{}, err
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.api.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   t.maxTokens,
		Temperature: t.temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("empty chat completion choices")
	}

	sql := StripMarkdownSQL(resp.Choices[0].Message.Content)
	if strings.TrimSpace(sql) == "" {
		return Result{}, fmt.Errorf("model returned empty SQL")
	}
	return Result{
		SQL:      sql,
		Provider: "openai-compatible",
		Model:    t.model,
	}, nil
}

const systemPrompt = "You convert questions about a department directory into a single SQLite SQL query. " +
	"Return ONLY SQL. No markdown, no explanation."

func buildUserPrompt(question string, tables []TableContext) (string, error) {
	tablesJSON, err := json.Marshal(tables)
	if err != nil {
		return "", fmt.Errorf("marshal table context: %w", err)
	}
	return fmt.Sprintf(
		"Schema and sample context (JSON):\n%s\n\nExamples:\n"+
			"Question: Who manages Sales?\nSQL: SELECT Manager FROM Departments WHERE Name = 'Sales';\n"+
			"Question: Show all departments\nSQL: SELECT * FROM Departments;\n"+
			"Question: List department names\nSQL: SELECT Name FROM Departments;\n"+
			"Question: Find manager of Marketing\nSQL: SELECT Manager FROM Departments WHERE Name = 'Marketing';\n\n"+
			"Current question:\n%s\n\nRules:\n- Use only listed tables and columns.\n- Output a single SELECT query only.",
		string(tablesJSON),
		question,
	), nil
}

// StripMarkdownSQL removes a surrounding markdown code fence from model output.
func StripMarkdownSQL(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
