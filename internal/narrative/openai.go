package narrative

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jonesrussell/esglens/internal/esg"
)

// defaultModel is the narrative model when no override is configured.
const defaultModel = "gpt-4.1-mini"

// narrativeTemperature allows mild variation in wording.
const narrativeTemperature = 0.3

// systemPrompt pins the oracle to the consultant role.
const systemPrompt = "You are an ESG consultant. Explain ESG scores in " +
	"concise, business-friendly language."

// OpenAIOracle implements Oracle against an OpenAI-compatible chat
// completions API.
type OpenAIOracle struct {
	client *openai.Client
	model  string
}

// NewOpenAIOracle creates the narrative oracle.
func NewOpenAIOracle(apiKey, baseURL, model string) *OpenAIOracle {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = defaultModel
	}

	return &OpenAIOracle{client: openai.NewClientWithConfig(cfg), model: model}
}

// Generate asks the model for an overview, strengths, and improvement
// actions based on the payload.
func (o *OpenAIOracle) Generate(ctx context.Context, payload string) (string, error) {
	prompt := "Using the JSON data below, write:\n" +
		"1) A 120-word overview of the company's ESG performance.\n" +
		"2) Three key strengths (bullet points).\n" +
		"3) Three priority improvement actions (bullet points).\n\n" +
		"Data:\n" + payload

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: narrativeTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", esg.ErrOracleUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", esg.ErrOracleUnavailable)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
