package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jonesrussell/esglens/internal/esg"
)

// defaultModel is used when no model identifier override is configured.
const defaultModel = openai.GPT4oMini

// extractionTemperature keeps the oracle output near-deterministic.
const extractionTemperature = 0.1

// systemPrompt pins the oracle to the analyst role.
const systemPrompt = "You are a precise ESG analyst. Always output valid JSON " +
	"that matches the requested schema."

// OpenAIOracle implements Oracle against an OpenAI-compatible chat
// completions API.
type OpenAIOracle struct {
	client *openai.Client
	model  string
}

// NewOpenAIOracle creates the oracle. baseURL overrides the API endpoint for
// OpenAI-compatible providers; model overrides the default model identifier.
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

// oracleResponse is the JSON envelope the prompt asks for.
type oracleResponse struct {
	Signals []RawRecord `json:"signals"`
}

// Extract sends one chunk to the model and decodes the JSON signal list.
// Transport failures surface as ErrOracleUnavailable; undecodable output as
// ErrExtractionSchema.
func (o *OpenAIOracle) Extract(ctx context.Context, chunkText string) ([]RawRecord, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: extractionTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(chunkText)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", esg.ErrOracleUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", esg.ErrExtractionSchema)
	}

	var decoded oracleResponse
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if decodeErr := json.Unmarshal([]byte(raw), &decoded); decodeErr != nil {
		return nil, fmt.Errorf("%w: %s", esg.ErrExtractionSchema, decodeErr)
	}

	return decoded.Signals, nil
}

// buildPrompt renders the extraction instructions with the fixed category
// vocabulary for each pillar.
func buildPrompt(chunkText string) string {
	var b strings.Builder

	b.WriteString("You will be given text from ESG, sustainability, or impact reports ")
	b.WriteString("and related analysis about a single company.\n\n")
	b.WriteString("Extract clear, factual ESG signals. Output a STRICT JSON object:\n")
	b.WriteString(`{"signals": [{"pillar": "...", "category": "...", "polarity": "...", ` +
		`"confidence": 0.0, "evidence_quote": "..."}]}` + "\n\n")
	b.WriteString("Allowed values:\n")

	for _, pillar := range esg.Pillars {
		b.WriteString("- pillar \"" + string(pillar) + "\" categories: ")

		names := make([]string, 0)
		for _, category := range esg.Categories(pillar) {
			names = append(names, string(category))
		}
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}

	b.WriteString("- polarity: positive, negative, neutral\n")
	b.WriteString("- confidence: number in [0,1]\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Emit one signal per distinct claim the text supports.\n")
	b.WriteString("- polarity is positive when the text supports the category ")
	b.WriteString("(e.g. a stated net-zero target), negative when it contradicts it, ")
	b.WriteString("neutral for mere mentions without substance.\n")
	b.WriteString("- evidence_quote is a short verbatim quote supporting the signal.\n")
	b.WriteString("- Emit no signal for topics the text does not mention.\n")
	b.WriteString("- Return ONLY the JSON object, no explanation, no markdown.\n\n")
	b.WriteString("Text to analyze:\n\"\"\"\n")
	b.WriteString(chunkText)
	b.WriteString("\n\"\"\"\n")

	return b.String()
}
