// Package gemini adapts the Google Gen AI SDK to eino's chat model interface
// so the idea chain can run on Gemini with a constrained JSON response.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type modelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var newClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, cfg)
}

// Config describes a Gemini chat model.
type Config struct {
	APIKey          string
	Model           string
	Temperature     *float32
	MaxOutputTokens int32
	// ResponseSchema constrains output to JSON of this shape when set.
	ResponseSchema *genai.Schema
}

// ChatModel implements model.BaseChatModel on top of genai.
type ChatModel struct {
	models      modelsClient
	model       string
	temperature *float32
	maxTokens   int32
	schema      *genai.Schema
}

var _ model.BaseChatModel = (*ChatModel)(nil)

// NewChatModel creates a Gemini API client for the configured model.
func NewChatModel(ctx context.Context, cfg Config) (*ChatModel, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := newClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newChatModel(client.Models, cfg), nil
}

func newChatModel(models modelsClient, cfg Config) *ChatModel {
	name := strings.TrimSpace(cfg.Model)
	if name == "" {
		name = DefaultModel
	}
	return &ChatModel{
		models:      models,
		model:       name,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		schema:      cfg.ResponseSchema,
	}
}

// Generate sends one GenerateContent request.
func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{
		Temperature: m.temperature,
		Model:       &m.model,
	}, opts...)

	contents, system := toContents(input)
	if len(contents) == 0 {
		return nil, errors.New("at least one user or assistant message is required")
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       options.Temperature,
	}
	if m.maxTokens > 0 {
		cfg.MaxOutputTokens = m.maxTokens
	}
	if m.schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = m.schema
	}

	name := m.model
	if options.Model != nil && *options.Model != "" {
		name = *options.Model
	}

	resp, err := m.models.GenerateContent(ctx, name, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text := visibleText(resp)
	if text == "" {
		return nil, errors.New("gemini returned no text")
	}
	return schema.AssistantMessage(text, nil), nil
}

// Stream returns the complete Generate result as a single chunk.
func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func toContents(input []*schema.Message) ([]*genai.Content, *genai.Content) {
	contents := make([]*genai.Content, 0, len(input))
	systemParts := make([]string, 0, 1)

	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			if text := strings.TrimSpace(msg.Content); text != "" {
				systemParts = append(systemParts, text)
			}
		case schema.Assistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	if len(systemParts) == 0 {
		return contents, nil
	}
	return contents, &genai.Content{
		Parts: []*genai.Part{{Text: strings.Join(systemParts, "\n\n")}},
	}
}

func visibleText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}
