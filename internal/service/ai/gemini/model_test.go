package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

type stubModelsClient struct {
	resp *genai.GenerateContentResponse
	err  error

	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
}

func (s *stubModelsClient) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.gotModel = model
	s.gotContents = contents
	s.gotConfig = cfg
	return s.resp, s.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Role:  genai.RoleModel,
					Parts: []*genai.Part{{Text: text}},
				},
			},
		},
	}
}

func TestGenerateAppliesResponseSchema(t *testing.T) {
	stub := &stubModelsClient{resp: textResponse(`{"response_type":"chat","content":"hi"}`)}
	temp := float32(0.7)
	m := newChatModel(stub, Config{Temperature: &temp, ResponseSchema: IdeaEnvelopeSchema()})

	msg, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("be brief"),
		schema.UserMessage("hello"),
		schema.AssistantMessage("hey", nil),
	})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if msg.Content != `{"response_type":"chat","content":"hi"}` {
		t.Fatalf("unexpected content %q", msg.Content)
	}

	if stub.gotModel != DefaultModel {
		t.Fatalf("expected default model, got %s", stub.gotModel)
	}
	if stub.gotConfig.ResponseMIMEType != "application/json" || stub.gotConfig.ResponseSchema == nil {
		t.Fatalf("response schema not applied: %+v", stub.gotConfig)
	}
	if stub.gotConfig.Temperature == nil || *stub.gotConfig.Temperature != 0.7 {
		t.Fatalf("unexpected temperature %+v", stub.gotConfig.Temperature)
	}
	if stub.gotConfig.SystemInstruction == nil || stub.gotConfig.SystemInstruction.Parts[0].Text != "be brief" {
		t.Fatalf("system instruction not mapped: %+v", stub.gotConfig.SystemInstruction)
	}
	if len(stub.gotContents) != 2 || stub.gotContents[0].Role != genai.RoleUser || stub.gotContents[1].Role != genai.RoleModel {
		t.Fatalf("unexpected contents %+v", stub.gotContents)
	}
}

func TestGenerateModelOverride(t *testing.T) {
	stub := &stubModelsClient{resp: textResponse("ok")}
	m := newChatModel(stub, Config{Model: "gemini-custom"})

	if _, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")}, model.WithModel("gemini-other")); err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if stub.gotModel != "gemini-other" {
		t.Fatalf("expected option override, got %s", stub.gotModel)
	}
	if stub.gotConfig.ResponseMIMEType != "" {
		t.Fatal("plain model should not force json output")
	}
}

func TestGenerateErrors(t *testing.T) {
	m := newChatModel(&stubModelsClient{err: errors.New("quota")}, Config{})
	if _, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")}); err == nil {
		t.Fatal("expected transport error")
	}

	m = newChatModel(&stubModelsClient{resp: &genai.GenerateContentResponse{}}, Config{})
	if _, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")}); err == nil {
		t.Fatal("expected error for empty candidates")
	}

	m = newChatModel(&stubModelsClient{resp: textResponse("x")}, Config{})
	if _, err := m.Generate(context.Background(), []*schema.Message{schema.SystemMessage("only system")}); err == nil {
		t.Fatal("expected error without user content")
	}
}

func TestStreamReturnsSingleChunk(t *testing.T) {
	m := newChatModel(&stubModelsClient{resp: textResponse("chunk")}, Config{})
	stream, err := m.Stream(context.Background(), []*schema.Message{schema.UserMessage("x")})
	if err != nil {
		t.Fatalf("Stream err: %v", err)
	}
	defer stream.Close()

	msg, err := stream.Recv()
	if err != nil {
		t.Fatalf("Recv err: %v", err)
	}
	if msg.Content != "chunk" {
		t.Fatalf("unexpected chunk %q", msg.Content)
	}
}

func TestNewChatModelRequiresKey(t *testing.T) {
	if _, err := NewChatModel(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestIdeaEnvelopeSchemaRequiredFields(t *testing.T) {
	s := IdeaEnvelopeSchema()
	idea := s.Properties["idea"]
	if idea == nil || len(idea.Required) != 7 {
		t.Fatalf("idea schema should require seven fields: %+v", idea)
	}
	if idea.Properties["ideaScore"].Type != genai.TypeInteger {
		t.Fatal("ideaScore should be an integer")
	}
}
