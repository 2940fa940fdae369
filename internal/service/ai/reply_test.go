package ai

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/zhouzirui/bizspark/backend/internal/model/idea"
)

func TestParseReplyToleratesCodeFence(t *testing.T) {
	reply, err := ParseReply("```json\n{\"response_type\":\"chat\",\"content\":\"Tell me more\"}\n```")
	if err != nil {
		t.Fatalf("ParseReply err: %v", err)
	}
	chatReply, ok := reply.(ChatReply)
	if !ok {
		t.Fatalf("expected ChatReply, got %T", reply)
	}
	if chatReply.Text != "Tell me more" {
		t.Fatalf("unexpected text %q", chatReply.Text)
	}
}

func TestParseReplyAcceptsIntegralFloatScore(t *testing.T) {
	reply, err := ParseReply(`{"response_type":"IDEA","idea":{"ideaName":"ConnectU","description":"d","audience":"a","monetization":"m","ideaScore":88.0,"feasibilityAnalysis":"f","suggestedMentors":[{"name":"n","expertise":"e"}]}}`)
	if err != nil {
		t.Fatalf("ParseReply err: %v", err)
	}
	ideaReply, ok := reply.(IdeaReply)
	if !ok {
		t.Fatalf("expected IdeaReply, got %T", reply)
	}
	if ideaReply.Idea.ViabilityScore != 88 {
		t.Fatalf("unexpected score %d", ideaReply.Idea.ViabilityScore)
	}
}

func TestParseReplyPartialIdeaWrapsValidationError(t *testing.T) {
	_, err := ParseReply(`{"response_type":"idea","idea":{"ideaName":"X","description":"d","audience":"a","monetization":"m","ideaScore":10,"feasibilityAnalysis":"f","suggestedMentors":[{"name":"n"}]}}`)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if !errors.Is(err, idea.ErrInvalidIdea) {
		t.Fatalf("expected ErrInvalidIdea in chain, got %v", err)
	}
}

func TestParseScore(t *testing.T) {
	cases := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"100", 100, false},
		{"92", 92, false},
		{"75.0", 75, false},
		{"-1", 0, true},
		{"101", 0, true},
		{"1e30", 0, true},
		{"50.5", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := parseScore(json.Number(tc.raw))
		if tc.wantErr {
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("parseScore(%q): expected ErrMalformedResponse, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseScore(%q) err: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parseScore(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}
