package answer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/answer"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/llm"
	llmmocks "github.com/rohilbansal-pipeshub/pipeshub-ai/internal/llm/mocks"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/retrieval"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCompose_MessageAssembly(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := llmmocks.NewMockProvider(ctrl)

	var captured []llm.Message
	provider.EXPECT().
		Invoke(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []llm.Message) (string, error) {
			captured = messages
			return `{"answer": "42", "chunkIndexes": [1]}`, nil
		})

	out, err := answer.Compose(context.Background(), provider, answer.Request{
		Query:    "what is the leave policy",
		Variants: []string{"leave policy details", "vacation rules"},
		Chunks: []retrieval.Chunk{
			{Content: "Employees get 20 days of leave."},
			{Content: "Leave carries over up to 5 days."},
		},
		History: []answer.HistoryTurn{
			{Role: "user_query", Content: "hi"},
			{Role: "bot_response", Content: "hello"},
			{Role: "system_note", Content: "should be dropped"},
		},
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if out != `{"answer": "42", "chunkIndexes": [1]}` {
		t.Errorf("unexpected raw output: %q", out)
	}

	// system + 2 mapped history turns + final user prompt
	if len(captured) != 4 {
		t.Fatalf("got %d messages, want 4", len(captured))
	}
	if captured[0].Role != llm.RoleSystem || captured[0].Content != "You are a enterprise questions answering expert" {
		t.Errorf("unexpected system message: %+v", captured[0])
	}
	if captured[1].Role != llm.RoleUser || captured[1].Content != "hi" {
		t.Errorf("unexpected first history turn: %+v", captured[1])
	}
	if captured[2].Role != llm.RoleAssistant || captured[2].Content != "hello" {
		t.Errorf("unexpected second history turn: %+v", captured[2])
	}

	prompt := captured[3].Content
	if captured[3].Role != llm.RoleUser {
		t.Errorf("final turn role = %q, want user", captured[3].Role)
	}
	for _, want := range []string{
		"what is the leave policy",
		"- leave policy details",
		"- vacation rules",
		"[1] Employees get 20 days of leave.",
		"[2] Leave carries over up to 5 days.",
		"chunkIndexes",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\nprompt:\n%s", want, prompt)
		}
	}
	// Chunk order defines the citation index space.
	if strings.Index(prompt, "[1] Employees") > strings.Index(prompt, "[2] Leave carries") {
		t.Error("chunks rendered out of order")
	}
}

func TestCompose_NoVariantsNoHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := llmmocks.NewMockProvider(ctrl)

	provider.EXPECT().
		Invoke(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []llm.Message) (string, error) {
			if len(messages) != 2 {
				t.Errorf("got %d messages, want system + user", len(messages))
			}
			if strings.Contains(messages[1].Content, "also interpreted") {
				t.Error("variant section rendered with no variants")
			}
			return "ok", nil
		})

	if _, err := answer.Compose(context.Background(), provider, answer.Request{
		Query: "q",
	}); err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
}

func TestCompose_LLMFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := llmmocks.NewMockProvider(ctrl)

	provider.EXPECT().
		Invoke(gomock.Any(), gomock.Any()).
		Return("", errors.New("rate limited"))

	_, err := answer.Compose(context.Background(), provider, answer.Request{Query: "q"})
	var compErr *answer.CompositionError
	if !errors.As(err, &compErr) {
		t.Fatalf("expected CompositionError, got %v", err)
	}
}
