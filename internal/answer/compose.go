package answer

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/contextutil"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/llm"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/retrieval"
)

// History roles accepted from the caller. Anything else is dropped without
// complaint so old clients with extra role values keep working.
const (
	RoleUserQuery   = "user_query"
	RoleBotResponse = "bot_response"
)

const systemPrompt = "You are a enterprise questions answering expert"

// qnaTemplate numbers the chunks starting at 1; that numbering is the index
// space the model cites into and the citation extractor maps back from.
const qnaTemplate = `Answer the user's question using only the numbered context chunks below.

Question: {{.Query}}
{{if .Variants}}
The question was also interpreted as:
{{range .Variants}}- {{.}}
{{end}}{{end}}
Context:
{{range $i, $c := .Chunks}}[{{add1 $i}}] {{$c.Content}}
{{end}}
Respond with a JSON object of the form {"answer": "<your answer>", "chunkIndexes": [<numbers of the chunks you relied on>]}.
Cite only chunks that directly support the answer. If the context does not contain the answer, say so in the answer field and return an empty chunkIndexes list.`

var qnaTmpl = template.Must(template.New("qna").
	Funcs(template.FuncMap{"add1": func(i int) int { return i + 1 }}).
	Parse(qnaTemplate))

// HistoryTurn is one prior exchange turn as the API caller recorded it.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries everything the prompt is rendered from. Chunk order is
// significant: it defines the 1-based citation index space.
type Request struct {
	Query    string
	Variants []string
	Chunks   []retrieval.Chunk
	History  []HistoryTurn
}

// CompositionError indicates the answer could not be produced, either because
// the prompt failed to render or the LLM call failed.
type CompositionError struct {
	Err error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("answer composition failed: %v", e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }

// Compose renders the question-answering prompt, replays the conversation
// history, and invokes the model once, returning its raw output.
func Compose(ctx context.Context, provider llm.Provider, req Request) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var sb strings.Builder
	if err := qnaTmpl.Execute(&sb, req); err != nil {
		return "", &CompositionError{Err: fmt.Errorf("render prompt: %w", err)}
	}

	messages := make([]llm.Message, 0, len(req.History)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, turn := range req.History {
		switch turn.Role {
		case RoleUserQuery:
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: turn.Content})
		case RoleBotResponse:
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: turn.Content})
		}
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: sb.String()})

	logger.DebugContext(ctx, "composing answer",
		"chunks", len(req.Chunks), "history_turns", len(req.History))

	out, err := provider.Invoke(ctx, messages)
	if err != nil {
		return "", &CompositionError{Err: fmt.Errorf("invoke llm: %w", err)}
	}
	return out, nil
}
