package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/contextutil"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/llm"
)

const decomposePrompt = `Break the following question into independent sub-questions that can each be answered on their own. If the question is already a single question, return it as the only element. Respond with a JSON array of objects of the form [{"query": "..."}] and nothing else.

Question: %s`

// SubQuery is one independent sub-question produced by decomposition.
type SubQuery struct {
	Query string `json:"query"`
}

// Decompose asks the LLM to split a compound question into independent
// sub-questions. An empty result is returned as-is; the caller falls back to
// the original query when decomposition yields nothing.
func Decompose(ctx context.Context, provider llm.Provider, query string) ([]SubQuery, error) {
	logger := contextutil.LoggerFromContext(ctx)

	out, err := provider.Invoke(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: fmt.Sprintf(decomposePrompt, query)},
	})
	if err != nil {
		return nil, fmt.Errorf("decompose query: %w", err)
	}

	subQueries := parseSubQueries(out)
	logger.DebugContext(ctx, "query decomposed", "sub_queries", len(subQueries))
	return subQueries, nil
}

// parseSubQueries extracts sub-queries from LLM output. The model is asked for
// a bare JSON array but may wrap it in prose or fencing, so the array is
// located by its outermost brackets before parsing. Unparseable output yields
// an empty slice, never an error.
func parseSubQueries(out string) []SubQuery {
	start := strings.Index(out, "[")
	end := strings.LastIndex(out, "]")
	if start < 0 || end <= start {
		return nil
	}

	raw := out[start : end+1]

	var objects []SubQuery
	if err := json.Unmarshal([]byte(raw), &objects); err == nil {
		return filterEmpty(objects)
	}

	// Some models return a plain array of strings instead.
	var plain []string
	if err := json.Unmarshal([]byte(raw), &plain); err == nil {
		objects = make([]SubQuery, 0, len(plain))
		for _, q := range plain {
			objects = append(objects, SubQuery{Query: q})
		}
		return filterEmpty(objects)
	}

	return nil
}

func filterEmpty(subQueries []SubQuery) []SubQuery {
	result := make([]SubQuery, 0, len(subQueries))
	for _, sq := range subQueries {
		if strings.TrimSpace(sq.Query) != "" {
			result = append(result, SubQuery{Query: strings.TrimSpace(sq.Query)})
		}
	}
	return result
}
