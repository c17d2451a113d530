package query

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/contextutil"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/llm"
)

const rewritePrompt = `You are an expert at reformulating search queries. Rewrite the following query to be clearer and more specific for document retrieval, preserving its intent. Return only the rewritten query, nothing else.

Query: %s`

const expansionPrompt = `You are an expert at expanding search queries. Generate up to 3 alternative phrasings of the following query that could retrieve additional relevant documents. Return one phrasing per line with no numbering and no extra text.

Query: %s`

// Transform rewrites and expands a single query to widen retrieval recall.
// The rewrite and expansion calls are independent and run concurrently; a
// failure in either fails the whole call. The returned variants contain the
// rewritten query first, then expansions, case-insensitively deduplicated with
// the first occurrence's casing preserved.
func Transform(ctx context.Context, provider llm.Provider, query string) ([]string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var rewritten, expanded string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := provider.Invoke(gctx, []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(rewritePrompt, query)},
		})
		if err != nil {
			return fmt.Errorf("rewrite query: %w", err)
		}
		rewritten = out
		return nil
	})
	g.Go(func() error {
		out, err := provider.Invoke(gctx, []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(expansionPrompt, query)},
		})
		if err != nil {
			return fmt.Errorf("expand query: %w", err)
		}
		expanded = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "query transformed",
		"rewritten", rewritten,
		"expanded", expanded,
	)

	variants := make([]string, 0, 4)
	if r := strings.TrimSpace(rewritten); r != "" {
		variants = append(variants, r)
	}
	for _, line := range strings.Split(expanded, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			variants = append(variants, line)
		}
	}

	return MergeVariants(variants), nil
}

// MergeVariants deduplicates query variants case-insensitively, preserving
// order and the first-seen casing of each unique value.
func MergeVariants(variants []string) []string {
	seen := make(map[string]struct{}, len(variants))
	merged := make([]string, 0, len(variants))
	for _, v := range variants {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, v)
	}
	return merged
}
