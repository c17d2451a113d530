package citations

import (
	"testing"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/retrieval"
)

var testChunks = []retrieval.Chunk{
	{Content: "chunk one", Metadata: map[string]any{"recordId": "rec-1"}},
	{Content: "chunk two", Metadata: map[string]any{"recordId": "rec-2"}},
	{Content: "chunk three", Metadata: map[string]any{"recordId": "rec-3"}},
}

func citationIndexes(t *testing.T, result map[string]any) []int {
	t.Helper()
	cited, ok := result["citations"].([]Citation)
	if !ok {
		t.Fatalf("citations missing or wrong type: %#v", result["citations"])
	}
	indexes := make([]int, len(cited))
	for i, c := range cited {
		indexes[i] = c.ChunkIndex
	}
	return indexes
}

func TestExtract_WellFormedResponse(t *testing.T) {
	result := Extract(`{"answer": "use chunks", "chunkIndexes": [1, 3]}`, testChunks)

	if result["answer"] != "use chunks" {
		t.Errorf("answer = %v, want preserved", result["answer"])
	}
	cited := result["citations"].([]Citation)
	if len(cited) != 2 {
		t.Fatalf("got %d citations, want 2", len(cited))
	}
	if cited[0].ChunkIndex != 1 || cited[0].Content != "chunk one" {
		t.Errorf("citation[0] = %+v", cited[0])
	}
	if cited[1].ChunkIndex != 3 || cited[1].Content != "chunk three" {
		t.Errorf("citation[1] = %+v", cited[1])
	}
	if cited[0].CitationType != "vectordb|document" {
		t.Errorf("citationType = %q", cited[0].CitationType)
	}
	if cited[0].Metadata["recordId"] != "rec-1" {
		t.Errorf("citation metadata = %v", cited[0].Metadata)
	}
}

func TestExtract_ContentWrapper(t *testing.T) {
	raw := map[string]any{
		"content": `{"answer": "a", "chunkIndexes": [2]}`,
	}
	if got := citationIndexes(t, Extract(raw, testChunks)); len(got) != 1 || got[0] != 2 {
		t.Errorf("indexes = %v, want [2]", got)
	}
}

func TestExtract_QuoteWrapped(t *testing.T) {
	raw := `"{\"answer\": \"ok\", \"chunkIndexes\": [1]}"`
	result := Extract(raw, testChunks)
	if got := citationIndexes(t, result); len(got) != 1 || got[0] != 1 {
		t.Errorf("indexes = %v, want [1]", got)
	}
	if result["answer"] != "ok" {
		t.Errorf("answer = %q, want unwrapped and parsed", result["answer"])
	}
}

func TestExtract_JSONBuriedInProse(t *testing.T) {
	raw := "Here is my answer:\n```json\n{\"answer\": \"x\", \"chunkIndexes\": [2, 3]}\n```\nHope that helps."
	if got := citationIndexes(t, Extract(raw, testChunks)); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("indexes = %v, want [2 3]", got)
	}
}

func TestExtract_UnparseableReturnsErrorPayload(t *testing.T) {
	raw := "I cannot answer that question."
	result := Extract(raw, testChunks)
	if result["error"] == nil {
		t.Fatal("expected error field for unparseable response")
	}
	if result["raw_response"] != raw {
		t.Errorf("raw_response = %v, want original text", result["raw_response"])
	}
	if _, hasCitations := result["citations"]; hasCitations {
		t.Error("error payload should not carry citations")
	}
}

func TestExtract_AlternateKeyNames(t *testing.T) {
	for _, key := range []string{"chunkIndexes", "chunkindex", "chunk_indexes"} {
		result := Extract(`{"answer": "a", "`+key+`": [1]}`, testChunks)
		if got := citationIndexes(t, result); len(got) != 1 || got[0] != 1 {
			t.Errorf("key %s: indexes = %v, want [1]", key, got)
		}
	}
}

func TestExtract_NestedIndexField(t *testing.T) {
	raw := `{"answer": "a", "details": {"sources": {"chunkIndexes": "1, 2"}}}`
	if got := citationIndexes(t, Extract(raw, testChunks)); len(got) != 2 {
		t.Errorf("indexes = %v, want nested field found", got)
	}
}

func TestExtract_AnswerTextFallback(t *testing.T) {
	raw := `{"answer": "See [1, 3] for details, also [2]."}`
	got := citationIndexes(t, Extract(raw, testChunks))
	// Only the first bracketed group is used.
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("indexes = %v, want [1 3]", got)
	}
}

func TestExtract_IndexTokenShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int
	}{
		{"string with commas", `{"chunkIndexes": "[1, 2]"}`, []int{1, 2}},
		{"string with spaces", `{"chunkIndexes": "1 3"}`, []int{1, 3}},
		{"single scalar", `{"chunkIndexes": 2}`, []int{2}},
		{"quoted numbers in list", `{"chunkIndexes": ["1", "2"]}`, []int{1, 2}},
		{"out of range dropped", `{"chunkIndexes": [0, 1, 4, -2]}`, []int{1}},
		{"garbage tokens dropped", `{"chunkIndexes": ["1", "two", "3"]}`, []int{1, 3}},
		{"fractional dropped", `{"chunkIndexes": [1.5, 2]}`, []int{2}},
		{"empty list", `{"chunkIndexes": []}`, []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := citationIndexes(t, Extract(tc.raw, testChunks))
			if len(got) != len(tc.want) {
				t.Fatalf("indexes = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("indexes = %v, want %v", got, tc.want)
					break
				}
			}
		})
	}
}

func TestExtract_NonMappingParsedValue(t *testing.T) {
	result := Extract(`"just a plain string answer"`, testChunks)
	if result["answer"] != "just a plain string answer" {
		t.Errorf("answer = %v, want wrapped string", result["answer"])
	}
	if got := citationIndexes(t, result); len(got) != 0 {
		t.Errorf("indexes = %v, want none", got)
	}
}

func TestExtract_StructuredInputWithCycle(t *testing.T) {
	inner := map[string]any{"answer": "a"}
	inner["self"] = inner
	result := Extract(map[string]any{"content": inner}, testChunks)
	if got := citationIndexes(t, result); len(got) != 0 {
		t.Errorf("indexes = %v, want none", got)
	}
	if result["answer"] != "a" {
		t.Errorf("answer = %v, want preserved from structured input", result["answer"])
	}
}

func TestFindChunkIndexes_ListOfObjects(t *testing.T) {
	data := []any{
		map[string]any{"note": "nothing here"},
		map[string]any{"chunkIndexes": []any{float64(2)}},
	}
	got := findChunkIndexes(data, map[uintptr]struct{}{})
	if got == nil {
		t.Fatal("expected indexes found in list element")
	}
}
