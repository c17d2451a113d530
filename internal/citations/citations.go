// Package citations turns a raw, possibly malformed LLM answer into a
// response payload with resolved chunk citations. Models do not reliably emit
// valid JSON, so parsing degrades through several recovery strategies and
// never fails past this package's boundary.
package citations

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/retrieval"
)

// citationType tags every extracted citation; the chunk payloads this
// pipeline retrieves are vector-store chunks backed by graph documents.
const citationType = "vectordb|document"

// chunkIndexKeys are the field names, in priority order, the model has been
// observed using for its cited chunk numbers.
var chunkIndexKeys = []string{"chunkIndexes", "chunkindex", "chunk_indexes"}

// bracketedIndexes matches citation groups like [1] or [1, 3] inside prose.
var bracketedIndexes = regexp.MustCompile(`\[([0-9,\s]+)\]`)

// Citation points an answer back at one of the chunks the model was shown.
// ChunkIndex is 1-based, matching the numbering in the prompt.
type Citation struct {
	Content      string         `json:"content"`
	ChunkIndex   int            `json:"chunkIndex"`
	Metadata     map[string]any `json:"metadata"`
	CitationType string         `json:"citationType"`
}

// Extract parses the model output and attaches a "citations" list resolving
// each cited index against chunks, the ordered context the model was shown.
// It always returns a usable payload: when parsing fails entirely the result
// carries an "error" field and the untouched "raw_response" instead.
func Extract(raw any, chunks []retrieval.Chunk) map[string]any {
	content := unwrapContent(raw)

	var parsed any
	if s, ok := content.(string); ok {
		var err error
		parsed, err = parseResponse(s)
		if err != nil {
			return map[string]any{
				"error":        fmt.Sprintf("failed to parse llm response: %v", err),
				"raw_response": content,
			}
		}
	} else {
		parsed = content
	}

	indexes := findChunkIndexes(parsed, map[uintptr]struct{}{})
	if indexes == nil {
		indexes = answerTextFallback(parsed)
	}

	cited := make([]Citation, 0)
	for _, idx := range normalizeIndexTokens(indexes) {
		// Prompt numbering is 1-based; bad or out-of-range tokens are
		// dropped rather than failing the whole extraction.
		i, ok := tokenToInt(idx)
		if !ok {
			continue
		}
		i--
		if i < 0 || i >= len(chunks) {
			continue
		}
		cited = append(cited, Citation{
			Content:      chunks[i].Content,
			ChunkIndex:   i + 1,
			Metadata:     chunks[i].Metadata,
			CitationType: citationType,
		})
	}

	result := asResultMap(parsed)
	result["citations"] = cited
	return result
}

// unwrapContent pulls the content field out of provider response shapes that
// wrap the text, passing anything else through as-is.
func unwrapContent(raw any) any {
	if m, ok := raw.(map[string]any); ok {
		if c, exists := m["content"]; exists {
			return c
		}
	}
	return raw
}

// parseResponse attempts strict JSON parsing of the model output, first
// stripping one layer of quote wrapping and unescaping, then falling back to
// the substring between the first '{' and the last '}'.
func parseResponse(s string) (any, error) {
	cleaned := strings.TrimSpace(s)
	if strings.HasPrefix(cleaned, `"`) && strings.HasSuffix(cleaned, `"`) && len(cleaned) >= 2 {
		cleaned = strings.ReplaceAll(cleaned[1:len(cleaned)-1], `\"`, `"`)
	}
	cleaned = strings.ReplaceAll(cleaned, `\n`, "\n")
	cleaned = strings.ReplaceAll(cleaned, `\t`, "\t")

	var parsed any
	err := json.Unmarshal([]byte(cleaned), &parsed)
	if err == nil {
		return parsed, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, err
	}
	var inner any
	if innerErr := json.Unmarshal([]byte(cleaned[start:end+1]), &inner); innerErr != nil {
		return nil, fmt.Errorf("%v (object substring: %v)", err, innerErr)
	}
	return inner, nil
}

// findChunkIndexes walks the parsed structure depth-first looking for any of
// the recognized citation-index keys, returning the first value found. The
// visited set guards against reference cycles in caller-supplied structures.
func findChunkIndexes(data any, visited map[uintptr]struct{}) any {
	if p, ok := containerPointer(data); ok {
		if _, seen := visited[p]; seen {
			return nil
		}
		visited[p] = struct{}{}
	}

	switch v := data.(type) {
	case map[string]any:
		for _, key := range chunkIndexKeys {
			if val, exists := v[key]; exists {
				return val
			}
		}
		for _, nested := range v {
			if result := findChunkIndexes(nested, visited); result != nil {
				return result
			}
		}
	case []any:
		for _, item := range v {
			if result := findChunkIndexes(item, visited); result != nil {
				return result
			}
		}
	}
	return nil
}

func containerPointer(data any) (uintptr, bool) {
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		if !rv.IsNil() {
			return rv.Pointer(), true
		}
	}
	return 0, false
}

// answerTextFallback scans the answer text for a bracketed citation group
// like [1, 3] when the structure carries no explicit index field.
func answerTextFallback(parsed any) any {
	m, ok := parsed.(map[string]any)
	if !ok {
		return nil
	}
	text, ok := m["answer"].(string)
	if !ok {
		return nil
	}
	if match := bracketedIndexes.FindStringSubmatch(text); match != nil {
		return match[1]
	}
	return nil
}

// normalizeIndexTokens flattens whatever shape the indexes arrived in into a
// list of scalar tokens: strings are stripped of brackets/quotes and split on
// commas (or whitespace when no comma is present), scalars are wrapped.
func normalizeIndexTokens(indexes any) []any {
	if indexes == nil {
		return nil
	}

	switch v := indexes.(type) {
	case []any:
		tokens := make([]any, 0, len(v))
		for _, t := range v {
			if t != nil && t != "" {
				tokens = append(tokens, t)
			}
		}
		return tokens
	case string:
		stripped := strings.NewReplacer("[", "", "]", "", `"`, "", "'", "").Replace(v)
		var parts []string
		if strings.Contains(stripped, ",") {
			parts = strings.Split(stripped, ",")
		} else {
			parts = strings.Fields(stripped)
		}
		tokens := make([]any, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				tokens = append(tokens, p)
			}
		}
		return tokens
	default:
		return []any{v}
	}
}

// tokenToInt converts one citation token to an integer, tolerating quoted
// strings and the float64 values JSON decoding produces for numbers.
func tokenToInt(token any) (int, bool) {
	switch v := token.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case string:
		s := strings.Trim(strings.TrimSpace(v), `"'`)
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// asResultMap returns a shallow copy of the parsed structure when it is a
// mapping, or wraps anything else under an "answer" key.
func asResultMap(parsed any) map[string]any {
	if m, ok := parsed.(map[string]any); ok {
		result := make(map[string]any, len(m)+1)
		for k, v := range m {
			result[k] = v
		}
		return result
	}
	return map[string]any{"answer": fmt.Sprint(parsed)}
}
