package query

import (
	"reflect"
	"testing"
)

func TestParseSubQueries(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []SubQuery
	}{
		{
			name: "plain object array",
			out:  `[{"query": "What is the leave policy?"}, {"query": "How do I request leave?"}]`,
			want: []SubQuery{
				{Query: "What is the leave policy?"},
				{Query: "How do I request leave?"},
			},
		},
		{
			name: "array wrapped in prose",
			out:  "Here are the sub-questions:\n[{\"query\": \"What is SSO?\"}]\nLet me know if you need more.",
			want: []SubQuery{{Query: "What is SSO?"}},
		},
		{
			name: "fenced array",
			out:  "```json\n[{\"query\": \"What is SSO?\"}]\n```",
			want: []SubQuery{{Query: "What is SSO?"}},
		},
		{
			name: "string array variant",
			out:  `["first question", "second question"]`,
			want: []SubQuery{{Query: "first question"}, {Query: "second question"}},
		},
		{
			name: "empty array",
			out:  `[]`,
			want: []SubQuery{},
		},
		{
			name: "no array at all",
			out:  "I could not break this question down.",
			want: nil,
		},
		{
			name: "blank queries dropped",
			out:  `[{"query": "  "}, {"query": "real question"}]`,
			want: []SubQuery{{Query: "real question"}},
		},
		{
			name: "malformed json",
			out:  `[{"query": "unterminated`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSubQueries(tt.out)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseSubQueries(%q) = %v, want %v", tt.out, got, tt.want)
			}
		})
	}
}
