package vectorstore

import (
	"reflect"
	"sort"
	"testing"
)

func TestEncodeSparse(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		vec := EncodeSparse("")
		if len(vec.Indices) != 0 || len(vec.Values) != 0 {
			t.Errorf("EncodeSparse(\"\") = %+v, want empty vector", vec)
		}
	})

	t.Run("stable across calls", func(t *testing.T) {
		a := EncodeSparse("annual leave policy")
		b := EncodeSparse("annual leave policy")
		if !reflect.DeepEqual(a, b) {
			t.Errorf("EncodeSparse() not stable: %+v vs %+v", a, b)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		a := EncodeSparse("Leave Policy")
		b := EncodeSparse("leave policy")
		if !reflect.DeepEqual(a, b) {
			t.Errorf("EncodeSparse() differs by case: %+v vs %+v", a, b)
		}
	})

	t.Run("term frequency weights", func(t *testing.T) {
		vec := EncodeSparse("leave leave policy")
		if len(vec.Indices) != 2 {
			t.Fatalf("expected 2 unique tokens, got %d", len(vec.Indices))
		}
		leaveIdx := hashToken("leave")
		found := false
		for i, idx := range vec.Indices {
			if idx == leaveIdx {
				found = true
				if vec.Values[i] != 2 {
					t.Errorf("token \"leave\" weight = %v, want 2", vec.Values[i])
				}
			}
		}
		if !found {
			t.Error("token \"leave\" missing from sparse vector")
		}
	})

	t.Run("indices sorted", func(t *testing.T) {
		vec := EncodeSparse("what is the annual leave carryover policy for engineers")
		if !sort.SliceIsSorted(vec.Indices, func(i, j int) bool { return vec.Indices[i] < vec.Indices[j] }) {
			t.Errorf("indices not sorted: %v", vec.Indices)
		}
	})

	t.Run("punctuation ignored", func(t *testing.T) {
		a := EncodeSparse("leave, policy!")
		b := EncodeSparse("leave policy")
		if !reflect.DeepEqual(a, b) {
			t.Errorf("EncodeSparse() differs by punctuation: %+v vs %+v", a, b)
		}
	})
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "Annual Leave", []string{"annual", "leave"}},
		{"with digits", "q3 2025 report", []string{"q3", "2025", "report"}},
		{"punctuation split", "don't-stop", []string{"don", "t", "stop"}},
		{"empty", "", nil},
		{"only punctuation", "?!...", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildAccessFilter(t *testing.T) {
	filter := buildAccessFilter(AccessFilter{
		OrgID:     "org-1",
		RecordIDs: []string{"rec-1", "rec-2"},
	})

	if len(filter.Must) != 2 {
		t.Fatalf("expected 2 must conditions, got %d", len(filter.Must))
	}

	nested := filter.Must[1].GetFilter()
	if nested == nil {
		t.Fatal("second must condition is not a nested filter")
	}
	if len(nested.Should) != 2 {
		t.Errorf("expected 2 should conditions in allow-list, got %d", len(nested.Should))
	}
}
