package quizforge

import (
	"encoding/json"
	"testing"
)

// decodeRaw runs a JSON literal through encoding/json so raw records carry
// the same dynamic types the recovery parser produces.
func decodeRaw(t *testing.T, literal string) map[string]interface{} {
	t.Helper()
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(literal), &raw); err != nil {
		t.Fatalf("bad test literal: %v", err)
	}
	return raw
}

func TestMatchQuestionType(t *testing.T) {
	cases := []struct {
		name    string
		literal string
		want    QuestionType
		matched bool
	}{
		{
			name:    "matching pairs",
			literal: `{"question":"Match terms","pairs":[{"left":"Go","right":"compiled"},{"left":"Python","right":"interpreted"}]}`,
			want:    TypeMatchingPairs,
			matched: true,
		},
		{
			name:    "select all",
			literal: `{"question":"Pick primes","choices":["2","3","4"],"correctIndexes":[0,1]}`,
			want:    TypeSelectAll,
			matched: true,
		},
		{
			name:    "fill in blank",
			literal: `{"question":"The capital of France is ___","answers":["Paris"]}`,
			want:    TypeFillInBlank,
			matched: true,
		},
		{
			name:    "multiple choice",
			literal: `{"question":"2+2?","choices":["3","4","5","6"],"answer":1}`,
			want:    TypeMultipleChoice,
			matched: true,
		},
		{
			name:    "multiple choice with string answer",
			literal: `{"question":"2+2?","choices":["3","4"],"answer":"1"}`,
			want:    TypeMultipleChoice,
			matched: true,
		},
		{
			name:    "true false",
			literal: `{"question":"Go has generics","answer":true}`,
			want:    TypeTrueFalse,
			matched: true,
		},
		{
			name:    "graded response",
			literal: `{"question":"Explain goroutines","answer":"Lightweight threads managed by the runtime"}`,
			want:    TypeGradedResponse,
			matched: true,
		},
		{
			name:    "empty pairs rejected",
			literal: `{"question":"Match","pairs":[]}`,
			matched: false,
		},
		{
			name:    "empty correct indexes rejected",
			literal: `{"question":"Pick","choices":["a"],"correctIndexes":[]}`,
			matched: false,
		},
		{
			name:    "blank question rejected",
			literal: `{"question":"  ","choices":["a","b"],"answer":0}`,
			matched: false,
		},
		{
			name:    "no recognizable shape",
			literal: `{"foo":"bar"}`,
			matched: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := MatchQuestionType(decodeRaw(t, tc.literal))
			if ok != tc.matched {
				t.Fatalf("matched=%v, want %v (got type %q)", ok, tc.matched, got)
			}
			if ok && got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestMatchQuestionType_FirstMatchInRegistrationOrder(t *testing.T) {
	// A record satisfying both the select-all and multiple choice predicates
	// must resolve to select-all, which registers first.
	raw := decodeRaw(t, `{"question":"Pick","choices":["a","b"],"correctIndexes":[0],"answer":1}`)
	got, ok := MatchQuestionType(raw)
	if !ok || got != TypeSelectAll {
		t.Errorf("expected select_all by registration order, got %s (ok=%v)", got, ok)
	}
}
