package quizforge

import (
	"strings"
	"testing"
)

func TestNormalizeCandidate_AcceptsExactChoiceCount(t *testing.T) {
	raw := decodeRaw(t, `{"question":" What is 2+2? ","choices":[" 3","4 ","5","6"],"answer":1,"explanation":" basic arithmetic "}`)
	question, err := NormalizeCandidate(raw, 4)
	if err != nil {
		t.Fatalf("NormalizeCandidate failed: %v", err)
	}

	if question.ID == "" {
		t.Error("expected a fresh id")
	}
	if question.Text != "What is 2+2?" {
		t.Errorf("expected trimmed text, got %q", question.Text)
	}
	if len(question.Choices) != 4 || question.Choices[0] != "3" || question.Choices[1] != "4" {
		t.Errorf("expected trimmed choices, got %v", question.Choices)
	}
	if question.AnswerIndex != 1 {
		t.Errorf("expected answer index 1, got %d", question.AnswerIndex)
	}
	if question.Explanation != "basic arithmetic" {
		t.Errorf("expected trimmed explanation, got %q", question.Explanation)
	}
	if question.UserAnswerIndex != nil {
		t.Error("expected nil user answer on a fresh question")
	}
}

func TestNormalizeCandidate_RejectsChoiceCountMismatch(t *testing.T) {
	raw := decodeRaw(t, `{"question":"Q","choices":["a","b","c"],"answer":0}`)
	_, err := NormalizeCandidate(raw, 4)
	if !IsKind(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema_mismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "expected 4 choices, got 3") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestNormalizeCandidate_BlankChoicesDroppedBeforeCount(t *testing.T) {
	// Five raw choices, one blank after trimming: the surviving four satisfy
	// choicesCount=4.
	raw := decodeRaw(t, `{"question":"Q","choices":["a","  ","b","c","d"],"answer":0}`)
	question, err := NormalizeCandidate(raw, 4)
	if err != nil {
		t.Fatalf("NormalizeCandidate failed: %v", err)
	}
	if len(question.Choices) != 4 {
		t.Errorf("expected 4 surviving choices, got %v", question.Choices)
	}
}

func TestNormalizeCandidate_RejectsMissingText(t *testing.T) {
	// The matcher already requires non-blank text, so drive the normalizer
	// directly to cover its own guard.
	raw := decodeRaw(t, `{"question":"   ","choices":["a","b"],"answer":0}`)
	_, err := normalizeMultipleChoice(raw, 2)
	if !IsKind(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema_mismatch for blank text, got %v", err)
	}
}

func TestNormalizeCandidate_AnswerCoercionAndClamping(t *testing.T) {
	cases := []struct {
		name    string
		literal string
		want    int
	}{
		{"string number", `{"question":"Q","choices":["a","b","c","d"],"answer":"2"}`, 2},
		{"float index", `{"question":"Q","choices":["a","b","c","d"],"answer":1.9}`, 1},
		{"negative clamped", `{"question":"Q","choices":["a","b","c","d"],"answer":-3}`, 0},
		{"too large clamped", `{"question":"Q","choices":["a","b","c","d"],"answer":17}`, 3},
		{"unparseable string defaults to 0", `{"question":"Q","choices":["a","b","c","d"],"answer":"first"}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			question, err := NormalizeCandidate(decodeRaw(t, tc.literal), 4)
			if err != nil {
				t.Fatalf("NormalizeCandidate failed: %v", err)
			}
			if question.AnswerIndex != tc.want {
				t.Errorf("expected answer index %d, got %d", tc.want, question.AnswerIndex)
			}
		})
	}
}

func TestNormalizeCandidate_RejectsUnsupportedVariants(t *testing.T) {
	cases := []struct {
		name    string
		literal string
	}{
		{"true false", `{"question":"Go is compiled","answer":true}`},
		{"matching pairs", `{"question":"Match","pairs":[{"left":"a","right":"b"}]}`},
		{"select all", `{"question":"Pick","choices":["a","b"],"correctIndexes":[0]}`},
		{"fill in blank", `{"question":"The ___ keyword","answers":["func"]}`},
		{"graded response", `{"question":"Explain channels","answer":"They synchronize goroutines"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeCandidate(decodeRaw(t, tc.literal), 4)
			if !IsKind(err, ErrSchemaMismatch) {
				t.Fatalf("expected schema_mismatch, got %v", err)
			}
			if !strings.Contains(err.Error(), "unsupported question type") {
				t.Errorf("expected unsupported-type rejection, got: %v", err)
			}
		})
	}
}

func TestNormalizeCandidate_RejectsUnmatchedRecord(t *testing.T) {
	_, err := NormalizeCandidate(decodeRaw(t, `{"foo":"bar"}`), 4)
	if !IsKind(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema_mismatch, got %v", err)
	}
}
