package quizforge

import "testing"

func existingQuestions(texts ...string) []QuizQuestion {
	questions := make([]QuizQuestion, len(texts))
	for i, text := range texts {
		questions[i] = QuizQuestion{ID: text, Text: text}
	}
	return questions
}

func TestCheckDuplicate_ExactMatch(t *testing.T) {
	qd := NewQuestionDedup(existingQuestions("What is the capital of France?"))

	if !qd.CheckDuplicate("What is the capital of France?") {
		t.Error("identical text should be a duplicate")
	}
	if !qd.CheckDuplicate("  WHAT is the Capital of France??  ") {
		t.Error("case and punctuation differences should still be exact duplicates")
	}
}

func TestCheckDuplicate_NearDuplicateRephrasing(t *testing.T) {
	qd := NewQuestionDedup(existingQuestions("What is the capital of France?"))

	if !qd.CheckDuplicate("What's the capital city of France?") {
		t.Error("rephrased question should be rejected as a near-duplicate")
	}
}

func TestCheckDuplicate_LowOverlapAccepted(t *testing.T) {
	qd := NewQuestionDedup(existingQuestions("What is the capital of France?"))

	if qd.CheckDuplicate("Name the longest river in Egypt") {
		t.Error("unrelated question should be accepted")
	}
}

func TestCheckDuplicate_EmptyTextAlwaysDuplicate(t *testing.T) {
	qd := NewQuestionDedup(nil)

	if !qd.CheckDuplicate("") {
		t.Error("empty text should be rejected")
	}
	if !qd.CheckDuplicate("!?!,,,") {
		t.Error("text that normalizes to empty should be rejected")
	}
}

func TestCheckDuplicate_AcceptedTextsJoinTheSession(t *testing.T) {
	qd := NewQuestionDedup(nil)

	if qd.CheckDuplicate("Which planet is closest to the sun?") {
		t.Fatal("first question should be accepted")
	}
	// The accepted question must now block its own rephrasing within the
	// same session.
	if !qd.CheckDuplicate("Which planet is the closest to the sun?") {
		t.Error("rephrasing of an accepted question should be rejected")
	}
}

func TestNormalizeQuestionText(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"What's the  capital of France?", "whats the capital of france"},
		{"  HELLO,   World!  ", "hello world"},
		{"100% of 5 = ?", "100 of 5"},
		{"???", ""},
	}
	for _, tc := range cases {
		if got := normalizeQuestionText(tc.input); got != tc.want {
			t.Errorf("normalizeQuestionText(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTokenSimilarity_EmptySetsScoreZero(t *testing.T) {
	if got := tokenSimilarity(map[string]struct{}{}, map[string]struct{}{}); got != 0 {
		t.Errorf("two empty sets should score 0, got %v", got)
	}
	if got := tokenSimilarity(tokenSet("one two"), map[string]struct{}{}); got != 0 {
		t.Errorf("one empty set should score 0, got %v", got)
	}
}
