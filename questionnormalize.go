package quizforge

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NormalizeCandidate runs a raw record through the matcher and, for multiple
// choice records, the normalizer. Records matching any other variant are
// structurally valid but have no implemented normalization, so they are
// rejected here as unsupported rather than at the matcher.
func NormalizeCandidate(raw map[string]interface{}, choicesCount int) (QuizQuestion, error) {
	matched, ok := MatchQuestionType(raw)
	if !ok {
		return QuizQuestion{}, &PipelineError{
			Kind:    ErrSchemaMismatch,
			Message: "question does not match any known shape",
		}
	}
	if matched != TypeMultipleChoice {
		return QuizQuestion{}, &PipelineError{
			Kind:    ErrSchemaMismatch,
			Message: fmt.Sprintf("unsupported question type %q", matched),
		}
	}
	return normalizeMultipleChoice(raw, choicesCount)
}

// normalizeMultipleChoice converts a matched raw record into a canonical,
// bounds-checked question. Choices are trimmed and blank ones dropped; the
// surviving count must equal choicesCount exactly, with no padding or
// truncation. The answer index is coerced to a finite integer (0 when it is
// not) and clamped into the live choice range.
func normalizeMultipleChoice(raw map[string]interface{}, choicesCount int) (QuizQuestion, error) {
	text := strings.TrimSpace(stringify(raw["question"]))
	if text == "" {
		return QuizQuestion{}, &PipelineError{Kind: ErrSchemaMismatch, Message: "question text is empty"}
	}

	var choices []string
	if list, ok := raw["choices"].([]interface{}); ok {
		for _, item := range list {
			choice := strings.TrimSpace(stringify(item))
			if choice == "" {
				continue
			}
			choices = append(choices, choice)
		}
	}
	if len(choices) != choicesCount {
		return QuizQuestion{}, &PipelineError{
			Kind:    ErrSchemaMismatch,
			Message: fmt.Sprintf("expected %d choices, got %d", choicesCount, len(choices)),
		}
	}

	answer := coerceIndex(raw["answer"])
	if answer < 0 {
		answer = 0
	}
	if answer > len(choices)-1 {
		answer = len(choices) - 1
	}

	explanation := strings.TrimSpace(stringify(raw["explanation"]))

	return QuizQuestion{
		ID:              uuid.NewString(),
		Text:            text,
		Choices:         choices,
		AnswerIndex:     answer,
		Explanation:     explanation,
		UserAnswerIndex: nil,
	}, nil
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// coerceIndex turns whatever the model put in the answer field into an
// integer, defaulting to 0 for anything non-finite or unparseable.
func coerceIndex(value interface{}) int {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return int(n)
		}
		return 0
	default:
		return 0
	}
}
