package quizforge

import "strings"

// The schema registry is a closed, ordered set of structural predicates, one
// per question variant. MatchQuestionType evaluates them in registration
// order and returns the first match. Every variant is recognized here even
// though only multiple choice has a downstream normalization; the mismatch is
// surfaced one stage later as an unsupported-type rejection.

type schemaPredicate struct {
	Type  QuestionType
	Match func(raw map[string]interface{}) bool
}

var schemaRegistry = []schemaPredicate{
	{TypeMatchingPairs, isMatchingPairs},
	{TypeSelectAll, isSelectAll},
	{TypeFillInBlank, isFillInBlank},
	{TypeMultipleChoice, isMultipleChoice},
	{TypeTrueFalse, isTrueFalse},
	{TypeGradedResponse, isGradedResponse},
}

// MatchQuestionType returns the first variant whose structural predicate
// accepts the raw record, or false when nothing matches.
func MatchQuestionType(raw map[string]interface{}) (QuestionType, bool) {
	for _, predicate := range schemaRegistry {
		if predicate.Match(raw) {
			return predicate.Type, true
		}
	}
	return "", false
}

func hasText(raw map[string]interface{}, key string) bool {
	s, ok := raw[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func stringList(value interface{}) ([]string, bool) {
	list, ok := value.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// matching pairs: non-empty "pairs" list of {left, right} string pairs.
func isMatchingPairs(raw map[string]interface{}) bool {
	if !hasText(raw, "question") {
		return false
	}
	pairs, ok := raw["pairs"].([]interface{})
	if !ok || len(pairs) == 0 {
		return false
	}
	for _, item := range pairs {
		pair, ok := item.(map[string]interface{})
		if !ok || !hasText(pair, "left") || !hasText(pair, "right") {
			return false
		}
	}
	return true
}

// select-all: choices plus a non-empty list of correct indexes.
func isSelectAll(raw map[string]interface{}) bool {
	if !hasText(raw, "question") {
		return false
	}
	choices, ok := stringList(raw["choices"])
	if !ok || len(choices) == 0 {
		return false
	}
	indexes, ok := raw["correctIndexes"].([]interface{})
	if !ok || len(indexes) == 0 {
		return false
	}
	for _, item := range indexes {
		if _, ok := item.(float64); !ok {
			return false
		}
	}
	return true
}

// fill-in-blank: a non-empty list of accepted answers.
func isFillInBlank(raw map[string]interface{}) bool {
	if !hasText(raw, "question") {
		return false
	}
	answers, ok := stringList(raw["answers"])
	if !ok || len(answers) == 0 {
		return false
	}
	for _, answer := range answers {
		if strings.TrimSpace(answer) == "" {
			return false
		}
	}
	return true
}

// multiple choice: a non-empty choices list and a numeric answer index. The
// answer may also arrive as a string; the normalizer coerces it later, so the
// predicate accepts both.
func isMultipleChoice(raw map[string]interface{}) bool {
	if !hasText(raw, "question") {
		return false
	}
	choices, ok := raw["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return false
	}
	switch raw["answer"].(type) {
	case float64, string:
		return true
	}
	return false
}

// true/false: a boolean answer.
func isTrueFalse(raw map[string]interface{}) bool {
	if !hasText(raw, "question") {
		return false
	}
	_, ok := raw["answer"].(bool)
	return ok
}

// graded response: a free-text model answer to grade against.
func isGradedResponse(raw map[string]interface{}) bool {
	return hasText(raw, "question") && hasText(raw, "answer")
}
