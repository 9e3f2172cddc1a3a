package quizforge

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The generation service wraps JSON in commentary or markdown fences, cuts it
// off at the output budget, and swaps in typographic quotes. Each repair below
// targets one of those observed failure modes; this is not a general grammar
// corrector and only ever recovers the first balanced top-level structure.

var (
	codeFenceRe     = regexp.MustCompile("(?i)```(?:json)?")
	missingCommaObj = regexp.MustCompile(`\}\s*\{`)
	missingCommaArr = regexp.MustCompile(`\]\s*\[`)
	trailingComma   = regexp.MustCompile(`,\s*([\}\]])`)
	curlyQuotes     = strings.NewReplacer(
		"“", `"`, // left double
		"”", `"`, // right double
		"‘", "'", // left single
		"’", "'", // right single
	)
)

// normalizeJSONText applies the repair heuristics: strip code fences, convert
// curly quotes to straight ones, insert a missing comma where a closer is
// immediately followed by an opener, and drop trailing commas before closers.
func normalizeJSONText(text string) string {
	text = codeFenceRe.ReplaceAllString(text, "")
	text = curlyQuotes.Replace(text)
	text = missingCommaObj.ReplaceAllString(text, "},{")
	text = missingCommaArr.ReplaceAllString(text, "],[")
	text = trailingComma.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// RecoverJSON extracts the first balanced JSON object or array from noisy
// text and decodes it. Failures are classified as ParseTruncated when the
// candidate structure never closes (the producer likely ran out of output
// budget) and ParseMalformed when the text simply is not JSON.
func RecoverJSON(text string) (interface{}, error) {
	cleaned := normalizeJSONText(text)

	if value, err := tryParseJSON(cleaned); err == nil {
		return value, nil
	}

	start := firstStructureStart(cleaned)
	if start < 0 {
		return nil, &PipelineError{Kind: ErrParseMalformed, Message: "response does not contain JSON"}
	}

	if end, ok := scanBalanced(cleaned, start); ok {
		if value, err := tryParseJSON(normalizeJSONText(cleaned[start : end+1])); err == nil {
			return value, nil
		}
	}

	tail := cleaned[start:]
	value, err := tryParseJSON(normalizeJSONText(tail))
	if err == nil {
		return value, nil
	}

	if looksTruncated(tail) {
		return nil, &PipelineError{Kind: ErrParseTruncated, Message: "response JSON is truncated"}
	}
	return nil, &PipelineError{Kind: ErrParseMalformed, Message: "response JSON is malformed", Err: err}
}

func tryParseJSON(text string) (interface{}, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, err
	}
	switch value.(type) {
	case map[string]interface{}, []interface{}:
		return value, nil
	}
	return nil, fmt.Errorf("top-level value is not an object or array")
}

// firstStructureStart returns the index of the first '{' or '[', whichever
// comes first, or -1 when neither occurs.
func firstStructureStart(text string) int {
	obj := strings.IndexByte(text, '{')
	arr := strings.IndexByte(text, '[')
	switch {
	case obj < 0:
		return arr
	case arr < 0:
		return obj
	case obj < arr:
		return obj
	default:
		return arr
	}
}

// scanBalanced walks forward from start tracking string state (honoring
// backslash escapes) and a nesting depth counter, and returns the index at
// which depth first returns to zero. ok is false when the scan runs off the
// end with the structure still open.
func scanBalanced(text string, start int) (end int, ok bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// looksTruncated reports whether a candidate tail appears cut off rather than
// structurally wrong: it lacks a trailing closer, or depth never returns to
// zero.
func looksTruncated(tail string) bool {
	trimmed := strings.TrimSpace(tail)
	if trimmed == "" {
		return false
	}
	last := trimmed[len(trimmed)-1]
	if last != '}' && last != ']' {
		return true
	}
	_, ok := scanBalanced(trimmed, 0)
	return !ok
}

// QuizPayload is the decoded top-level structure the generation service is
// asked to produce.
type QuizPayload struct {
	Title     string
	Questions []map[string]interface{}
}

// DecodeQuizPayload recovers JSON from raw model text and interprets it as a
// quiz payload. A bare array is treated as a question list with no title.
func DecodeQuizPayload(text string) (*QuizPayload, error) {
	value, err := RecoverJSON(text)
	if err != nil {
		return nil, err
	}

	payload := &QuizPayload{}
	switch v := value.(type) {
	case []interface{}:
		payload.Questions = collectRawQuestions(v)
	case map[string]interface{}:
		if title, ok := v["title"].(string); ok {
			payload.Title = strings.TrimSpace(title)
		}
		if list, ok := v["questions"].([]interface{}); ok {
			payload.Questions = collectRawQuestions(list)
		}
	}

	if len(payload.Questions) == 0 {
		return nil, &PipelineError{Kind: ErrSchemaMismatch, Message: "response JSON contains no questions"}
	}
	return payload, nil
}

func collectRawQuestions(list []interface{}) []map[string]interface{} {
	questions := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if raw, ok := item.(map[string]interface{}); ok {
			questions = append(questions, raw)
		}
	}
	return questions
}
