package quizforge

import (
	"regexp"
	"strings"
)

// Two questions count as near-duplicates when their token overlap meets this
// threshold.
const dedupSimilarityThreshold = 0.72

// Tokens shorter than this carry no signal (articles, "is", "of") and are
// excluded from similarity.
const dedupMinTokenLength = 3

var nonAlphanumRe = regexp.MustCompile(`[^a-z0-9 ]+`)

// QuestionDedup rejects exact and near-duplicate question texts within one
// generation session. It is seeded from the quiz's existing questions and
// grows as new questions are accepted in the same round.
type QuestionDedup struct {
	seen   map[string]struct{}
	tokens []map[string]struct{}
}

// NewQuestionDedup creates a deduplicator seeded from existing questions.
func NewQuestionDedup(existing []QuizQuestion) *QuestionDedup {
	qd := &QuestionDedup{seen: make(map[string]struct{})}
	for _, question := range existing {
		qd.record(normalizeQuestionText(question.Text))
	}
	return qd
}

// CheckDuplicate reports whether text duplicates anything seen so far. Unique
// texts are recorded so later candidates in the same session are checked
// against them too. Empty normalized text always counts as a duplicate.
func (qd *QuestionDedup) CheckDuplicate(text string) bool {
	normalized := normalizeQuestionText(text)
	if normalized == "" {
		return true
	}
	if _, ok := qd.seen[normalized]; ok {
		return true
	}

	candidate := tokenSet(normalized)
	for _, existing := range qd.tokens {
		if tokenSimilarity(candidate, existing) >= dedupSimilarityThreshold {
			return true
		}
	}

	qd.record(normalized)
	return false
}

func (qd *QuestionDedup) record(normalized string) {
	if normalized == "" {
		return
	}
	if _, ok := qd.seen[normalized]; ok {
		return
	}
	qd.seen[normalized] = struct{}{}
	qd.tokens = append(qd.tokens, tokenSet(normalized))
}

// normalizeQuestionText lowercases, strips everything outside [a-z0-9 ],
// collapses whitespace and trims.
func normalizeQuestionText(text string) string {
	lowered := strings.ToLower(text)
	stripped := nonAlphanumRe.ReplaceAllString(lowered, "")
	return strings.Join(strings.Fields(stripped), " ")
}

func tokenSet(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(normalized) {
		if len(word) >= dedupMinTokenLength {
			set[word] = struct{}{}
		}
	}
	return set
}

// tokenSimilarity measures overlap against the smaller of the two token sets,
// so a short rephrasing of a longer question still registers as a duplicate.
// Two empty sets score 0 (not duplicate); empty text never reaches here
// because CheckDuplicate filters it first.
func tokenSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	smaller, larger := a, b
	if len(b) < len(a) {
		smaller, larger = b, a
	}
	shared := 0
	for token := range smaller {
		if _, ok := larger[token]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(smaller))
}
