package quizforge

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Bounds for the collect-more flow. The attempt cap exists to bound
	// duplicate avoidance, not as a resilience mechanism; there is no backoff.
	collectMaxAttempts = 3
	collectMaxBatch    = 12
	collectMaxCount    = 50

	// Avoid-list limits keep the outbound prompt bounded.
	avoidListCap     = 120
	avoidEntryMaxLen = 280
)

// QuizGenerator orchestrates the recovery and validation pipeline: plan,
// generate, extract, recover, match, normalize, dedup, shuffle, persist.
type QuizGenerator struct {
	source QuestionSource
	store  *DB
	logger *LLMLogger
	rng    *rand.Rand
}

// NewQuizGenerator creates a generator backed by the OpenAI question maker.
func NewQuizGenerator(apiKey, model, endpoint string) *QuizGenerator {
	return NewQuizGeneratorWithSource(NewQuestionMaker(apiKey, model, endpoint))
}

// NewQuizGeneratorWithSource creates a generator over any question source.
func NewQuizGeneratorWithSource(source QuestionSource) *QuizGenerator {
	return &QuizGenerator{
		source: source,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetStore attaches a persistence collaborator. Without one, quizzes only
// live in memory.
func (qg *QuizGenerator) SetStore(store *DB) {
	qg.store = store
}

// SetLogger attaches an LLM traffic logger.
func (qg *QuizGenerator) SetLogger(logger *LLMLogger) {
	qg.logger = logger
}

// GenerateQuiz runs one fresh generation. The call is atomic: no quiz is
// constructed or persisted unless every returned question normalizes; a
// single bad question fails the whole batch.
func (qg *QuizGenerator) GenerateQuiz(ctx context.Context, req GenerationRequest) (*Quiz, error) {
	plan, err := BuildPlan(req.Settings.Types, req.Settings.NumQuestions)
	if err != nil {
		return nil, err
	}
	VerboseLog("Generating quiz %q: %d planned questions", req.Title, PlanTotal(plan))

	payload, err := qg.requestBatch(ctx, BatchRequest{
		Plan:         plan,
		SourceText:   req.SourceText,
		Difficulty:   req.Settings.Difficulty,
		ChoicesCount: req.Settings.ChoicesCount,
	})
	if err != nil {
		return nil, err
	}

	questions := make([]QuizQuestion, 0, len(payload.Questions))
	for _, raw := range payload.Questions {
		question, err := NormalizeCandidate(raw, req.Settings.ChoicesCount)
		if err != nil {
			return nil, fmt.Errorf("question %d rejected: %w", len(questions)+1, err)
		}
		questions = append(questions, question)
	}

	ShuffleQuestions(qg.rng, questions)

	title := payload.Title
	if title == "" {
		title = req.Title
	}
	now := time.Now()
	quiz := &Quiz{
		ID:           uuid.NewString(),
		Title:        title,
		SourceRef:    req.SourceRef,
		CreatedAt:    now,
		UpdatedAt:    now,
		Difficulty:   req.Settings.Difficulty,
		ChoicesCount: req.Settings.ChoicesCount,
		Questions:    questions,
	}

	if qg.store != nil {
		if err := qg.store.SaveQuiz(quiz); err != nil {
			return nil, fmt.Errorf("persist quiz: %w", err)
		}
	}

	VerboseLog("Quiz %s ready with %d questions", quiz.ID, len(quiz.Questions))
	return quiz, nil
}

// CollectMore drives incremental acquisition of up to count additional
// questions for an existing quiz. Unlike GenerateQuiz it tolerates partial
// success: any accepted subset is appended and persisted, and only a fully
// empty accepted set is a failure. The corpus is mutated in memory first and
// persisted after, strictly in that order.
func (qg *QuizGenerator) CollectMore(ctx context.Context, quiz *Quiz, count int) (int, error) {
	if count < 1 {
		count = 1
	}
	if count > collectMaxCount {
		count = collectMaxCount
	}

	avoid := buildAvoidList(quiz.Questions)
	dedup := NewQuestionDedup(quiz.Questions)
	var accepted []QuizQuestion

	for attempt := 0; attempt < collectMaxAttempts && len(accepted) < count; attempt++ {
		batch := count - len(accepted)
		if batch > collectMaxBatch {
			batch = collectMaxBatch
		}
		VerboseLog("Collect attempt %d: requesting %d questions", attempt+1, batch)

		payload, err := qg.requestBatch(ctx, BatchRequest{
			Plan:         []PlanEntry{{Type: TypeMultipleChoice, Quantity: batch}},
			SourceText:   quiz.Title,
			Difficulty:   quiz.Difficulty,
			ChoicesCount: quiz.ChoicesCount,
			Avoid:        avoid,
		})
		if err != nil {
			VerboseLog("Collect attempt %d failed: %v", attempt+1, err)
			continue
		}

		for _, raw := range payload.Questions {
			if len(accepted) >= count {
				break
			}
			question, err := NormalizeCandidate(raw, quiz.ChoicesCount)
			if err != nil {
				VerboseLog("Collect skipped candidate: %v", err)
				continue
			}
			duplicate := dedup.CheckDuplicate(question.Text)
			qg.logger.LogDedupVerdict(question.Text, duplicate)
			if duplicate {
				continue
			}
			accepted = append(accepted, question)
		}
	}

	if len(accepted) == 0 {
		return 0, &PipelineError{Kind: ErrNoNewQuestions, Message: "no new questions were accepted"}
	}

	ShuffleQuestions(qg.rng, accepted)
	quiz.Questions = append(quiz.Questions, accepted...)
	quiz.UpdatedAt = time.Now()

	if qg.store != nil {
		if err := qg.store.SaveQuiz(quiz); err != nil {
			return 0, fmt.Errorf("persist quiz: %w", err)
		}
	}

	VerboseLog("Collected %d of %d requested questions for quiz %s", len(accepted), count, quiz.ID)
	return len(accepted), nil
}

// requestBatch runs one generation round through extraction and recovery.
func (qg *QuizGenerator) requestBatch(ctx context.Context, req BatchRequest) (*QuizPayload, error) {
	qg.logger.LogRequest(buildBatchPrompt(req))
	env, err := qg.source.GenerateQuestions(ctx, req)
	if err != nil {
		return nil, err
	}

	text := ExtractResponseText(env)
	qg.logger.LogResponse(text)
	if strings.TrimSpace(text) == "" {
		return nil, &PipelineError{Kind: ErrEmptyInput, Message: "generation response contained no text"}
	}

	payload, err := DecodeQuizPayload(text)
	if err != nil {
		qg.logger.LogRecoveryFailure(err)
		return nil, err
	}
	return payload, nil
}

// buildAvoidList converts the existing corpus into the must-avoid list sent
// with collect requests, capped in entry count and entry length.
func buildAvoidList(questions []QuizQuestion) []string {
	avoid := make([]string, 0, len(questions))
	for _, question := range questions {
		if len(avoid) >= avoidListCap {
			break
		}
		avoid = append(avoid, truncateForPrompt(question.Text, avoidEntryMaxLen))
	}
	return avoid
}

// truncateForPrompt collapses whitespace and truncates to limit runes.
func truncateForPrompt(text string, limit int) string {
	collapsed := strings.Join(strings.Fields(strings.TrimSpace(text)), " ")
	runes := []rune(collapsed)
	if len(runes) <= limit {
		return collapsed
	}
	return string(runes[:limit])
}
