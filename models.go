package quizforge

import "time"

// QuestionType identifies one of the supported question shapes. The set is
// closed: the schema registry knows exactly these six variants.
type QuestionType string

const (
	TypeMatchingPairs  QuestionType = "matching_pairs"
	TypeSelectAll      QuestionType = "select_all"
	TypeFillInBlank    QuestionType = "fill_in_blank"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeGradedResponse QuestionType = "graded_response"
)

// questionTypeOrder is the registration order used by the plan builder and
// the schema registry. Matching is first-match in this order.
var questionTypeOrder = []QuestionType{
	TypeMatchingPairs,
	TypeSelectAll,
	TypeFillInBlank,
	TypeMultipleChoice,
	TypeTrueFalse,
	TypeGradedResponse,
}

// Difficulty controls how hard the generated questions should be.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyMedium   Difficulty = "medium"
	DifficultyHard     Difficulty = "hard"
	DifficultyVeryHard Difficulty = "very_hard"
)

// QuestionTypeSetting is the per-type configuration supplied by the caller.
type QuestionTypeSetting struct {
	Enabled  bool `json:"enabled"`
	Quantity int  `json:"quantity"`
}

// PlanEntry is one slice of a generation plan: how many questions of a given
// type to ask the model for.
type PlanEntry struct {
	Type     QuestionType `json:"type"`
	Quantity int          `json:"quantity"`
}

// GenerationSettings carries the caller-side configuration for a quiz.
type GenerationSettings struct {
	NumQuestions int                                  `json:"num_questions"`
	Difficulty   Difficulty                           `json:"difficulty"`
	ChoicesCount int                                  `json:"choices_count"`
	Types        map[QuestionType]QuestionTypeSetting `json:"types"`
}

// GenerationRequest is a request to generate a fresh quiz from source text.
type GenerationRequest struct {
	Title      string             `json:"title"`
	SourceRef  string             `json:"source_ref"`
	SourceText string             `json:"source_text"`
	Settings   GenerationSettings `json:"settings"`
}

// QuizQuestion is a fully validated multiple choice question. AnswerIndex
// always indexes a live choice; UserAnswerIndex stays nil until the user picks.
type QuizQuestion struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Choices         []string `json:"choices"`
	AnswerIndex     int      `json:"answer_index"`
	Explanation     string   `json:"explanation"`
	UserAnswerIndex *int     `json:"user_answer_index"`
}

// Quiz is the persisted unit the pipeline produces. It is created only after
// an entire generation batch validates; the collector appends to Questions in
// place, and Submit fills Grade.
type Quiz struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	SourceRef    string         `json:"source_ref"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Difficulty   Difficulty     `json:"difficulty"`
	ChoicesCount int            `json:"choices_count"`
	Questions    []QuizQuestion `json:"questions"`
	CurrentIndex int            `json:"current_index"`
	Submitted    bool           `json:"submitted"`
	Grade        *Grade         `json:"grade,omitempty"`
}

// SelectAnswer records the user's pick for one question. Indices are bounds
// checked against the live question and choice lists.
func (q *Quiz) SelectAnswer(questionIndex, choiceIndex int) error {
	if questionIndex < 0 || questionIndex >= len(q.Questions) {
		return &PipelineError{Kind: ErrSchemaMismatch, Message: "question index out of range"}
	}
	question := &q.Questions[questionIndex]
	if choiceIndex < 0 || choiceIndex >= len(question.Choices) {
		return &PipelineError{Kind: ErrSchemaMismatch, Message: "choice index out of range"}
	}
	picked := choiceIndex
	question.UserAnswerIndex = &picked
	q.UpdatedAt = time.Now()
	return nil
}

// Submit grades the quiz against the recorded answers. The grade is always
// recomputed whole, never patched.
func (q *Quiz) Submit() Grade {
	grade := GradeQuiz(q.Questions)
	q.Grade = &grade
	q.Submitted = true
	q.UpdatedAt = time.Now()
	return grade
}

// Grade is the derived score for a submitted quiz.
type Grade struct {
	Total            int             `json:"total"`
	Answered         int             `json:"answered"`
	Correct          int             `json:"correct"`
	AccuracyTotal    int             `json:"accuracy_total"`
	AccuracyAnswered int             `json:"accuracy_answered"`
	PerQuestion      []QuestionGrade `json:"per_question"`
}

// QuestionGrade is the per-question breakdown inside a Grade.
type QuestionGrade struct {
	IsAnswered    bool `json:"is_answered"`
	IsCorrect     bool `json:"is_correct"`
	UserChoice    int  `json:"user_choice"` // -1 when unanswered
	CorrectChoice int  `json:"correct_choice"`
}
