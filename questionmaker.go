package quizforge

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// BatchRequest is one outbound generation round: a plan of question counts
// per type, the source text to draw from, and a must-avoid list of prior
// question texts.
type BatchRequest struct {
	Plan         []PlanEntry
	SourceText   string
	Difficulty   Difficulty
	ChoicesCount int
	Avoid        []string
}

// QuestionSource is the generation collaborator. The only contract is that
// the returned envelope may contain JSON, may be truncated, and may include
// extraneous prose; everything downstream is built around that.
type QuestionSource interface {
	GenerateQuestions(ctx context.Context, req BatchRequest) (ResponseEnvelope, error)
}

// QuestionMaker generates questions through the OpenAI chat completions API.
type QuestionMaker struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// NewQuestionMaker creates a question maker. Model defaults to GPT-4o and
// endpoint may be empty for the public API.
func NewQuestionMaker(apiKey, model, endpoint string) *QuestionMaker {
	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &QuestionMaker{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.4,
		maxTokens:   4096,
		timeout:     2 * time.Minute,
	}
}

const generatorSystemPrompt = "You are an expert quiz question generator. " +
	"Respond with a single JSON object and nothing else: no prose, no markdown fences. " +
	"Every question must be grounded in the provided source text."

// GenerateQuestions sends one generation round and wraps the raw reply in a
// ResponseEnvelope. No attempt is made here to validate the payload; that is
// the recovery pipeline's job.
func (qm *QuestionMaker) GenerateQuestions(ctx context.Context, req BatchRequest) (ResponseEnvelope, error) {
	prompt := buildBatchPrompt(req)
	VerboseLog("Requesting %d questions from %s", PlanTotal(req.Plan), qm.model)

	ctx, cancel := context.WithTimeout(ctx, qm.timeout)
	defer cancel()

	resp, err := qm.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: qm.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: generatorSystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: qm.temperature,
			MaxTokens:   qm.maxTokens,
		},
	)
	if err != nil {
		return ResponseEnvelope{}, fmt.Errorf("request question batch: %w", err)
	}

	return envelopeFromCompletion(resp), nil
}

// envelopeFromCompletion maps an OpenAI completion onto the shape-agnostic
// envelope the extractor consumes.
func envelopeFromCompletion(resp openai.ChatCompletionResponse) ResponseEnvelope {
	env := ResponseEnvelope{}
	if len(resp.Choices) > 0 {
		env.Text = resp.Choices[0].Message.Content
	}
	for _, choice := range resp.Choices {
		msg := ResponseMessage{}
		if choice.Message.Content != "" {
			msg.Content = append(msg.Content, ResponseContent{Type: "text", Text: choice.Message.Content})
		}
		for _, part := range choice.Message.MultiContent {
			if part.Type == openai.ChatMessagePartTypeText {
				msg.Content = append(msg.Content, ResponseContent{Type: "text", Text: part.Text})
			}
		}
		env.Messages = append(env.Messages, msg)
	}
	return env
}

var questionSchemaDescriptions = map[QuestionType]string{
	TypeMatchingPairs:  `{"question":"...","pairs":[{"left":"...","right":"..."}]}`,
	TypeSelectAll:      `{"question":"...","choices":["..."],"correctIndexes":[0]}`,
	TypeFillInBlank:    `{"question":"...","answers":["..."]}`,
	TypeMultipleChoice: `{"question":"...","choices":["..."],"answer":0,"explanation":"..."}`,
	TypeTrueFalse:      `{"question":"...","answer":true}`,
	TypeGradedResponse: `{"question":"...","answer":"..."}`,
}

func buildBatchPrompt(req BatchRequest) string {
	var sb strings.Builder

	sb.WriteString(`Respond with JSON {"title":"...","questions":[...]}.` + "\n\n")

	sb.WriteString("Generate exactly these questions:\n")
	for _, entry := range req.Plan {
		sb.WriteString(fmt.Sprintf("- %d question(s) of type %s, each shaped as %s\n",
			entry.Quantity, entry.Type, questionSchemaDescriptions[entry.Type]))
	}
	sb.WriteString("\n")

	if req.ChoicesCount > 0 {
		sb.WriteString(fmt.Sprintf("Multiple choice questions must have exactly %d choices and a 0-based answer index.\n", req.ChoicesCount))
	}
	if req.Difficulty != "" {
		sb.WriteString(fmt.Sprintf("Difficulty level: %s\n", req.Difficulty))
	}
	sb.WriteString("\n")

	if len(req.Avoid) > 0 {
		sb.WriteString("Do not repeat or rephrase any of these existing questions:\n")
		for _, text := range req.Avoid {
			sb.WriteString("- " + text + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Source text:\n")
	sb.WriteString(req.SourceText)
	sb.WriteString("\n")

	return sb.String()
}
