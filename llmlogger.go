package quizforge

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LLMLogger records all traffic with the generation service for one quiz:
// outbound prompts, raw model text, recovery classifications and dedup
// verdicts. The raw text is the only evidence left when the producer emits
// garbage, so everything is flushed immediately.
type LLMLogger struct {
	file   *os.File
	mu     sync.Mutex
	quizID string
}

// NewLLMLogger creates a log file for a specific quiz under log/.
func NewLLMLogger(quizID string, req GenerationRequest) (*LLMLogger, error) {
	if err := os.MkdirAll("log", 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	filename := filepath.Join("log", fmt.Sprintf("%s.log", quizID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	logger := &LLMLogger{file: file, quizID: quizID}

	logger.Logf("=== Quiz Generation Log ===\n")
	logger.Logf("Quiz ID: %s\n", quizID)
	logger.Logf("Title: %s\n", req.Title)
	logger.Logf("Questions: %d, Difficulty: %s, Choices: %d\n",
		req.Settings.NumQuestions, req.Settings.Difficulty, req.Settings.ChoicesCount)
	if req.SourceText != "" {
		logger.Logf("Source Text Length: %d characters\n", len(req.SourceText))
	}
	logger.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.Logf("========================\n\n")

	return logger, nil
}

// Logf writes a formatted, timestamped entry.
func (ll *LLMLogger) Logf(format string, args ...interface{}) {
	if ll == nil {
		return
	}
	ll.mu.Lock()
	defer ll.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(ll.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	ll.file.Sync()
}

// LogRequest logs an outbound generation prompt.
func (ll *LLMLogger) LogRequest(prompt string) {
	ll.Logf("=== REQUEST ===\n%s\n===============\n\n", prompt)
}

// LogResponse logs the raw text extracted from a response envelope.
func (ll *LLMLogger) LogResponse(text string) {
	ll.Logf("=== RESPONSE ===\n%s\n================\n\n", text)
}

// LogRecoveryFailure logs how the recovery parser classified a bad payload.
func (ll *LLMLogger) LogRecoveryFailure(err error) {
	ll.Logf("RECOVERY FAILED: %v\n", err)
}

// LogDedupVerdict logs whether a candidate survived deduplication.
func (ll *LLMLogger) LogDedupVerdict(text string, duplicate bool) {
	if duplicate {
		ll.Logf("DUPLICATE: %s\n", text)
	} else {
		ll.Logf("UNIQUE: %s\n", text)
	}
}

// Close finalizes and closes the log file.
func (ll *LLMLogger) Close() error {
	if ll == nil {
		return nil
	}
	ll.Logf("=== Quiz Generation Complete ===\n")
	ll.Logf("Completed: %s\n", time.Now().Format(time.RFC3339))

	ll.mu.Lock()
	defer ll.mu.Unlock()
	if ll.file != nil {
		return ll.file.Close()
	}
	return nil
}
