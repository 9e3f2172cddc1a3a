package quizforge

import "strings"

// ResponseEnvelope is the shape-agnostic wrapper around whatever the
// generation service returned. Some providers aggregate all output into a
// single text field, others return a list of messages each holding a list of
// typed content parts; the envelope carries both.
type ResponseEnvelope struct {
	Text     string            `json:"text,omitempty"`
	Messages []ResponseMessage `json:"messages,omitempty"`
}

// ResponseMessage is one message-like item inside an envelope.
type ResponseMessage struct {
	Content []ResponseContent `json:"content,omitempty"`
}

// ResponseContent is one content part inside a message.
type ResponseContent struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

// ExtractResponseText pulls the raw text payload out of an envelope. The
// aggregated text field wins when non-blank; otherwise messages are scanned in
// order and the first non-blank part is returned, preferring parts explicitly
// typed as text over any other text-bearing part. An empty string is the
// deterministic "nothing found" signal consumed downstream as EmptyInput.
func ExtractResponseText(env ResponseEnvelope) string {
	if strings.TrimSpace(env.Text) != "" {
		return env.Text
	}

	for _, msg := range env.Messages {
		for _, part := range msg.Content {
			if part.Type == "text" && strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
		for _, part := range msg.Content {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}
