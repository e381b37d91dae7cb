package message

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "claude-haiku-4-5"

// maxMessageLen caps the subject line length; anything longer is
// truncated rather than rejected.
const maxMessageLen = 120

const systemPrompt = "You write one-line commit messages for automated " +
	"file sync commits. Reply with a single imperative subject line " +
	"under 72 characters describing the change. No quotes, no prefix, " +
	"no trailing period."

// Claude generates commit messages from the pending diff summary using
// the Anthropic API. Network and API failures surface as errors; the
// caller is expected to fall back to a template message.
type Claude struct {
	client anthropic.Client
	model  string
}

// NewClaude creates a Claude generator. The API key is read from the
// ANTHROPIC_API_KEY environment variable; an empty model uses
// DefaultModel. Returns an error when no key is available so callers
// can refuse --ai-message at startup instead of on the first sync.
func NewClaude(model string) (*Claude, error) {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	if model == "" {
		model = DefaultModel
	}

	return &Claude{
		client: anthropic.NewClient(option.WithMaxRetries(1)),
		model:  model,
	}, nil
}

// Generate asks the model for a subject line describing the diff.
func (c *Claude) Generate(ctx context.Context, ts, diff string) (string, error) {
	if strings.TrimSpace(diff) == "" {
		return "", fmt.Errorf("empty diff summary")
	}

	prompt := fmt.Sprintf("Changes synced at %s:\n\n%s", ts, diff)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 128,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("message generation request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	msg := sanitize(sb.String())
	if msg == "" {
		return "", fmt.Errorf("model returned no usable text")
	}

	return msg, nil
}

// sanitize reduces model output to a single clean subject line.
func sanitize(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	line = strings.Trim(line, "\"'` ")

	if len(line) > maxMessageLen {
		line = strings.TrimSpace(line[:maxMessageLen])
	}

	return line
}
