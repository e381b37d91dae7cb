package message

import (
	"context"
	"strings"
	"testing"
)

// TestTemplate_Generate verifies {ts} expansion.
func TestTemplate_Generate(t *testing.T) {
	tests := []struct {
		name     string
		template Template
		ts       string
		expect   string
	}{
		{"placeholder", "autosync: {ts}", "2026-08-26T10:00:00Z", "autosync: 2026-08-26T10:00:00Z"},
		{"no placeholder", "checkpoint", "2026-08-26T10:00:00Z", "checkpoint"},
		{"repeated placeholder", "{ts} {ts}", "x", "x x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.template.Generate(context.Background(), tt.ts, "")
			if err != nil {
				t.Fatalf("Generate() failed: %v", err)
			}
			if got != tt.expect {
				t.Errorf("Generate() = %q, want %q", got, tt.expect)
			}
		})
	}
}

// TestNewClaude_RequiresKey verifies startup refusal without an API key.
func TestNewClaude_RequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	if _, err := NewClaude(""); err == nil {
		t.Error("NewClaude() should fail without ANTHROPIC_API_KEY")
	}
}

// TestNewClaude_DefaultModel verifies the model fallback.
func TestNewClaude_DefaultModel(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	c, err := NewClaude("")
	if err != nil {
		t.Fatalf("NewClaude() failed: %v", err)
	}
	if c.model != DefaultModel {
		t.Errorf("model = %q, want %q", c.model, DefaultModel)
	}

	c, err = NewClaude("claude-sonnet-4-5")
	if err != nil {
		t.Fatalf("NewClaude() failed: %v", err)
	}
	if c.model != "claude-sonnet-4-5" {
		t.Errorf("model = %q, want the configured model", c.model)
	}
}

// TestClaude_GenerateEmptyDiff verifies the empty-diff guard runs before
// any network call.
func TestClaude_GenerateEmptyDiff(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	c, err := NewClaude("")
	if err != nil {
		t.Fatalf("NewClaude() failed: %v", err)
	}

	if _, err := c.Generate(context.Background(), "2026-08-26T10:00:00Z", "  \n"); err == nil {
		t.Error("Generate() with blank diff should fail")
	}
}

// TestSanitize verifies subject line cleanup.
func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"plain", "Update config parsing", "Update config parsing"},
		{"multiline", "Update parser\n\nDetails below", "Update parser"},
		{"quoted", `"Fix tests"`, "Fix tests"},
		{"backticked", "`Adjust retry`", "Adjust retry"},
		{"padded", "  Tidy imports  ", "Tidy imports"},
		{"empty", "\n\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize(tt.input); got != tt.expect {
				t.Errorf("sanitize(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}

	long := strings.Repeat("a", 200)
	if got := sanitize(long); len(got) > maxMessageLen {
		t.Errorf("sanitize() left %d chars, want at most %d", len(got), maxMessageLen)
	}
}
