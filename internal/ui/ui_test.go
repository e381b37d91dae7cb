package ui

import (
	"strings"
	"testing"
)

// TestRenderersPreserveText verifies every renderer keeps the input
// text intact whether or not color codes are applied.
func TestRenderersPreserveText(t *testing.T) {
	renderers := map[string]func(string) string{
		"accent": RenderAccent,
		"pass":   RenderPass,
		"warn":   RenderWarn,
		"fail":   RenderFail,
		"muted":  RenderMuted,
		"bold":   RenderBold,
	}

	for name, fn := range renderers {
		t.Run(name, func(t *testing.T) {
			if got := fn("status"); !strings.Contains(got, "status") {
				t.Errorf("%s renderer lost its text: %q", name, got)
			}
		})
	}
}

// TestRenderEmptyString verifies styling an empty string stays empty or
// is at least safe to print.
func TestRenderEmptyString(t *testing.T) {
	if got := RenderBold(""); strings.ContainsAny(got, "abcdefghijklmnopqrstuvwxyz") {
		t.Errorf("RenderBold(\"\") produced visible text: %q", got)
	}
}
