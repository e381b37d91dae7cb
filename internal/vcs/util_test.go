package vcs

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestParseLines verifies output splitting drops blanks and trims.
func TestParseLines(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		expect []string
	}{
		{"empty", nil, nil},
		{"single", []byte("one\n"), []string{"one"}},
		{"multiple", []byte("one\ntwo\nthree\n"), []string{"one", "two", "three"}},
		{"blanks dropped", []byte("one\n\n  \ntwo\n"), []string{"one", "two"}},
		{"whitespace trimmed", []byte("  padded  \n"), []string{"padded"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLines(tt.input)
			if len(got) != len(tt.expect) {
				t.Fatalf("ParseLines() = %v, want %v", got, tt.expect)
			}
			for i := range got {
				if got[i] != tt.expect[i] {
					t.Errorf("ParseLines()[%d] = %q, want %q", i, got[i], tt.expect[i])
				}
			}
		})
	}
}

// TestTrimOutput verifies whitespace trimming.
func TestTrimOutput(t *testing.T) {
	if got := TrimOutput([]byte("  main\n")); got != "main" {
		t.Errorf("TrimOutput() = %q, want main", got)
	}
	if got := TrimOutput(nil); got != "" {
		t.Errorf("TrimOutput(nil) = %q, want empty", got)
	}
}

// TestGetExitCode verifies exit code extraction.
func TestGetExitCode(t *testing.T) {
	if got := GetExitCode(nil); got != 0 {
		t.Errorf("GetExitCode(nil) = %d, want 0", got)
	}
	if got := GetExitCode(errors.New("plain")); got != -1 {
		t.Errorf("GetExitCode(plain error) = %d, want -1", got)
	}

	_, err := ExecSimple(t.TempDir(), "false")
	if err == nil {
		t.Fatal("Expected false to fail")
	}
	if got := GetExitCode(err); got != 1 {
		t.Errorf("GetExitCode(false) = %d, want 1", got)
	}
}

// TestExecContext verifies basic execution and stderr capture.
func TestExecContext(t *testing.T) {
	out, err := ExecContext(context.Background(), 5*time.Second, t.TempDir(), "echo", "hello")
	if err != nil {
		t.Fatalf("ExecContext() failed: %v", err)
	}
	if TrimOutput(out) != "hello" {
		t.Errorf("Output = %q, want hello", TrimOutput(out))
	}
}

// TestExecContext_Timeout verifies commands are killed at the timeout.
func TestExecContext_Timeout(t *testing.T) {
	start := time.Now()
	_, err := ExecContext(context.Background(), 100*time.Millisecond, t.TempDir(), "sleep", "5")
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Command was not killed at the timeout (took %v)", elapsed)
	}
}
