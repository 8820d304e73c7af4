package utils

import (
	"io"
	"strings"
	"testing"
)

// TestNDJSONScanner_LinesInOrder verifies that one JSON object per line is
// returned in transport order.
func TestNDJSONScanner_LinesInOrder(t *testing.T) {
	input := "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n"
	scanner := NewNDJSONScanner(strings.NewReader(input))

	for _, want := range []string{`{"n":1}`, `{"n":2}`, `{"n":3}`} {
		line, err := scanner.Next()
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if line != want {
			t.Errorf("expected %q, got %q", want, line)
		}
	}

	if _, err := scanner.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

// TestNDJSONScanner_SkipsBlankLines verifies that blank and whitespace-only
// lines are skipped.
func TestNDJSONScanner_SkipsBlankLines(t *testing.T) {
	input := "\n{\"n\":1}\n  \n\n{\"n\":2}\n"
	scanner := NewNDJSONScanner(strings.NewReader(input))

	line, err := scanner.Next()
	if err != nil || line != `{"n":1}` {
		t.Fatalf("line=%q err=%v", line, err)
	}
	line, err = scanner.Next()
	if err != nil || line != `{"n":2}` {
		t.Fatalf("line=%q err=%v", line, err)
	}
	if _, err := scanner.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

// TestNDJSONScanner_NoTrailingNewline verifies that the final line without a
// newline is still returned.
func TestNDJSONScanner_NoTrailingNewline(t *testing.T) {
	scanner := NewNDJSONScanner(strings.NewReader(`{"done":true}`))

	line, err := scanner.Next()
	if err != nil || line != `{"done":true}` {
		t.Fatalf("line=%q err=%v", line, err)
	}
	if _, err := scanner.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}
