package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// NDJSONScanner reads newline-delimited JSON from an io.Reader, one JSON
// object per line. This is the framing used by Ollama's streaming endpoints,
// which do not speak SSE. Blank lines are skipped.
type NDJSONScanner struct {
	scanner *bufio.Scanner
}

// NewNDJSONScanner creates an NDJSONScanner reading from the given reader.
// Individual lines up to maxStreamLineSize (1 MB) are supported; longer lines
// cause Next() to return an error wrapping bufio.ErrTooLong.
func NewNDJSONScanner(reader io.Reader) *NDJSONScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLineSize)
	return &NDJSONScanner{
		scanner: scanner,
	}
}

// Next returns the next non-empty line as a raw JSON string.
// Returns io.EOF when the stream is exhausted.
func (ndjsonScanner *NDJSONScanner) Next() (string, error) {
	for ndjsonScanner.scanner.Scan() {
		line := strings.TrimSpace(ndjsonScanner.scanner.Text())
		if line == "" {
			continue
		}
		return line, nil
	}

	if err := ndjsonScanner.scanner.Err(); err != nil {
		return "", fmt.Errorf("NDJSON scanner error: %w", err)
	}

	return "", io.EOF
}
