package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/llmgate/llmgate/providers/ai"
	"github.com/llmgate/llmgate/providers/observability"
)

// HeaderOption is a custom HTTP header applied to an outbound request.
// Options are applied after the defaults, so a provider can override
// Content-Type or replace Bearer auth with its own scheme (e.g. Anthropic's
// x-api-key).
type HeaderOption struct {
	Key   string
	Value string
}

// Header builds a HeaderOption.
func Header(key, value string) HeaderOption {
	return HeaderOption{Key: key, Value: value}
}

// CloseWithLog closes the given closer and logs a warning if closing fails.
// Used on response bodies where a close error must not override the primary
// error path.
func CloseWithLog(closer io.Closer) {
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}

// maxResponseBodySize is the maximum response body size (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// DoPostSync performs a synchronous HTTP POST with a JSON body and decodes the
// response into OutputStruct. It returns the HTTP response (headers and status
// are valid, body is drained and closed), the raw response bytes for callers
// that retain the undecoded payload, and the decoded struct.
//
// Failures map onto the gateway error taxonomy:
//   - network errors become [ai.TransportError] with the elapsed duration
//   - non-2xx statuses become [ai.ProviderError] with the body text
//   - undecodable 2xx bodies become [ai.DecodeError] with a body preview
//
// Context cancellation and timeouts surface as TransportError wrapping the
// context error, matchable with errors.Is(err, context.Canceled).
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, provider, url, apiKey string, body any, headers ...HeaderOption) (*http.Response, []byte, *OutputStruct, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String(observability.AttrHTTPMethod, "POST"),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", requestDuration),
			)
		}
		return res, nil, nil, &ai.TransportError{Provider: provider, Duration: requestDuration, Err: err}
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res, nil, nil, &ai.TransportError{Provider: provider, Duration: requestDuration, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, respBody, nil, &ai.ProviderError{Provider: provider, StatusCode: res.StatusCode, Body: string(respBody)}
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return res, respBody, nil, &ai.DecodeError{Provider: provider, Preview: TruncateStringDefault(string(respBody)), Err: err}
	}

	return res, respBody, &resStruct, nil
}
