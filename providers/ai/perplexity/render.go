package perplexity

import (
	"encoding/json"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/llmgate/llmgate/providers/ai"
)

// SearchResultsFromResponse recovers the search results Perplexity consulted
// from a response produced by this provider. The results are parsed out of
// the retained raw body; responses from other providers, or responses with
// no raw body, yield a nil slice and no error.
func SearchResultsFromResponse(response *ai.ChatResponse) ([]SearchResult, error) {
	if response == nil || len(response.Raw) == 0 {
		return nil, nil
	}

	var payload struct {
		SearchResults []SearchResult `json:"search_results"`
	}
	if err := json.Unmarshal(response.Raw, &payload); err != nil {
		return nil, err
	}
	return payload.SearchResults, nil
}

// RenderSnippetMarkdown converts a search result snippet to Markdown.
// Perplexity snippets sometimes carry HTML markup (bold terms, links);
// plain-text snippets pass through unchanged.
func RenderSnippetMarkdown(snippet string) (string, error) {
	if !strings.Contains(snippet, "<") {
		return snippet, nil
	}
	markdown, err := htmltomarkdown.ConvertString(snippet)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}

// RenderSources formats search results as a Markdown source list, one bullet
// per result with the title linked to its URL. Snippets are converted with
// [RenderSnippetMarkdown]; a snippet that fails conversion is omitted rather
// than failing the whole list.
func RenderSources(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Sources\n\n")
	for _, result := range results {
		title := result.Title
		if title == "" {
			title = result.URL
		}
		b.WriteString("- [")
		b.WriteString(title)
		b.WriteString("](")
		b.WriteString(result.URL)
		b.WriteString(")")
		if result.Date != "" {
			b.WriteString(" (")
			b.WriteString(result.Date)
			b.WriteString(")")
		}
		if snippet, err := RenderSnippetMarkdown(result.Snippet); err == nil && snippet != "" {
			b.WriteString("\n  ")
			b.WriteString(snippet)
		}
		b.WriteString("\n")
	}
	return b.String()
}
