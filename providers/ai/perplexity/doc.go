// Package perplexity implements the [ai.Provider] and [ai.StreamProvider]
// interfaces for Perplexity's search-grounded chat API.
//
// Every answer is backed by live web search. Citation URLs are surfaced on
// [ai.ChatResponse.Citations]; the full search results (title, URL, snippet,
// date) can be recovered from the retained raw body with
// [SearchResultsFromResponse] and formatted with [RenderSources]. Search
// scope is controlled through the search_recency_filter and
// search_domain_filter extras.
//
// The API rejects stop sequences, logit bias and seeds, so requests carrying
// those fail validation before any network call.
//
// The primary entry point is [New], which reads PERPLEXITY_API_KEY and
// PERPLEXITY_API_BASE_URL from the environment.
package perplexity
