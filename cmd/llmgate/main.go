// Command llmgate is a small demonstration CLI for the gateway. It wires
// every provider, routes by model-name prefix, and exposes the gateway
// operations as flags:
//
//	llmgate -model gpt-4o-mini -prompt "What is 2+2?"
//	llmgate -model claude-3-5-haiku-latest -prompt "hi" -stream
//	llmgate -model llama3.2 -batch "1+1?,2+2?,3+3?" -warmup
//	llmgate -compare "gpt-4o-mini,mistral-small-latest" -prompt "hi"
//	llmgate -model sonar -prompt "latest Go release?" -metadata
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/llmgate/llmgate/config"
	"github.com/llmgate/llmgate/core/cost"
	"github.com/llmgate/llmgate/core/gateway"
	"github.com/llmgate/llmgate/providers/ai"
	"github.com/llmgate/llmgate/providers/ai/anthropic"
	"github.com/llmgate/llmgate/providers/ai/mistral"
	"github.com/llmgate/llmgate/providers/ai/ollama"
	"github.com/llmgate/llmgate/providers/ai/openai"
	"github.com/llmgate/llmgate/providers/ai/perplexity"
	"github.com/llmgate/llmgate/providers/observability/slogobs"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	model := flag.String("model", openai.DefaultModel, "model to route the request to")
	prompt := flag.String("prompt", "", "user prompt to send")
	stream := flag.Bool("stream", false, "stream the response token by token")
	metadata := flag.Bool("metadata", false, "print transport and cost metadata instead of the response text")
	batch := flag.String("batch", "", "comma-separated prompts to run as a batch against -model")
	warmup := flag.Bool("warmup", false, "issue a warmup call before the batch")
	compare := flag.String("compare", "", "comma-separated models to compare on -prompt")
	flag.Parse()

	if err := run(*configPath, *model, *prompt, *stream, *metadata, *batch, *warmup, *compare); err != nil {
		fmt.Fprintln(os.Stderr, "llmgate:", err)
		os.Exit(1)
	}
}

func run(configPath, model, prompt string, stream, metadata bool, batch string, warmup bool, compare string) error {
	if err := config.LoadEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	g := buildGateway(cfg)
	ctx := context.Background()

	switch {
	case batch != "":
		return runBatch(ctx, g, splitList(batch), model, warmup)
	case compare != "":
		if prompt == "" {
			return fmt.Errorf("-compare requires -prompt")
		}
		return runCompare(ctx, g, prompt, splitList(compare))
	case prompt == "":
		return fmt.Errorf("nothing to do: pass -prompt, -batch or -compare")
	case metadata:
		return runMetadata(ctx, g, model, prompt)
	case stream:
		return runStream(ctx, g, model, prompt)
	default:
		return runComplete(ctx, g, model, prompt)
	}
}

// buildGateway registers every provider with its model-name prefixes and
// merges the per-provider pricing tables.
func buildGateway(cfg *config.Config) *gateway.Gateway {
	opts := []gateway.Option{
		gateway.WithObservability(slogobs.New()),
		gateway.WithPricing(cost.Merge(
			openai.ModelPricing,
			anthropic.ModelPricing,
			mistral.ModelPricing,
			perplexity.ModelPricing,
		)),
	}
	if cfg.Gateway.Concurrency > 0 {
		opts = append(opts, gateway.WithConcurrency(cfg.Gateway.Concurrency))
	}
	if cfg.Gateway.Timeout.Std() > 0 {
		opts = append(opts, gateway.WithTimeout(cfg.Gateway.Timeout.Std()))
	}
	if cfg.Gateway.RequestsPerSecond > 0 {
		opts = append(opts, gateway.WithRateLimit(cfg.Gateway.RequestsPerSecond, cfg.Gateway.Burst))
	}

	g := gateway.New(opts...)
	g.Register(applyConfig(openai.New(), cfg, "openai"), "gpt-", "o3", "o4")
	g.Register(applyConfig(anthropic.New(), cfg, "anthropic"), "claude-")
	g.Register(applyConfig(mistral.New(), cfg, "mistral"), "mistral-", "open-mistral", "codestral", "ministral")
	g.Register(applyConfig(perplexity.New(), cfg, "perplexity"), "sonar")
	g.Register(applyConfig(ollama.New(), cfg, "ollama"), "llama", "gemma", "qwen", "phi")
	return g
}

// applyConfig overlays file-supplied credentials and base URLs on a provider
// built from the environment.
func applyConfig(p ai.Provider, cfg *config.Config, name string) ai.Provider {
	pc := cfg.ProviderOrDefault(name)
	if pc.APIKey != "" {
		p = p.WithAPIKey(pc.APIKey)
	}
	if pc.BaseURL != "" {
		p = p.WithBaseURL(pc.BaseURL)
	}
	return p
}

func runComplete(ctx context.Context, g *gateway.Gateway, model, prompt string) error {
	resp, err := g.Complete(ctx, userRequest(model, prompt))
	if err != nil {
		return err
	}
	fmt.Println(resp.Content)
	return nil
}

func runStream(ctx context.Context, g *gateway.Gateway, model, prompt string) error {
	stream, err := g.Stream(ctx, userRequest(model, prompt))
	if err != nil {
		return err
	}
	for event, err := range stream.Iter() {
		if err != nil {
			return err
		}
		if event.Type == ai.StreamEventContent {
			fmt.Print(event.Content)
		}
	}
	fmt.Println()
	return nil
}

func runMetadata(ctx context.Context, g *gateway.Gateway, model, prompt string) error {
	meta, err := g.Metadata(ctx, userRequest(model, prompt))
	if err != nil {
		return err
	}
	for key, value := range meta {
		if key == "headers" {
			continue
		}
		fmt.Printf("%-20s %v\n", key, value)
	}
	return nil
}

func runBatch(ctx context.Context, g *gateway.Gateway, prompts []string, model string, warmup bool) error {
	var opts []gateway.RunOption
	if warmup {
		opts = append(opts, gateway.WithWarmup())
	}

	items := g.Batch(ctx, prompts, model, opts...)
	for _, item := range items {
		if item.Err != nil {
			fmt.Printf("[%d] %s -> ERROR: %v\n", item.Index, item.Prompt, item.Err)
			continue
		}
		fmt.Printf("[%d] %s -> %s\n", item.Index, item.Prompt, item.Response.Content)
	}
	return nil
}

func runCompare(ctx context.Context, g *gateway.Gateway, prompt string, models []string) error {
	responses, failures := g.Compare(ctx, prompt, models)
	for _, model := range models {
		if err, failed := failures[model]; failed {
			fmt.Printf("=== %s ===\nERROR: %v\n\n", model, err)
			continue
		}
		if resp, ok := responses[model]; ok {
			fmt.Printf("=== %s ===\n%s\n\n", model, resp.Content)
		}
	}
	return nil
}

func userRequest(model, prompt string) ai.ChatRequest {
	return ai.ChatRequest{
		Model:    model,
		Messages: []ai.Message{{Role: ai.RoleUser, Content: prompt}},
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
