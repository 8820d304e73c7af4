package ollama

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/llmgate/llmgate/internal/utils"
	"github.com/llmgate/llmgate/providers/ai"
)

// Extras keys understood by the Ollama conversion layer. These map onto the
// hardware-affinity knobs in ollamaOptions; they are declared in the
// provider's capabilities so undeclared keys fail validation instead of being
// silently dropped.
const (
	ExtraNumCtx        = "num_ctx"
	ExtraNumBatch      = "num_batch"
	ExtraNumGPU        = "num_gpu"
	ExtraNumThread     = "num_thread"
	ExtraUseMMap       = "use_mmap"
	ExtraUseMLock      = "use_mlock"
	ExtraNUMA          = "numa"
	ExtraRepeatPenalty = "repeat_penalty"
	ExtraKeepAlive     = "keep_alive"
)

// supportedExtras lists every extras key the conversion layer understands.
var supportedExtras = []string{
	ExtraNumCtx, ExtraNumBatch, ExtraNumGPU, ExtraNumThread,
	ExtraUseMMap, ExtraUseMLock, ExtraNUMA, ExtraRepeatPenalty, ExtraKeepAlive,
}

// requestToOllama converts an ai.ChatRequest into an ollamaRequest ready to
// POST to /api/chat. Sampling controls and hardware extras are folded into
// the options object; stream is always set explicitly because Ollama defaults
// to streaming when the field is absent.
func requestToOllama(request ai.ChatRequest, model string) (ollamaRequest, error) {
	req := ollamaRequest{
		Model:    model,
		Messages: buildMessages(request),
		Stream:   false,
	}

	options := &ollamaOptions{}
	used := false

	if cfg := request.GenerationConfig; cfg != nil {
		used = true
		if cfg.MaxTokens > 0 {
			options.NumPredict = cfg.MaxTokens
		}
		if cfg.Temperature > 0 {
			options.Temperature = utils.Ptr(float64(cfg.Temperature))
		}
		if cfg.TopP > 0 {
			options.TopP = utils.Ptr(float64(cfg.TopP))
		}
		if cfg.TopK > 0 {
			options.TopK = utils.Ptr(cfg.TopK)
		}
		if len(cfg.StopSequences) > 0 {
			options.Stop = cfg.StopSequences
		}
		if cfg.Seed != 0 {
			options.Seed = utils.Ptr(cfg.Seed)
		}
		if cfg.FrequencyPenalty != 0 {
			options.FrequencyPenalty = utils.Ptr(float64(cfg.FrequencyPenalty))
		}
		if cfg.PresencePenalty != 0 {
			options.PresencePenalty = utils.Ptr(float64(cfg.PresencePenalty))
		}
	}

	if len(request.Extras) > 0 {
		if err := applyExtras(&req, options, request.Extras); err != nil {
			return ollamaRequest{}, err
		}
		used = true
	}

	if used {
		req.Options = options
	}

	return req, nil
}

// applyExtras folds the hardware-affinity extras into the options object.
// Keys are already validated against the capability list; this layer checks
// the value types.
func applyExtras(req *ollamaRequest, options *ollamaOptions, extras map[string]any) error {
	for key, value := range extras {
		switch key {
		case ExtraKeepAlive:
			s, ok := value.(string)
			if !ok {
				return &ai.InvalidRequestError{Reason: fmt.Sprintf("extra %q must be a string", key)}
			}
			req.KeepAlive = s

		case ExtraUseMMap, ExtraUseMLock, ExtraNUMA:
			b, ok := value.(bool)
			if !ok {
				return &ai.InvalidRequestError{Reason: fmt.Sprintf("extra %q must be a bool", key)}
			}
			switch key {
			case ExtraUseMMap:
				options.UseMMap = &b
			case ExtraUseMLock:
				options.UseMLock = &b
			case ExtraNUMA:
				options.NUMA = &b
			}

		case ExtraRepeatPenalty:
			f, ok := toFloat(value)
			if !ok {
				return &ai.InvalidRequestError{Reason: fmt.Sprintf("extra %q must be a number", key)}
			}
			options.RepeatPenalty = &f

		case ExtraNumCtx, ExtraNumBatch, ExtraNumGPU, ExtraNumThread:
			n, ok := toInt(value)
			if !ok {
				return &ai.InvalidRequestError{Reason: fmt.Sprintf("extra %q must be an integer", key)}
			}
			switch key {
			case ExtraNumCtx:
				options.NumCtx = &n
			case ExtraNumBatch:
				options.NumBatch = &n
			case ExtraNumGPU:
				options.NumGPU = &n
			case ExtraNumThread:
				options.NumThread = &n
			}
		}
	}
	return nil
}

// toInt accepts the numeric types a caller may plausibly pass (including
// float64 from decoded JSON) and converts to int.
func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// toFloat accepts int or float values and converts to float64.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// buildMessages converts the generic conversation into Ollama message objects.
// A SystemPrompt field is prepended as a system-role message.
func buildMessages(request ai.ChatRequest) []ollamaMessage {
	messages := make([]ollamaMessage, 0, len(request.Messages)+1)

	if request.SystemPrompt != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: request.SystemPrompt})
	}

	for _, msg := range request.Messages {
		messages = append(messages, ollamaMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return messages
}

// ollamaToGeneric converts an ollamaResponse to the provider-agnostic format.
// Ollama reports no response id, so one is generated for correlation. Token
// usage comes from the evaluation counters and the nanosecond durations are
// surfaced as [ai.Timings] for throughput derivation.
func ollamaToGeneric(response ollamaResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:           "ollama-" + uuid.NewString(),
		Model:        response.Model,
		Object:       "chat.completion",
		Created:      response.CreatedAt.Unix(),
		Content:      response.Message.Content,
		FinishReason: mapDoneReason(response.DoneReason),
	}
	if response.CreatedAt.IsZero() {
		result.Created = time.Now().Unix()
	}

	if response.PromptEvalCount > 0 || response.EvalCount > 0 {
		result.Usage = usageFromCounters(response)
	}

	if timings := timingsFromResponse(response); timings != nil {
		result.Timings = timings
	}

	return result
}

// usageFromCounters maps Ollama's evaluation counters onto the generic usage
// block.
func usageFromCounters(response ollamaResponse) *ai.Usage {
	return &ai.Usage{
		PromptTokens:     response.PromptEvalCount,
		CompletionTokens: response.EvalCount,
		TotalTokens:      response.PromptEvalCount + response.EvalCount,
	}
}

// timingsFromResponse converts the nanosecond duration counters into
// [ai.Timings]. Returns nil when the response carries no timing data.
func timingsFromResponse(response ollamaResponse) *ai.Timings {
	if response.TotalDuration == 0 && response.EvalDuration == 0 {
		return nil
	}
	return &ai.Timings{
		TotalDuration:      time.Duration(response.TotalDuration),
		LoadDuration:       time.Duration(response.LoadDuration),
		PromptEvalDuration: time.Duration(response.PromptEvalDuration),
		EvalDuration:       time.Duration(response.EvalDuration),
	}
}

// mapDoneReason maps Ollama done reasons onto the canonical vocabulary.
func mapDoneReason(reason string) string {
	switch reason {
	case "stop", "":
		return ai.FinishStop
	case "length":
		return ai.FinishLength
	default:
		return reason
	}
}
