package ai

// ValidateRequest checks a ChatRequest against a provider's declared
// capabilities before any wire conversion happens. It enforces the shared
// structural invariants (non-empty message list, at most one system message,
// system message first) and rejects generation options the provider cannot
// express. A SystemPrompt alone does not make a request valid: there must be
// at least one conversation message. Providers call this at the top of
// SendMessage/StreamMessage so that invalid requests never reach the network.
func ValidateRequest(provider string, caps Capabilities, request ChatRequest) error {
	if len(request.Messages) == 0 {
		return &InvalidRequestError{Reason: "message list is empty"}
	}

	systemCount := 0
	for i, msg := range request.Messages {
		switch msg.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return &InvalidRequestError{Reason: "unknown message role " + string(msg.Role)}
		}
		if msg.Role == RoleSystem {
			systemCount++
			if i != 0 {
				return &InvalidRequestError{Reason: "system message must be first in the conversation"}
			}
		}
	}
	if systemCount > 1 {
		return &InvalidRequestError{Reason: "at most one system message is allowed"}
	}
	if systemCount == 1 && request.SystemPrompt != "" {
		return &InvalidRequestError{Reason: "system prompt supplied both as field and as message"}
	}

	if cfg := request.GenerationConfig; cfg != nil {
		if len(cfg.StopSequences) > 0 && !caps.SupportsStopSequences {
			return &UnsupportedOptionError{Provider: provider, Option: "stop_sequences"}
		}
		if cfg.TopK > 0 && !caps.SupportsTopK {
			return &UnsupportedOptionError{Provider: provider, Option: "top_k"}
		}
		if len(cfg.LogitBias) > 0 && !caps.SupportsLogitBias {
			return &UnsupportedOptionError{Provider: provider, Option: "logit_bias"}
		}
		if cfg.Seed != 0 && !caps.SupportsSeed {
			return &UnsupportedOptionError{Provider: provider, Option: "seed"}
		}
		if (cfg.FrequencyPenalty != 0 || cfg.PresencePenalty != 0) && !caps.SupportsPenalties {
			return &UnsupportedOptionError{Provider: provider, Option: "penalties"}
		}
	}

	for key := range request.Extras {
		if !caps.SupportsExtra(key) {
			return &UnsupportedOptionError{Provider: provider, Option: key}
		}
	}

	return nil
}

// SplitSystemMessage separates a leading system-role message from the rest of
// the conversation. It returns the system text (empty when none) and the
// remaining messages in their original order. Used by providers whose wire
// schema requires the system prompt as a separate top-level field.
func SplitSystemMessage(request ChatRequest) (string, []Message) {
	system := request.SystemPrompt
	messages := request.Messages

	if len(messages) > 0 && messages[0].Role == RoleSystem {
		system = messages[0].Content
		messages = messages[1:]
	}

	return system, messages
}
