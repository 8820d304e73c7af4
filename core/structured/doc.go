// Package structured extracts typed values from model output. It tolerates
// the cosmetic damage LLMs inflict on JSON answers (Markdown code fences,
// single quotes, trailing commas) by stripping fences and repairing
// near-JSON before decoding.
package structured
