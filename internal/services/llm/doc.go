// Package llm wraps the OpenRouter chat completion API for metadata
// reconciliation. Requests always demand a JSON object response; DecodeLLMJSON
// tolerates the code fences and stray prose some models emit anyway.
package llm
