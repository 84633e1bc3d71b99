// Package llm provides a provider-neutral chat completion interface with
// OpenAI and Gemini implementations and a circuit breaker wrapper that
// lets callers fall back quickly while a provider is failing.
package llm
