package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over the generative model collaborator.
// The tutoring services call Generate and receive structured JSON (when a
// Schema is set) or the raw response text.
type Provider interface {
	// Generate sends a prompt to the model and returns its response.
	// When req.Schema is set the provider uses its native structured output
	// mechanism and the returned Content is schema-validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the default model identifier this provider uses.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation history. Single-turn generation (the
	// common case for analysis and plan steps) carries one user message;
	// tutor chat carries the trailing transcript window.
	Messages []Message

	// Schema is the JSON Schema the response must conform to. Nil means
	// free-text output.
	Schema *Schema

	// Model overrides the provider's default model for this request.
	// Plan generation uses a heavier model than analysis and chat.
	Model string

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Zero value means
	// deterministic.
	Temperature float64
}

// Message is a single turn in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "weakness-analysis".
	Name string

	// Description tells the model what this schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output: validated JSON when a Schema was
	// requested, otherwise the raw text.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the model that actually served the request.
	Model string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
