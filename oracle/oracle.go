// Package oracle defines the model boundary: a provider-neutral prompt
// shape and a Client that resolves it to either final text or tool call
// requests, streaming text increments through a callback as they arrive.
package oracle

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"fuelyt/tools"
)

// Message is one entry in the conversation fed to the model. Role is
// "user", "assistant", or "tool". Assistant messages that requested tools
// carry ToolCalls; tool messages carry the result in Content plus the
// originating ToolName and ToolCallID.
type Message struct {
	Role       string       `json:"role"`
	Content    string       `json:"content"`
	ToolCalls  []tools.Call `json:"tool_calls,omitempty"`
	ToolName   string       `json:"tool_name,omitempty"`
	ToolCallID string       `json:"tool_call_id,omitempty"`
}

// Tool describes a callable tool in provider-neutral terms.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

type Prompt struct {
	System   string    `json:"system"`
	Messages []Message `json:"messages"`
	Tools    []Tool    `json:"tools,omitempty"`
}

// Response is the model's reply: final Content, or one or more ToolCalls
// to dispatch before the next invoke. Both may be set when the model talks
// while requesting tools.
type Response struct {
	Content   string       `json:"content,omitempty"`
	ToolCalls []tools.Call `json:"tool_calls,omitempty"`
}

// Client is a model backend. onDelta, when non-nil, receives each text
// increment as the backend produces it; backends without streaming call it
// once with the full text.
type Client interface {
	Invoke(ctx context.Context, prompt Prompt, onDelta func(string)) (Response, error)
}
