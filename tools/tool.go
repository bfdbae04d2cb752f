package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

// Tool is a named, schema-described operation against a user record. Run
// returns a short human-readable status string; validation and lookup
// failures come back as "Error: ..." strings with a nil error so the model
// can react in natural language. A non-nil error means the backing store
// itself failed.
type Tool interface {
	Name() string
	Title() string
	Description() string
	InputSchema() *jsonschema.Schema
	Run(ctx context.Context, input map[string]any) (string, error)
}

type Call struct {
	Name      string         `json:"name"`
	Input     map[string]any `json:"input"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
}
