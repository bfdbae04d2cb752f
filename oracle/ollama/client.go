// Package ollama adapts a local Ollama server's /api/chat endpoint, with
// native tool calling, to the oracle contract.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"fuelyt"
	"fuelyt/oracle"
	"fuelyt/tools"
)

type options struct {
	Temperature   float64 `json:"temperature,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	NumCtx        int     `json:"num_ctx,omitempty"`
}

type Client struct {
	endpoint   string
	model      string
	httpClient fuelyt.HTTPClient
	options    options
}

type ClientOpts struct {
	BaseEndpoint string
	ModelID      string
	HTTPClient   fuelyt.HTTPClient
	Temperature  float64
	TopP         float64
}

func NewClient(opts ClientOpts) (*Client, error) {
	if opts.BaseEndpoint == "" {
		return nil, fmt.Errorf("ollama endpoint is required")
	}
	if opts.ModelID == "" {
		return nil, fmt.Errorf("ollama model id is required")
	}
	if opts.HTTPClient == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.TopP == 0 {
		opts.TopP = 0.9
	}

	return &Client{
		model:      opts.ModelID,
		httpClient: opts.HTTPClient,
		endpoint:   opts.BaseEndpoint + "/api/chat",
		options: options{
			Temperature:   opts.Temperature,
			TopP:          opts.TopP,
			RepeatPenalty: 1.05,
			NumCtx:        16384,
		},
	}, nil
}

type wireTool struct {
	Type     string         `json:"type"`
	Function wireToolSchema `json:"function"`
}

type wireToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type wireToolCall struct {
	Function struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"function"`
}

type wireMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Name      string         `json:"name,omitempty"`
	ToolCalls []wireToolCall `json:"tool_calls,omitempty"`
}

type wireResponse struct {
	Message wireMessage `json:"message"`
	// other metadata omitted but available
}

type wireRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Tools    []wireTool    `json:"tools,omitempty"`
	Stream   bool          `json:"stream"`
	Options  options       `json:"options,omitempty"`
}

// Invoke sends the prompt to the Ollama API. Responses are not streamed;
// final text is delivered to onDelta in one increment.
func (c *Client) Invoke(ctx context.Context, prompt oracle.Prompt, onDelta func(string)) (oracle.Response, error) {
	slog.Info("LLM_CLIENT: Invoked", "messages_len", len(prompt.Messages))

	toolDefs, err := buildTools(prompt.Tools)
	if err != nil {
		return oracle.Response{}, err
	}

	reqBody := wireRequest{
		Model:    c.model,
		Messages: buildMessages(prompt),
		Tools:    toolDefs,
		Stream:   false,
		Options:  c.options,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return oracle.Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqBytes))
	if err != nil {
		return oracle.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return oracle.Response{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return oracle.Response{}, fmt.Errorf("LLM_CLIENT: %s: %s", resp.Status, string(body))
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return oracle.Response{}, fmt.Errorf("LLM_CLIENT: decode response: %w", err)
	}

	if len(wr.Message.ToolCalls) > 0 {
		calls := make([]tools.Call, 0, len(wr.Message.ToolCalls))
		for _, call := range wr.Message.ToolCalls {
			calls = append(calls, tools.Call{
				Name:  call.Function.Name,
				Input: call.Function.Arguments,
			})
		}
		return oracle.Response{Content: wr.Message.Content, ToolCalls: calls}, nil
	}

	if wr.Message.Content != "" && onDelta != nil {
		onDelta(wr.Message.Content)
	}
	return oracle.Response{Content: wr.Message.Content}, nil
}

// buildMessages converts the prompt into Ollama chat messages, prepending
// the system prompt and preserving user / assistant / tool roles (tool
// requires Name).
func buildMessages(prompt oracle.Prompt) []wireMessage {
	messages := make([]wireMessage, 0, len(prompt.Messages)+1)
	if prompt.System != "" {
		messages = append(messages, wireMessage{
			Role:    "system",
			Content: prompt.System,
		})
	}

	for _, m := range prompt.Messages {
		switch m.Role {
		case "user", "assistant":
			messages = append(messages, wireMessage{
				Role:    m.Role,
				Content: m.Content,
			})

		case "tool":
			if m.ToolName == "" {
				slog.Warn("ollama: dropping tool message without name")
				continue
			}
			messages = append(messages, wireMessage{
				Role:    "tool",
				Name:    m.ToolName,
				Content: m.Content,
			})

		default:
			slog.Warn("ollama: unknown role, coercing to user", "role", m.Role)
			messages = append(messages, wireMessage{
				Role:    "user",
				Content: m.Content,
			})
		}
	}
	return messages
}

func buildTools(defs []oracle.Tool) ([]wireTool, error) {
	out := make([]wireTool, 0, len(defs))
	for _, t := range defs {
		schemaJSON, err := json.Marshal(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("marshal tool schema for %s: %w", t.Name, err)
		}
		var params map[string]any
		if err := json.Unmarshal(schemaJSON, &params); err != nil {
			return nil, fmt.Errorf("unmarshal tool schema for %s: %w", t.Name, err)
		}
		out = append(out, wireTool{
			Type: "function",
			Function: wireToolSchema{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return out, nil
}
