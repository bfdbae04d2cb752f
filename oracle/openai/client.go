// Package openai adapts the OpenAI chat-completions API, with streaming
// function calling, to the oracle contract.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"fuelyt/oracle"
	"fuelyt/tools"
)

const (
	defaultModelID     = "gpt-4o"
	defaultMaxTokens   = 1024
	defaultTemperature = 0.7
	defaultTopP        = 0.9
)

type ClientOptions struct {
	APIKey      string
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type Client struct {
	oai  openai.Client
	opts ClientOptions
}

func NewClient(opts ClientOptions) *Client {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &Client{
		oai:  openai.NewClient(option.WithAPIKey(opts.APIKey)),
		opts: opts,
	}
}

func (c *Client) Invoke(ctx context.Context, prompt oracle.Prompt, onDelta func(string)) (oracle.Response, error) {
	slog.Info("LLM_CLIENT: Invoked", "messages_len", len(prompt.Messages))

	params := openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(c.opts.ModelID),
		Messages:            buildMessages(prompt),
		MaxCompletionTokens: openai.Int(int64(c.opts.MaxTokens)),
		Temperature:         openai.Float(float64(c.opts.Temperature)),
		TopP:                openai.Float(float64(c.opts.TopP)),
	}
	if toolParams := buildTools(prompt.Tools); len(toolParams) > 0 {
		params.Tools = toolParams
	}

	stream := c.oai.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	acc := openai.ChatCompletionAccumulator{}
	var calls []tools.Call

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if tool, ok := acc.JustFinishedToolCall(); ok {
			var input map[string]any
			if err := json.Unmarshal([]byte(tool.Arguments), &input); err != nil {
				slog.Error("LLM_CLIENT: Failed to parse tool arguments", "tool", tool.Name, "error", err)
				input = map[string]any{}
			}
			calls = append(calls, tools.Call{
				Name:      tool.Name,
				Input:     input,
				ToolUseID: tool.ID,
			})
			slog.Info("LLM_CLIENT: Finished tool call", "tool", tool.Name, "tool_use_id", tool.ID)
		}

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if onDelta != nil {
				onDelta(chunk.Choices[0].Delta.Content)
			}
		}
	}
	if err := stream.Err(); err != nil {
		slog.Error("LLM_CLIENT: OpenAI stream failed", "error", err)
		return oracle.Response{}, fmt.Errorf("openai stream: %w", err)
	}

	var content string
	if len(acc.Choices) > 0 {
		content = acc.Choices[0].Message.Content
	}

	slog.Info("LLM_CLIENT: OpenAI invoke succeeded", "content_len", len(content), "tool_calls", len(calls))
	return oracle.Response{Content: content, ToolCalls: calls}, nil
}

func buildMessages(prompt oracle.Prompt) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(prompt.Messages)+1)
	if prompt.System != "" {
		msgs = append(msgs, openai.SystemMessage(prompt.System))
	}

	for _, m := range prompt.Messages {
		switch m.Role {
		case "user":
			msgs = append(msgs, openai.UserMessage(m.Content))

		case "assistant":
			if m.Content == "" && len(m.ToolCalls) == 0 {
				continue
			}
			assistant := openai.ChatCompletionAssistantMessageParam{Role: "assistant"}
			if m.Content != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(m.Content),
				}
			}
			for _, tc := range m.ToolCalls {
				args, err := json.Marshal(tc.Input)
				if err != nil {
					args = []byte("{}")
				}
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID:   tc.ToolUseID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: string(args),
					},
				})
			}
			msgs = append(msgs, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})

		case "tool":
			msgs = append(msgs, openai.ToolMessage(m.Content, m.ToolCallID))

		default:
			slog.Warn("LLM_CLIENT: unknown role, coercing to user", "role", m.Role)
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	return msgs
}

func buildTools(defs []oracle.Tool) []openai.ChatCompletionToolParam {
	params := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, t := range defs {
		schemaJSON, err := json.Marshal(t.InputSchema)
		if err != nil {
			slog.Error("LLM_CLIENT: Failed to marshal tool schema", "tool", t.Name, "error", err)
			continue
		}
		var schema map[string]any
		if err := json.Unmarshal(schemaJSON, &schema); err != nil {
			slog.Error("LLM_CLIENT: Failed to parse tool schema", "tool", t.Name, "error", err)
			continue
		}
		params = append(params, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  shared.FunctionParameters(schema),
			},
		})
	}
	return params
}
