// Package bedrock adapts the AWS Bedrock Converse API to the oracle
// contract. Converse is invoked non-streaming; the full reply is delivered
// to onDelta in one increment.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"fuelyt/oracle"
	"fuelyt/tools"
)

const (
	// defaultModelID is an inference profile ID, not the foundation model's ID.
	// See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	defaultMaxTokens   = 1024
	defaultTemperature = 0.7
	defaultTopP        = 0.9
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type ClientOptions struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type Client struct {
	brc  bedrockRuntimeClient
	opts ClientOptions
}

func NewClient(brc bedrockRuntimeClient, opts ClientOptions) *Client {
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
		brc:  brc,
		opts: opts,
	}
}

func (c *Client) Invoke(ctx context.Context, prompt oracle.Prompt, onDelta func(string)) (oracle.Response, error) {
	slog.Info("LLM_CLIENT: Invoked", "messages_len", len(prompt.Messages))

	var sys []types.SystemContentBlock
	if prompt.System != "" {
		sys = append(sys, &types.SystemContentBlockMemberText{Value: prompt.System})
	}

	msgs, err := buildMessages(prompt)
	if err != nil {
		return oracle.Response{}, err
	}

	var toolDefs []types.Tool
	for _, t := range prompt.Tools {
		spec, err := buildToolSpec(t)
		if err != nil {
			slog.Error("LLM_CLIENT: Failed to build tool spec", "error", err)
			continue
		}
		toolDefs = append(toolDefs, &types.ToolMemberToolSpec{Value: spec})
	}

	in := &bedrockruntime.ConverseInput{
		ModelId:  &c.opts.ModelID,
		System:   sys,
		Messages: msgs,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.opts.MaxTokens),
			Temperature: aws.Float32(c.opts.Temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
	}
	if len(toolDefs) > 0 {
		in.ToolConfig = &types.ToolConfiguration{Tools: toolDefs, ToolChoice: &types.ToolChoiceMemberAuto{}}
	}

	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		slog.Error("LLM_CLIENT: Bedrock Converse failed", "error", err)
		return oracle.Response{}, err
	}

	slog.Info("LLM_CLIENT: Bedrock Converse succeeded",
		"stop_reason", out.StopReason,
		"latency_ms", aws.ToInt64(out.Metrics.LatencyMs),
		"input_tokens", aws.ToInt32(out.Usage.InputTokens),
		"output_tokens", aws.ToInt32(out.Usage.OutputTokens),
	)

	switch out.StopReason {
	case "tool_use":
		calls := toolCallsFromOutput(out)
		slog.Info("LLM_CLIENT: Extracted tool calls", "calls_len", len(calls))
		return oracle.Response{Content: textFromOutput(out), ToolCalls: calls}, nil

	case "max_tokens":
		return oracle.Response{}, fmt.Errorf("model hit MaxTokens limit; consider increasing MaxTokens")

	case "safety", "content_filtered":
		return oracle.Response{}, fmt.Errorf("model response blocked by Bedrock safety filters")

	default:
		text := textFromOutput(out)
		if text != "" && onDelta != nil {
			onDelta(text)
		}
		return oracle.Response{Content: text, ToolCalls: toolCallsFromOutput(out)}, nil
	}
}

func buildMessages(prompt oracle.Prompt) ([]types.Message, error) {
	var msgs []types.Message
	for _, m := range prompt.Messages {
		switch m.Role {
		case "user":
			msgs = append(msgs, types.Message{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: m.Content}},
			})

		case "assistant":
			msg := types.Message{Role: types.ConversationRoleAssistant}
			if m.Content != "" {
				msg.Content = append(msg.Content, &types.ContentBlockMemberText{Value: m.Content})
			}
			for _, tc := range m.ToolCalls {
				input := tc.Input
				if input == nil {
					input = map[string]any{}
				}
				msg.Content = append(msg.Content, &types.ContentBlockMemberToolUse{
					Value: types.ToolUseBlock{
						ToolUseId: aws.String(tc.ToolUseID),
						Name:      aws.String(tc.Name),
						Input:     document.NewLazyDocument(input),
					},
				})
			}
			msgs = append(msgs, msg)

		case "tool":
			// Converse carries tool results as user-role content blocks
			// tied to the originating toolUseId.
			tr := types.ToolResultBlock{
				ToolUseId: aws.String(m.ToolCallID),
				Status:    types.ToolResultStatusSuccess,
				Content: []types.ToolResultContentBlock{
					&types.ToolResultContentBlockMemberText{Value: m.Content},
				},
			}
			msgs = append(msgs, types.Message{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberToolResult{Value: tr}},
			})

		default:
			return nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}
	return msgs, nil
}

// buildToolSpec constructs a ToolSpecification for a tool. The schema is
// pre-marshalled to JSON so its custom MarshalJSON applies before the
// document system sees it.
func buildToolSpec(t oracle.Tool) (types.ToolSpecification, error) {
	schemaJSON, err := json.Marshal(t.InputSchema)
	if err != nil {
		return types.ToolSpecification{}, fmt.Errorf("failed to marshal tool schema for %s: %w", t.Name, err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return types.ToolSpecification{}, fmt.Errorf("failed to unmarshal tool schema for %s: %w", t.Name, err)
	}
	return types.ToolSpecification{
		Name:        aws.String(t.Name),
		Description: aws.String(t.Description),
		InputSchema: &types.ToolInputSchemaMemberJson{
			Value: document.NewLazyDocument(schemaMap),
		},
	}, nil
}

func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return ""
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	return strings.Join(texts, "\n")
}

// toolCallsFromOutput extracts tool uses emitted by the assistant.
func toolCallsFromOutput(out *bedrockruntime.ConverseOutput) []tools.Call {
	var calls []tools.Call

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg.Value.Content == nil {
		return calls
	}

	for _, cb := range msg.Value.Content {
		tu, ok := cb.(*types.ContentBlockMemberToolUse)
		if !ok {
			continue
		}

		var input map[string]any
		if err := tu.Value.Input.UnmarshalSmithyDocument(&input); err != nil {
			input = map[string]any{}
		}
		normalized := normalizeInput(input).(map[string]any)

		calls = append(calls, tools.Call{
			Name:      aws.ToString(tu.Value.Name),
			Input:     normalized,
			ToolUseID: aws.ToString(tu.Value.ToolUseId),
		})
	}
	return calls
}

// normalizeInput recursively coerces types for safe downstream use.
func normalizeInput(val any) any {
	switch v := val.(type) {
	case float64:
		// Convert whole numbers like 2.0 -> 2
		if v == float64(int(v)) {
			return int(v)
		}
		return v

	case string:
		// Stringified JSON arrays and objects come back as structures
		var decoded any
		if json.Unmarshal([]byte(v), &decoded) == nil {
			switch decoded.(type) {
			case map[string]any, []any:
				return normalizeInput(decoded)
			}
		}
		return v

	case []any:
		for i := range v {
			v[i] = normalizeInput(v[i])
		}
		return v

	case map[string]any:
		for key, val := range v {
			v[key] = normalizeInput(val)
		}
		return v

	default:
		return v
	}
}
