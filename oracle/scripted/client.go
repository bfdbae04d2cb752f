// Package scripted provides a deterministic oracle for tests and offline
// demos. It plays back a queue of canned responses, streaming final text
// word by word so callers can exercise their fragment handling.
package scripted

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"fuelyt/oracle"
)

// Step is one canned model reply. Err, when set, simulates a backend
// failure for that invoke.
type Step struct {
	Response oracle.Response
	Err      error
}

type Client struct {
	mu      sync.Mutex
	steps   []Step
	invoked int

	// Prompts records every prompt received, for assertions.
	Prompts []oracle.Prompt
}

func NewClient(steps ...Step) *Client {
	return &Client{steps: steps}
}

func (c *Client) Invoke(ctx context.Context, prompt oracle.Prompt, onDelta func(string)) (oracle.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slog.Info("LLM_CLIENT: Invoked", "messages_len", len(prompt.Messages))
	c.Prompts = append(c.Prompts, prompt)

	if err := ctx.Err(); err != nil {
		return oracle.Response{}, err
	}
	if c.invoked >= len(c.steps) {
		return oracle.Response{}, fmt.Errorf("scripted oracle exhausted after %d steps", len(c.steps))
	}

	step := c.steps[c.invoked]
	c.invoked++

	if step.Err != nil {
		return oracle.Response{}, step.Err
	}

	if step.Response.Content != "" && len(step.Response.ToolCalls) == 0 && onDelta != nil {
		streamWords(step.Response.Content, onDelta)
	}
	return step.Response, nil
}

// Invocations returns how many times the client has been invoked.
func (c *Client) Invocations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invoked
}

// streamWords emits text one whitespace-delimited chunk at a time,
// preserving the original spacing so the concatenation equals the input.
func streamWords(text string, onDelta func(string)) {
	rest := text
	for rest != "" {
		cut := strings.IndexByte(rest, ' ')
		if cut == -1 {
			onDelta(rest)
			return
		}
		onDelta(rest[:cut+1])
		rest = rest[cut+1:]
	}
}
