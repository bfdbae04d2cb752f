// Package agent implements the conversation orchestrator: it loads the
// user's record, replays history, drives the model/tool loop until a final
// answer, and persists the completed turn.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"fuelyt"
	"fuelyt/oracle"
	"fuelyt/store"
)

const (
	defaultMaxIterations = 10
	defaultTurnTimeout   = 120 * time.Second

	fallbackResponse = "I apologize, but I encountered an issue processing your request. Please try again."
	capReason        = "I couldn't finish your request within the allowed number of steps."
	timeoutReason    = "I ran out of time while processing your request. Please try again."
)

type Config struct {
	Oracle    oracle.Client
	Tools     ToolProvider
	Records   store.RecordStore
	Extractor RecommendationExtractor
	Logger    fuelyt.TurnLogger

	MaxIterations int
	TurnTimeout   time.Duration
	HistoryLimit  int
}

// Agent orchestrates one conversational turn at a time. It is safe for
// concurrent use across distinct users; concurrent turns for the same user
// are last-writer-wins at the store.
type Agent struct {
	oracle        oracle.Client
	tools         ToolProvider
	records       store.RecordStore
	extractor     RecommendationExtractor
	logger        fuelyt.TurnLogger
	history       History
	maxIterations int
	turnTimeout   time.Duration
}

func New(cfg Config) (*Agent, error) {
	if cfg.Oracle == nil {
		return nil, fmt.Errorf("oracle client is required")
	}
	if cfg.Tools == nil {
		return nil, fmt.Errorf("tool provider is required")
	}
	if cfg.Records == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if cfg.Extractor == nil {
		cfg.Extractor = NewMarkdownExtractor()
	}
	if cfg.Logger == nil {
		cfg.Logger = fuelyt.NewNoOpTurnLogger()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = defaultTurnTimeout
	}
	return &Agent{
		oracle:        cfg.Oracle,
		tools:         cfg.Tools,
		records:       cfg.Records,
		extractor:     cfg.Extractor,
		logger:        cfg.Logger,
		history:       History{Limit: cfg.HistoryLimit},
		maxIterations: cfg.MaxIterations,
		turnTimeout:   cfg.TurnTimeout,
	}, nil
}

// HandleTurn processes one user message end to end. Text fragments are
// delivered through onFragment as the model produces them; the returned
// TurnResult carries the full response, the tool names invoked in order,
// and any extracted recommendations.
func (a *Agent) HandleTurn(ctx context.Context, userID, message string, extra map[string]any, onFragment func(string)) (fuelyt.TurnResult, error) {
	ctx, span := otel.Tracer(fuelyt.TracerNameAgent).Start(ctx, "Agent.HandleTurn")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if userID == "" {
		return fuelyt.TurnResult{}, fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(message) == "" {
		return fuelyt.TurnResult{}, fmt.Errorf("message is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, a.turnTimeout)
	defer cancel()

	slog.Info("COORDINATOR: Starting turn", "user_id", userID, "message_len", len(message))

	rec, err := a.records.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		rec, err = a.records.Create(ctx, userID, nil)
		if err == nil {
			slog.Info("COORDINATOR: Bootstrapped new user", "user_id", userID)
		}
	}
	if err != nil {
		return fuelyt.TurnResult{}, fmt.Errorf("load user %s: %w", userID, err)
	}

	prompt := oracle.Prompt{
		System:   systemPrompt,
		Messages: a.history.Reconstruct(rec),
		Tools:    buildToolDefs(a.tools),
	}
	prompt.Messages = append(prompt.Messages, oracle.Message{
		Role:    "user",
		Content: augmentUserMessage(userID, message, extra),
	})

	var emitted strings.Builder
	emit := func(fragment string) {
		emitted.WriteString(fragment)
		if onFragment != nil {
			onFragment(fragment)
		}
	}

	actions := []string{}

	for iter := 0; iter < a.maxIterations; iter++ {
		iterLog := fuelyt.IterationLog{UserID: userID, Iteration: iter + 1, Timestamp: time.Now()}
		if b, merr := json.Marshal(prompt); merr == nil {
			iterLog.LLMInput = string(b)
		}

		slog.Info("COORDINATOR: Sending prompt to LLM",
			"iteration", iter+1,
			"messages_count", len(prompt.Messages),
			"tools_count", len(prompt.Tools),
		)

		res, err := a.oracle.Invoke(ctx, prompt, emit)
		if err != nil {
			iterLog.Error = err.Error()
			a.logIteration(iterLog)

			if ctx.Err() != nil {
				slog.Warn("COORDINATOR: Turn deadline exceeded", "user_id", userID, "iteration", iter+1)
				return a.finalize(ctx, userID, message, a.degraded(emit, &emitted, timeoutReason, actions), actions)
			}
			slog.Error("COORDINATOR: LLM invoke failed", "error", err, "iteration", iter+1)
			if emitted.Len() == 0 {
				emit(fallbackResponse)
			}
			return a.finalize(ctx, userID, message, emitted.String(), actions)
		}
		iterLog.LLMOutput = res

		slog.Info("COORDINATOR: LLM response received",
			"iteration", iter+1,
			"content_length", len(res.Content),
			"tool_calls", len(res.ToolCalls),
		)

		if len(res.ToolCalls) == 0 {
			a.logIteration(iterLog)
			if emitted.Len() == 0 && res.Content != "" {
				emit(res.Content)
			}
			response := emitted.String()
			if response == "" {
				response = fallbackResponse
			}
			return a.finalize(ctx, userID, message, response, actions)
		}

		prompt.Messages = append(prompt.Messages, oracle.Message{
			Role:      "assistant",
			Content:   res.Content,
			ToolCalls: res.ToolCalls,
		})

		// Dispatch in request order so replays are deterministic.
		var toolLogs []fuelyt.ToolCallLog
		for _, call := range res.ToolCalls {
			slog.Info("COORDINATOR: Handling tool call", "name", call.Name, "iteration", iter+1)
			tlog := fuelyt.ToolCallLog{Name: call.Name, Input: call.Input}

			var result string
			tool, gerr := a.tools.GetTool(call.Name)
			switch {
			case gerr != nil:
				result = fmt.Sprintf("Error: tool %q not found.", call.Name)
				tlog.Error = gerr.Error()

			default:
				actions = append(actions, call.Name)
				out, rerr := tool.Run(ctx, call.Input)
				if rerr != nil {
					slog.Error("COORDINATOR: Tool failed", "name", call.Name, "error", rerr)
					result = fmt.Sprintf("Error: tool %q failed: %v", call.Name, rerr)
					tlog.Error = rerr.Error()
				} else {
					result = out
				}
			}

			tlog.Result = result
			toolLogs = append(toolLogs, tlog)
			prompt.Messages = append(prompt.Messages, oracle.Message{
				Role:       "tool",
				Content:    result,
				ToolName:   call.Name,
				ToolCallID: call.ToolUseID,
			})
		}

		iterLog.ToolCalls = toolLogs
		a.logIteration(iterLog)
	}

	slog.Warn("COORDINATOR: Iteration cap reached", "user_id", userID, "max_iterations", a.maxIterations)
	return a.finalize(ctx, userID, message, a.degraded(emit, &emitted, capReason, actions), actions)
}

// degraded produces the visible text for a turn that could not complete
// normally. Any text already streamed stands; otherwise the reason (plus a
// summary of completed actions) is emitted so callers still see output.
func (a *Agent) degraded(emit func(string), emitted *strings.Builder, reason string, actions []string) string {
	if emitted.Len() == 0 {
		text := reason
		if len(actions) > 0 {
			text = fmt.Sprintf("%s Completed so far: %s.", reason, strings.Join(actions, ", "))
		}
		emit(text)
	}
	return emitted.String()
}

// finalize persists the conversation pair and assembles the turn result.
// It runs under a detached context so a caller disconnect cannot abort the
// write-back.
func (a *Agent) finalize(ctx context.Context, userID, userMessage, response string, actions []string) (fuelyt.TurnResult, error) {
	fctx := context.WithoutCancel(ctx)

	rec, err := a.records.Get(fctx, userID)
	if err != nil {
		return fuelyt.TurnResult{}, fmt.Errorf("finalize turn for user %s: %w", userID, err)
	}
	aiCtx := a.history.Append(rec, userMessage, response)
	if _, err := a.records.Update(fctx, userID, map[string]any{"ai_context": aiCtx}); err != nil {
		return fuelyt.TurnResult{}, fmt.Errorf("persist turn for user %s: %w", userID, err)
	}

	recommendations := a.extractor.Extract(response)
	if recommendations == nil {
		recommendations = []fuelyt.Recommendation{}
	}

	slog.Info("COORDINATOR: Turn complete",
		"user_id", userID,
		"response_len", len(response),
		"actions", len(actions),
		"recommendations", len(recommendations),
	)

	return fuelyt.TurnResult{
		Response:        response,
		ActionsTaken:    actions,
		Recommendations: recommendations,
	}, nil
}

func (a *Agent) logIteration(iter fuelyt.IterationLog) {
	if a.logger == nil {
		return
	}
	if err := a.logger.LogIteration(iter); err != nil {
		slog.Error("Failed to log turn iteration", "error", err, "iteration", iter.Iteration)
	}
}
