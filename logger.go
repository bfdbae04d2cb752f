package fuelyt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// TurnLogger is the interface for per-iteration audit logging of the
// orchestration loop.
type TurnLogger interface {
	LogIteration(iteration IterationLog) error
}

// NewTurnLogFilePath returns a file path based on a cleaned up model name or
// id to make it easier to identify logs produced with various models.
func NewTurnLogFilePath(model string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(model), ":", "_"),
	)
}

// IterationLog represents a single model/tool iteration within a turn.
type IterationLog struct {
	UserID    string        `json:"user_id,omitempty"`
	Iteration int           `json:"iteration"`
	Timestamp time.Time     `json:"timestamp"`
	LLMInput  string        `json:"llm_input,omitempty"`
	LLMOutput any           `json:"llm_output"`
	ToolCalls []ToolCallLog `json:"tool_calls,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// ToolCallLog represents one tool dispatch within an iteration.
type ToolCallLog struct {
	Name   string         `json:"name"`
	Input  map[string]any `json:"input"`
	Result string         `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// FileTurnLogger accumulates iterations in memory and flushes them as one
// JSON document at the end of the process.
type FileTurnLogger struct {
	iterations []IterationLog
	writer     io.Writer
}

func NewFileTurnLogger(writer io.Writer) *FileTurnLogger {
	return &FileTurnLogger{
		iterations: make([]IterationLog, 0),
		writer:     writer,
	}
}

func (l *FileTurnLogger) LogIteration(iteration IterationLog) error {
	l.iterations = append(l.iterations, iteration)
	return nil
}

// Flush writes all accumulated iterations to the writer and clears the
// buffer on success.
func (l *FileTurnLogger) Flush() error {
	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"turn_session": map[string]any{
			"timestamp":  time.Now(),
			"iterations": l.iterations,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal turn log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write turn log: %w", err)
	}

	l.iterations = l.iterations[:0]
	return nil
}

// NoOpTurnLogger discards all log entries.
type NoOpTurnLogger struct{}

func NewNoOpTurnLogger() *NoOpTurnLogger { return &NoOpTurnLogger{} }

func (*NoOpTurnLogger) LogIteration(IterationLog) error { return nil }

// StdoutTurnLogger writes each iteration as a JSON line to stdout, suitable
// for Lambda/CloudWatch environments.
type StdoutTurnLogger struct{}

func NewStdoutTurnLogger() *StdoutTurnLogger { return &StdoutTurnLogger{} }

func (*StdoutTurnLogger) LogIteration(iteration IterationLog) error {
	data, err := json.Marshal(iteration)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
