package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelyt/oracle"
	"fuelyt/oracle/scripted"
	"fuelyt/store"
	"fuelyt/tools"
)

func newTestAgent(t *testing.T, llm oracle.Client, records store.RecordStore, opts ...func(*Config)) *Agent {
	t.Helper()

	registry, err := tools.NewRegistry(records)
	require.NoError(t, err)

	cfg := Config{
		Oracle:  llm,
		Tools:   registry,
		Records: records,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	a, err := New(cfg)
	require.NoError(t, err)
	return a
}

func TestHandleTurn_BootstrapsNewUser(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryRecordStore()
	llm := scripted.NewClient(scripted.Step{
		Response: oracle.Response{Content: "Welcome! Tell me about your training."},
	})
	a := newTestAgent(t, llm, records)

	result, err := a.HandleTurn(ctx, "new-user", "hi", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Welcome! Tell me about your training.", result.Response)
	assert.Empty(t, result.ActionsTaken)
	assert.NotNil(t, result.ActionsTaken)
	assert.NotNil(t, result.Recommendations)

	// Record was provisioned with defaults and the pair persisted.
	rec, err := records.Get(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, 25, rec.Profile.Age)
	require.Len(t, rec.AIContext.ConversationHistory, 1)
	assert.Equal(t, "hi", rec.AIContext.ConversationHistory[0].UserMessage)
	assert.Equal(t, result.Response, rec.AIContext.ConversationHistory[0].AgentResponse)
}

func TestHandleTurn_AugmentsMessageWithUserID(t *testing.T) {
	records := store.NewMemoryRecordStore()
	llm := scripted.NewClient(scripted.Step{Response: oracle.Response{Content: "ok"}})
	a := newTestAgent(t, llm, records)

	_, err := a.HandleTurn(context.Background(), "u-42", "log my run", map[string]any{"timezone": "UTC"}, nil)
	require.NoError(t, err)

	require.Len(t, llm.Prompts, 1)
	last := llm.Prompts[0].Messages[len(llm.Prompts[0].Messages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Content, "User ID: u-42")
	assert.Contains(t, last.Content, "log my run")
	assert.Contains(t, last.Content, "timezone")
}

func TestHandleTurn_ToolRoundTrip(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryRecordStore()
	_, err := records.Create(ctx, "u1", nil)
	require.NoError(t, err)

	llm := scripted.NewClient(
		scripted.Step{Response: oracle.Response{ToolCalls: []tools.Call{{
			Name:      "log_workout",
			Input:     map[string]any{"user_id": "u1", "workout_type": "run", "duration_minutes": 45.0},
			ToolUseID: "call-1",
		}}}},
		scripted.Step{Response: oracle.Response{Content: "Logged your 45-minute run. Nice work!"}},
	)
	a := newTestAgent(t, llm, records)

	result, err := a.HandleTurn(ctx, "u1", "I ran 45 minutes", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"log_workout"}, result.ActionsTaken)
	assert.Equal(t, "Logged your 45-minute run. Nice work!", result.Response)

	// The tool result was fed back before the second model call.
	require.Len(t, llm.Prompts, 2)
	second := llm.Prompts[1].Messages
	toolMsg := second[len(second)-1]
	assert.Equal(t, "tool", toolMsg.Role)
	assert.Equal(t, "log_workout", toolMsg.ToolName)
	assert.Equal(t, "call-1", toolMsg.ToolCallID)
	assert.Equal(t, "Successfully logged a 45-minute run workout for user u1.", toolMsg.Content)

	// The workout actually landed in the record.
	rec, err := records.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rec.Workouts.LoggedWorkouts, 1)
	assert.Equal(t, "run", rec.Workouts.LoggedWorkouts[0].Type)
}

func TestHandleTurn_MultipleToolCallsDispatchedInOrder(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryRecordStore()
	_, err := records.Create(ctx, "u1", nil)
	require.NoError(t, err)

	llm := scripted.NewClient(
		scripted.Step{Response: oracle.Response{ToolCalls: []tools.Call{
			{
				Name:      "log_workout",
				Input:     map[string]any{"user_id": "u1", "workout_type": "run", "duration_minutes": 30.0},
				ToolUseID: "call-1",
			},
			{
				Name:      "log_meal",
				Input:     map[string]any{"user_id": "u1", "meal_type": "lunch", "description": "chicken salad"},
				ToolUseID: "call-2",
			},
		}}},
		scripted.Step{Response: oracle.Response{Content: "Both logged."}},
	)
	a := newTestAgent(t, llm, records)

	result, err := a.HandleTurn(ctx, "u1", "log my run and my lunch", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"log_workout", "log_meal"}, result.ActionsTaken)
}

func TestHandleTurn_UnknownToolDegrades(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryRecordStore()
	_, err := records.Create(ctx, "u1", nil)
	require.NoError(t, err)

	llm := scripted.NewClient(
		scripted.Step{Response: oracle.Response{ToolCalls: []tools.Call{{
			Name:      "teleport_user",
			Input:     map[string]any{"user_id": "u1"},
			ToolUseID: "call-1",
		}}}},
		scripted.Step{Response: oracle.Response{Content: "Sorry, I can't do that."}},
	)
	a := newTestAgent(t, llm, records)

	result, err := a.HandleTurn(ctx, "u1", "beam me up", nil, nil)
	require.NoError(t, err)

	// Unknown tools are reported back to the model, never counted as actions.
	assert.Empty(t, result.ActionsTaken)
	second := llm.Prompts[1].Messages
	toolMsg := second[len(second)-1]
	assert.Equal(t, `Error: tool "teleport_user" not found.`, toolMsg.Content)
}

func TestHandleTurn_IterationCap(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryRecordStore()
	_, err := records.Create(ctx, "u1", nil)
	require.NoError(t, err)

	loop := scripted.Step{Response: oracle.Response{ToolCalls: []tools.Call{{
		Name:      "get_schedule",
		Input:     map[string]any{"user_id": "u1", "start_date": "2026-09-01"},
		ToolUseID: "call-x",
	}}}}
	llm := scripted.NewClient(loop, loop, loop, loop)
	a := newTestAgent(t, llm, records, func(c *Config) { c.MaxIterations = 2 })

	result, err := a.HandleTurn(ctx, "u1", "what's on my schedule?", nil, nil)
	require.NoError(t, err, "cap exhaustion is degraded, not an error")

	assert.Equal(t, 2, llm.Invocations())
	assert.Equal(t, []string{"get_schedule", "get_schedule"}, result.ActionsTaken)
	assert.Contains(t, result.Response, "allowed number of steps")
	assert.Contains(t, result.Response, "get_schedule")

	// Degraded turns still persist the conversation pair.
	rec, err := records.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rec.AIContext.ConversationHistory, 1)
	assert.Equal(t, result.Response, rec.AIContext.ConversationHistory[0].AgentResponse)
}

func TestHandleTurn_OracleFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryRecordStore()
	_, err := records.Create(ctx, "u1", nil)
	require.NoError(t, err)

	llm := scripted.NewClient(scripted.Step{Err: errors.New("model unavailable")})
	a := newTestAgent(t, llm, records)

	result, err := a.HandleTurn(ctx, "u1", "hello?", nil, nil)
	require.NoError(t, err, "oracle failure degrades to an apologetic reply")
	assert.Equal(t, fallbackResponse, result.Response)

	rec, err := records.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rec.AIContext.ConversationHistory, 1)
	assert.Equal(t, fallbackResponse, rec.AIContext.ConversationHistory[0].AgentResponse)
}

func TestHandleTurn_StreamsFragments(t *testing.T) {
	records := store.NewMemoryRecordStore()
	llm := scripted.NewClient(scripted.Step{
		Response: oracle.Response{Content: "Eat well, train hard, recover harder."},
	})
	a := newTestAgent(t, llm, records)

	var fragments []string
	result, err := a.HandleTurn(context.Background(), "u1", "any advice?", nil, func(fragment string) {
		fragments = append(fragments, fragment)
	})
	require.NoError(t, err)

	require.Greater(t, len(fragments), 1, "response should arrive incrementally")
	assert.Equal(t, result.Response, strings.Join(fragments, ""))
}

func TestHandleTurn_EmptyInputs(t *testing.T) {
	records := store.NewMemoryRecordStore()
	llm := scripted.NewClient()
	a := newTestAgent(t, llm, records)

	_, err := a.HandleTurn(context.Background(), "", "hello", nil, nil)
	assert.Error(t, err)

	_, err = a.HandleTurn(context.Background(), "u1", "   ", nil, nil)
	assert.Error(t, err)
}

func TestHandleTurn_StoreFailureIsFatal(t *testing.T) {
	records := store.NewMemoryRecordStoreWithError(errors.New("backend down"))
	llm := scripted.NewClient(scripted.Step{Response: oracle.Response{Content: "hi"}})
	a := newTestAgent(t, llm, records)

	_, err := a.HandleTurn(context.Background(), "u1", "hello", nil, nil)
	assert.Error(t, err)
}
