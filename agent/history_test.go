package agent

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelyt/store"
)

func TestHistory_Reconstruct(t *testing.T) {
	rec := &store.UserRecord{}
	rec.AIContext.ConversationHistory = []store.Conversation{
		{UserMessage: "hi", AgentResponse: "hello!"},
		{UserMessage: "", AgentResponse: "orphaned"},
		{UserMessage: "orphaned too", AgentResponse: ""},
		{UserMessage: "log my run", AgentResponse: "done"},
	}

	msgs := History{}.Reconstruct(rec)

	// Two well-formed pairs -> four alternating messages; malformed skipped.
	require.Len(t, msgs, 4)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.Equal(t, "hello!", msgs[1].Content)
	assert.Equal(t, "user", msgs[2].Role)
	assert.Equal(t, "log my run", msgs[2].Content)
	assert.Equal(t, "assistant", msgs[3].Role)
}

func TestHistory_ReconstructEmpty(t *testing.T) {
	msgs := History{}.Reconstruct(&store.UserRecord{})
	assert.Empty(t, msgs)
}

func TestHistory_AppendEvictsOldest(t *testing.T) {
	h := History{}
	rec := &store.UserRecord{}

	for i := 0; i < 51; i++ {
		h.Append(rec, fmt.Sprintf("message %d", i), fmt.Sprintf("reply %d", i))
	}

	pairs := rec.AIContext.ConversationHistory
	require.Len(t, pairs, 50)
	// Oldest entry dropped first.
	assert.Equal(t, "message 1", pairs[0].UserMessage)
	assert.Equal(t, "message 50", pairs[49].UserMessage)
	assert.False(t, pairs[49].Timestamp.IsZero())
}

func TestHistory_AppendCustomLimit(t *testing.T) {
	h := History{Limit: 2}
	rec := &store.UserRecord{}

	h.Append(rec, "a", "1")
	h.Append(rec, "b", "2")
	h.Append(rec, "c", "3")

	pairs := rec.AIContext.ConversationHistory
	require.Len(t, pairs, 2)
	assert.Equal(t, "b", pairs[0].UserMessage)
	assert.Equal(t, "c", pairs[1].UserMessage)
}
