package agent

import (
	"time"

	"fuelyt/oracle"
	"fuelyt/store"
)

const defaultHistoryLimit = 50

// History converts a record's stored conversation pairs to and from the
// role-tagged message sequence the model consumes.
type History struct {
	// Limit caps the number of stored pairs; oldest are evicted first.
	// Zero means the default of 50.
	Limit int
}

func (h History) limit() int {
	if h.Limit > 0 {
		return h.Limit
	}
	return defaultHistoryLimit
}

// Reconstruct produces one user message followed by one assistant message
// per stored pair, in insertion order. Malformed entries (missing either
// side) are skipped.
func (h History) Reconstruct(rec *store.UserRecord) []oracle.Message {
	pairs := rec.AIContext.ConversationHistory
	msgs := make([]oracle.Message, 0, 2*len(pairs))
	for _, pair := range pairs {
		if pair.UserMessage == "" || pair.AgentResponse == "" {
			continue
		}
		msgs = append(msgs,
			oracle.Message{Role: "user", Content: pair.UserMessage},
			oracle.Message{Role: "assistant", Content: pair.AgentResponse},
		)
	}
	return msgs
}

// Append pushes a new conversation pair onto the record's history and
// evicts the oldest pairs beyond the limit. It returns the updated
// AIContext for merge-writing back to the store.
func (h History) Append(rec *store.UserRecord, userMessage, agentResponse string) store.AIContext {
	ctx := rec.AIContext
	ctx.ConversationHistory = append(ctx.ConversationHistory, store.Conversation{
		Timestamp:     time.Now().UTC(),
		UserMessage:   userMessage,
		AgentResponse: agentResponse,
	})
	if excess := len(ctx.ConversationHistory) - h.limit(); excess > 0 {
		ctx.ConversationHistory = ctx.ConversationHistory[excess:]
	}
	if ctx.PreferencesLearned == nil {
		ctx.PreferencesLearned = map[string]any{}
	}
	rec.AIContext = ctx
	return ctx
}
