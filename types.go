package fuelyt

import (
	"context"
	"net/http"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Assistant is the caller-facing surface of the conversation core. HandleTurn
// processes one user message end to end: it streams text fragments through
// onFragment as the model produces them, then returns the completed turn.
type Assistant interface {
	HandleTurn(ctx context.Context, userID, message string, extra map[string]any, onFragment func(string)) (TurnResult, error)
}

// Recommendation is a structured coaching suggestion extracted from the
// model's free-text reply for downstream display.
type Recommendation struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
}

// TurnResult is the terminal payload of a turn, delivered after the last
// streamed fragment.
type TurnResult struct {
	Response        string           `json:"response"`
	ActionsTaken    []string         `json:"actions_taken"`
	Recommendations []Recommendation `json:"recommendations"`
}
