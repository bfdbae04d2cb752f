// Package notify posts completed-turn summaries to a Slack-compatible
// webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	webhookURL string
	httpClient doer
}

func NewClient(webhookURL string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

// TurnMessage is the webhook payload for one completed turn. Channel and
// Text follow the Slack incoming-webhook shape; UserID and Actions carry
// the turn's structured outcome for non-Slack consumers.
type TurnMessage struct {
	Channel string   `json:"channel"`
	Text    string   `json:"text"`
	UserID  string   `json:"user_id"`
	Actions []string `json:"actions,omitempty"`
}

// TurnSummary builds the payload for a completed turn.
func TurnSummary(channel, userID string, actions []string) TurnMessage {
	text := fmt.Sprintf("Fuelyt turn completed for user %s (no actions taken).", userID)
	if len(actions) > 0 {
		text = fmt.Sprintf("Fuelyt turn completed for user %s. Actions: %s.", userID, strings.Join(actions, ", "))
	}
	return TurnMessage{
		Channel: channel,
		Text:    text,
		UserID:  userID,
		Actions: actions,
	}
}

func (c *Client) PostTurn(ctx context.Context, msg TurnMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}
