package agent

import (
	"encoding/json"
	"fmt"

	"fuelyt/oracle"
	"fuelyt/tools"
)

// ToolProvider supplies the tools the orchestration loop can dispatch.
type ToolProvider interface {
	GetTools() []tools.Tool
	GetTool(name string) (tools.Tool, error)
}

const systemPrompt = `You are Fuelyt, an expert AI nutrition and fitness coach specializing in athletic performance optimization.

Your expertise includes:
- Sports nutrition and meal timing for optimal performance
- Macro and micronutrient requirements for different sports and goals
- Pre, during, and post-workout nutrition strategies
- Meal planning and recipe recommendations
- Workout programming and recovery optimization
- Progress tracking and goal adjustment

Your communication style is:
- Friendly, encouraging, and motivational
- Evidence-based and scientific when needed
- Practical and actionable
- Personalized to the athlete's specific sport, goals, and preferences

Always consider:
- The athlete's current goals, sport, and experience level
- Their dietary restrictions and preferences
- Their training schedule and intensity
- The timing and context of their request

TOOL USE:
Use the provided tools to record workouts, meals, goals, profile changes,
and schedule entries whenever the user reports or requests them, and to
look up schedules or calculate calorie and macro targets when the user
asks about their needs. Every tool
requires the user_id given in the user's message; always pass it through
exactly. After the necessary tools have run, reply to the user in natural
language.

When providing recommendations, be specific with quantities, timing, and
rationale. Use **bold** headings for key recommendations and bullet points
for action items.`

// augmentUserMessage embeds the resolved user id (and any extra request
// context) in the message content so every tool call is self-contained.
func augmentUserMessage(userID, message string, extra map[string]any) string {
	augmented := fmt.Sprintf("User ID: %s\n\nUser Message: %s", userID, message)
	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			augmented += fmt.Sprintf("\n\nAdditional Context: %s", b)
		}
	}
	return augmented
}

func buildToolDefs(tp ToolProvider) []oracle.Tool {
	all := tp.GetTools()
	defs := make([]oracle.Tool, 0, len(all))
	for _, t := range all {
		defs = append(defs, oracle.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return defs
}
