package agent

import (
	"strings"

	"fuelyt"
)

const maxRecommendations = 5

// RecommendationExtractor pulls structured recommendations out of the
// model's free-text reply. Extraction is lossy and best-effort; it never
// fails the turn.
type RecommendationExtractor interface {
	Extract(text string) []fuelyt.Recommendation
}

// MarkdownExtractor treats **bold** lines as recommendation titles and
// bullet lines as their action items. Bullets with no open title become
// standalone "Action Item" recommendations.
type MarkdownExtractor struct{}

func NewMarkdownExtractor() *MarkdownExtractor { return &MarkdownExtractor{} }

func (e *MarkdownExtractor) Extract(text string) []fuelyt.Recommendation {
	recs := []fuelyt.Recommendation{}
	var current *fuelyt.Recommendation

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4:
			if current != nil {
				recs = append(recs, *current)
			}
			current = &fuelyt.Recommendation{
				Title:    strings.Trim(line, "*"),
				Type:     "general",
				Priority: "medium",
			}

		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•"):
			if current != nil {
				current.Message += line + " "
			} else {
				recs = append(recs, fuelyt.Recommendation{
					Title:    "Action Item",
					Message:  line,
					Type:     "action",
					Priority: "medium",
				})
			}
		}
	}
	if current != nil {
		recs = append(recs, *current)
	}

	for i := range recs {
		recs[i].Message = strings.TrimSpace(recs[i].Message)
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
