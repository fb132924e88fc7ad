package tools

import "github.com/edgard/outing/internal/outing"

// Tool names as presented to the model.
const (
	MoodToLevelName          = "mood_to_level"
	GeneratePlanName         = "generate_plan"
	EncouragementMessageName = "encouragement_message"
)

// MoodToLevel returns the activity intensity (Low, Medium or High) for a mood.
func MoodToLevel() Tool {
	return funcTool{
		name:        MoodToLevelName,
		description: "Returns the activity intensity (Low, Medium or High) that suits the given mood.",
		params:      []Param{{Name: "mood", Description: "The user's current mood, as entered."}},
		fn: func(args map[string]string) string {
			return outing.IntensityFor(args["mood"])
		},
	}
}

// GeneratePlan returns the canned example plan for a starting location.
func GeneratePlan() Tool {
	return funcTool{
		name:        GeneratePlanName,
		description: "Suggests an outing plan from the genres, starting point, time slot and intensity.",
		params:      []Param{{Name: "data", Description: "The starting point of the outing."}},
		fn: func(args map[string]string) string {
			return outing.PlanTemplate(args["data"])
		},
	}
}

// EncouragementMessage returns a gentle message of support for a mood.
func EncouragementMessage() Tool {
	return funcTool{
		name:        EncouragementMessageName,
		description: "Returns a gentle message of encouragement that suits the given mood.",
		params:      []Param{{Name: "mood", Description: "The user's current mood, as entered."}},
		fn: func(args map[string]string) string {
			return outing.EncouragementFor(args["mood"])
		},
	}
}

// Default returns the three outing tools.
func Default() *Set {
	return NewSet(MoodToLevel(), GeneratePlan(), EncouragementMessage())
}
