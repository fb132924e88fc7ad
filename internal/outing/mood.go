// Package outing holds the domain rules of the outing planner: classifying a
// mood into an intensity tier, the canned encouragement and example plan,
// prompt assembly and the name of the downloadable plan file.
package outing

import "strings"

// Tier is the suggested activity strenuousness derived from a mood label.
type Tier int

const (
	// High is also the fallthrough for empty or unrecognized moods.
	High Tier = iota
	Medium
	Low
)

// Markers are matched as case-insensitive substrings. Low is checked first,
// so a mood carrying both kinds of marker classifies as Low.
var (
	lowMarkers    = []string{"tired", "疲"}
	mediumMarkers = []string{"okay", "so-so", "まあまあ"}
)

var intensityLabels = map[Tier]string{
	Low:    "Low",
	Medium: "Medium",
	High:   "High",
}

var encouragements = map[Tier]string{
	Low:    "When you are tired, even a short outing can help you reset. There is no need to push yourself; just take one small step outside.",
	Medium: "A little outing can be just the switch your mood needs. Go out and feel a fresh breeze.",
	High:   "Put that energy to good use and head out for something fun!",
}

// Classify maps a mood label to its tier. Every input yields a tier: a mood
// that matches no marker, including the empty string, is High.
func Classify(mood string) Tier {
	m := strings.ToLower(mood)
	switch {
	case containsAny(m, lowMarkers):
		return Low
	case containsAny(m, mediumMarkers):
		return Medium
	default:
		return High
	}
}

// String returns the intensity label of the tier.
func (t Tier) String() string {
	if label, ok := intensityLabels[t]; ok {
		return label
	}
	return intensityLabels[High]
}

// Encouragement returns the canned message for the tier.
func (t Tier) Encouragement() string {
	if msg, ok := encouragements[t]; ok {
		return msg
	}
	return encouragements[High]
}

// IntensityFor returns the intensity label for a mood.
func IntensityFor(mood string) string {
	return Classify(mood).String()
}

// EncouragementFor returns the encouragement message for a mood.
func EncouragementFor(mood string) string {
	return Classify(mood).Encouragement()
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
