package outing

import (
	"fmt"
	"strings"
)

// GenreSeparator joins genres wherever they are shown to the model.
const GenreSeparator = ", "

// promptTemplate takes, in order: location, genres, time slot, mood, genres,
// time slot, location.
const promptTemplate = `
You are a gentle agent who encourages people who tend to stay at home and suggests small reasons to go out.

Based on the information below:

1. Estimate the activity intensity (Low, Medium or High)
2. Create one outing plan (departing from %s, for %s, active in the %s)
3. Add a message of encouragement

Finally, summarize the result in the format "Plan title, Schedule, Why we recommend it, Encouragement".

Mood: %s
Genres: %s
Time slot: %s
Starting point: %s
`

// BuildPrompt interpolates the user's fields into the fixed instruction
// template. Values are inserted verbatim without escaping, so the same
// inputs always produce the same bytes.
func BuildPrompt(mood string, genres []string, timeSlot, location string) string {
	joined := JoinGenres(genres)
	return fmt.Sprintf(promptTemplate, location, joined, timeSlot, mood, joined, timeSlot, location)
}

// JoinGenres renders genres in their given order.
func JoinGenres(genres []string) string {
	return strings.Join(genres, GenreSeparator)
}
