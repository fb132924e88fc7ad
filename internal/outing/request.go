package outing

// Request is one submission of the form. It is built per submission and
// never reused; the derived fields always come from Mood.
type Request struct {
	Mood     string
	Genres   []string
	TimeSlot string
	Location string

	Intensity     Tier
	Encouragement string
}

// NewRequest builds a request and derives its tier and encouragement.
func NewRequest(mood string, genres []string, timeSlot, location string) Request {
	tier := Classify(mood)
	return Request{
		Mood:          mood,
		Genres:        append([]string(nil), genres...),
		TimeSlot:      timeSlot,
		Location:      location,
		Intensity:     tier,
		Encouragement: tier.Encouragement(),
	}
}

// Prompt assembles the model prompt for the request.
func (r Request) Prompt() string {
	return BuildPrompt(r.Mood, r.Genres, r.TimeSlot, r.Location)
}
