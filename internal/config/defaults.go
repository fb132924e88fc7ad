package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultServerAddr              = ":8080"
	DefaultServerReadHeaderTimeout = 10 * time.Second
	DefaultServerWriteTimeout      = time.Duration(0)
	DefaultServerShutdownTimeout   = 10 * time.Second

	DefaultLLMProvider = "openai"
	DefaultLLMModel    = "gpt-4o"
	DefaultLLMMaxSteps = 8
)

// DefaultModels is the model used for each provider when llm.model is unset.
var DefaultModels = map[string]string{
	"openai": DefaultLLMModel,
	"gemini": "gemini-2.0-flash",
}

// Default form choices
var (
	DefaultMoods     = []string{"Tired", "So-so", "Energetic"}
	DefaultGenres    = []string{"Cafe", "Nature", "Hot spring", "City walk", "Exercise", "Movies", "Art museum"}
	DefaultTimeSlots = []string{"Morning", "Afternoon", "Evening"}
)

var defaults = map[string]any{
	"logger.level": DefaultLogLevel,
	"logger.json":  DefaultLogJSON,

	"server.addr":                DefaultServerAddr,
	"server.read_header_timeout": DefaultServerReadHeaderTimeout,
	"server.write_timeout":       DefaultServerWriteTimeout,
	"server.shutdown_timeout":    DefaultServerShutdownTimeout,

	"llm.provider":  DefaultLLMProvider,
	"llm.model":     "",
	"llm.base_url":  "",
	"llm.max_steps": DefaultLLMMaxSteps,

	"form.moods":      DefaultMoods,
	"form.genres":     DefaultGenres,
	"form.time_slots": DefaultTimeSlots,
}
