package config

import "time"

// AI providers
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// AIModels defines which model serves each AI task
type AIModels struct {
	// Sentiment classifies one poll comment (needs to be fast)
	Sentiment string `yaml:"sentiment" json:"sentiment"`

	// Advisor writes the short dashboard summary for the mayor
	Advisor string `yaml:"advisor" json:"advisor"`

	// Report writes the full strategic report (quality over speed)
	Report string `yaml:"report" json:"report"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	Provider        string   `yaml:"provider" json:"provider"`
	GeminiAPIKey    string   `yaml:"gemini_api_key" json:"-"` // Never serialize
	AnthropicAPIKey string   `yaml:"anthropic_api_key" json:"-"`
	Models          AIModels `yaml:"models" json:"models"`
	TimeoutMS       int      `yaml:"timeout_ms" json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() AIConfig {
	return AIConfig{
		Provider: ProviderGemini,
		Models: AIModels{
			Sentiment: "gemini-2.5-flash",
			Advisor:   "gemini-2.5-flash",
			Report:    "gemini-2.5-pro",
		},
		TimeoutMS: 10000,
	}
}

// APIKey returns the key of the selected provider
func (c AIConfig) APIKey() string {
	if c.Provider == ProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.GeminiAPIKey
}

// IsEnabled returns true if the selected provider has a key
func (c AIConfig) IsEnabled() bool {
	return c.APIKey() != ""
}

// Timeout is the per-call deadline
func (c AIConfig) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func (c *AIConfig) applyEnvOverrides() {
	envOverride(&c.Provider, "AI_PROVIDER")
	envOverride(&c.GeminiAPIKey, "GEMINI_API_KEY")
	envOverride(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&c.Models.Sentiment, "AI_MODEL_SENTIMENT")
	envOverride(&c.Models.Advisor, "AI_MODEL_ADVISOR")
	envOverride(&c.Models.Report, "AI_MODEL_REPORT")
	envOverrideInt(&c.TimeoutMS, "AI_TIMEOUT_MS")

	// Anthropic models need different defaults than the Gemini ones
	if c.Provider == ProviderAnthropic {
		defaults := DefaultAIConfig().Models
		if c.Models.Sentiment == defaults.Sentiment {
			c.Models.Sentiment = "claude-3-5-haiku-latest"
		}
		if c.Models.Advisor == defaults.Advisor {
			c.Models.Advisor = "claude-3-5-haiku-latest"
		}
		if c.Models.Report == defaults.Report {
			c.Models.Report = "claude-sonnet-4-0"
		}
	}
}
