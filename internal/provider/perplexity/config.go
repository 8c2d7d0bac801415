package perplexity

// Config contains Perplexity provider configuration.
// Fields map to OpenAI SDK options:
//   - APIKey: sent per request with option.WithAPIKey()
//   - BaseURL: Maps to option.WithBaseURL()
//   - Timeout: Maps to option.WithRequestTimeout() (in seconds, 0 disables)
//
// Retries are always disabled; every failure is reported to the caller as is.
type Config struct {
	APIKey  string `env:"PERPLEXITY_API_KEY"`
	BaseURL string `env:"PERPLEXITY_BASE_URL" envDefault:"https://api.perplexity.ai"`
	Timeout int    `env:"PERPLEXITY_TIMEOUT"  envDefault:"60"`
}
