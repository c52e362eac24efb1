package config // package config loads application configuration from environment variables

import (
	"time" // durations for upstream and queue timeouts
)

// Config holds all runtime configuration values.  Each field corresponds to
// one or more environment variables.  Values are read once at process start
// and handed explicitly to the components that need them.
type Config struct {
	Env         string       // application environment (e.g. "dev", "prod")
	Port        string       // HTTP port to listen on
	MaxBodySize string       // request body limit in echo BodyLimit syntax ("1M")
	AccessLog   bool         // emit one access log line per request
	OpenAI      OpenAIConfig // upstream chat-completion settings
	CORS        CORSConfig   // cross-origin settings for browser callers
	Queue       QueueConfig  // optional reservation event publishing
}

// OpenAIConfig describes the Azure OpenAI deployment used to parse emails.
// Endpoint and APIKey are required for parsing, but their absence is not fatal
// at startup: the parse endpoint reports it per request and /health exposes it.
type OpenAIConfig struct {
	Endpoint   string        // AZURE_OPENAI_ENDPOINT, e.g. https://x.openai.azure.com
	APIKey     string        // AZURE_OPENAI_API_KEY
	Deployment string        // AZURE_OPENAI_DEPLOYMENT_NAME
	APIVersion string        // AZURE_OPENAI_API_VERSION
	Timeout    time.Duration // AZURE_OPENAI_TIMEOUT, bound on a single completion call
}

// Configured reports whether both required upstream values are present.
func (c OpenAIConfig) Configured() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

const (
	DefaultDeployment = "gpt-4o-mini"
	DefaultAPIVersion = "2024-02-01"
)

// Load reads configuration values from environment variables and returns a
// Config.  Unlike the upstream credentials, nothing here is strictly required;
// every value has a default.
func Load() Config {
	return Config{
		Env:         envStr("APP_ENV", "dev"),
		Port:        envStr("APP_PORT", "8080"),
		MaxBodySize: envStr("MAX_BODY_SIZE", "1M"),
		AccessLog:   envBool("ACCESS_LOG_ENABLED", true),
		OpenAI:      LoadOpenAIConfig(),
		CORS:        LoadCORSConfig(),
		Queue:       LoadQueueConfig(),
	}
}

// LoadOpenAIConfig reads the AZURE_OPENAI_* variables.
func LoadOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Endpoint:   envStr("AZURE_OPENAI_ENDPOINT", ""),
		APIKey:     envStr("AZURE_OPENAI_API_KEY", ""),
		Deployment: envStr("AZURE_OPENAI_DEPLOYMENT_NAME", DefaultDeployment),
		APIVersion: envStr("AZURE_OPENAI_API_VERSION", DefaultAPIVersion),
		Timeout:    envDur("AZURE_OPENAI_TIMEOUT", 30*time.Second),
	}
}
