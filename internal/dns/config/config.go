// Package config loads the server configuration from environment variables
// with defaults and validation. The result is immutable and handed to the
// resolver at construction; nothing reads the environment after startup.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Port is the network port both the UDP and TCP listeners bind to.
	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`

	// Provider selects the answer provider: "openai" or "anthropic".
	Provider string `koanf:"provider" validate:"required,oneof=openai anthropic"`

	// Model overrides the provider's default model when non-empty.
	Model string `koanf:"model"`

	// MaxChars caps answer length in characters before chunking.
	// 0 means unlimited.
	MaxChars int `koanf:"max_chars" validate:"gte=0"`

	// ChunkBytes caps each TXT string in bytes (1-255). The default of
	// 200 keeps a capped answer inside the ~512-byte UDP reply budget.
	ChunkBytes int `koanf:"chunk_bytes" validate:"required,txt_chunk"`

	// RequireAPIKey gates every query on a key- label matching APIKey.
	RequireAPIKey bool `koanf:"require_api_key"`

	// APIKey is the shared secret carried in the key- query label.
	APIKey string `koanf:"api_key"`

	// Provider credentials. Only the selected provider's key is needed.
	OpenAIAPIKey    string `koanf:"openai_api_key"`
	AnthropicAPIKey string `koanf:"anthropic_api_key"`

	// QueryTimeout bounds each answer provider call, in seconds.
	QueryTimeout int `koanf:"query_timeout" validate:"required,gte=1"`

	// RateLimit is the per-client queries-per-second budget.
	// 0 disables rate limiting.
	RateLimit int `koanf:"rate_limit" validate:"gte=0"`

	// RateBurst is the per-client burst allowance; 0 defaults to RateLimit.
	RateBurst int `koanf:"rate_burst" validate:"gte=0"`
}

// DEFAULT_APP_CONFIG defines the default application configuration. The
// 800-character cap splits into four 200-byte TXT chunks, small enough for
// a plain UDP reply.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:          "prod",
	LogLevel:     "info",
	Port:         5353,
	Provider:     "openai",
	MaxChars:     800,
	ChunkBytes:   200,
	QueryTimeout: 5,
	RateLimit:    0,
	RateBurst:    0,
}

// validTXTChunk validates the configured chunk size against the protocol's
// 255-byte cap on a single TXT character-string.
func validTXTChunk(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= 1 && n <= 255
}

// envLoader loads environment variables with the prefix "DNS_", lowercasing
// keys and trimming the prefix. It can be swapped in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNS_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DNS_"))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads default configuration values into the provided Koanf
// instance using the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "txt_chunk" validation.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("txt_chunk", validTXTChunk)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Requiring the access key without configuring one would SERVFAIL
	// every query; refuse to start instead.
	if cfg.RequireAPIKey && cfg.APIKey == "" {
		return nil, fmt.Errorf("require_api_key is set but api_key is empty")
	}

	return &cfg, nil
}
