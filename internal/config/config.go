// Package config loads Coddify configuration from defaults, an optional YAML
// file, and environment variables. Priority (highest to lowest): environment
// variables > config file > defaults. A local .env file is loaded first so
// development keys behave like real environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"coddify/internal/logger"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Tutor    TutorConfig    `mapstructure:"tutor"`
	Animate  AnimateConfig  `mapstructure:"animate"`
	Locale   LocaleConfig   `mapstructure:"locale"`
}

// ProviderConfig stores generation provider selection and credentials.
type ProviderConfig struct {
	Name            string `mapstructure:"name"`  // "gemini", "openai", "anthropic", "webhook"
	Model           string `mapstructure:"model"` // provider model identifier
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	WebhookEndpoint string `mapstructure:"webhook_endpoint"`
}

// TutorConfig stores the conversational behavior that the original app kept
// as drifted controller copies: greeting text, follow-up phrases, and whether
// the learner profile is sent upstream. All are data, not logic.
type TutorConfig struct {
	SystemInstruction string   `mapstructure:"system_instruction"`
	Greeting          string   `mapstructure:"greeting"`
	FollowUpPhrases   []string `mapstructure:"follow_up_phrases"`
	SendGradeContext  bool     `mapstructure:"send_grade_context"`
	VPNSuggestions    []string `mapstructure:"vpn_suggestions"`
	GeoApology        string   `mapstructure:"geo_apology"`
	GeoApologyKeyword string   `mapstructure:"geo_apology_keyword"`
}

// AnimateConfig stores the streaming-reveal timings.
type AnimateConfig struct {
	GreetingDelay time.Duration `mapstructure:"greeting_delay"`
	StreamDelay   time.Duration `mapstructure:"stream_delay"`
	TickerPeriod  time.Duration `mapstructure:"ticker_period"`
}

// LocaleConfig stores locale-specific text normalization pairs applied to
// text segments after segmentation (dual-gender honorific to short form).
type LocaleConfig struct {
	NormalizationPairs map[string]string `mapstructure:"normalization_pairs"`
}

// Load reads configuration from the optional file at path (empty means no
// file) layered over built-in defaults and CODDIFY_* environment variables.
func Load(path string) (*Config, error) {
	// Best-effort: a missing .env is not an error
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CODDIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		logger.Debug("Config file loaded", "path", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.name", "gemini")
	v.SetDefault("provider.model", "gemini-2.0-flash")
	v.SetDefault("provider.gemini_api_key", "")
	v.SetDefault("provider.openai_api_key", "")
	v.SetDefault("provider.anthropic_api_key", "")
	v.SetDefault("provider.webhook_endpoint", "")

	v.SetDefault("tutor.system_instruction", DefaultSystemInstruction)
	v.SetDefault("tutor.greeting", DefaultGreeting)
	v.SetDefault("tutor.follow_up_phrases", DefaultFollowUpPhrases)
	v.SetDefault("tutor.send_grade_context", true)
	v.SetDefault("tutor.vpn_suggestions", DefaultVPNSuggestions)
	v.SetDefault("tutor.geo_apology", DefaultGeoApology)
	v.SetDefault("tutor.geo_apology_keyword", "burma")

	v.SetDefault("animate.greeting_delay", 30*time.Millisecond)
	v.SetDefault("animate.stream_delay", 20*time.Millisecond)
	v.SetDefault("animate.ticker_period", 500*time.Millisecond)

	v.SetDefault("locale.normalization_pairs", DefaultNormalizationPairs)
}
