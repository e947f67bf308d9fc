package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig              `json:"server" mapstructure:"server"`
	Chat      ChatConfig                `json:"chat" mapstructure:"chat"`
	Providers map[string]ProviderConfig `json:"providers" mapstructure:"providers"`
	Retrieval RetrievalConfig           `json:"retrieval" mapstructure:"retrieval"`
	Storage   StorageConfig             `json:"storage" mapstructure:"storage"`

	DefaultProvider string `json:"default_provider" mapstructure:"default_provider" validate:"required"`
}

type ServerConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port" validate:"gt=0"`
}

// ChatConfig controls the conversation router.
type ChatConfig struct {
	// MaxTokens is the cumulative per-session token ceiling. Once a session
	// crosses it, only the fixed quota message is returned.
	MaxTokens int `json:"max_tokens" mapstructure:"max_tokens" validate:"gt=0"`

	// BookingTrigger selects how booking intent is detected: "marker" scans
	// the model reply for the booking-offer phrase, "keyword" scans the
	// user's own message.
	BookingTrigger string `json:"booking_trigger" mapstructure:"booking_trigger" validate:"oneof=marker keyword"`

	// SplitDateTime collects Appointment Date and Appointment Time as two
	// separate intake fields instead of one.
	SplitDateTime bool `json:"split_date_time" mapstructure:"split_date_time"`
}

type ProviderConfig struct {
	Type    string `json:"type" mapstructure:"type"` // "openai", "openai-compatible", "ollama"
	Name    string `json:"name" mapstructure:"name"`
	BaseURL string `json:"base_url,omitempty" mapstructure:"base_url"`
	APIKey  string `json:"api_key,omitempty" mapstructure:"api_key"`
	Model   string `json:"model" mapstructure:"model"`
}

type RetrievalConfig struct {
	Enabled         bool   `json:"enabled" mapstructure:"enabled"`
	DataPath        string `json:"data_path" mapstructure:"data_path"`
	IndexPath       string `json:"index_path" mapstructure:"index_path"`
	EmbeddingsModel string `json:"embeddings_model" mapstructure:"embeddings_model"`
}

type StorageConfig struct {
	Dir              string `json:"dir" mapstructure:"dir"`
	AppointmentsFile string `json:"appointments_file" mapstructure:"appointments_file"`
	UsersFile        string `json:"users_file" mapstructure:"users_file"`
	InteractionsFile string `json:"interactions_file" mapstructure:"interactions_file"`
	ChatHistoryFile  string `json:"chat_history_file" mapstructure:"chat_history_file"`
}

func Load() (*Config, error) {
	// .env is optional; real env vars still take precedence below.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 5002)
	viper.SetDefault("chat.max_tokens", 1000)
	viper.SetDefault("chat.booking_trigger", "marker")
	viper.SetDefault("chat.split_date_time", false)
	viper.SetDefault("default_provider", "ollama")
	viper.SetDefault("retrieval.enabled", true)
	viper.SetDefault("retrieval.data_path", "data/")
	viper.SetDefault("retrieval.index_path", "vectorstores/index.json")
	viper.SetDefault("retrieval.embeddings_model", "nomic-embed-text")
	viper.SetDefault("storage.dir", ".")
	viper.SetDefault("storage.appointments_file", "appointments.csv")
	viper.SetDefault("storage.users_file", "user_data.csv")
	viper.SetDefault("storage.interactions_file", "chatbot_data.csv")
	viper.SetDefault("storage.chat_history_file", "chat_history.csv")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file: env vars and defaults are enough.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Providers == nil {
		cfg.Providers = defaultProviders()
	}

	loadEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaultProviders() map[string]ProviderConfig {
	return map[string]ProviderConfig{
		"ollama": {
			Type:  "ollama",
			Name:  "Ollama",
			Model: "llama3.2:1b",
		},
		"groq": {
			Type:    "openai-compatible",
			Name:    "Groq",
			BaseURL: "https://api.groq.com/openai",
			Model:   "llama-3.1-8b-instant",
		},
		"openai": {
			Type:  "openai",
			Name:  "OpenAI",
			Model: "gpt-4o-mini",
		},
	}
}

func loadEnvOverrides(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		cfg.Server.Host = host
	}
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chat.MaxTokens = n
		}
	}
	if v := os.Getenv("BOOKING_TRIGGER"); v != "" {
		cfg.Chat.BookingTrigger = v
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.Retrieval.DataPath = v
	}
	if v := os.Getenv("INDEX_PATH"); v != "" {
		cfg.Retrieval.IndexPath = v
	}
	if v := os.Getenv("EMBEDDINGS_MODEL"); v != "" {
		cfg.Retrieval.EmbeddingsModel = v
	}
	if v := os.Getenv("DEFAULT_PROVIDER"); v != "" {
		cfg.DefaultProvider = v
	}

	// Model and API key overrides for the active provider.
	if model := os.Getenv("LLM_MODEL"); model != "" {
		if pc, ok := cfg.Providers[cfg.DefaultProvider]; ok {
			pc.Model = model
			cfg.Providers[cfg.DefaultProvider] = pc
		}
	}
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		if pc, ok := cfg.Providers["groq"]; ok {
			pc.APIKey = key
			cfg.Providers["groq"] = pc
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if pc, ok := cfg.Providers["openai"]; ok {
			pc.APIKey = key
			cfg.Providers["openai"] = pc
		}
	}
}

func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	pc, ok := c.Providers[c.DefaultProvider]
	if !ok {
		return fmt.Errorf("default provider %q is not configured", c.DefaultProvider)
	}
	if pc.Model == "" {
		return fmt.Errorf("no model configured for provider %q (set LLM_MODEL)", c.DefaultProvider)
	}

	return nil
}

// ActiveProvider returns the configuration of the default provider.
func (c *Config) ActiveProvider() ProviderConfig {
	return c.Providers[c.DefaultProvider]
}
