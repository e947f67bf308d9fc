package factory

import (
	"fmt"

	"github.com/sambhav874/WingHeights/internal/config"
	"github.com/sambhav874/WingHeights/internal/providers"
	"github.com/sambhav874/WingHeights/internal/providers/ollama"
	"github.com/sambhav874/WingHeights/internal/providers/openai"
)

// CreateProvider creates a provider instance based on configuration
func CreateProvider(id string, cfg config.ProviderConfig) (providers.Provider, error) {
	switch cfg.Type {
	case "openai", "openai-compatible":
		return openai.NewProvider(id, cfg)
	case "ollama":
		return ollama.NewProvider(id, cfg)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}
