package extract

import (
	"fmt"

	"verity/internal/config"
	"verity/internal/port"
)

// ProviderFactory creates a TextExtractor from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig) (port.TextExtractor, error)

// registry of extractor provider factories, populated explicitly via
// RegisterProvider during wiring.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extractor provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates a TextExtractor from a provider config using the
// registered factory.
func NewExtractor(cfg *config.ExtractorProviderConfig) (port.TextExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
