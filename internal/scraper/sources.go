package scraper

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/trendradar/internal/domain"
)

// Source configures one scrape target: a trending list page on the
// ads-intelligence site plus the selectors to mine it.
type Source struct {
	Name           string          `yaml:"name" mapstructure:"name"`
	URL            string          `yaml:"url" mapstructure:"url"`
	Platform       domain.Platform `yaml:"platform" mapstructure:"platform"`
	Category       string          `yaml:"category" mapstructure:"category"`
	Enabled        bool            `yaml:"enabled" mapstructure:"enabled"`
	AllowedDomains []string        `yaml:"allowed_domains" mapstructure:"allowed_domains"`
	// MaxProducts caps how many detail pages are visited per run.
	MaxProducts int       `yaml:"max_products" mapstructure:"max_products"`
	RateLimit   string    `yaml:"rate_limit" mapstructure:"rate_limit"`
	Selectors   Selectors `yaml:"selectors" mapstructure:"selectors"`
}

// Validate validates the source.
func (s *Source) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("source %s: url is required", s.Name)
	}
	if s.Platform == "" {
		return fmt.Errorf("source %s: platform is required", s.Name)
	}
	if err := s.Selectors.Validate(); err != nil {
		return fmt.Errorf("source %s: %w", s.Name, err)
	}
	return nil
}

// sourcesFile is the on-disk shape of the sources YAML.
type sourcesFile struct {
	Sources []map[string]any `yaml:"sources"`
}

// LoadSources reads and validates the sources YAML file. Disabled sources
// are kept so callers can list them; Enabled filtering happens at scan
// time.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if unmarshalErr := yaml.Unmarshal(data, &file); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", unmarshalErr)
	}

	sources := make([]Source, 0, len(file.Sources))
	for i, raw := range file.Sources {
		var src Source
		decoder, decErr := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &src,
			WeaklyTypedInput: true,
		})
		if decErr != nil {
			return nil, fmt.Errorf("failed to build source decoder: %w", decErr)
		}
		if decodeErr := decoder.Decode(raw); decodeErr != nil {
			return nil, fmt.Errorf("source %d: %w", i, decodeErr)
		}
		if validateErr := src.Validate(); validateErr != nil {
			return nil, validateErr
		}
		sources = append(sources, src)
	}

	return sources, nil
}
