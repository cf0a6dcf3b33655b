package hobby

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/glebk/otter-bot/internal/domain"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// DefaultCatalog returns the hobby shop shipped with the bot
func DefaultCatalog() ([]*domain.Hobby, error) {
	return ParseCatalog(embeddedCatalog)
}

// ParseCatalog decodes a YAML list of hobbies and fills default tuning values
func ParseCatalog(data []byte) ([]*domain.Hobby, error) {
	var hobbies []*domain.Hobby
	if err := yaml.Unmarshal(data, &hobbies); err != nil {
		return nil, fmt.Errorf("failed to parse hobby catalog: %w", err)
	}

	seen := make(map[string]bool, len(hobbies))
	for _, h := range hobbies {
		if h.ID == "" || h.Title == "" {
			return nil, fmt.Errorf("hobby catalog entry without id or title: %+v", h)
		}
		if seen[h.ID] {
			return nil, fmt.Errorf("duplicate hobby id %q", h.ID)
		}
		seen[h.ID] = true
		h.ApplyDefaults()
	}

	return hobbies, nil
}
