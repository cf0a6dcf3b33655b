package events

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind classifies an event's tone
type Kind string

const (
	KindPositive Kind = "positive"
	KindNeutral  Kind = "neutral"
	KindNegative Kind = "negative"
)

// Table selects which event family to draw from
type Table string

const (
	Hobby Table = "hobby"
	Coop  Table = "coop"
)

// Keys used when the requested group has no entries.
const (
	fallbackHobby = "sport"
	fallbackCoop  = "walk"
)

// Event is one possible random outcome
type Event struct {
	Kind       Kind    `yaml:"kind"`
	Icon       string  `yaml:"icon"`
	Text       string  `yaml:"text"`
	Happiness  int     `yaml:"happiness"`
	Recovery   int     `yaml:"recovery"`
	Money      int     `yaml:"money"`
	MoneyBonus float64 `yaml:"money_bonus"`
}

// Rand is the subset of *rand.Rand used for draws
type Rand interface {
	IntN(n int) int
}

// Catalog holds every event table
type Catalog struct {
	Hobby map[string][]Event `yaml:"hobby"`
	Coop  map[string][]Event `yaml:"coop"`
}

//go:embed events.yaml
var embeddedEvents []byte

var defaultCatalog = mustLoadEmbedded()

// Default returns the catalog compiled into the binary
func Default() *Catalog {
	return defaultCatalog
}

// Parse decodes a YAML event catalog
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse events: %w", err)
	}
	if len(c.Coop[fallbackCoop]) == 0 {
		return nil, fmt.Errorf("coop table %q is required", fallbackCoop)
	}
	if len(c.Hobby[fallbackHobby]) == 0 {
		return nil, fmt.Errorf("hobby table %q is required", fallbackHobby)
	}

	for _, tables := range []map[string][]Event{c.Hobby, c.Coop} {
		for key, list := range tables {
			for i := range list {
				if list[i].Text == "" {
					return nil, fmt.Errorf("event %s[%d] has no text", key, i)
				}
			}
		}
	}

	return &c, nil
}

func mustLoadEmbedded() *Catalog {
	c, err := Parse(embeddedEvents)
	if err != nil {
		panic(err)
	}
	return c
}

// Events returns the list for key, falling back to the table default
func (c *Catalog) Events(table Table, key string) []Event {
	switch table {
	case Hobby:
		if list := c.Hobby[key]; len(list) > 0 {
			return list
		}
		return c.Hobby[fallbackHobby]
	default:
		if list := c.Coop[key]; len(list) > 0 {
			return list
		}
		return c.Coop[fallbackCoop]
	}
}

// Draw picks one event from the table, each entry equally likely
func (c *Catalog) Draw(rng Rand, table Table, key string) Event {
	list := c.Events(table, key)
	return list[rng.IntN(len(list))]
}
