// Package catalog holds the read-only joker reference data. Lookups that
// miss are a normal outcome: the viewer falls back to the raw name.
package catalog

import (
	"encoding/json"
	"os"
	"strings"
)

type Joker struct {
	NameEn   string `json:"name_en"`
	NameZh   string `json:"name_zh,omitempty"`
	Image    string `json:"image,omitempty"`
	EffectEn string `json:"effect_en,omitempty"`
	EffectZh string `json:"effect_zh,omitempty"`
}

type Catalog struct {
	jokers []Joker
	byName map[string]*Joker
}

// Load reads the catalog file. A missing file yields an empty catalog, not
// an error: the detail view degrades to raw joker names.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return nil, err
	}
	var jokers []Joker
	if err := json.Unmarshal(b, &jokers); err != nil {
		return nil, err
	}
	return New(jokers), nil
}

func New(jokers []Joker) *Catalog {
	c := &Catalog{jokers: jokers, byName: make(map[string]*Joker, len(jokers))}
	for i := range c.jokers {
		c.byName[normalize(c.jokers[i].NameEn)] = &c.jokers[i]
	}
	return c
}

// Lookup resolves a joker by English name, case-insensitively.
func (c *Catalog) Lookup(name string) (*Joker, bool) {
	j, ok := c.byName[normalize(name)]
	return j, ok
}

func (c *Catalog) All() []Joker {
	return c.jokers
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
