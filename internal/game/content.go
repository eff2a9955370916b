package game

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Catalog holds the content tables: abilities, level gains, the monster
// roster, potions and equipment.
type Catalog struct {
	Abilities  map[Job][]Ability `yaml:"abilities"`
	LevelGains map[Job]Stats     `yaml:"levelGains"`
	Monsters   []MonsterTemplate `yaml:"monsters"`
	Potions    []Potion          `yaml:"potions"`
	Equipment  []Equipment       `yaml:"equipment"`
}

// DefaultCatalog returns the built-in content. It panics if the embedded
// file is broken, which only a bad build can cause.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultContent)
	if err != nil {
		panic(fmt.Sprintf("embedded content: %v", err))
	}
	return c
}

// LoadCatalog loads content tables from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path is cleaned and validated
	if err != nil {
		return nil, err
	}
	return ParseCatalog(b)
}

func ParseCatalog(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every job has abilities and level gains, that the
// roster covers tier 1, and that items reference real slots and jobs.
func (c *Catalog) Validate() error {
	for _, job := range []Job{Fighter, Mage, Monk} {
		if len(c.Abilities[job]) == 0 {
			return fmt.Errorf("content: no abilities for %s", job)
		}
		if _, ok := c.LevelGains[job]; !ok {
			return fmt.Errorf("content: no level gains for %s", job)
		}
	}
	if len(c.MonsterPool(1)) == 0 {
		return fmt.Errorf("content: no tier 1 monsters")
	}
	seen := map[string]bool{}
	for _, e := range c.Equipment {
		if e.ID == "" || seen[e.ID] {
			return fmt.Errorf("content: missing or duplicate equipment id %q", e.ID)
		}
		seen[e.ID] = true
		if !validItemSlot(e.Slot) {
			return fmt.Errorf("content: %s has unknown slot %q", e.ID, e.Slot)
		}
		if len(e.AllowedJobs) == 0 {
			return fmt.Errorf("content: %s has no allowed jobs", e.ID)
		}
	}
	for _, p := range c.Potions {
		if p.ID == "" || seen[p.ID] {
			return fmt.Errorf("content: missing or duplicate potion id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func validItemSlot(s EquipSlot) bool {
	if s == SlotRing {
		return true
	}
	for _, ls := range LoadoutSlots {
		if ls == s && ls.Kind() == s {
			return true
		}
	}
	return false
}

func (c *Catalog) EquipmentByID(id string) (Equipment, bool) {
	for _, e := range c.Equipment {
		if e.ID == id {
			return e, true
		}
	}
	return Equipment{}, false
}

func (c *Catalog) PotionByID(id string) (Potion, bool) {
	for _, p := range c.Potions {
		if p.ID == id {
			return p, true
		}
	}
	return Potion{}, false
}

// AbilitiesFor falls back to the Fighter list for an unknown job.
func (c *Catalog) AbilitiesFor(job Job) []Ability {
	if a, ok := c.Abilities[job]; ok {
		return a
	}
	return c.Abilities[Fighter]
}

func (c *Catalog) Ability(job Job, id string) (Ability, bool) {
	for _, a := range c.AbilitiesFor(job) {
		if a.ID == id {
			return a, true
		}
	}
	return Ability{}, false
}

// MaxTier is the deepest monster tier unlocked on floor.
func MaxTier(floor int) int {
	switch {
	case floor <= 2:
		return 1
	case floor <= 5:
		return 2
	case floor <= 8:
		return 3
	default:
		return 4
	}
}

// MonsterPool returns the roster entries that can spawn on floor.
func (c *Catalog) MonsterPool(floor int) []MonsterTemplate {
	maxTier := MaxTier(floor)
	var out []MonsterTemplate
	for _, m := range c.Monsters {
		if m.Tier <= maxTier {
			out = append(out, m)
		}
	}
	return out
}
