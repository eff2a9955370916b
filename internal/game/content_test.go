package game

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	if len(c.Monsters) != 29 {
		t.Errorf("Expected 29 monsters, got %d", len(c.Monsters))
	}
	if len(c.Potions) != 8 {
		t.Errorf("Expected 8 potions, got %d", len(c.Potions))
	}
	for _, id := range []string{"rusty_sword", "leather_vest", "wooden_staff", "cloth_robe", "brass_knuckles"} {
		if _, ok := c.EquipmentByID(id); !ok {
			t.Errorf("Expected starter item %s in catalog", id)
		}
	}
	if a, ok := c.Ability(Mage, "fireball"); !ok || a.MPCost != 8 || a.Power != 3.0 {
		t.Errorf("Expected fireball (8 MP, 3.0), got %+v", a)
	}
	if a, ok := c.Ability(Monk, "meditate"); !ok || a.Target != TargetSelf || a.Kind != AbilityHeal {
		t.Errorf("Expected meditate to be a self heal, got %+v", a)
	}
	if g := c.LevelGains[Fighter]; g != (Stats{HP: 10, MP: 0, Attack: 3, Defense: 2, Speed: 1}) {
		t.Errorf("Expected Fighter gains 10/0/3/2/1, got %+v", g)
	}
}

func TestMonsterPool(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		floor int
		want  int
	}{
		{1, 9}, {2, 9}, {3, 18}, {5, 18}, {6, 24}, {8, 24}, {9, 29}, {20, 29},
	}
	for _, tt := range tests {
		if got := len(c.MonsterPool(tt.floor)); got != tt.want {
			t.Errorf("Floor %d: expected pool of %d, got %d", tt.floor, tt.want, got)
		}
	}
}

func TestMonsterPool_TierBoundaries(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		floor int
		last  string
	}{
		{2, "Shadow Wisp"}, {3, "Orc Warrior"}, {6, "Golem"}, {9, "Dragon"},
	}
	for _, tt := range tests {
		pool := c.MonsterPool(tt.floor)
		if len(pool) == 0 {
			t.Fatalf("Floor %d: expected a pool, got none", tt.floor)
		}
		if got := pool[len(pool)-1].Name; got != tt.last {
			t.Errorf("Floor %d: expected pool to end with %s, got %s", tt.floor, tt.last, got)
		}
	}
}

func TestAbilitiesFor_UnknownJob(t *testing.T) {
	c := DefaultCatalog()
	got := c.AbilitiesFor(Job("Bard"))
	if len(got) == 0 || got[1].ID != "power_strike" {
		t.Errorf("Expected Fighter abilities as fallback, got %+v", got)
	}
}

func TestLoadCatalog_Valid(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "content.yaml")
	content := `abilities:
  Fighter: [{ id: attack, name: Attack, kind: attack, target: enemy, power: 1.0 }]
  Mage: [{ id: attack, name: Attack, kind: attack, target: enemy, power: 1.0 }]
  Monk: [{ id: attack, name: Attack, kind: attack, target: enemy, power: 1.0 }]
levelGains:
  Fighter: { hp: 1 }
  Mage: { mp: 1 }
  Monk: { speed: 1 }
monsters:
  - { name: Test Rat, tier: 1, hp: 5, attack: 1, defense: 0, speed: 1, xp: 1, gold: 1 }
equipment:
  - { id: stick, name: Stick, slot: weapon, attack: 1, rarity: common, jobs: [Fighter] }
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write content file: %v", err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("Unexpected error loading catalog: %v", err)
	}
	stick, ok := c.EquipmentByID("stick")
	if !ok {
		t.Fatal("Expected stick in catalog")
	}
	if stick.Stats.Attack != 1 {
		t.Errorf("Expected inline attack 1, got %d", stick.Stats.Attack)
	}
	if stick.AllowedJobs[0] != Fighter {
		t.Errorf("Expected Fighter, got %s", stick.AllowedJobs[0])
	}
}

func TestLoadCatalog_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadCatalog(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("abilities: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(bad); err == nil {
		t.Error("Expected error for invalid YAML")
	}

	empty := filepath.Join(tmpDir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("monsters: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(empty); err == nil {
		t.Error("Expected validation error for catalog without abilities")
	}
}
