package game

import "testing"

func TestSlotLegal(t *testing.T) {
	tests := []struct {
		job  Job
		slot EquipSlot
		want bool
	}{
		{Fighter, SlotShield, true},
		{Mage, SlotShield, false},
		{Monk, SlotShield, false},
		{Mage, SlotRelic, true},
		{Fighter, SlotRelic, false},
		{Monk, SlotRelic, false},
		{Fighter, SlotOffhand, false},
		{Mage, SlotOffhand, true},
		{Monk, SlotOffhand, true},
		{Monk, SlotRing2, true},
		{Fighter, SlotRing, false},
	}
	for _, tt := range tests {
		if got := SlotLegal(tt.job, tt.slot); got != tt.want {
			t.Errorf("SlotLegal(%s, %s): expected %v, got %v", tt.job, tt.slot, tt.want, got)
		}
	}
}

func TestEquip_RejectsIllegalSlot(t *testing.T) {
	c := DefaultCatalog()
	shield, _ := c.EquipmentByID("wooden_shield")
	mage := Player{Entity: Entity{Name: "Pyra", HP: 30, MaxHP: 30}, Job: Mage, Level: 1}

	if _, _, err := mage.Equip(SlotShield, shield); err == nil {
		t.Error("Expected Mage to be refused a shield")
	}
	if len(mage.Equipment) != 0 {
		t.Errorf("Expected loadout untouched, got %v", mage.Equipment)
	}

	fighter := bareFighter()
	if _, had, err := fighter.Equip(SlotShield, shield); err != nil || had {
		t.Fatalf("Expected Fighter to equip a shield, got had=%v err=%v", had, err)
	}
	if fighter.Effective().Defense != 8+shield.Stats.Defense {
		t.Errorf("Expected defense %d, got %d", 8+shield.Stats.Defense, fighter.Effective().Defense)
	}
}

func TestEquip_SlotKindMustMatch(t *testing.T) {
	c := DefaultCatalog()
	ring, _ := c.EquipmentByID("copper_ring")
	sword, _ := c.EquipmentByID("iron_sword")
	p := bareFighter()

	if _, _, err := p.Equip(SlotRing2, ring); err != nil {
		t.Errorf("Expected ring to fit ring2: %v", err)
	}
	if _, _, err := p.Equip(SlotRing1, sword); err == nil {
		t.Error("Expected sword to be refused in a ring slot")
	}

	old, _ := c.EquipmentByID("rusty_sword")
	p.Equipment[SlotWeapon] = old
	prev, had, err := p.Equip(SlotWeapon, sword)
	if err != nil || !had || prev.ID != "rusty_sword" {
		t.Errorf("Expected rusty sword back, got %+v had=%v err=%v", prev, had, err)
	}
}

func TestEffective_IgnoresIllegalSlots(t *testing.T) {
	mage := Player{
		Entity: Entity{Name: "Pyra", HP: 30, MaxHP: 30, Attack: 4, Defense: 4, Speed: 6},
		Job:    Mage,
		Level:  1,
		Equipment: Loadout{
			SlotShield: {Name: "Smuggled Shield", Slot: SlotShield, Stats: Stats{Defense: 50}},
			SlotRelic:  {Name: "Orb", Slot: SlotRelic, Stats: Stats{MP: 10}},
		},
	}
	es := mage.Effective()
	if es.Defense != 4 {
		t.Errorf("Expected shield ignored for Mage, defense %d", es.Defense)
	}
	if es.MaxMP != 10 {
		t.Errorf("Expected relic counted, max MP %d", es.MaxMP)
	}
}

func TestEnhancedStats(t *testing.T) {
	item := Equipment{Name: "Blade", Stats: Stats{Attack: 10, HP: 5, Speed: -2}}
	tests := []struct {
		enh    int
		attack int
		hp     int
		speed  int
	}{
		{0, 10, 5, -2},
		{1, 11, 5, -3},
		{2, 12, 6, -3},
		{3, 15, 7, -3},
		{4, 20, 10, -4},
	}
	for _, tt := range tests {
		item.Enhancement = tt.enh
		got := EnhancedStats(item)
		if got.Attack != tt.attack || got.HP != tt.hp || got.Speed != tt.speed {
			t.Errorf("+%d: expected atk %d hp %d spd %d, got %+v", tt.enh, tt.attack, tt.hp, tt.speed, got)
		}
	}
}

func TestDisplayName(t *testing.T) {
	e := Equipment{Name: "Iron Sword"}
	if e.DisplayName() != "Iron Sword" {
		t.Errorf("Expected plain name, got %s", e.DisplayName())
	}
	e.Enhancement = 3
	if e.DisplayName() != "Iron Sword +3" {
		t.Errorf("Expected 'Iron Sword +3', got %s", e.DisplayName())
	}
}

func TestUnequip_ClampsVitals(t *testing.T) {
	p := bareFighter()
	p.Equipment = Loadout{SlotArmor: {Name: "Plate", Slot: SlotArmor, Stats: Stats{HP: 20}, AllowedJobs: []Job{Fighter}}}
	p.HP = 70

	item, ok := p.Unequip(SlotArmor)
	if !ok || item.Name != "Plate" {
		t.Fatalf("Expected plate back, got %+v", item)
	}
	if p.HP != 50 {
		t.Errorf("Expected HP clamped to 50, got %d", p.HP)
	}
	if _, ok := p.Unequip(SlotArmor); ok {
		t.Error("Expected empty slot to report nothing")
	}
}
