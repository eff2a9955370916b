package game

import (
	"fmt"
	"math"
)

// EquipSlot names both a loadout position (ring1, ring2, ...) and an item's
// slot kind (ring, ...).
type EquipSlot string

const (
	SlotWeapon   EquipSlot = "weapon"
	SlotShield   EquipSlot = "shield"
	SlotArmor    EquipSlot = "armor"
	SlotHelmet   EquipSlot = "helmet"
	SlotGloves   EquipSlot = "gloves"
	SlotBoots    EquipSlot = "boots"
	SlotNecklace EquipSlot = "necklace"
	SlotRing     EquipSlot = "ring"
	SlotRing1    EquipSlot = "ring1"
	SlotRing2    EquipSlot = "ring2"
	SlotRelic    EquipSlot = "relic"
	SlotOffhand  EquipSlot = "offhand"
)

// LoadoutSlots lists the eleven positions a player can fill.
var LoadoutSlots = []EquipSlot{
	SlotWeapon, SlotShield, SlotArmor, SlotHelmet, SlotGloves, SlotBoots,
	SlotNecklace, SlotRing1, SlotRing2, SlotRelic, SlotOffhand,
}

// Loadout maps a position to the item in it. Absent keys are empty.
type Loadout map[EquipSlot]Equipment

// Kind maps a loadout position to the item slot kind it accepts.
func (s EquipSlot) Kind() EquipSlot {
	if s == SlotRing1 || s == SlotRing2 {
		return SlotRing
	}
	return s
}

// jobSlots is the only place slot legality is decided. Equip checks and
// effective stats both read it.
var jobSlots = func() map[Job]map[EquipSlot]bool {
	shared := []EquipSlot{SlotWeapon, SlotArmor, SlotHelmet, SlotGloves, SlotBoots, SlotNecklace, SlotRing1, SlotRing2}
	extra := map[Job][]EquipSlot{
		Fighter: {SlotShield},
		Mage:    {SlotRelic, SlotOffhand},
		Monk:    {SlotOffhand},
	}
	out := map[Job]map[EquipSlot]bool{}
	for job, ex := range extra {
		set := map[EquipSlot]bool{}
		for _, s := range shared {
			set[s] = true
		}
		for _, s := range ex {
			set[s] = true
		}
		out[job] = set
	}
	return out
}()

// SlotLegal reports whether job may use loadout position slot.
func SlotLegal(job Job, slot EquipSlot) bool {
	return jobSlots[job][slot]
}

// CanEquip reports whether job may wear item in at least one position.
func CanEquip(job Job, item Equipment) bool {
	allowed := false
	for _, j := range item.AllowedJobs {
		if j == job {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	for _, s := range LoadoutSlots {
		if s.Kind() == item.Slot && SlotLegal(job, s) {
			return true
		}
	}
	return false
}

// enhancementMultipliers is the bonus per enhancement level.
var enhancementMultipliers = [...]float64{0, 0.10, 0.25, 0.50, 1.00}

const MaxEnhancement = len(enhancementMultipliers) - 1

// EnhancedStats returns the item's bonuses after enhancement, each floored.
func EnhancedStats(item Equipment) Stats {
	e := item.Enhancement
	if e < 0 {
		e = 0
	}
	if e > MaxEnhancement {
		e = MaxEnhancement
	}
	m := 1 + enhancementMultipliers[e]
	scale := func(v int) int { return int(math.Floor(float64(v) * m)) }
	return Stats{
		Attack:  scale(item.Stats.Attack),
		Defense: scale(item.Stats.Defense),
		HP:      scale(item.Stats.HP),
		MP:      scale(item.Stats.MP),
		Speed:   scale(item.Stats.Speed),
	}
}

// DisplayName is "Name +N" for enhanced items.
func (e Equipment) DisplayName() string {
	if e.Enhancement > 0 {
		return fmt.Sprintf("%s +%d", e.Name, e.Enhancement)
	}
	return e.Name
}

// EffectiveStats is what combat reads: base plus bonuses of items sitting in
// positions the job may use.
type EffectiveStats struct {
	Attack  int
	Defense int
	MaxHP   int
	MaxMP   int
	Speed   int
}

func (p *Player) Effective() EffectiveStats {
	es := EffectiveStats{
		Attack:  p.Attack,
		Defense: p.Defense,
		MaxHP:   p.MaxHP,
		MaxMP:   p.MaxMP,
		Speed:   p.Speed,
	}
	for _, slot := range LoadoutSlots {
		item, ok := p.Equipment[slot]
		if !ok || !SlotLegal(p.Job, slot) {
			continue
		}
		b := EnhancedStats(item)
		es.Attack += b.Attack
		es.Defense += b.Defense
		es.MaxHP += b.HP
		es.MaxMP += b.MP
		es.Speed += b.Speed
	}
	return es
}

// Equip puts item into slot and returns whatever was there. The item must
// fit the slot kind and be legal for the player's job.
func (p *Player) Equip(slot EquipSlot, item Equipment) (prev Equipment, had bool, err error) {
	if slot.Kind() != item.Slot {
		return Equipment{}, false, fmt.Errorf("%s does not fit the %s slot", item.Name, slot)
	}
	if !SlotLegal(p.Job, slot) || !CanEquip(p.Job, item) {
		return Equipment{}, false, fmt.Errorf("%s cannot use %s", p.Job, item.Name)
	}
	if p.Equipment == nil {
		p.Equipment = Loadout{}
	}
	prev, had = p.Equipment[slot]
	p.Equipment[slot] = item
	p.clampVitals()
	return prev, had, nil
}

// Unequip empties slot and returns the item that was there.
func (p *Player) Unequip(slot EquipSlot) (Equipment, bool) {
	item, ok := p.Equipment[slot]
	if !ok {
		return Equipment{}, false
	}
	delete(p.Equipment, slot)
	p.clampVitals()
	return item, true
}

// clampVitals keeps HP and MP inside the effective maxima.
func (p *Player) clampVitals() {
	es := p.Effective()
	p.HP = clampInt(p.HP, 0, max(es.MaxHP, 0))
	p.MP = clampInt(p.MP, 0, max(es.MaxMP, 0))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
