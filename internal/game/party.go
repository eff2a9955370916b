package game

import "math"

// ScaledPower grows an ability's power by 15% per level past the first,
// rounded down to one decimal.
func ScaledPower(power float64, level int) float64 {
	if level < 1 {
		level = 1
	}
	m := 1 + float64(level-1)*0.15
	return math.Floor(power*m*10) / 10
}

// Damage is max(1, floor(attack*power) - defense).
func Damage(attack int, power float64, defense int) int {
	d := int(math.Floor(float64(attack)*power)) - defense
	if d < 1 {
		return 1
	}
	return d
}

// XPForLevel is the experience needed to go from level to level+1.
func XPForLevel(level int) int {
	return int(math.Floor(100 * math.Pow(1.5, float64(level-1))))
}

// NewParty builds the starting trio with their starter gear from c.
func NewParty(c *Catalog) []Player {
	gear := func(ids ...string) Loadout {
		l := Loadout{}
		for _, id := range ids {
			if e, ok := c.EquipmentByID(id); ok {
				e.BaseID = e.ID
				if e.Slot == SlotRing {
					l[SlotRing1] = e
				} else {
					l[e.Slot] = e
				}
			}
		}
		return l
	}
	return []Player{
		{
			Entity:    Entity{ID: "p1", Name: "Bork", HP: 50, MaxHP: 50, MP: 0, MaxMP: 0, Attack: 12, Defense: 8, Speed: 8},
			Job:       Fighter,
			Level:     1,
			Equipment: gear("rusty_sword", "leather_vest"),
		},
		{
			Entity:    Entity{ID: "p2", Name: "Pyra", HP: 30, MaxHP: 30, MP: 40, MaxMP: 40, Attack: 4, Defense: 4, Speed: 6},
			Job:       Mage,
			Level:     1,
			Equipment: gear("wooden_staff", "cloth_robe"),
		},
		{
			Entity:    Entity{ID: "p3", Name: "Milo", HP: 45, MaxHP: 45, MP: 10, MaxMP: 10, Attack: 10, Defense: 6, Speed: 12},
			Job:       Monk,
			Level:     1,
			Equipment: gear("brass_knuckles", "leather_vest"),
		},
	}
}

// GainXP adds xp and applies every level-up it pays for. Surplus carries
// over; each level-up adds the job's gains and refills HP and MP. It returns
// the number of levels gained.
func (p *Player) GainXP(xp int, gains map[Job]Stats) int {
	if xp <= 0 || !p.Alive() {
		return 0
	}
	if p.Level < 1 {
		p.Level = 1
	}
	p.XP += xp
	levels := 0
	for p.XP >= XPForLevel(p.Level) {
		p.XP -= XPForLevel(p.Level)
		p.Level++
		levels++
		g := gains[p.Job]
		p.MaxHP += g.HP
		p.MaxMP += g.MP
		p.Attack += g.Attack
		p.Defense += g.Defense
		p.Speed += g.Speed
	}
	if levels > 0 {
		es := p.Effective()
		p.HP = max(es.MaxHP, 0)
		p.MP = max(es.MaxMP, 0)
	}
	return levels
}

// Heal restores up to amount HP, capped at the effective max. The dead
// cannot be healed. It returns the HP actually restored.
func (p *Player) Heal(amount int) int {
	if !p.Alive() || amount <= 0 {
		return 0
	}
	before := p.HP
	p.HP = clampInt(p.HP+amount, 0, max(p.Effective().MaxHP, 0))
	return p.HP - before
}

// RestoreMP is Heal for mana.
func (p *Player) RestoreMP(amount int) int {
	if !p.Alive() || amount <= 0 {
		return 0
	}
	before := p.MP
	p.MP = clampInt(p.MP+amount, 0, max(p.Effective().MaxMP, 0))
	return p.MP - before
}

// TakeDamage lowers HP, never below zero.
func (e *Entity) TakeDamage(n int) {
	e.HP -= n
	if e.HP < 0 {
		e.HP = 0
	}
}

// LivingCount counts party members above 0 HP.
func LivingCount(party []Player) int {
	n := 0
	for i := range party {
		if party[i].Alive() {
			n++
		}
	}
	return n
}
