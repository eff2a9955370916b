package game

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

const (
	potionDropChance    = 0.30
	equipmentDropChance = 0.20
)

// SpriteKey is the asset key for a monster name: trimmed, lower case, spaces
// to underscores ("Cave Bat" -> "cave_bat").
func SpriteKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// SpawnMonster copies t and scales it for floor: hp, maxHp and attack by
// 1+0.1*floor, gold by 1+0.15*floor.
func SpawnMonster(t MonsterTemplate, floor int) Monster {
	stat := 1 + 0.1*float64(floor)
	gold := 1 + 0.15*float64(floor)
	hp := int(math.Floor(float64(t.HP) * stat))
	return Monster{
		Entity: Entity{
			ID:      uuid.NewString(),
			Name:    t.Name,
			HP:      hp,
			MaxHP:   hp,
			MP:      t.MP,
			MaxMP:   t.MP,
			Attack:  int(math.Floor(float64(t.Attack) * stat)),
			Defense: t.Defense,
			Speed:   t.Speed,
		},
		XPValue:   t.XP,
		GoldValue: int(math.Floor(float64(t.Gold) * gold)),
		Sprite:    SpriteKey(t.Name),
	}
}

// SpawnEncounter picks 1 to 3 monsters (at most 2 on floor 1) from the
// floor's pool.
func (c *Catalog) SpawnEncounter(floor int, rng *rand.Rand) []Monster {
	pool := c.MonsterPool(floor)
	if len(pool) == 0 {
		return nil
	}
	most := 3
	if floor <= 1 {
		most = 2
	}
	n := 1 + rng.IntN(most)
	out := make([]Monster, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, SpawnMonster(pool[rng.IntN(len(pool))], floor))
	}
	return out
}

// RollEnhancement picks an enhancement level; deeper floors shift the odds
// upward (base +0 60%, +1 25%, +2 10%, +3 4%, +4 1%).
func RollEnhancement(floor int, rng *rand.Rand) int {
	roll := rng.Float64() * 100
	bonus := float64(min(floor*2, 20))
	switch {
	case roll < 1+bonus*0.5:
		return 4
	case roll < 5+bonus*0.5:
		return 3
	case roll < 15+bonus*0.3:
		return 2
	case roll < 40+bonus*0.2:
		return 1
	}
	return 0
}

// RollEquipmentDrop returns an item 20% of the time. Rarity improves with
// depth; the copy gets a fresh id and an enhancement roll.
func (c *Catalog) RollEquipmentDrop(floor int, rng *rand.Rand) (Equipment, bool) {
	if rng.Float64() > equipmentDropChance {
		return Equipment{}, false
	}
	r := rng.Float64()
	target := Common
	switch {
	case floor >= 3 && r < 0.05:
		target = Epic
	case floor >= 2 && r < 0.15:
		target = Rare
	case r < 0.40:
		target = Uncommon
	}
	var pool []Equipment
	for _, e := range c.Equipment {
		if e.Rarity == target {
			pool = append(pool, e)
		}
	}
	if len(pool) == 0 {
		return Equipment{}, false
	}
	item := pool[rng.IntN(len(pool))]
	item.BaseID = item.ID
	item.ID = uuid.NewString()
	item.Enhancement = RollEnhancement(floor, rng)
	return item, true
}

// RollPotionDrop returns a potion 30% of the time, weighted 5/3/1 by
// rarity. Floors 1-2 drop only common potions, 3-4 add uncommon.
func (c *Catalog) RollPotionDrop(floor int, rng *rand.Rand) (Potion, bool) {
	if rng.Float64() > potionDropChance {
		return Potion{}, false
	}
	var weighted []Potion
	for _, p := range c.Potions {
		if !potionAllowed(p.Rarity, floor) {
			continue
		}
		for i := 0; i < rarityWeight(p.Rarity); i++ {
			weighted = append(weighted, p)
		}
	}
	if len(weighted) == 0 {
		return Potion{}, false
	}
	p := weighted[rng.IntN(len(weighted))]
	p.BaseID = p.ID
	p.ID = uuid.NewString()
	return p, true
}

func potionAllowed(r Rarity, floor int) bool {
	switch {
	case floor <= 2:
		return r == Common
	case floor <= 4:
		return r == Common || r == Uncommon
	}
	return true
}

func rarityWeight(r Rarity) int {
	switch r {
	case Common:
		return 5
	case Uncommon:
		return 3
	}
	return 1
}
