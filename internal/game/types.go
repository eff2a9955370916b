package game

// Job is a party member's class.
type Job string

const (
	Fighter Job = "Fighter"
	Mage    Job = "Mage"
	Monk    Job = "Monk"
)

// Stats is a bundle of stat bonuses carried by equipment and level-ups.
type Stats struct {
	Attack  int `yaml:"attack" json:"attack"`
	Defense int `yaml:"defense" json:"defense"`
	HP      int `yaml:"hp" json:"hp"`
	MP      int `yaml:"mp" json:"mp"`
	Speed   int `yaml:"speed" json:"speed"`
}

// Entity is the shared core of party members and monsters. HP stays within
// [0, MaxHP] and MP within [0, MaxMP]; an entity at 0 HP is dead.
type Entity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	HP      int    `json:"hp"`
	MaxHP   int    `json:"maxHp"`
	MP      int    `json:"mp"`
	MaxMP   int    `json:"maxMp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Speed   int    `json:"speed"`
}

func (e *Entity) Alive() bool { return e.HP > 0 }

// Player is a party member. Base stats live in the embedded Entity; anything
// combat reads goes through Effective.
type Player struct {
	Entity
	Job       Job     `json:"job"`
	XP        int     `json:"xp"`
	Level     int     `json:"level"`
	Equipment Loadout `json:"equipment"`
}

// Monster is a spawned, already floor-scaled enemy.
type Monster struct {
	Entity
	XPValue   int    `json:"xpValue"`
	GoldValue int    `json:"goldValue"`
	Sprite    string `json:"sprite"`
}

// MonsterTemplate is a roster entry before floor scaling.
type MonsterTemplate struct {
	Name    string `yaml:"name"`
	Tier    int    `yaml:"tier"`
	HP      int    `yaml:"hp"`
	MP      int    `yaml:"mp"`
	Attack  int    `yaml:"attack"`
	Defense int    `yaml:"defense"`
	Speed   int    `yaml:"speed"`
	XP      int    `yaml:"xp"`
	Gold    int    `yaml:"gold"`
}

type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// Equipment is one item. Stats are the unenhanced bonuses; Enhancement
// (0..4) scales them.
type Equipment struct {
	ID          string    `yaml:"id" json:"id"`
	BaseID      string    `yaml:"-" json:"baseId,omitempty"`
	Name        string    `yaml:"name" json:"name"`
	Slot        EquipSlot `yaml:"slot" json:"slot"`
	Stats       Stats     `yaml:",inline" json:"stats"`
	Rarity      Rarity    `yaml:"rarity" json:"rarity"`
	AllowedJobs []Job     `yaml:"jobs" json:"allowedJobs"`
	Enhancement int       `yaml:"-" json:"enhancement"`
	Set         string    `yaml:"set,omitempty" json:"set,omitempty"`
	Description string    `yaml:"description" json:"description"`
}

type PotionKind string

const (
	HealthPotion PotionKind = "health"
	ManaPotion   PotionKind = "mana"
	Elixir       PotionKind = "elixir"
)

// Potion restores HP and/or MP when used.
type Potion struct {
	ID          string     `yaml:"id" json:"id"`
	BaseID      string     `yaml:"-" json:"baseId,omitempty"`
	Name        string     `yaml:"name" json:"name"`
	Kind        PotionKind `yaml:"kind" json:"type"`
	Heal        int        `yaml:"heal" json:"healAmount"`
	Mana        int        `yaml:"mana" json:"manaAmount"`
	Rarity      Rarity     `yaml:"rarity" json:"rarity"`
	Description string     `yaml:"description" json:"description"`
}

type AbilityKind string

const (
	AbilityAttack AbilityKind = "attack"
	AbilityHeal   AbilityKind = "heal"
	AbilityBuff   AbilityKind = "buff"
)

type TargetKind string

const (
	TargetEnemy TargetKind = "enemy"
	TargetAlly  TargetKind = "ally"
	TargetSelf  TargetKind = "self"
)

// Ability is a job skill. Power is a damage multiplier for attacks and a flat
// amount for heals.
type Ability struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Kind        AbilityKind `yaml:"kind"`
	Target      TargetKind  `yaml:"target"`
	MPCost      int         `yaml:"mpCost"`
	Power       float64     `yaml:"power"`
	Description string      `yaml:"description"`
}
