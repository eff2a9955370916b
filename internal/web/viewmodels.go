package web

import (
	"crawler/internal/game"
	"crawler/internal/view"
)

type MemberView struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Job     string `json:"job"`
	Level   int    `json:"level"`
	XP      int    `json:"xp"`
	HP      int    `json:"hp"`
	MaxHP   int    `json:"maxHp"`
	MP      int    `json:"mp"`
	MaxMP   int    `json:"maxMp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Speed   int    `json:"speed"`
	Alive   bool   `json:"alive"`
	Acting  bool   `json:"acting"`
}

type MonsterView struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"maxHp"`
	Alive  bool   `json:"alive"`
	Acting bool   `json:"acting"`
}

type AbilityView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	MPCost int    `json:"mpCost"`
	Target string `json:"target"`
}

type ItemView struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Slot  string `json:"slot,omitempty"`
}

// StateView is the page and /state model: display-ready, effective stats
// already applied.
type StateView struct {
	Floor     int           `json:"floor"`
	X         int           `json:"x"`
	Y         int           `json:"y"`
	Facing    string        `json:"facing"`
	Gold      int           `json:"gold"`
	Party     []MemberView  `json:"party"`
	Monsters  []MonsterView `json:"monsters,omitempty"`
	Abilities []AbilityView `json:"abilities,omitempty"`
	Potions   []ItemView    `json:"potions"`
	Gear      []ItemView    `json:"gear"`
	Inventory []string      `json:"inventory"`
	Log       []string      `json:"log,omitempty"`
	Outcome   string        `json:"outcome,omitempty"`
	InCombat  bool          `json:"inCombat"`
	Editor    bool          `json:"editor"`
	GameOver  bool          `json:"gameOver"`
	Minimap   []string      `json:"minimap"`
}

// ViewModel is what the page template renders.
type ViewModel struct {
	SessionID string
	Width     int
	Height    int
	State     StateView
	Message   string
}

func makeStateView(cat *game.Catalog, st *game.GameState) StateView {
	v := StateView{
		Floor:     st.Level,
		X:         st.X,
		Y:         st.Y,
		Facing:    st.Dir.String(),
		Gold:      st.Gold,
		Inventory: st.Inventory,
		InCombat:  st.InCombat(),
		Editor:    st.Editor,
		GameOver:  st.GameOver,
		Minimap:   view.Minimap(st),
	}
	var actor game.Combatant
	var acting bool
	if st.Combat != nil {
		actor, acting = st.Combat.Actor()
		v.Log = st.Combat.Log
		v.Outcome = string(st.Combat.Outcome)
	}
	for i := range st.Party {
		p := &st.Party[i]
		es := p.Effective()
		v.Party = append(v.Party, MemberView{
			Index: i, Name: p.Name, Job: string(p.Job), Level: p.Level, XP: p.XP,
			HP: p.HP, MaxHP: es.MaxHP, MP: p.MP, MaxMP: es.MaxMP,
			Attack: es.Attack, Defense: es.Defense, Speed: es.Speed,
			Alive:  p.Alive(),
			Acting: acting && actor.Side == game.SideParty && actor.Index == i,
		})
		if acting && actor.Side == game.SideParty && actor.Index == i {
			for _, ab := range cat.AbilitiesFor(p.Job) {
				v.Abilities = append(v.Abilities, AbilityView{
					ID: ab.ID, Name: ab.Name, MPCost: ab.MPCost, Target: string(ab.Target),
				})
			}
		}
	}
	if v.InCombat {
		for i, m := range st.Combat.Monsters {
			v.Monsters = append(v.Monsters, MonsterView{
				Index: i, Name: m.Name, HP: m.HP, MaxHP: m.MaxHP, Alive: m.Alive(),
				Acting: acting && actor.Side == game.SideMonster && actor.Index == i,
			})
		}
	}
	v.Potions = make([]ItemView, 0, len(st.PotionInventory))
	for i, p := range st.PotionInventory {
		v.Potions = append(v.Potions, ItemView{Index: i, Name: p.Name})
	}
	v.Gear = make([]ItemView, 0, len(st.EquipmentInventory))
	for i, e := range st.EquipmentInventory {
		v.Gear = append(v.Gear, ItemView{Index: i, Name: e.DisplayName(), Slot: string(e.Slot)})
	}
	return v
}
