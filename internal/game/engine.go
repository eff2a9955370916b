package game

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"crawler/internal/dungeon"
)

// DefaultEncounterChance is the odds of a random battle per step taken.
const DefaultEncounterChance = 0.08

type IntentKind string

const (
	IntentMove         IntentKind = "move"
	IntentAttack       IntentKind = "attack"
	IntentAbility      IntentKind = "ability"
	IntentDefend       IntentKind = "defend"
	IntentUseItem      IntentKind = "use-item"
	IntentFlee         IntentKind = "flee"
	IntentStartCombat  IntentKind = "start-combat"
	IntentToggleEditor IntentKind = "toggle-editor"
	IntentSetTile      IntentKind = "set-tile"
	IntentEquip        IntentKind = "equip"
	IntentUnequip      IntentKind = "unequip"
	IntentRestart      IntentKind = "restart"
)

// Intent is one player input. Fields not used by Kind are ignored.
type Intent struct {
	Kind    IntentKind `json:"kind"`
	Dir     string     `json:"dir,omitempty"`
	Ability string     `json:"ability,omitempty"`
	Target  int        `json:"target"`
	Item    int        `json:"item"`
	Member  int        `json:"member"`
	Slot    EquipSlot  `json:"slot,omitempty"`
	X       int        `json:"x"`
	Y       int        `json:"y"`
	Tile    int        `json:"tile"`
}

// Event names something a front-end may play a sound for.
type Event string

const (
	EventStep      Event = "step"
	EventBump      Event = "bump"
	EventStairs    Event = "stairs"
	EventEncounter Event = "encounter"
	EventHit       Event = "hit"
	EventSpell     Event = "spell"
	EventHurt      Event = "hurt"
	EventBlock     Event = "block"
	EventHeal      Event = "heal"
	EventFlee      Event = "flee"
	EventVictory   Event = "victory"
	EventDefeat    Event = "defeat"
)

// StepResult reports what one intent did. A non-empty Message with
// Rejected set means the intent was a no-op.
type StepResult struct {
	Message  string   `json:"message,omitempty"`
	Rejected bool     `json:"rejected,omitempty"`
	Log      []string `json:"log,omitempty"`
	Events   []Event  `json:"events,omitempty"`
}

type Engine struct {
	Catalog         *Catalog
	EncounterChance float64

	rng *rand.Rand
}

// NewEngine returns an engine drawing from src. A nil src is seeded
// randomly. The engine is safe to share across sessions.
func NewEngine(cat *Catalog, src rand.Source) *Engine {
	if cat == nil {
		cat = DefaultCatalog()
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Engine{
		Catalog:         cat,
		EncounterChance: DefaultEncounterChance,
		rng:             rand.New(&lockedSource{src: src}),
	}
}

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (e *Engine) NewGame() *GameState {
	return NewGame(e.Catalog, e.rng)
}

func reject(format string, args ...any) StepResult {
	return StepResult{Message: fmt.Sprintf(format, args...), Rejected: true}
}

// Apply runs one intent against st, mutating it in place. Errors are only
// returned for a missing or broken state; illegal moves come back as a
// rejected StepResult.
func (e *Engine) Apply(st *GameState, in Intent) (StepResult, error) {
	if st == nil || len(st.Map) == 0 {
		return StepResult{}, ErrInvalidState
	}
	if in.Kind == IntentRestart {
		*st = *e.NewGame()
		return StepResult{Message: "A new party enters the dungeon."}, nil
	}
	if st.GameOver {
		return reject("The party has fallen. Start a new game."), nil
	}

	switch in.Kind {
	case IntentMove:
		return e.move(st, in.Dir), nil
	case IntentStartCombat:
		if st.InCombat() {
			return reject("Already in combat."), nil
		}
		if st.Editor {
			return reject("Leave the editor before fighting."), nil
		}
		res := StepResult{}
		b := &battle{st: st, cat: e.Catalog, rng: e.rng, res: &res}
		b.start(e.Catalog.SpawnEncounter(st.Level, e.rng))
		return res, nil
	case IntentAttack, IntentAbility, IntentDefend, IntentUseItem, IntentFlee:
		if in.Kind == IntentUseItem && !st.InCombat() {
			return e.drinkOutsideCombat(st, in), nil
		}
		if !st.InCombat() {
			return reject("There is nothing to fight."), nil
		}
		res := StepResult{}
		b := &battle{st: st, c: st.Combat, cat: e.Catalog, rng: e.rng, res: &res}
		b.partyAct(in)
		if res.Message != "" {
			res.Rejected = true
		}
		return res, nil
	case IntentToggleEditor:
		if st.InCombat() {
			return reject("Not during combat."), nil
		}
		st.Editor = !st.Editor
		if st.Editor {
			return StepResult{Message: "Editor on."}, nil
		}
		return StepResult{Message: "Editor off."}, nil
	case IntentSetTile:
		return setTile(st, in), nil
	case IntentEquip:
		return equip(st, in), nil
	case IntentUnequip:
		return unequip(st, in), nil
	}
	return reject("Unknown intent %q.", in.Kind), nil
}

// move turns to an absolute direction and steps if the way is open.
// Ladders down descend; a step may trigger a random encounter.
func (e *Engine) move(st *GameState, dir string) StepResult {
	if st.InCombat() {
		return reject("You cannot move during combat.")
	}
	f, ok := dungeon.ParseFacing(dir)
	if !ok {
		return reject("Unknown direction %q.", dir)
	}
	st.Dir = f
	dx, dy := f.Delta()
	nx, ny := st.X+dx, st.Y+dy
	switch st.Map.At(nx, ny) {
	case dungeon.Wall:
		return StepResult{Events: []Event{EventBump}}
	case dungeon.Door:
		return StepResult{Message: "The door is barred from the outside.", Events: []Event{EventBump}}
	case dungeon.LadderDown:
		st.descend(e.rng)
		return StepResult{
			Message: fmt.Sprintf("You climb down to floor %d.", st.Level),
			Events:  []Event{EventStairs},
		}
	}
	st.X, st.Y = nx, ny
	res := StepResult{Events: []Event{EventStep}}
	if !st.Editor && e.rng.Float64() < e.EncounterChance {
		b := &battle{st: st, cat: e.Catalog, rng: e.rng, res: &res}
		b.start(e.Catalog.SpawnEncounter(st.Level, e.rng))
	}
	return res
}

func (e *Engine) drinkOutsideCombat(st *GameState, in Intent) StepResult {
	if in.Item < 0 || in.Item >= len(st.PotionInventory) {
		return reject("No such potion.")
	}
	if in.Target < 0 || in.Target >= len(st.Party) || !st.Party[in.Target].Alive() {
		return reject("That ally cannot drink a potion.")
	}
	pot := st.PotionInventory[in.Item]
	p := &st.Party[in.Target]
	hp := p.Heal(pot.Heal)
	mp := p.RestoreMP(pot.Mana)
	st.PotionInventory = append(st.PotionInventory[:in.Item], st.PotionInventory[in.Item+1:]...)
	return StepResult{
		Message: fmt.Sprintf("%s drinks a %s (+%d HP, +%d MP).", p.Name, pot.Name, hp, mp),
		Events:  []Event{EventHeal},
	}
}

func setTile(st *GameState, in Intent) StepResult {
	if !st.Editor {
		return reject("The editor is off.")
	}
	t := dungeon.Tile(in.Tile)
	if !t.Valid() {
		return reject("Unknown tile code %d.", in.Tile)
	}
	if in.X == st.X && in.Y == st.Y {
		return reject("Cannot build on the party's tile.")
	}
	if !st.Map.Set(in.X, in.Y, t) {
		return reject("(%d,%d) is outside the map.", in.X, in.Y)
	}
	return StepResult{Message: fmt.Sprintf("(%d,%d) is now %s.", in.X, in.Y, t)}
}

// equip moves EquipmentInventory[Item] onto party member Member; whatever
// was in the slot goes back to the inventory.
func equip(st *GameState, in Intent) StepResult {
	if st.InCombat() {
		return reject("Not during combat.")
	}
	if in.Member < 0 || in.Member >= len(st.Party) {
		return reject("No such party member.")
	}
	if in.Item < 0 || in.Item >= len(st.EquipmentInventory) {
		return reject("No such item.")
	}
	p := &st.Party[in.Member]
	item := st.EquipmentInventory[in.Item]
	slot := in.Slot
	if slot == "" {
		slot = defaultSlot(p, item)
	}
	prev, had, err := p.Equip(slot, item)
	if err != nil {
		return reject("%s", err.Error())
	}
	st.EquipmentInventory = append(st.EquipmentInventory[:in.Item], st.EquipmentInventory[in.Item+1:]...)
	if had {
		st.EquipmentInventory = append(st.EquipmentInventory, prev)
	}
	return StepResult{Message: fmt.Sprintf("%s equips %s.", p.Name, item.DisplayName())}
}

// defaultSlot picks the loadout position for item: the item's own slot, or
// the first free ring slot.
func defaultSlot(p *Player, item Equipment) EquipSlot {
	if item.Slot != SlotRing {
		return item.Slot
	}
	if _, used := p.Equipment[SlotRing1]; used {
		if _, used2 := p.Equipment[SlotRing2]; !used2 {
			return SlotRing2
		}
	}
	return SlotRing1
}

func unequip(st *GameState, in Intent) StepResult {
	if st.InCombat() {
		return reject("Not during combat.")
	}
	if in.Member < 0 || in.Member >= len(st.Party) {
		return reject("No such party member.")
	}
	p := &st.Party[in.Member]
	item, ok := p.Unequip(in.Slot)
	if !ok {
		return reject("Nothing in %s.", in.Slot)
	}
	st.EquipmentInventory = append(st.EquipmentInventory, item)
	return StepResult{Message: fmt.Sprintf("%s removes %s.", p.Name, item.DisplayName())}
}
