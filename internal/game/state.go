package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"crawler/internal/dungeon"
)

// StateVersion tags the save format. Unversioned saves are read as version 1.
const StateVersion = 1

var ErrInvalidState = errors.New("invalid game state")

// GameState is everything a session or a save holds. The JSON keys match
// the long-standing save layout.
type GameState struct {
	Version            int            `json:"version"`
	Party              []Player       `json:"party"`
	X                  int            `json:"x"`
	Y                  int            `json:"y"`
	Dir                dungeon.Facing `json:"dir"`
	Map                dungeon.Grid   `json:"map"`
	Inventory          []string       `json:"inventory"`
	EquipmentInventory []Equipment    `json:"equipmentInventory"`
	PotionInventory    []Potion       `json:"potionInventory"`
	Gold               int            `json:"gold"`
	Level              int            `json:"level"`
	Combat             *Combat        `json:"combat,omitempty"`
	Editor             bool           `json:"editor,omitempty"`
	GameOver           bool           `json:"gameOver,omitempty"`
}

// NewGame starts a fresh run on floor 1.
func NewGame(cat *Catalog, rng *rand.Rand) *GameState {
	size := dungeon.SizeForFloor(1)
	st := &GameState{
		Version:   StateVersion,
		Party:     NewParty(cat),
		X:         dungeon.StartX,
		Y:         dungeon.StartY,
		Dir:       dungeon.StartFacing,
		Map:       dungeon.Generate(size, size, 1, rng),
		Inventory: []string{"Torch"},
		Level:     1,
	}
	if p, ok := cat.PotionByID("minor_health_potion"); ok {
		for i := 1; i <= 2; i++ {
			cp := p
			cp.BaseID = p.ID
			cp.ID = fmt.Sprintf("%s_start_%d", p.ID, i)
			st.PotionInventory = append(st.PotionInventory, cp)
		}
	}
	return st
}

// InCombat reports whether a battle is in progress.
func (st *GameState) InCombat() bool {
	return st.Combat != nil && st.Combat.Active
}

// descend builds the next floor and puts the party at its start.
func (st *GameState) descend(rng *rand.Rand) {
	st.Level++
	size := dungeon.SizeForFloor(st.Level)
	st.Map = dungeon.Generate(size, size, st.Level, rng)
	st.X, st.Y, st.Dir = dungeon.StartX, dungeon.StartY, dungeon.StartFacing
}

// Validate checks a state at the persistence boundary.
func (st *GameState) Validate() error {
	if st.Version != StateVersion {
		return fmt.Errorf("%w: version %d", ErrInvalidState, st.Version)
	}
	if err := st.Map.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if !st.Dir.Valid() {
		return fmt.Errorf("%w: facing %d", ErrInvalidState, st.Dir)
	}
	if !st.Map.Walkable(st.X, st.Y) {
		return fmt.Errorf("%w: pose (%d,%d) is not on a walkable tile", ErrInvalidState, st.X, st.Y)
	}
	if st.Level < 1 {
		return fmt.Errorf("%w: floor %d", ErrInvalidState, st.Level)
	}
	if st.Gold < 0 {
		return fmt.Errorf("%w: gold %d", ErrInvalidState, st.Gold)
	}
	if len(st.Party) != 3 {
		return fmt.Errorf("%w: party of %d", ErrInvalidState, len(st.Party))
	}
	for i := range st.Party {
		if err := validatePlayer(&st.Party[i]); err != nil {
			return err
		}
	}
	for _, e := range st.EquipmentInventory {
		if e.Enhancement < 0 || e.Enhancement > MaxEnhancement {
			return fmt.Errorf("%w: %s enhancement %d", ErrInvalidState, e.Name, e.Enhancement)
		}
	}
	if st.Combat != nil && st.Combat.Active && len(st.Combat.Monsters) == 0 {
		return fmt.Errorf("%w: active combat without monsters", ErrInvalidState)
	}
	return nil
}

func validatePlayer(p *Player) error {
	switch p.Job {
	case Fighter, Mage, Monk:
	default:
		return fmt.Errorf("%w: %s has unknown job %q", ErrInvalidState, p.Name, p.Job)
	}
	if p.Level < 1 {
		return fmt.Errorf("%w: %s level %d", ErrInvalidState, p.Name, p.Level)
	}
	es := p.Effective()
	if p.HP < 0 || p.HP > max(es.MaxHP, 0) {
		return fmt.Errorf("%w: %s hp %d outside [0,%d]", ErrInvalidState, p.Name, p.HP, es.MaxHP)
	}
	if p.MP < 0 || p.MP > max(es.MaxMP, 0) {
		return fmt.Errorf("%w: %s mp %d outside [0,%d]", ErrInvalidState, p.Name, p.MP, es.MaxMP)
	}
	for slot, item := range p.Equipment {
		if slot.Kind() != item.Slot {
			return fmt.Errorf("%w: %s has %s in %s", ErrInvalidState, p.Name, item.Name, slot)
		}
		if item.Enhancement < 0 || item.Enhancement > MaxEnhancement {
			return fmt.Errorf("%w: %s enhancement %d", ErrInvalidState, item.Name, item.Enhancement)
		}
	}
	return nil
}

// Encode validates and marshals st.
func Encode(st *GameState) ([]byte, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(st)
}

// Decode unmarshals and validates a saved state.
func Decode(b []byte) (*GameState, error) {
	var st GameState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if st.Version == 0 {
		st.Version = StateVersion
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return &st, nil
}
