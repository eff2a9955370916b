package term

import (
	"crawler/internal/game"

	"github.com/gdamore/tcell/v2"
)

// command is a key press that is not a game intent.
type command int

const (
	cmdNone command = iota
	cmdQuit
	cmdSave
	cmdLoad
	cmdNextTarget
	cmdMap
)

var moveKeys = map[tcell.Key]string{
	tcell.KeyUp:    "north",
	tcell.KeyDown:  "south",
	tcell.KeyLeft:  "west",
	tcell.KeyRight: "east",
}

var moveRunes = map[rune]string{
	'w': "north",
	's': "south",
	'a': "west",
	'd': "east",
}

// keyInput is what the client knows when it maps a key.
type keyInput struct {
	inCombat  bool
	abilities []game.Ability // acting member's, in catalogue order
	target    int            // selected monster
	member    int            // acting party index
	ally      int            // living party member with the lowest HP
}

// mapKey turns a key into an intent or a client command. Combat keys only
// apply while a battle is active; movement keys only outside one.
func mapKey(key tcell.Key, r rune, in keyInput) (game.Intent, command, bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.Intent{}, cmdQuit, true
	case tcell.KeyTab:
		return game.Intent{}, cmdNextTarget, true
	}
	if dir, ok := moveKeys[key]; ok {
		return game.Intent{Kind: game.IntentMove, Dir: dir}, cmdNone, true
	}
	if key != tcell.KeyRune {
		return game.Intent{}, cmdNone, false
	}

	switch r {
	case 'q':
		return game.Intent{}, cmdQuit, true
	case 'S':
		return game.Intent{}, cmdSave, true
	case 'L':
		return game.Intent{}, cmdLoad, true
	case 'M':
		return game.Intent{}, cmdMap, true
	case 'n':
		return game.Intent{Kind: game.IntentRestart}, cmdNone, true
	case 'e':
		return game.Intent{Kind: game.IntentToggleEditor}, cmdNone, true
	}

	if !in.inCombat {
		if dir, ok := moveRunes[r]; ok {
			return game.Intent{Kind: game.IntentMove, Dir: dir}, cmdNone, true
		}
		switch r {
		case 'f':
			return game.Intent{Kind: game.IntentStartCombat}, cmdNone, true
		case 'p':
			return game.Intent{Kind: game.IntentUseItem, Item: 0, Target: in.ally}, cmdNone, true
		}
		return game.Intent{}, cmdNone, false
	}

	switch r {
	case 'a', ' ':
		return game.Intent{Kind: game.IntentAttack, Target: in.target}, cmdNone, true
	case 'd':
		return game.Intent{Kind: game.IntentDefend}, cmdNone, true
	case 'r':
		return game.Intent{Kind: game.IntentFlee}, cmdNone, true
	case 'p':
		return game.Intent{Kind: game.IntentUseItem, Item: 0, Target: in.ally}, cmdNone, true
	case '1', '2', '3':
		// Skills beyond the basic attack, in catalogue order.
		n := int(r - '1')
		var skills []game.Ability
		for _, ab := range in.abilities {
			if ab.ID != "attack" {
				skills = append(skills, ab)
			}
		}
		if n >= len(skills) {
			return game.Intent{}, cmdNone, false
		}
		ab := skills[n]
		target := in.target
		switch ab.Target {
		case game.TargetSelf:
			target = in.member
		case game.TargetAlly:
			target = in.ally
		}
		if ab.ID == "defend" {
			return game.Intent{Kind: game.IntentDefend}, cmdNone, true
		}
		return game.Intent{Kind: game.IntentAbility, Ability: ab.ID, Target: target}, cmdNone, true
	}
	return game.Intent{}, cmdNone, false
}
