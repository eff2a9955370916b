package game

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

type Side string

const (
	SideParty   Side = "party"
	SideMonster Side = "monster"
)

// Combatant points at one entity in the party or the monster list.
type Combatant struct {
	Side  Side `json:"side"`
	Index int  `json:"index"`
}

type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeFled    Outcome = "fled"
)

// Combat is one battle. While Active, exploration is frozen. Once resolved
// the session stays on the state with Outcome set until the next battle.
type Combat struct {
	Active    bool            `json:"active"`
	Monsters  []Monster       `json:"monsters"`
	TurnOrder []Combatant     `json:"turnOrder"`
	Current   int             `json:"currentActor"`
	Round     int             `json:"round"`
	Defending map[string]bool `json:"defending"`
	Outcome   Outcome         `json:"outcome,omitempty"`
	Log       []string        `json:"log"`
	Loot      *Loot           `json:"loot,omitempty"`
}

// Loot is what a victory paid out.
type Loot struct {
	XP        int        `json:"xp"`
	Gold      int        `json:"gold"`
	Potion    *Potion    `json:"potion,omitempty"`
	Equipment *Equipment `json:"equipment,omitempty"`
	LevelUps  []string   `json:"levelUps,omitempty"`
}

const maxCombatLog = 50

// battle bundles what one resolver step touches.
type battle struct {
	st  *GameState
	c   *Combat
	cat *Catalog
	rng *rand.Rand
	res *StepResult
}

func (b *battle) log(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	b.c.Log = append(b.c.Log, line)
	if len(b.c.Log) > maxCombatLog {
		b.c.Log = b.c.Log[len(b.c.Log)-maxCombatLog:]
	}
	b.res.Log = append(b.res.Log, line)
}

func (b *battle) emit(e Event) { b.res.Events = append(b.res.Events, e) }

func (b *battle) entity(who Combatant) *Entity {
	if who.Side == SideParty {
		if who.Index >= 0 && who.Index < len(b.st.Party) {
			return &b.st.Party[who.Index].Entity
		}
		return nil
	}
	if who.Index >= 0 && who.Index < len(b.c.Monsters) {
		return &b.c.Monsters[who.Index].Entity
	}
	return nil
}

func (b *battle) speed(who Combatant) int {
	if who.Side == SideParty {
		return b.st.Party[who.Index].Effective().Speed
	}
	return b.c.Monsters[who.Index].Speed
}

// rebuildOrder lists living combatants by descending effective speed. Ties
// keep the party ahead of monsters and lower indices first.
func (b *battle) rebuildOrder() {
	var order []Combatant
	for i := range b.st.Party {
		if b.st.Party[i].Alive() {
			order = append(order, Combatant{SideParty, i})
		}
	}
	for i := range b.c.Monsters {
		if b.c.Monsters[i].Alive() {
			order = append(order, Combatant{SideMonster, i})
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return b.speed(order[i]) > b.speed(order[j])
	})
	b.c.TurnOrder = order
	b.c.Current = 0
}

// Actor returns the combatant whose turn it is.
func (c *Combat) Actor() (Combatant, bool) {
	if c == nil || !c.Active || c.Current < 0 || c.Current >= len(c.TurnOrder) {
		return Combatant{}, false
	}
	return c.TurnOrder[c.Current], true
}

func (b *battle) start(monsters []Monster) {
	b.st.Combat = &Combat{
		Active:    true,
		Monsters:  monsters,
		Round:     1,
		Defending: map[string]bool{},
	}
	b.c = b.st.Combat
	names := make([]string, len(monsters))
	for i, m := range monsters {
		names[i] = m.Name
	}
	b.log("Monsters appear: %s!", joinNames(names))
	b.emit(EventEncounter)
	b.rebuildOrder()
	b.settle()
}

// settle skips dead actors and plays monster turns until a living party
// member is up or the battle ends.
func (b *battle) settle() {
	for b.c.Active {
		if b.c.Current >= len(b.c.TurnOrder) {
			b.endRound()
			if !b.c.Active {
				return
			}
			continue
		}
		who := b.c.TurnOrder[b.c.Current]
		e := b.entity(who)
		if e == nil || !e.Alive() {
			b.c.Current++
			continue
		}
		if who.Side == SideParty {
			delete(b.c.Defending, e.ID)
			return
		}
		b.monsterTurn(who.Index)
		if b.checkTerminal() {
			return
		}
		b.c.Current++
	}
}

func (b *battle) endRound() {
	if b.checkTerminal() {
		return
	}
	b.c.Round++
	b.rebuildOrder()
}

// finishTurn is called after a party action that used the turn.
func (b *battle) finishTurn() {
	if b.checkTerminal() {
		return
	}
	b.c.Current++
	b.settle()
}

func (b *battle) monsterTurn(i int) {
	m := &b.c.Monsters[i]
	var living []int
	for j := range b.st.Party {
		if b.st.Party[j].Alive() {
			living = append(living, j)
		}
	}
	if len(living) == 0 {
		return
	}
	p := &b.st.Party[living[b.rng.IntN(len(living))]]
	dmg := Damage(m.Attack, 1.0, p.Effective().Defense)
	if b.c.Defending[p.ID] {
		dmg = max(1, dmg/2)
		b.emit(EventBlock)
	} else {
		b.emit(EventHurt)
	}
	p.TakeDamage(dmg)
	b.log("%s hits %s for %d damage.", m.Name, p.Name, dmg)
	if !p.Alive() {
		b.log("%s falls!", p.Name)
	}
}

// checkTerminal resolves the battle if it is over: victory first, then
// defeat, then a successful flee.
func (b *battle) checkTerminal() bool {
	if !b.c.Active {
		return true
	}
	switch {
	case b.allMonstersDead():
		b.victory()
	case LivingCount(b.st.Party) == 0:
		b.c.Active = false
		b.c.Outcome = OutcomeDefeat
		b.st.GameOver = true
		b.log("The party has been defeated.")
		b.emit(EventDefeat)
	case b.c.Outcome == OutcomeFled:
		b.c.Active = false
	default:
		return false
	}
	return true
}

func (b *battle) allMonstersDead() bool {
	for i := range b.c.Monsters {
		if b.c.Monsters[i].Alive() {
			return false
		}
	}
	return true
}

func (b *battle) victory() {
	b.c.Active = false
	b.c.Outcome = OutcomeVictory
	loot := &Loot{}
	for _, m := range b.c.Monsters {
		loot.XP += m.XPValue
		loot.Gold += m.GoldValue
	}
	for i := range b.st.Party {
		p := &b.st.Party[i]
		if n := p.GainXP(loot.XP, b.cat.LevelGains); n > 0 {
			loot.LevelUps = append(loot.LevelUps, p.Name)
			b.log("%s reaches level %d!", p.Name, p.Level)
		}
	}
	b.st.Gold += loot.Gold
	b.log("Victory! %d XP and %d gold.", loot.XP, loot.Gold)
	if pot, ok := b.cat.RollPotionDrop(b.st.Level, b.rng); ok {
		b.st.PotionInventory = append(b.st.PotionInventory, pot)
		loot.Potion = &pot
		b.log("Found a %s.", pot.Name)
	}
	if item, ok := b.cat.RollEquipmentDrop(b.st.Level, b.rng); ok {
		b.st.EquipmentInventory = append(b.st.EquipmentInventory, item)
		loot.Equipment = &item
		b.log("Found %s.", item.DisplayName())
	}
	b.c.Loot = loot
	b.emit(EventVictory)
	b.st.descend(b.rng)
	b.log("The party descends to floor %d.", b.st.Level)
}

// partyAct runs one party action for the member whose turn it is. A
// rejected action leaves the turn with the same member.
func (b *battle) partyAct(in Intent) {
	who, ok := b.c.Actor()
	if !ok || who.Side != SideParty {
		b.res.Message = "It is not the party's turn."
		return
	}
	p := &b.st.Party[who.Index]

	switch in.Kind {
	case IntentAttack:
		ab, _ := b.cat.Ability(p.Job, "attack")
		if ab.ID == "" {
			ab = Ability{ID: "attack", Name: "Attack", Kind: AbilityAttack, Power: 1}
		}
		if !b.strike(p, ab, in.Target) {
			return
		}
	case IntentAbility:
		ab, ok := b.cat.Ability(p.Job, in.Ability)
		if !ok {
			b.res.Message = fmt.Sprintf("%s does not know %q.", p.Name, in.Ability)
			return
		}
		if !b.useAbility(p, who.Index, ab, in.Target) {
			return
		}
	case IntentDefend:
		b.c.Defending[p.ID] = true
		b.log("%s takes a defensive stance.", p.Name)
	case IntentUseItem:
		if !b.usePotion(p, in.Item, in.Target) {
			return
		}
	case IntentFlee:
		if b.rng.Float64() < FleeChance(b.st.Party, b.c.Monsters) {
			b.c.Outcome = OutcomeFled
			b.log("The party escapes!")
			b.emit(EventFlee)
		} else {
			b.log("%s tries to flee but is cut off.", p.Name)
		}
	default:
		b.res.Message = fmt.Sprintf("Unknown combat action %q.", in.Kind)
		return
	}
	b.finishTurn()
}

func (b *battle) useAbility(p *Player, self int, ab Ability, target int) bool {
	if ab.ID == "defend" || ab.Kind == AbilityBuff {
		b.c.Defending[p.ID] = true
		b.log("%s takes a defensive stance.", p.Name)
		return true
	}
	if p.MP < ab.MPCost {
		b.res.Message = fmt.Sprintf("%s needs %d MP for %s.", p.Name, ab.MPCost, ab.Name)
		b.log("%s lacks the MP for %s.", p.Name, ab.Name)
		return false
	}
	switch ab.Kind {
	case AbilityAttack:
		return b.strike(p, ab, target)
	case AbilityHeal:
		idx := target
		if ab.Target == TargetSelf {
			idx = self
		}
		if idx < 0 || idx >= len(b.st.Party) || !b.st.Party[idx].Alive() {
			b.res.Message = "That ally cannot be healed."
			return false
		}
		p.MP -= ab.MPCost
		ally := &b.st.Party[idx]
		n := ally.Heal(int(ScaledPower(ab.Power, p.Level)))
		b.log("%s casts %s: %s recovers %d HP.", p.Name, ab.Name, ally.Name, n)
		b.emit(EventHeal)
		return true
	}
	b.res.Message = fmt.Sprintf("%s cannot be used here.", ab.Name)
	return false
}

// strike resolves an attack ability against a living monster. MP is only
// spent once the target is known to be valid.
func (b *battle) strike(p *Player, ab Ability, target int) bool {
	idx, ok := b.monsterTarget(target)
	if !ok {
		b.res.Message = "There is nothing to attack."
		return false
	}
	p.MP -= ab.MPCost
	m := &b.c.Monsters[idx]
	dmg := Damage(p.Effective().Attack, ScaledPower(ab.Power, p.Level), m.Defense)
	m.TakeDamage(dmg)
	if ab.ID == "attack" {
		b.log("%s attacks %s for %d damage.", p.Name, m.Name, dmg)
		b.emit(EventHit)
	} else {
		b.log("%s uses %s on %s for %d damage.", p.Name, ab.Name, m.Name, dmg)
		b.emit(EventSpell)
	}
	if !m.Alive() {
		b.log("%s is defeated.", m.Name)
	}
	return true
}

// monsterTarget returns target if it names a living monster, else the first
// living one.
func (b *battle) monsterTarget(target int) (int, bool) {
	if target >= 0 && target < len(b.c.Monsters) && b.c.Monsters[target].Alive() {
		return target, true
	}
	for i := range b.c.Monsters {
		if b.c.Monsters[i].Alive() {
			return i, true
		}
	}
	return 0, false
}

func (b *battle) usePotion(p *Player, item, target int) bool {
	if item < 0 || item >= len(b.st.PotionInventory) {
		b.res.Message = "No such potion."
		return false
	}
	if target < 0 || target >= len(b.st.Party) || !b.st.Party[target].Alive() {
		b.res.Message = "That ally cannot drink a potion."
		return false
	}
	pot := b.st.PotionInventory[item]
	ally := &b.st.Party[target]
	hp := ally.Heal(pot.Heal)
	mp := ally.RestoreMP(pot.Mana)
	b.st.PotionInventory = append(b.st.PotionInventory[:item], b.st.PotionInventory[item+1:]...)
	b.log("%s gives %s a %s (+%d HP, +%d MP).", p.Name, ally.Name, pot.Name, hp, mp)
	b.emit(EventHeal)
	return true
}

// FleeChance is 0.5 plus 2% per point of average speed the party has over
// the living monsters, clamped to [0.1, 0.9].
func FleeChance(party []Player, monsters []Monster) float64 {
	var ps, pn, ms, mn int
	for i := range party {
		if party[i].Alive() {
			ps += party[i].Effective().Speed
			pn++
		}
	}
	for i := range monsters {
		if monsters[i].Alive() {
			ms += monsters[i].Speed
			mn++
		}
	}
	if pn == 0 {
		return 0.1
	}
	chance := 0.5
	if mn > 0 {
		chance += 0.02 * (float64(ps)/float64(pn) - float64(ms)/float64(mn))
	}
	return min(max(chance, 0.1), 0.9)
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	out := names[0]
	for _, n := range names[1 : len(names)-1] {
		out += ", " + n
	}
	return out + " and " + names[len(names)-1]
}
