// Package battle holds the mutable battle state types — Player, Field,
// State, and History — plus the Action wire format. The event applier
// (internal/events) is the only code permitted to mutate a State's fields;
// everything else reads it.
package battle

import "github.com/Mori-kamiyama/nikopoke/internal/creature"

// FieldEffect is an entry of Field.Global or a per-side list: a (id,
// remainingTurns|nil, data) triple with a duration counter.
type FieldEffect struct {
	ID             string
	RemainingTurns *int
	Data           map[string]interface{}
}

// Tick decrements RemainingTurns by one if set, reporting whether the effect
// should now be removed.
func (f *FieldEffect) Tick() bool {
	if f.RemainingTurns == nil {
		return false
	}
	*f.RemainingTurns--
	return *f.RemainingTurns <= 0
}

// weatherIDs is the closed set of field-effect ids treated as weather; at
// most one may be active in Field.Global at a time.
var weatherIDs = map[string]bool{
	"sun": true, "rain": true, "hail": true, "sandstorm": true,
}

// IsWeather reports whether id names one of the four weather kinds.
func IsWeather(id string) bool {
	return weatherIDs[id]
}

// Field is the shared battlefield state: a global effect list (weather,
// hazards with global scope) plus side-local effect lists keyed by player id.
type Field struct {
	Global []FieldEffect
	Sides  map[string][]FieldEffect
}

// NewField returns an empty field with an initialized Sides map.
func NewField() Field {
	return Field{Sides: map[string][]FieldEffect{}}
}

// FindGlobal returns the first global field effect with the given id.
func (f *Field) FindGlobal(id string) (*FieldEffect, bool) {
	for i := range f.Global {
		if f.Global[i].ID == id {
			return &f.Global[i], true
		}
	}
	return nil, false
}

// CurrentWeather returns the active weather id, if any.
func (f *Field) CurrentWeather() (string, bool) {
	for _, e := range f.Global {
		if IsWeather(e.ID) {
			return e.ID, true
		}
	}
	return "", false
}

// Player is one side of a battle: an id, display name, ordered team of up to
// six creatures, the index of the currently active slot, and a scratch
// field recording the ability of the last creature that fainted on this
// side (consumed by Receiver / Power of Alchemy).
type Player struct {
	ID                 string
	Name               string
	Team               []*creature.Creature
	ActiveSlot         int
	LastFaintedAbility string
}

// Active returns the currently active creature for this player.
func (p *Player) Active() *creature.Creature {
	if p.ActiveSlot < 0 || p.ActiveSlot >= len(p.Team) {
		return nil
	}
	return p.Team[p.ActiveSlot]
}

// AliveCount returns the number of team members with HP > 0.
func (p *Player) AliveCount() int {
	n := 0
	for _, c := range p.Team {
		if !c.IsFainted() {
			n++
		}
	}
	return n
}

// State is the full battle state: exactly two players, the shared field, a
// turn counter starting at 0, an ordered human-readable log, and an
// optional History for replay.
type State struct {
	Players [2]*Player
	Field   Field
	Turn    int
	Log     []string
	History *History
}

// NewState constructs an initial battle state at turn 0 with both players'
// active slots at index 0.
func NewState(p0, p1 *Player, recordHistory bool) *State {
	s := &State{
		Players: [2]*Player{p0, p1},
		Field:   NewField(),
		Turn:    0,
	}
	if recordHistory {
		s.History = &History{}
	}
	return s
}

// PlayerByID returns the player with the given id, or nil.
func (s *State) PlayerByID(id string) *Player {
	for _, p := range s.Players {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

// Opponent returns the other player relative to playerID.
func (s *State) Opponent(playerID string) *Player {
	for _, p := range s.Players {
		if p != nil && p.ID != playerID {
			return p
		}
	}
	return nil
}

// LogLine appends a line to the battle log.
func (s *State) LogLine(line string) {
	s.Log = append(s.Log, line)
}

// Clone performs a deep copy of the state, suitable for search policies that
// need to branch without sharing mutable state across goroutines.
func (s *State) Clone() *State {
	clone := &State{
		Turn: s.Turn,
		Log:  append([]string(nil), s.Log...),
	}
	for i, p := range s.Players {
		clone.Players[i] = clonePlayer(p)
	}
	clone.Field = cloneField(s.Field)
	if s.History != nil {
		clone.History = s.History.Clone()
	}
	return clone
}

func clonePlayer(p *Player) *Player {
	if p == nil {
		return nil
	}
	cp := &Player{
		ID:                 p.ID,
		Name:               p.Name,
		ActiveSlot:         p.ActiveSlot,
		LastFaintedAbility: p.LastFaintedAbility,
	}
	cp.Team = make([]*creature.Creature, len(p.Team))
	for i, c := range p.Team {
		cp.Team[i] = cloneCreature(c)
	}
	return cp
}

func cloneCreature(c *creature.Creature) *creature.Creature {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Types = append([]string(nil), c.Types...)
	cp.Moves = append([]creature.MoveSlot(nil), c.Moves...)
	for i, m := range cp.Moves {
		if m.PP != nil {
			v := *m.PP
			cp.Moves[i].PP = &v
		}
	}
	cp.Stages = make(map[creature.StageKey]int, len(c.Stages))
	for k, v := range c.Stages {
		cp.Stages[k] = v
	}
	cp.Statuses = make([]creature.VolatileStatus, len(c.Statuses))
	for i, st := range c.Statuses {
		cp.Statuses[i] = cloneStatus(st)
	}
	cp.AbilityFlags = make(map[string]bool, len(c.AbilityFlags))
	for k, v := range c.AbilityFlags {
		cp.AbilityFlags[k] = v
	}
	cp.Scratch = make(map[string]interface{}, len(c.Scratch))
	for k, v := range c.Scratch {
		cp.Scratch[k] = v
	}
	return &cp
}

func cloneStatus(s creature.VolatileStatus) creature.VolatileStatus {
	cp := s
	if s.RemainingTurns != nil {
		v := *s.RemainingTurns
		cp.RemainingTurns = &v
	}
	cp.Data = cloneData(s.Data)
	return cp
}

func cloneField(f Field) Field {
	cp := Field{
		Global: make([]FieldEffect, len(f.Global)),
		Sides:  make(map[string][]FieldEffect, len(f.Sides)),
	}
	for i, e := range f.Global {
		cp.Global[i] = cloneFieldEffect(e)
	}
	for k, list := range f.Sides {
		cloned := make([]FieldEffect, len(list))
		for i, e := range list {
			cloned[i] = cloneFieldEffect(e)
		}
		cp.Sides[k] = cloned
	}
	return cp
}

func cloneFieldEffect(e FieldEffect) FieldEffect {
	cp := e
	if e.RemainingTurns != nil {
		v := *e.RemainingTurns
		cp.RemainingTurns = &v
	}
	cp.Data = cloneData(e.Data)
	return cp
}

func cloneData(d map[string]interface{}) map[string]interface{} {
	if d == nil {
		return nil
	}
	cp := make(map[string]interface{}, len(d))
	for k, v := range d {
		cp[k] = v
	}
	return cp
}
