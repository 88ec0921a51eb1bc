package world

import (
	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// State owns every entity of a run and the component stores systems read and
// write. Single-goroutine access only (game loop).
type State struct {
	World *ecs.World

	Players   *ecs.Store[component.Player]
	Enemies   *ecs.Store[component.Enemy]
	Games     *ecs.Store[component.Game]
	Schedules *ecs.Store[component.Schedule]
	Feeds     *ecs.Store[component.Feed]

	Healths   *ecs.Store[component.Health]
	Manas     *ecs.Store[component.Mana]
	Resources *ecs.Store[component.PathResource]
	Shields   *ecs.Store[component.Shield]

	Attacks   *ecs.Store[component.Attack]
	Defenses  *ecs.Store[component.Defense]
	Fortunes  *ecs.Store[component.Fortune]
	Speeds    *ecs.Store[component.Speed]
	Ready     *ecs.Store[component.AttackReady]
	Blocking  *ecs.Store[component.Blocking]
	Regens    *ecs.Store[component.Regen]
	Powers    *ecs.Store[component.Powers]
	Cooldowns *ecs.Store[component.Cooldowns]
	Casting   *ecs.Store[component.Casting]
	Stances   *ecs.Store[component.Stance]
	Statuses  *ecs.Store[component.StatusEffects]
	Buffs     *ecs.Store[component.Buffs]
	Bonuses   *ecs.Store[component.StatMods] // permanent subpath bonuses
	Progress  *ecs.Store[component.Progress]
	Equipment *ecs.Store[component.Equipment]
	Dying     *ecs.Store[component.Dying]

	// Tick is the number of completed ticks since the kernel was created.
	Tick uint64

	gameID  ecs.EntityID
	logSize int
	printer *message.Printer
}

// NewState creates the stores and the GameState singleton. logSize bounds the
// combat log kept on the Feed.
func NewState(logSize int) *State {
	w := ecs.NewWorld()
	s := &State{
		World:     w,
		Players:   ecs.NewStoreIn[component.Player](w),
		Enemies:   ecs.NewStoreIn[component.Enemy](w),
		Games:     ecs.NewStoreIn[component.Game](w),
		Schedules: ecs.NewStoreIn[component.Schedule](w),
		Feeds:     ecs.NewStoreIn[component.Feed](w),
		Healths:   ecs.NewStoreIn[component.Health](w),
		Manas:     ecs.NewStoreIn[component.Mana](w),
		Resources: ecs.NewStoreIn[component.PathResource](w),
		Shields:   ecs.NewStoreIn[component.Shield](w),
		Attacks:   ecs.NewStoreIn[component.Attack](w),
		Defenses:  ecs.NewStoreIn[component.Defense](w),
		Fortunes:  ecs.NewStoreIn[component.Fortune](w),
		Speeds:    ecs.NewStoreIn[component.Speed](w),
		Ready:     ecs.NewStoreIn[component.AttackReady](w),
		Blocking:  ecs.NewStoreIn[component.Blocking](w),
		Regens:    ecs.NewStoreIn[component.Regen](w),
		Powers:    ecs.NewStoreIn[component.Powers](w),
		Cooldowns: ecs.NewStoreIn[component.Cooldowns](w),
		Casting:   ecs.NewStoreIn[component.Casting](w),
		Stances:   ecs.NewStoreIn[component.Stance](w),
		Statuses:  ecs.NewStoreIn[component.StatusEffects](w),
		Buffs:     ecs.NewStoreIn[component.Buffs](w),
		Bonuses:   ecs.NewStoreIn[component.StatMods](w),
		Progress:  ecs.NewStoreIn[component.Progress](w),
		Equipment: ecs.NewStoreIn[component.Equipment](w),
		Dying:     ecs.NewStoreIn[component.Dying](w),
		logSize:   logSize,
		printer:   message.NewPrinter(language.English),
	}
	s.createGameState()
	return s
}

func (s *State) createGameState() {
	s.gameID = s.World.CreateEntity()
	s.Games.Set(s.gameID, &component.Game{Phase: component.PhaseMenu, CombatSpeed: 1})
	s.Schedules.Set(s.gameID, &component.Schedule{})
	s.Feeds.Set(s.gameID, &component.Feed{NextAnimationID: 1})
}

// Reset destroys every entity and recreates an empty GameState in the menu
// phase. Tick keeps counting.
func (s *State) Reset() {
	s.World.Reset()
	s.createGameState()
}

// --- GameState singleton ---

func (s *State) GameID() ecs.EntityID { return s.gameID }

func (s *State) Game() *component.Game {
	g, _ := s.Games.Get(s.gameID)
	return g
}

func (s *State) Schedule() *component.Schedule {
	sc, _ := s.Schedules.Get(s.gameID)
	return sc
}

func (s *State) Feed() *component.Feed {
	f, _ := s.Feeds.Get(s.gameID)
	return f
}

// InCombat reports whether the run is in the combat phase.
func (s *State) InCombat() bool {
	return s.Game().Phase == component.PhaseCombat
}

// --- Role lookups ---
// Cross-entity relationships are resolved here on every call, never stored.

// Player returns the player entity, if one exists.
func (s *State) Player() (ecs.EntityID, bool) {
	ids := s.Players.Entities()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// ActiveEnemy returns the first enemy that is not defeated.
func (s *State) ActiveEnemy() (ecs.EntityID, bool) {
	for _, id := range ecs.Query(s.Enemies, s.Healths) {
		if !s.Defeated(id) {
			return id, true
		}
	}
	return 0, false
}

// Opponent resolves the entity id fights against: the player for an enemy,
// the active enemy for the player.
func (s *State) Opponent(id ecs.EntityID) (ecs.EntityID, bool) {
	if s.Players.Has(id) {
		return s.ActiveEnemy()
	}
	if s.Enemies.Has(id) {
		p, ok := s.Player()
		if !ok || s.Defeated(p) {
			return 0, false
		}
		return p, true
	}
	return 0, false
}

// Defeated reports whether id is gone, dying, or at zero health.
func (s *State) Defeated(id ecs.EntityID) bool {
	if !s.World.Alive(id) || s.Dying.Has(id) {
		return true
	}
	h, ok := s.Healths.Get(id)
	return ok && h.Current <= 0
}

// Stunned reports whether id has an active stun.
func (s *State) Stunned(id ecs.EntityID) bool {
	st, ok := s.Statuses.Get(id)
	if !ok {
		return false
	}
	for _, e := range st.Active {
		if e.Type == component.StatusStun && e.Remaining > 0 {
			return true
		}
	}
	return false
}

// DisplayName is the name used in combat log lines.
func (s *State) DisplayName(id ecs.EntityID) string {
	if p, ok := s.Players.Get(id); ok {
		return p.Name
	}
	if e, ok := s.Enemies.Get(id); ok {
		return e.Name
	}
	return "?"
}
