package component

// RunPhase is the coarse state of a run.
type RunPhase string

const (
	PhaseMenu          RunPhase = "menu"
	PhaseCombat        RunPhase = "combat"
	PhaseShop          RunPhase = "shop"
	PhaseFloorComplete RunPhase = "floor_complete"
	PhaseDefeat        RunPhase = "defeat"
	PhaseVictory       RunPhase = "victory"
)

// Game is held by the GameState singleton.
type Game struct {
	Phase         RunPhase
	Floor         int
	Room          int
	CombatSpeed   int // 1, 2 or 3
	Paused        bool
	SelectedClass string
	RunID         string
	RunTicks      uint64 // ticks spent in the combat phase
}

// ScheduledTransition moves the run to Phase after Delay ms of effective time.
type ScheduledTransition struct {
	Phase RunPhase
	Delay float64
}

// ScheduledSpawn advances the room after Delay ms of effective time.
type ScheduledSpawn struct {
	Delay float64
}

// Schedule holds the two countdown queues owned by Flow.
type Schedule struct {
	Transitions []ScheduledTransition
	Spawns      []ScheduledSpawn
}

// AnimationKind tells the presentation layer what to play.
type AnimationKind string

const (
	AnimAttack  AnimationKind = "attack"
	AnimCrit    AnimationKind = "crit"
	AnimDodge   AnimationKind = "dodge"
	AnimBlock   AnimationKind = "block"
	AnimPower   AnimationKind = "power"
	AnimHeal    AnimationKind = "heal"
	AnimDeath   AnimationKind = "death"
	AnimLevelUp AnimationKind = "level_up"
	AnimSpawn   AnimationKind = "spawn"
	AnimDoT     AnimationKind = "dot"
)

type AnimationEvent struct {
	ID       uint64
	Kind     AnimationKind
	Tick     uint64
	ByPlayer bool
	Amount   int
	Label    string
}

// PopupKind identifies a UI popup. Choice popups cannot be dismissed; they
// close when the matching selection command is accepted.
type PopupKind string

const (
	PopupLevelUp      PopupKind = "level_up"
	PopupPathChoice   PopupKind = "path_choice"
	PopupSubpathPick  PopupKind = "subpath_choice"
	PopupAbilityPick  PopupKind = "ability_choice"
	PopupFloorSummary PopupKind = "floor_summary"
)

// Dismissible reports whether DISMISS_POPUP may close the popup.
func (k PopupKind) Dismissible() bool {
	return k == PopupLevelUp || k == PopupFloorSummary
}

type Popup struct {
	Kind    PopupKind
	Message string
}

// ChoiceKind is what a pending selection grants.
type ChoiceKind string

const (
	ChoicePower   ChoiceKind = "power"
	ChoiceUpgrade ChoiceKind = "upgrade"
	ChoiceStance  ChoiceKind = "stance_enhancement"
)

// Choice is one option on an ability-choice popup.
type Choice struct {
	ID   string
	Kind ChoiceKind
}

// Feed holds UI-facing output accumulated by systems.
type Feed struct {
	CombatLog       []string
	Animations      []AnimationEvent
	NextAnimationID uint64
	Popups          []Popup
	PathPending     bool
	SubpathPending  bool
	AbilityChoices  []Choice
}
