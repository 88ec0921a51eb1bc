package component

// StatusType names a status effect kind.
type StatusType string

const (
	StatusStun   StatusType = "stun"
	StatusWeaken StatusType = "weaken" // Magnitude = fraction of outgoing damage removed
	StatusSlow   StatusType = "slow"   // Magnitude = fraction added to attack interval
	StatusPoison StatusType = "poison" // Magnitude = damage per pulse
	StatusBleed  StatusType = "bleed"
	StatusBurn   StatusType = "burn"
	StatusRegen  StatusType = "regen" // Magnitude = healing per pulse
)

// IsDamageOverTime reports whether the type deals damage per pulse.
func (t StatusType) IsDamageOverTime() bool {
	return t == StatusPoison || t == StatusBleed || t == StatusBurn
}

// StatusEffect is one timed entry. Times are ms of effective time.
type StatusEffect struct {
	Type      StatusType
	Source    string // power id that applied it
	Magnitude float64
	Remaining float64
	Interval  float64 // pulse period for DoT/HoT, 0 = no pulses
	Elapsed   float64
}

type StatusEffects struct {
	Active []StatusEffect
}

// BuffStat names the stat a buff multiplies.
type BuffStat string

const (
	BuffDamage     BuffStat = "damage"
	BuffDefense    BuffStat = "defense"
	BuffSpeed      BuffStat = "speed"
	BuffCritChance BuffStat = "crit_chance"
)

// Buff multiplies Stat by Multiplier while Remaining > 0 (crit_chance adds
// Multiplier-1 instead).
type Buff struct {
	Stat       BuffStat
	Source     string
	Multiplier float64
	Remaining  float64
}

type Buffs struct {
	Active []Buff
}
