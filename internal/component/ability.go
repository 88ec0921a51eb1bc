package component

// PowerSlot is one power on the entity's bar. Rank starts at 0 and grows with
// upgrade choices.
type PowerSlot struct {
	ID   string
	Rank int
}

type Powers struct {
	Slots []PowerSlot
}

// Cooldown is measured in ms of effective time.
type Cooldown struct {
	Remaining float64
	Base      float64
}

// Cooldowns: an absent key means the ability is ready. Remaining never goes
// below zero; entries are deleted when they reach it.
type Cooldowns struct {
	Entries map[string]*Cooldown
}

// Casting is a one-tick marker attached by Input (player) or by the Power
// system's enemy intent step, and always removed by the Power system.
type Casting struct {
	PowerID string
}

// Stance is the passive-path replacement for a power bar.
type Stance struct {
	Active         string
	SwitchCooldown float64 // ms
	Enhancements   []string
}

// StatMods are additive bonuses; multiplicative stats apply them as (1+x).
type StatMods struct {
	Damage     float64
	Defense    float64
	Speed      float64
	CritChance float64
	Dodge      float64
	Lifesteal  float64
	Reflect    float64
	Regen      float64 // health per second
}

// Add returns the element-wise sum.
func (m StatMods) Add(o StatMods) StatMods {
	return StatMods{
		Damage:     m.Damage + o.Damage,
		Defense:    m.Defense + o.Defense,
		Speed:      m.Speed + o.Speed,
		CritChance: m.CritChance + o.CritChance,
		Dodge:      m.Dodge + o.Dodge,
		Lifesteal:  m.Lifesteal + o.Lifesteal,
		Reflect:    m.Reflect + o.Reflect,
		Regen:      m.Regen + o.Regen,
	}
}
