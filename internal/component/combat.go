package component

type Attack struct {
	Damage         int
	CritChance     float64 // 0..1, ignored for enemies
	CritMultiplier float64 // 0 = use the balance default
}

type Defense struct {
	Value int
}

// Fortune feeds the player's dodge chance.
type Fortune struct {
	Value int
}

// Speed drives auto-attack timing. AttackInterval and Accumulated are in ms.
// Threshold is the interval after slows and speed buffs, as last timed.
type Speed struct {
	Value          float64
	AttackInterval float64
	Threshold      float64
	Accumulated    float64
}

// AttackReady is a one-tick marker attached by AttackTiming and always
// removed by Combat.
type AttackReady struct {
	Damage int
	IsCrit bool
}

// Blocking reduces the next incoming hit once.
type Blocking struct {
	Reduction float64
}

// Regen adds health and mana per second of effective time.
type Regen struct {
	HealthPerSecond float64
	ManaPerSecond   float64
	HealthCarry     float64
	ManaCarry       float64
}
