package event

// Domain events emitted by the pipeline. Subscribers see them one tick later.

type EnemyDefeated struct {
	Tick     uint64
	Name     string
	Tier     string
	Floor    int
	Room     int
	XPReward int
	Gold     int
}

type PlayerDefeated struct {
	Tick  uint64
	Floor int
	Room  int
	Level int
}

type LevelGained struct {
	Tick  uint64
	Level int
}

type PowerCast struct {
	Tick     uint64
	PowerID  string
	ByPlayer bool
	Damage   int
	Healed   int
	Killed   bool
}

type FloorCompleted struct {
	Tick  uint64
	Floor int
}

type RunWon struct {
	Tick  uint64
	Floor int
	Level int
}
