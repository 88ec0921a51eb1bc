package component

// Player tags the singleton player entity and carries its identity.
// Pure data, zero methods. Systems do all mutation.
type Player struct {
	Name      string
	ClassID   string
	PathID    string // empty until a path is chosen
	SubpathID string
}

// EnemyTier ranks a spawned enemy.
type EnemyTier string

const (
	TierNormal EnemyTier = "normal"
	TierElite  EnemyTier = "elite"
	TierBoss   EnemyTier = "boss"
)

// Enemy tags an enemy entity and carries the metadata generated at spawn.
type Enemy struct {
	TemplateID string
	Name       string
	Tier       EnemyTier
	Floor      int
	Room       int
	Abilities  []string // power ids the enemy may cast
	Intent     string   // ability it will cast next, "" = auto-attack only
	Modifiers  []string
	XPReward   int
	GoldReward int
	Lifesteal  float64 // from modifiers, fraction of damage dealt
}
