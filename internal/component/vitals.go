package component

// Health invariant: 0 <= Current <= Max.
type Health struct {
	Current int
	Max     int
}

// Mana is the legacy resource pool used until a path with its own resource
// is chosen.
type Mana struct {
	Current int
	Max     int
}

// ResourceBehavior decides how casting interacts with a PathResource.
type ResourceBehavior string

const (
	// ResourceSpend pools are consumed by casting; a cast needs Current >= cost.
	ResourceSpend ResourceBehavior = "spend"
	// ResourceGain pools fill up with casting; a cast needs Current+cost <= Max.
	ResourceGain ResourceBehavior = "gain"
)

// ResourceThreshold grants bonus power damage while the pool is at or above Value.
type ResourceThreshold struct {
	Value       int
	DamageBonus float64
}

// PathResource invariant: 0 <= Current <= Max.
type PathResource struct {
	Name       string
	Current    int
	Max        int
	Behavior   ResourceBehavior
	OnHitGain  int     // added when the owner's auto-attack lands
	PerSecond  float64 // regen (spend pools) or decay (gain pools)
	Thresholds []ResourceThreshold
	Carry      float64 // fractional regen/decay not yet applied
}

// Shield absorbs damage before health.
type Shield struct {
	Amount    int
	Remaining float64 // ms; <= 0 with Amount > 0 means it lasts until broken
}
