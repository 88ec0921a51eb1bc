package system

import "time"

// Phase defines execution ordering within a single tick. The order is the
// kernel's concurrency contract: Cooldown runs before AttackTiming so a
// cooldown expiring this tick is usable this tick, and Death runs after every
// damage-producing phase so each kill is seen exactly once.
type Phase int

const (
	PhaseInput        Phase = iota // 0: drain the command queue
	PhaseCooldown                  // 1: tick ability and stance cooldowns
	PhaseAttackTiming              // 2: accumulate toward attackInterval, attach attackReady
	PhaseCombat                    // 3: resolve attackReady
	PhasePower                     // 4: resolve casting markers
	PhaseStatusEffect              // 5: DoT/HoT, effect and buff expiry
	PhaseRegen                     // 6: health/resource regeneration
	PhaseDeath                     // 7: rewards, dying window, removal marks
	PhaseProgression               // 8: level ups and level-gated choices
	PhaseFlow                      // 9: scheduled transitions and spawns
	PhaseCleanup                   // 10: destroy queued entities
)

var phaseNames = [...]string{
	"input", "cooldown", "attack_timing", "combat", "power",
	"status_effect", "regen", "death", "progression", "flow", "cleanup",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every ECS system implements. dt is the effective
// delta for every phase after Input; Input receives the real delta.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
