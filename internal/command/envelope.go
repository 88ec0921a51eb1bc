package command

import "fmt"

// Envelope is the flat, serialisable form of a Command used by replay files.
type Envelope struct {
	Kind  Kind     `yaml:"kind"`
	ID    string   `yaml:"id,omitempty"`
	Speed int      `yaml:"speed,omitempty"`
	Cost  int      `yaml:"cost,omitempty"`
	IDs   []uint64 `yaml:"ids,omitempty"`
}

// Encode flattens c into an Envelope.
func Encode(c Command) Envelope {
	env := Envelope{Kind: c.Kind()}
	switch v := c.(type) {
	case ActivatePower:
		env.ID = v.PowerID
	case SetCombatSpeed:
		env.Speed = v.Speed
	case SelectClass:
		env.ID = v.ClassID
	case SelectPath:
		env.ID = v.PathID
	case SelectAbility:
		env.ID = v.AbilityID
	case SelectSubpath:
		env.ID = v.SubpathID
	case SwitchStance:
		env.ID = v.StanceID
	case DismissPopup:
		env.ID = v.Popup
	case MarkAnimationsConsumed:
		env.IDs = append([]uint64(nil), v.IDs...)
	case PurchaseItem:
		env.ID = v.ItemID
		env.Cost = v.Cost
	case EnhanceItem:
		env.ID = v.Slot
	}
	return env
}

// Decode rebuilds the Command held by env.
func Decode(env Envelope) (Command, error) {
	switch env.Kind {
	case KindActivatePower:
		return ActivatePower{PowerID: env.ID}, nil
	case KindBlock:
		return Block{}, nil
	case KindSetCombatSpeed:
		return SetCombatSpeed{Speed: env.Speed}, nil
	case KindTogglePause:
		return TogglePause{}, nil
	case KindSelectClass:
		return SelectClass{ClassID: env.ID}, nil
	case KindStartGame:
		return StartGame{}, nil
	case KindSelectPath:
		return SelectPath{PathID: env.ID}, nil
	case KindSelectAbility:
		return SelectAbility{AbilityID: env.ID}, nil
	case KindSelectSubpath:
		return SelectSubpath{SubpathID: env.ID}, nil
	case KindSwitchStance:
		return SwitchStance{StanceID: env.ID}, nil
	case KindAdvanceRoom:
		return AdvanceRoom{}, nil
	case KindGoToShop:
		return GoToShop{}, nil
	case KindLeaveShop:
		return LeaveShop{}, nil
	case KindRetryFloor:
		return RetryFloor{}, nil
	case KindAbandonRun:
		return AbandonRun{}, nil
	case KindDismissPopup:
		return DismissPopup{Popup: env.ID}, nil
	case KindMarkAnimations:
		return MarkAnimationsConsumed{IDs: append([]uint64(nil), env.IDs...)}, nil
	case KindPurchaseItem:
		return PurchaseItem{ItemID: env.ID, Cost: env.Cost}, nil
	case KindEnhanceItem:
		return EnhanceItem{Slot: env.ID}, nil
	default:
		return nil, fmt.Errorf("unknown command kind %q", env.Kind)
	}
}
