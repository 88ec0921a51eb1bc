// Package command defines the closed set of player intents accepted by the
// simulation and the queue that carries them into the tick loop.
package command

// Kind tags a command on the wire and in replay files.
type Kind string

const (
	KindActivatePower  Kind = "ACTIVATE_POWER"
	KindBlock          Kind = "BLOCK"
	KindSetCombatSpeed Kind = "SET_COMBAT_SPEED"
	KindTogglePause    Kind = "TOGGLE_PAUSE"
	KindSelectClass    Kind = "SELECT_CLASS"
	KindStartGame      Kind = "START_GAME"
	KindSelectPath     Kind = "SELECT_PATH"
	KindSelectAbility  Kind = "SELECT_ABILITY"
	KindSelectSubpath  Kind = "SELECT_SUBPATH"
	KindSwitchStance   Kind = "SWITCH_STANCE"
	KindAdvanceRoom    Kind = "ADVANCE_ROOM"
	KindGoToShop       Kind = "GO_TO_SHOP"
	KindLeaveShop      Kind = "LEAVE_SHOP"
	KindRetryFloor     Kind = "RETRY_FLOOR"
	KindAbandonRun     Kind = "ABANDON_RUN"
	KindDismissPopup   Kind = "DISMISS_POPUP"
	KindMarkAnimations Kind = "MARK_ANIMATIONS_CONSUMED"
	KindPurchaseItem   Kind = "PURCHASE_ITEM"
	KindEnhanceItem    Kind = "ENHANCE_ITEM"
)

// Command is one player intent. The set of implementations is closed; the
// Input system ignores anything it does not recognise.
type Command interface {
	Kind() Kind
}

type ActivatePower struct{ PowerID string }
type Block struct{}
type SetCombatSpeed struct{ Speed int }
type TogglePause struct{}
type SelectClass struct{ ClassID string }
type StartGame struct{}
type SelectPath struct{ PathID string }
type SelectAbility struct{ AbilityID string }
type SelectSubpath struct{ SubpathID string }
type SwitchStance struct{ StanceID string }
type AdvanceRoom struct{}
type GoToShop struct{}
type LeaveShop struct{}
type RetryFloor struct{}
type AbandonRun struct{}
type DismissPopup struct{ Popup string }
type MarkAnimationsConsumed struct{ IDs []uint64 }
type PurchaseItem struct {
	ItemID string
	Cost   int
}
type EnhanceItem struct{ Slot string }

func (ActivatePower) Kind() Kind          { return KindActivatePower }
func (Block) Kind() Kind                  { return KindBlock }
func (SetCombatSpeed) Kind() Kind         { return KindSetCombatSpeed }
func (TogglePause) Kind() Kind            { return KindTogglePause }
func (SelectClass) Kind() Kind            { return KindSelectClass }
func (StartGame) Kind() Kind              { return KindStartGame }
func (SelectPath) Kind() Kind             { return KindSelectPath }
func (SelectAbility) Kind() Kind          { return KindSelectAbility }
func (SelectSubpath) Kind() Kind          { return KindSelectSubpath }
func (SwitchStance) Kind() Kind           { return KindSwitchStance }
func (AdvanceRoom) Kind() Kind            { return KindAdvanceRoom }
func (GoToShop) Kind() Kind               { return KindGoToShop }
func (LeaveShop) Kind() Kind              { return KindLeaveShop }
func (RetryFloor) Kind() Kind             { return KindRetryFloor }
func (AbandonRun) Kind() Kind             { return KindAbandonRun }
func (DismissPopup) Kind() Kind           { return KindDismissPopup }
func (MarkAnimationsConsumed) Kind() Kind { return KindMarkAnimations }
func (PurchaseItem) Kind() Kind           { return KindPurchaseItem }
func (EnhanceItem) Kind() Kind            { return KindEnhanceItem }
