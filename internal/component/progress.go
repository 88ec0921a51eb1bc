package component

type Progress struct {
	Level    int
	XP       int
	XPToNext int
	Gold     int
}

// EquipSlot names an equipment slot.
type EquipSlot string

const (
	SlotWeapon    EquipSlot = "weapon"
	SlotArmor     EquipSlot = "armor"
	SlotAccessory EquipSlot = "accessory"
)

type EquippedItem struct {
	ItemID string
	Level  int // enhancement level
}

type Equipment struct {
	Slots map[EquipSlot]EquippedItem
}

// Dying marks an entity whose health reached 0. It still exists so the death
// animation can play but counts as defeated for every combat purpose.
type Dying struct {
	StartedAtTick uint64
	Duration      float64 // ms
	Elapsed       float64
}
