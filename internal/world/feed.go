package world

import "github.com/roguewave/sim/internal/component"

// Logf appends a combat log line. Numbers are formatted with the English
// printer (1,234). The oldest lines are dropped beyond the configured size.
func (s *State) Logf(format string, args ...any) {
	f := s.Feed()
	f.CombatLog = append(f.CombatLog, s.printer.Sprintf(format, args...))
	if s.logSize > 0 && len(f.CombatLog) > s.logSize {
		f.CombatLog = append([]string(nil), f.CombatLog[len(f.CombatLog)-s.logSize:]...)
	}
}

// Animate queues an animation event and returns its id.
func (s *State) Animate(kind component.AnimationKind, byPlayer bool, amount int, label string) uint64 {
	f := s.Feed()
	id := f.NextAnimationID
	f.NextAnimationID++
	f.Animations = append(f.Animations, component.AnimationEvent{
		ID:       id,
		Kind:     kind,
		Tick:     s.Tick,
		ByPlayer: byPlayer,
		Amount:   amount,
		Label:    label,
	})
	return id
}

// ConsumeAnimations drops the animation events with the given ids.
func (s *State) ConsumeAnimations(ids []uint64) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	f := s.Feed()
	kept := f.Animations[:0]
	for _, a := range f.Animations {
		if !drop[a.ID] {
			kept = append(kept, a)
		}
	}
	f.Animations = kept
}

// ShowPopup adds a popup, replacing an existing one of the same kind.
func (s *State) ShowPopup(kind component.PopupKind, msg string) {
	f := s.Feed()
	for i := range f.Popups {
		if f.Popups[i].Kind == kind {
			f.Popups[i].Message = msg
			return
		}
	}
	f.Popups = append(f.Popups, component.Popup{Kind: kind, Message: msg})
}

// ClosePopup removes the popup of kind. Reports whether one was open.
func (s *State) ClosePopup(kind component.PopupKind) bool {
	f := s.Feed()
	for i := range f.Popups {
		if f.Popups[i].Kind == kind {
			f.Popups = append(f.Popups[:i], f.Popups[i+1:]...)
			return true
		}
	}
	return false
}

// Sprintf formats with the same printer as the combat log.
func (s *State) Sprintf(format string, args ...any) string {
	return s.printer.Sprintf(format, args...)
}
