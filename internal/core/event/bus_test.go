package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventsArriveOneTickLater(t *testing.T) {
	b := NewBus()
	var got []EnemyDefeated
	Subscribe(b, func(e EnemyDefeated) { got = append(got, e) })

	Emit(b, EnemyDefeated{Name: "Goblin"})
	Emit(b, EnemyDefeated{Name: "Orc"})
	assert.Equal(t, 2, b.Pending())

	b.DispatchAll() // front buffer still empty
	assert.Empty(t, got)

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []string{"Goblin", "Orc"}, []string{got[0].Name, got[1].Name})
	assert.Equal(t, 0, b.Pending())
}

func TestHandlersOnlySeeTheirType(t *testing.T) {
	b := NewBus()
	levels, wins := 0, 0
	Subscribe(b, func(LevelGained) { levels++ })
	Subscribe(b, func(RunWon) { wins++ })

	Emit(b, LevelGained{Level: 2})
	Emit(b, LevelGained{Level: 3})
	b.SwapBuffers()
	b.DispatchAll()

	assert.Equal(t, 2, levels)
	assert.Equal(t, 0, wins)
}

func TestDiscardDropsPendingEvents(t *testing.T) {
	b := NewBus()
	n := 0
	Subscribe(b, func(FloorCompleted) { n++ })
	Emit(b, FloorCompleted{Floor: 1})
	b.Discard()
	b.SwapBuffers()
	b.DispatchAll()
	assert.Zero(t, n)
}
