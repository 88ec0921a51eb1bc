package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/roguewave/sim/internal/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKernel records what playback feeds it.
type fakeKernel struct {
	ticks    uint64
	dt       []time.Duration
	received map[uint64][]command.Command
}

func (f *fakeKernel) Dispatch(c command.Command) {
	if f.received == nil {
		f.received = make(map[uint64][]command.Command)
	}
	f.received[f.ticks] = append(f.received[f.ticks], c)
}

func (f *fakeKernel) Tick(dt time.Duration) {
	f.dt = append(f.dt, dt)
	f.ticks++
}

func (f *fakeKernel) TickCount() uint64 { return f.ticks }

func TestSaveLoadRoundTrip(t *testing.T) {
	rec := NewRecorder(42, 50*time.Millisecond)
	rec.Observe(0, []command.Command{command.SelectClass{ClassID: "mage"}, command.StartGame{}})
	rec.Observe(17, []command.Command{command.PurchaseItem{ItemID: "rusty_sword", Cost: 30}})
	s := rec.Finish(40)

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, Save(path, s))
	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, s, got)
	assert.Equal(t, 50*time.Millisecond, got.Delta())
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(write("nodelta.yaml", "seed: 1\nticks: 3\n"))
	assert.ErrorContains(t, err, "delta_ms")

	_, err = Load(write("badcmd.yaml", "seed: 1\ndelta_ms: 50\nticks: 3\nframes:\n  - tick: 1\n    commands:\n      - kind: FLY\n"))
	assert.ErrorContains(t, err, "tick 1")

	_, err = Load(write("garbage.yaml", "seed: [\n"))
	assert.ErrorContains(t, err, "parse replay")
}

func TestPlayDispatchesBeforeRecordedTick(t *testing.T) {
	s := &Session{
		Seed:    1,
		DeltaMs: 20,
		Ticks:   5,
		Frames: []Frame{
			{Tick: 0, Commands: []command.Envelope{command.Encode(command.StartGame{})}},
			{Tick: 3, Commands: []command.Envelope{
				command.Encode(command.Block{}),
				command.Encode(command.SetCombatSpeed{Speed: 2}),
			}},
		},
	}
	k := &fakeKernel{}
	require.NoError(t, Play(k, s))

	assert.Equal(t, uint64(5), k.ticks)
	assert.Equal(t, []command.Command{command.StartGame{}}, k.received[0])
	assert.Equal(t, []command.Command{command.Block{}, command.SetCombatSpeed{Speed: 2}}, k.received[3])
	for _, dt := range k.dt {
		assert.Equal(t, 20*time.Millisecond, dt)
	}
}

func TestPlayStopsOnUndecodableCommand(t *testing.T) {
	s := &Session{DeltaMs: 50, Ticks: 3, Frames: []Frame{
		{Tick: 1, Commands: []command.Envelope{{Kind: "FLY"}}},
	}}
	k := &fakeKernel{}
	err := Play(k, s)
	assert.ErrorContains(t, err, "replay tick 1")
	assert.Equal(t, uint64(1), k.ticks)
}
