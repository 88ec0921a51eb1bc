// Package replay records the commands a kernel drains, tick by tick, and plays
// them back. A seeded kernel fed the same session reproduces the same run.
package replay

import (
	"fmt"
	"os"
	"time"

	"github.com/roguewave/sim/internal/command"
	"gopkg.in/yaml.v3"
)

// Session is a complete recording of a run.
type Session struct {
	Seed    int64   `yaml:"seed"`
	DeltaMs float64 `yaml:"delta_ms"` // real delta passed to every tick
	Ticks   uint64  `yaml:"ticks"`
	Frames  []Frame `yaml:"frames"`
}

// Frame holds the commands drained at the start of Tick.
type Frame struct {
	Tick     uint64             `yaml:"tick"`
	Commands []command.Envelope `yaml:"commands"`
}

// Delta returns the per-tick delta as a duration.
func (s *Session) Delta() time.Duration {
	return time.Duration(s.DeltaMs * float64(time.Millisecond))
}

// Recorder builds a Session from the batches a kernel reports through its
// observer hook.
type Recorder struct {
	session Session
}

func NewRecorder(seed int64, delta time.Duration) *Recorder {
	return &Recorder{session: Session{
		Seed:    seed,
		DeltaMs: float64(delta) / float64(time.Millisecond),
	}}
}

// Observe matches the kernel's observer signature.
func (r *Recorder) Observe(tick uint64, cmds []command.Command) {
	f := Frame{Tick: tick, Commands: make([]command.Envelope, 0, len(cmds))}
	for _, c := range cmds {
		f.Commands = append(f.Commands, command.Encode(c))
	}
	r.session.Frames = append(r.session.Frames, f)
}

// Finish stamps the total tick count and returns the session.
func (r *Recorder) Finish(ticks uint64) *Session {
	r.session.Ticks = ticks
	s := r.session
	return &s
}

// Save writes s to path as YAML.
func Save(path string, s *Session) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode replay: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write replay %s: %w", path, err)
	}
	return nil
}

// Load reads a session written by Save and checks every command decodes.
func Load(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay %s: %w", path, err)
	}
	var s Session
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse replay %s: %w", path, err)
	}
	if s.DeltaMs <= 0 {
		return nil, fmt.Errorf("replay %s: delta_ms must be > 0", path)
	}
	for _, f := range s.Frames {
		for _, env := range f.Commands {
			if _, err := command.Decode(env); err != nil {
				return nil, fmt.Errorf("replay %s tick %d: %w", path, f.Tick, err)
			}
		}
	}
	return &s, nil
}

// Driver is the part of the kernel playback needs.
type Driver interface {
	Dispatch(c command.Command)
	Tick(dt time.Duration)
	TickCount() uint64
}

// Play feeds s into k, which must be freshly built with s.Seed. Each frame is
// dispatched just before the tick that drained it during recording.
func Play(k Driver, s *Session) error {
	dt := s.Delta()
	next := 0
	for k.TickCount() < s.Ticks {
		for next < len(s.Frames) && s.Frames[next].Tick <= k.TickCount() {
			for _, env := range s.Frames[next].Commands {
				c, err := command.Decode(env)
				if err != nil {
					return fmt.Errorf("replay tick %d: %w", s.Frames[next].Tick, err)
				}
				k.Dispatch(c)
			}
			next++
		}
		k.Tick(dt)
	}
	return nil
}
