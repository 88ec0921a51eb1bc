package scripting

import (
	"fmt"
	"io/fs"
	"path"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding the balance formulas.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file at the root of fsys
// in name order.
func NewEngine(fsys fs.FS, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(fsys, "."); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	for _, fn := range requiredFuncs {
		if vm.GetGlobal(fn) == lua.LNil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: function %s not defined", fn)
		}
	}
	return e, nil
}

var requiredFuncs = []string{
	"attack_interval", "dodge_chance", "enemy_tier", "modifier_count",
	"enemy_stats", "level_up_gains", "enhance_cost",
}

// loadDir loads all .lua files in a directory of fsys.
func (e *Engine) loadDir(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".lua" {
			continue
		}
		p := path.Join(dir, entry.Name())
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", p))
	}
	return nil
}

// --- Timing ---

// AttackInterval calls Lua attack_interval(speed) and returns milliseconds.
// Falls back to 1000 ms on error.
func (e *Engine) AttackInterval(speed float64) float64 {
	v, ok := e.callNumber("attack_interval", lua.LNumber(speed))
	if !ok || v <= 0 {
		return 1000
	}
	return v
}

// DodgeChance calls Lua dodge_chance(fortune). Falls back to 0.
func (e *Engine) DodgeChance(fortune int) float64 {
	v, _ := e.callNumber("dodge_chance", lua.LNumber(fortune))
	return v
}

// --- Enemy generation ---

// EnemyTier calls Lua enemy_tier(floor, room, rooms, roll). Falls back to
// "normal".
func (e *Engine) EnemyTier(floor, room, rooms int, roll float64) string {
	fn := e.vm.GetGlobal("enemy_tier")
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(floor), lua.LNumber(room), lua.LNumber(rooms), lua.LNumber(roll)); err != nil {
		e.log.Error("lua enemy_tier error", zap.Error(err))
		return "normal"
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	s, ok := result.(lua.LString)
	if !ok {
		e.log.Error("lua enemy_tier returned non-string")
		return "normal"
	}
	return string(s)
}

// ModifierCount calls Lua modifier_count(tier, floor).
func (e *Engine) ModifierCount(tier string, floor int) int {
	v, _ := e.callNumber("modifier_count", lua.LString(tier), lua.LNumber(floor))
	return int(v)
}

// EnemyStatsContext holds the template values fed to enemy_stats.
type EnemyStatsContext struct {
	Health  int
	Attack  int
	Defense int
	Speed   float64
	XP      int
	Gold    int
	Floor   int
	Tier    string
}

// EnemyStats is returned by the Lua enemy_stats function.
type EnemyStats struct {
	Health  int
	Attack  int
	Defense int
	Speed   float64
	XP      int
	Gold    int
}

// EnemyStats calls Lua enemy_stats(ctx). On error the unscaled template
// values are returned.
func (e *Engine) EnemyStats(ctx EnemyStatsContext) EnemyStats {
	fallback := EnemyStats{
		Health: ctx.Health, Attack: ctx.Attack, Defense: ctx.Defense,
		Speed: ctx.Speed, XP: ctx.XP, Gold: ctx.Gold,
	}

	t := e.vm.NewTable()
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("attack", lua.LNumber(ctx.Attack))
	t.RawSetString("defense", lua.LNumber(ctx.Defense))
	t.RawSetString("speed", lua.LNumber(ctx.Speed))
	t.RawSetString("xp", lua.LNumber(ctx.XP))
	t.RawSetString("gold", lua.LNumber(ctx.Gold))
	t.RawSetString("floor", lua.LNumber(ctx.Floor))
	t.RawSetString("tier", lua.LString(ctx.Tier))

	rt, ok := e.callTable("enemy_stats", t)
	if !ok {
		return fallback
	}
	out := EnemyStats{
		Health:  lInt(rt, "health"),
		Attack:  lInt(rt, "attack"),
		Defense: lInt(rt, "defense"),
		Speed:   lNum(rt, "speed"),
		XP:      lInt(rt, "xp"),
		Gold:    lInt(rt, "gold"),
	}
	if out.Health < 1 || out.Speed <= 0 {
		e.log.Error("lua enemy_stats returned invalid stats",
			zap.Int("health", out.Health), zap.Float64("speed", out.Speed))
		return fallback
	}
	return out
}

// --- Progression ---

// LevelUpGains holds the flat bonuses granted by one level-up.
type LevelUpGains struct {
	Health  int
	Mana    int
	Attack  int
	Defense int
}

// LevelUpGains calls Lua level_up_gains(class, level) for the level just
// reached. Returns zero gains on error.
func (e *Engine) LevelUpGains(class string, level int) LevelUpGains {
	rt, ok := e.callTable("level_up_gains", lua.LString(class), lua.LNumber(level))
	if !ok {
		return LevelUpGains{}
	}
	return LevelUpGains{
		Health:  lInt(rt, "health"),
		Mana:    lInt(rt, "mana"),
		Attack:  lInt(rt, "attack"),
		Defense: lInt(rt, "defense"),
	}
}

// EnhanceCost calls Lua enhance_cost(price, level). Returns -1 on error so
// the purchase is refused.
func (e *Engine) EnhanceCost(price, level int) int {
	v, ok := e.callNumber("enhance_cost", lua.LNumber(price), lua.LNumber(level))
	if !ok {
		return -1
	}
	return int(v)
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lNum reads a float field from a Lua table.
func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// callNumber calls a Lua function and returns its numeric result.
func (e *Engine) callNumber(name string, args ...lua.LValue) (float64, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return 0, false
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, false
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua function returned non-number", zap.String("func", name))
		return 0, false
	}
	return float64(n), true
}

// callTable calls a Lua function and returns its table result.
func (e *Engine) callTable(name string, args ...lua.LValue) (*lua.LTable, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return nil, false
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return nil, false
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua function returned non-table", zap.String("func", name))
		return nil, false
	}
	return rt, true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
