package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/roguewave/sim/content"
	"github.com/roguewave/sim/internal/autopilot"
	"github.com/roguewave/sim/internal/config"
	"github.com/roguewave/sim/internal/core/event"
	"github.com/roguewave/sim/internal/data"
	"github.com/roguewave/sim/internal/replay"
	"github.com/roguewave/sim/internal/scripting"
	"github.com/roguewave/sim/internal/sim"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(seed int64) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            Roguewave  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        地城戰鬥模擬核心 · headless         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m種子:\033[0m %d\n\n", seed)
}

func printSection(title string) {
	// CJK characters take two columns
	displayWidth := 0
	for _, r := range title {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	lineLen := max(3, 46-displayWidth-1)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	displayWidth := 0
	for _, r := range label {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	dotsLen := max(3, 42-displayWidth-len(numStr))
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/sim.toml"
	if p := os.Getenv("ROGUEWAVE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	var session *replay.Session
	if cfg.Replay.PlayPath != "" {
		if session, err = replay.Load(cfg.Replay.PlayPath); err != nil {
			return fmt.Errorf("load replay: %w", err)
		}
		cfg.Simulation.Seed = session.Seed
	}

	printBanner(cfg.Simulation.Seed)

	// 3. Load content tables and formulas
	printSection("資料載入")
	dataFS, scriptsFS := content.Data(), content.Scripts()
	if cfg.Content.DataDir != "" {
		dataFS = os.DirFS(cfg.Content.DataDir)
	}
	if cfg.Content.ScriptsDir != "" {
		scriptsFS = os.DirFS(cfg.Content.ScriptsDir)
	}
	tables, err := data.LoadContent(dataFS)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	printStat("職業", tables.Classes.Count())
	printStat("路線", tables.Paths.Count())
	printStat("技能", tables.Powers.Count())
	printStat("敵人模板", tables.Enemies.Count())
	printStat("商店道具", tables.Items.Count())

	lua, err := loadScripts(scriptsFS, log)
	if err != nil {
		return err
	}
	defer lua.Close()
	printOK("Lua 公式載入完成")
	fmt.Println()

	// 4. Build kernel
	k := sim.New(cfg, tables, lua, log)
	subscribeEvents(k.Bus(), log)

	var rec *replay.Recorder
	if cfg.Replay.RecordPath != "" {
		rec = replay.NewRecorder(cfg.Simulation.Seed, cfg.Simulation.TickRate)
		k.Observe(rec.Observe)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Drive
	printSection("模擬")
	if session != nil {
		printReady(fmt.Sprintf("重播 %s（%d ticks）", cfg.Replay.PlayPath, session.Ticks))
		if err := replay.Play(k, session); err != nil {
			return fmt.Errorf("play replay: %w", err)
		}
	} else {
		var bot *autopilot.Bot
		if cfg.Autopilot.Enabled {
			bot = autopilot.New(cfg.Autopilot.Class, tables)
			printReady(fmt.Sprintf("自動駕駛啟動（%s）", cfg.Autopilot.Class))
		}
		loop(ctx, k, bot, cfg.Simulation)
	}

	if rec != nil {
		if err := replay.Save(cfg.Replay.RecordPath, rec.Finish(k.TickCount())); err != nil {
			return fmt.Errorf("save replay: %w", err)
		}
		printOK("重播已儲存: " + cfg.Replay.RecordPath)
	}

	snap := k.Snapshot()
	log.Info("模擬結束",
		zap.Uint64("ticks", k.TickCount()),
		zap.String("phase", string(snap.Game.Phase)),
		zap.Int("floor", snap.Game.Floor),
	)
	for _, line := range snap.Game.CombatLog {
		fmt.Println("  " + line)
	}
	return nil
}

func loadScripts(fsys fs.FS, log *zap.Logger) (*scripting.Engine, error) {
	lua, err := scripting.NewEngine(fsys, log)
	if err != nil {
		return nil, fmt.Errorf("scripting: %w", err)
	}
	return lua, nil
}

// loop ticks the kernel until the bot is done, max_ticks is reached or ctx is
// cancelled. Realtime mode paces ticks with a wall-clock ticker.
func loop(ctx context.Context, k *sim.Kernel, bot *autopilot.Bot, sc config.SimulationConfig) {
	var ticker *time.Ticker
	if sc.Realtime {
		ticker = time.NewTicker(sc.TickRate)
		defer ticker.Stop()
	}
	for sc.MaxTicks <= 0 || k.TickCount() < uint64(sc.MaxTicks) {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return
		}
		k.Tick(sc.TickRate)
		if bot == nil {
			continue
		}
		if bot.Done() {
			return
		}
		for _, c := range bot.Decide(k.Snapshot()) {
			k.Dispatch(c)
		}
	}
}

func subscribeEvents(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(e event.FloorCompleted) {
		log.Info("事件：樓層完成", zap.Int("floor", e.Floor), zap.Uint64("tick", e.Tick))
	})
	event.Subscribe(bus, func(e event.RunWon) {
		log.Info("事件：通關", zap.Int("floor", e.Floor), zap.Int("level", e.Level))
	})
	event.Subscribe(bus, func(e event.PlayerDefeated) {
		log.Info("事件：玩家倒下", zap.Int("floor", e.Floor), zap.Int("room", e.Room))
	})
	event.Subscribe(bus, func(e event.EnemyDefeated) {
		log.Debug("事件：擊敗敵人", zap.String("name", e.Name), zap.String("tier", e.Tier))
	})
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
