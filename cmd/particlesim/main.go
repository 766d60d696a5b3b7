// Package main runs emitter presets without a window and prints per-tick
// statistics. It is used for profiling and for checking spawn schedules.
//
// Usage:
//
//	go run ./cmd/particlesim -preset basic -ticks 600 -dt 0.016
//
// Flags:
//
//	-preset <name>   Preset to run, or "all" for every built-in preset
//	-ticks <n>       Number of frames to simulate
//	-dt <seconds>    Frame delta
//	-scale <s>       Virtual time scale
//	-seed <n>        Random seed
//	-every <n>       Print one row every n ticks (0 = summary only)
//	-workers <n>     Parallel pass workers (0 = GOMAXPROCS)
//	-data <dir>      Load presets from <dir>/data/presets
//	-verbose         Enable system logging
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/decker502/embers/internal/particle"
	"github.com/decker502/embers/pkg/components"
	"github.com/decker502/embers/pkg/config"
	"github.com/decker502/embers/pkg/ecs"
	"github.com/decker502/embers/pkg/embedded"
	"github.com/decker502/embers/pkg/game"
	"github.com/decker502/embers/pkg/systems"
)

var (
	presetFlag  = flag.String("preset", "basic", "Preset name, or \"all\"")
	ticksFlag   = flag.Int("ticks", 600, "Number of ticks to simulate")
	dtFlag      = flag.Float64("dt", 1.0/60, "Frame delta in seconds")
	scaleFlag   = flag.Float64("scale", 1, "Virtual time scale")
	seedFlag    = flag.Uint64("seed", 1, "Random seed")
	everyFlag   = flag.Int("every", 60, "Print a row every n ticks (0 = summary only)")
	workersFlag = flag.Int("workers", 0, "Parallel pass workers (0 = GOMAXPROCS)")
	dataFlag    = flag.String("data", "", "Directory containing data/presets")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
)

// runOptions 一次模拟的参数
type runOptions struct {
	ticks   int
	dt      float32
	scale   float32
	seed    uint64
	every   int
	workers int
}

// runSummary 一次模拟的汇总
type runSummary struct {
	preset       string
	emitters     int
	peak         int
	final        int
	spawned      int
	burst        int
	totalTime    time.Duration
	slowestFrame time.Duration
}

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}
	if *dataFlag != "" {
		embedded.Init(os.DirFS(*dataFlag))
	}

	opts := runOptions{
		ticks:   *ticksFlag,
		dt:      float32(*dtFlag),
		scale:   float32(*scaleFlag),
		seed:    *seedFlag,
		every:   *everyFlag,
		workers: *workersFlag,
	}

	presets := []string{*presetFlag}
	if *presetFlag == "all" {
		names, err := config.ListBuiltinPresets()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		presets = names
	}

	summaries := make([]runSummary, 0, len(presets))
	for _, name := range presets {
		s, err := run(os.Stdout, name, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			os.Exit(1)
		}
		summaries = append(summaries, s)
	}
	printSummaries(os.Stdout, summaries, opts.ticks)
}

// run 模拟一个预设并按间隔输出统计行
func run(out io.Writer, name string, opts runOptions) (runSummary, error) {
	sum := runSummary{preset: name}
	set, err := config.LoadEmitterPresets(config.PresetPath(name))
	if err != nil {
		return sum, err
	}

	clock := game.NewTime()
	clock.SetTimeScale(opts.scale)
	em := ecs.NewEntityManager()
	ps := systems.NewParticleSystem(em, clock, particle.NewRand(opts.seed))
	ps.Workers = opts.workers

	// 状态指针在发射器销毁后仍然有效，统计不会因 despawn 丢失
	states := make([]*components.EmitterStateComponent, 0, len(set.Emitters))
	for _, e := range set.Emitters {
		id, err := ps.AddEmitter(e.Emitter, e.Transform, e.Playing)
		if err != nil {
			return sum, fmt.Errorf("emitter %s: %w", e.Name, err)
		}
		st, _ := ps.EmitterState(id)
		states = append(states, st)
	}
	sum.emitters = len(states)

	var tw *tabwriter.Writer
	if opts.every > 0 {
		fmt.Fprintf(out, "== %s (%d emitters)\n", name, len(states))
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "tick\ttime\tlive\tspawned\tburst\tframe\t")
	}

	for tick := 1; tick <= opts.ticks; tick++ {
		clock.Advance(opts.dt)
		start := time.Now()
		ps.Update()
		frame := time.Since(start)

		sum.totalTime += frame
		sum.slowestFrame = max(sum.slowestFrame, frame)
		live := ps.ParticleCount()
		sum.peak = max(sum.peak, live)

		if tw != nil && (tick%opts.every == 0 || tick == opts.ticks) {
			spawned, burst := totals(states)
			fmt.Fprintf(tw, "%d\t%.3f\t%d\t%d\t%d\t%s\t\n", tick, clock.Elapsed(true), live, spawned, burst, frame.Round(time.Microsecond))
		}
	}
	if tw != nil {
		tw.Flush()
	}

	sum.final = ps.ParticleCount()
	sum.spawned, sum.burst = totals(states)
	return sum, nil
}

// totals 汇总所有发射器的生成计数
func totals(states []*components.EmitterStateComponent) (spawned, burst int) {
	for _, st := range states {
		spawned += st.TotalSpawned
		burst += st.TotalBurstSpawned
	}
	return spawned, burst
}

func printSummaries(out io.Writer, summaries []runSummary, ticks int) {
	fmt.Fprintf(out, "\nsummary (%d ticks)\n", ticks)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "preset\temitters\tpeak\tfinal\tspawned\tburst\tavg frame\tslowest\t")
	for _, s := range summaries {
		avg := time.Duration(0)
		if ticks > 0 {
			avg = s.totalTime / time.Duration(ticks)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\t\n",
			s.preset, s.emitters, s.peak, s.final, s.spawned, s.burst,
			avg.Round(time.Microsecond), s.slowestFrame.Round(time.Microsecond))
	}
	tw.Flush()
}
