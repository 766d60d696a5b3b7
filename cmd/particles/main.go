// Package main provides a particle preset viewer for testing and tuning
// emitter presets.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--preset <name>    Start with a specific preset (e.g., --preset=oneshot)
//	--data <dir>       Load presets from <dir>/data/presets instead of the built-in ones
//	--seed <n>         Random seed (0 = use saved setting, or time-based)
//	--auto-play        Automatically cycle through presets every 5 seconds
//	--verbose          Enable verbose logging (default off)
//
// Controls:
//
//	Left/Right Arrow  - Switch to previous/next preset
//	1-9               - Quick jump to preset by index
//	Space             - Reload current preset at screen center
//	Mouse Click       - Spawn current preset at cursor position
//	O                 - Toggle orbit (moves the emitters, shows local vs world space)
//	P                 - Toggle pause (virtual time only)
//	[ / ]             - Decrease/increase time scale by 0.25
//	\                 - Reset time scale to 1
//	S                 - Toggle statistics
//	R                 - Clear all particles
//	Q/Escape          - Quit
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/embers/internal/particle"
	"github.com/decker502/embers/pkg/components"
	"github.com/decker502/embers/pkg/config"
	"github.com/decker502/embers/pkg/ecs"
	"github.com/decker502/embers/pkg/embedded"
	"github.com/decker502/embers/pkg/game"
	"github.com/decker502/embers/pkg/systems"
)

const (
	screenWidth  = 1024
	screenHeight = 768

	autoPlayInterval = 5 * time.Second
	orbitRadius      = 120
	orbitSpeed       = 1.5 // radians per second
	timeScaleStep    = 0.25
)

var (
	presetFlag   = flag.String("preset", "", "Start with a specific preset name")
	dataFlag     = flag.String("data", "", "Directory containing data/presets (live editing)")
	seedFlag     = flag.Uint64("seed", 0, "Random seed (0 = saved setting or time-based)")
	autoPlayFlag = flag.Bool("auto-play", false, "Auto cycle through presets every 5 seconds")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

// ParticleViewerGame implements ebiten.Game for the preset viewer
type ParticleViewerGame struct {
	entityManager  *ecs.EntityManager
	particleSystem *systems.ParticleSystem
	clock          *game.Time
	settings       *game.SettingsManager
	renderer       *systems.ParticleRenderSystem

	presets      []string
	currentIndex int

	// rig is the parent entity of every spawned emitter; orbiting moves it
	rig      ecs.EntityID
	emitters []ecs.EntityID
	orbit    bool
	orbitT   float64

	autoPlay      bool
	lastSwitch    time.Time
	statusMessage string
}

// NewParticleViewerGame creates a new viewer instance
func NewParticleViewerGame(settings *game.SettingsManager) (*ParticleViewerGame, error) {
	presets, err := config.ListBuiltinPresets()
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	if len(presets) == 0 {
		return nil, fmt.Errorf("no presets found")
	}

	s := settings.GetSettings()
	seed := *seedFlag
	if seed == 0 {
		seed = s.Seed
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	clock := game.NewTime()
	clock.SetTimeScale(float32(s.TimeScale))
	if s.Paused {
		clock.Pause()
	}

	em := ecs.NewEntityManager()
	g := &ParticleViewerGame{
		entityManager:  em,
		particleSystem: systems.NewParticleSystem(em, clock, particle.NewRand(seed)),
		clock:          clock,
		settings:       settings,
		renderer:       systems.NewParticleRenderSystem(newTextureSet()),
		presets:        presets,
		autoPlay:       *autoPlayFlag,
		lastSwitch:     time.Now(),
	}

	start := *presetFlag
	if start == "" {
		start = s.Preset
	}
	if i := slices.Index(presets, start); i >= 0 {
		g.currentIndex = i
	} else if start != "" {
		log.Printf("[ParticleViewer] Warning: unknown preset %q, starting with %s", start, presets[0])
	}

	log.Printf("[ParticleViewer] Initialized: %d presets, seed %d", len(presets), seed)
	g.loadCurrentPreset(0, 0, true)
	return g, nil
}

// Update advances the clock and the particle system by one frame
func (g *ParticleViewerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleInput()

	if g.autoPlay && time.Since(g.lastSwitch) > autoPlayInterval {
		g.switchPreset(g.currentIndex + 1)
	}

	dt := float32(1.0 / float64(ebiten.TPS()))
	g.clock.Advance(dt)
	if g.orbit {
		g.orbitT += float64(g.clock.Delta(true))
		g.moveRig()
	}
	g.particleSystem.Update()
	return nil
}

func (g *ParticleViewerGame) handleInput() {
	for i := 0; i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key(int(ebiten.Key1) + i)) {
			if i < len(g.presets) {
				g.switchPreset(i)
			}
			return
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.switchPreset(g.currentIndex - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.switchPreset(g.currentIndex + 1)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.loadCurrentPreset(0, 0, true)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		wx, wy := screenToWorld(float64(x), float64(y))
		g.loadCurrentPreset(wx, wy, false)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.orbit = !g.orbit
		if !g.orbit {
			g.orbitT = 0
			g.moveRig()
		}
		g.statusMessage = fmt.Sprintf("Orbit: %v", g.orbit)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		paused := g.clock.TogglePause()
		g.settings.SetPaused(paused)
		g.saveSettings()
		if paused {
			g.statusMessage = "PAUSED (scaled time stopped)"
		} else {
			g.statusMessage = "Resumed"
		}
	}

	scale := float64(g.clock.TimeScale())
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		g.setTimeScale(scale - timeScaleStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		g.setTimeScale(scale + timeScaleStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyBackslash):
		g.setTimeScale(1)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		s := g.settings.GetSettings()
		g.settings.SetShowStats(!s.ShowStats)
		g.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.particleSystem.Clear()
		g.statusMessage = "Cleared all particles"
	}
}

func (g *ParticleViewerGame) setTimeScale(scale float64) {
	g.settings.SetTimeScale(scale)
	s := g.settings.GetSettings()
	g.clock.SetTimeScale(float32(s.TimeScale))
	g.saveSettings()
	g.statusMessage = fmt.Sprintf("Time scale: %.2f", s.TimeScale)
}

// switchPreset selects preset i (wrapping) and loads it at the center
func (g *ParticleViewerGame) switchPreset(i int) {
	n := len(g.presets)
	g.currentIndex = ((i % n) + n) % n
	g.lastSwitch = time.Now()
	g.settings.SetPreset(g.presets[g.currentIndex])
	g.saveSettings()
	g.loadCurrentPreset(0, 0, true)
}

// loadCurrentPreset spawns the current preset's emitters offset by (x, y).
// replace destroys the previously spawned emitters and their particles.
func (g *ParticleViewerGame) loadCurrentPreset(x, y float64, replace bool) {
	name := g.presets[g.currentIndex]
	set, err := config.LoadEmitterPresets(config.PresetPath(name))
	if err != nil {
		log.Printf("[ParticleViewer] Failed to load preset %s: %v", name, err)
		g.statusMessage = fmt.Sprintf("Error: %v", err)
		return
	}

	em := g.entityManager
	if replace {
		for _, id := range g.emitters {
			em.DestroyEntity(id)
		}
		em.DestroyEntity(g.rig)
		g.emitters = g.emitters[:0]
		g.particleSystem.Clear()

		g.rig = em.CreateEntity()
		rig := components.IdentityTransform()
		em.AddComponent(g.rig, &rig)
		g.moveRig()
	}

	for _, e := range set.Emitters {
		t := e.Transform
		t.Translation = t.Translation.Add(mgl32.Vec3{float32(x), float32(y), 0})
		id, err := g.particleSystem.AddEmitter(e.Emitter, t, e.Playing)
		if err != nil {
			log.Printf("[ParticleViewer] Failed to add emitter %s: %v", e.Name, err)
			continue
		}
		em.SetParent(id, g.rig)
		g.emitters = append(g.emitters, id)
	}

	log.Printf("[ParticleViewer] Spawned preset %s at (%.0f, %.0f)", name, x, y)
	g.statusMessage = fmt.Sprintf("Spawned: %s", name)
}

// moveRig places the rig on its orbit
func (g *ParticleViewerGame) moveRig() {
	t, ok := ecs.GetComponent[*components.TransformComponent](g.entityManager, g.rig)
	if !ok {
		return
	}
	if !g.orbit && g.orbitT == 0 {
		t.Translation = mgl32.Vec3{}
		t.Rotation = mgl32.QuatIdent()
		return
	}
	s, c := math.Sincos(g.orbitT * orbitSpeed)
	t.Translation = mgl32.Vec3{float32(c * orbitRadius), float32(s * orbitRadius), 0}
	t.Rotation = mgl32.QuatRotate(float32(g.orbitT*orbitSpeed*2), particle.AxisZ)
}

func (g *ParticleViewerGame) saveSettings() {
	if err := g.settings.Save(); err != nil {
		log.Printf("[ParticleViewer] Warning: failed to save settings: %v", err)
	}
}

// Draw renders the particle instances and the overlay
func (g *ParticleViewerGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{25, 25, 38, 255})

	g.renderer.Draw(screen, g.particleSystem.Instances(), worldView())

	g.drawUI(screen)
}

func (g *ParticleViewerGame) drawUI(screen *ebiten.Image) {
	title := fmt.Sprintf("Particle Viewer - Preset %d/%d: %s", g.currentIndex+1, len(g.presets), g.presets[g.currentIndex])
	ebitenutil.DebugPrintAt(screen, title, 10, 10)

	timeInfo := fmt.Sprintf("Time scale: %.2f  Paused: %v  Orbit: %v", g.clock.TimeScale(), g.clock.Paused(), g.orbit)
	ebitenutil.DebugPrintAt(screen, timeInfo, 10, 30)

	y := 50
	if g.settings.GetSettings().ShowStats {
		stats := fmt.Sprintf("FPS: %.0f  TPS: %.0f  Particles: %d", ebiten.ActualFPS(), ebiten.ActualTPS(), g.particleSystem.ParticleCount())
		ebitenutil.DebugPrintAt(screen, stats, 10, y)
		y += 20
		for i, id := range g.emitters {
			st, ok := g.particleSystem.EmitterState(id)
			if !ok {
				continue
			}
			line := fmt.Sprintf("  #%d live %d  spawned %d (burst %d)  cycles %d  playing %v",
				i, st.LiveParticles, st.TotalSpawned, st.TotalBurstSpawned, st.Cycles, g.particleSystem.IsPlaying(id))
			ebitenutil.DebugPrintAt(screen, line, 10, y)
			y += 20
		}
	}
	if g.statusMessage != "" {
		ebitenutil.DebugPrintAt(screen, g.statusMessage, 10, y)
	}

	controls := []string{
		"Presets: <-/-> = Prev/Next  1-9 = Quick Jump  Space = Reload  Click = Spawn at cursor",
		"Time:    P = Pause  [ / ] = Scale -/+  \\ = Reset   Other: O = Orbit  S = Stats  R = Clear  Q = Quit",
	}
	cy := screenHeight - len(controls)*20 - 10
	for i, line := range controls {
		ebitenutil.DebugPrintAt(screen, line, 10, cy+i*20)
	}

	if g.autoPlay {
		ebitenutil.DebugPrintAt(screen, "AUTO-PLAY MODE", screenWidth-150, 10)
	}
}

// Layout returns the logical screen size
func (g *ParticleViewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// worldView maps world units (origin at center, Y up) to pixels
func worldView() ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(1, -1)
	m.Translate(screenWidth/2, screenHeight/2)
	return m
}

func screenToWorld(x, y float64) (float64, float64) {
	return x - screenWidth/2, screenHeight/2 - y
}

// openSettings opens viewer settings storage; a nil manager keeps settings
// in memory only.
func openSettings() *game.SettingsManager {
	manager, err := gdata.Open(gdata.Config{AppName: "embers_particles"})
	if err != nil {
		log.Printf("[ParticleViewer] Warning: settings storage unavailable: %v", err)
		manager = nil
	}
	sm, err := game.NewSettingsManager(manager)
	if err != nil {
		log.Fatal("Failed to create settings manager:", err)
	}
	return sm
}

func main() {
	flag.Parse()

	// 默认静音运行；如需详细调试，传入 --verbose
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	if *dataFlag != "" {
		embedded.Init(os.DirFS(*dataFlag))
		log.Printf("[ParticleViewer] Loading presets from %s", *dataFlag)
	}

	settings := openSettings()
	viewer, err := NewParticleViewerGame(settings)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal("Failed to initialize viewer:", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Embers Particle Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(settings.GetSettings().Fullscreen)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
	log.Println("[ParticleViewer] Closed")
}
