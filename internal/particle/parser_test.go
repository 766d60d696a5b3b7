package particle

import (
	"testing"
	"testing/fstest"

	"github.com/decker502/embers/pkg/embedded"
)

const testPresetYAML = `
name: sparks
emitters:
  - name: core
    max_particles: 200
    spawn_rate: "40"
    duration: "2"
    looping: false
    bursts:
      - time: 0
        count: 25
    shape:
      type: circle
      radius: "[0 4]"
      opening_angle: "1.57"
    initial_speed: "120 [-20 20]"
    lifetime: "[0.5 1.2]"
    color: "0:#ffffffff 1:#ff450000"
    modifiers:
      - type: drag
        value: "0.02"
      - type: perlin
        amplitude: "30"
        seed: 7
        flat: true
`

// TestParsePresetFile tests YAML parsing of an emitter preset
func TestParsePresetFile(t *testing.T) {
	file, err := ParsePresetFile([]byte(testPresetYAML))
	if err != nil {
		t.Fatalf("ParsePresetFile error: %v", err)
	}
	if file.Name != "sparks" || len(file.Emitters) != 1 {
		t.Fatalf("got name %q with %d emitters", file.Name, len(file.Emitters))
	}

	e := file.Emitters[0]
	if e.MaxParticles == nil || *e.MaxParticles != 200 || e.SpawnRate != "40" || e.Duration != "2" {
		t.Errorf("spawn fields = %v/%q/%q", e.MaxParticles, e.SpawnRate, e.Duration)
	}
	if e.Looping == nil || *e.Looping {
		t.Errorf("Looping = %v, want explicit false", e.Looping)
	}
	if e.Playing != nil {
		t.Errorf("Playing should be unset, got %v", *e.Playing)
	}
	if len(e.Bursts) != 1 || e.Bursts[0].Count != 25 {
		t.Errorf("Bursts = %+v", e.Bursts)
	}
	if e.Shape.Type != "circle" || e.Shape.Radius != "[0 4]" {
		t.Errorf("Shape = %+v", e.Shape)
	}
	if len(e.Modifiers) != 2 || e.Modifiers[1].Type != "perlin" || e.Modifiers[1].Seed != 7 || !e.Modifiers[1].Flat {
		t.Errorf("Modifiers = %+v", e.Modifiers)
	}
}

// TestParsePresetFile_Errors tests malformed and empty presets
func TestParsePresetFile_Errors(t *testing.T) {
	inputs := map[string]string{
		"invalid yaml": "emitters: [",
		"no emitters":  "name: empty\n",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := ParsePresetFile([]byte(in)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

// TestLoadPresetFile tests loading through the embedded resource layer
func TestLoadPresetFile(t *testing.T) {
	embedded.Init(fstest.MapFS{
		"data/presets/sparks.yaml": &fstest.MapFile{Data: []byte(testPresetYAML)},
	})
	t.Cleanup(func() { embedded.Init(nil) })

	file, err := LoadPresetFile("data/presets/sparks.yaml")
	if err != nil {
		t.Fatalf("LoadPresetFile error: %v", err)
	}
	if file.Emitters[0].Name != "core" {
		t.Errorf("emitter name = %q, want core", file.Emitters[0].Name)
	}

	if _, err := LoadPresetFile("data/presets/missing.yaml"); err == nil {
		t.Error("loading a missing preset should fail")
	}
}
