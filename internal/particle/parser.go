package particle

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/decker502/embers/pkg/embedded"
)

// LoadPresetFile reads and parses a preset file from the embedded data.
//
// Example usage:
//
//	file, err := LoadPresetFile("data/presets/basic.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Loaded %d emitters\n", len(file.Emitters))
func LoadPresetFile(path string) (*PresetFile, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file %s: %w", path, err)
	}
	file, err := ParsePresetFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// ParsePresetFile parses preset YAML. Field values are kept as strings; they
// are interpreted when the preset is built into an emitter.
func ParsePresetFile(data []byte) (*PresetFile, error) {
	var file PresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse preset YAML: %w", err)
	}
	if len(file.Emitters) == 0 {
		return nil, fmt.Errorf("preset contains no emitters")
	}
	return &file, nil
}
