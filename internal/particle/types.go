package particle

// PresetFile is the root of a YAML emitter preset file. One file may hold
// several emitters that make up a scene.
type PresetFile struct {
	Name     string          `yaml:"name"`
	Emitters []EmitterPreset `yaml:"emitters"`
}

// EmitterPreset describes one emitter as data.
//
// Scalar fields are strings in the compact value notation so a preset can
// switch between a fixed value, a jitter range or a curve without changing
// the schema:
//   - Fixed values: "1500"
//   - Ranges: "[0.7 0.9]" (uniform between min and max)
//   - Base plus jitter: "5 [-1 1]"
//   - Keyframes: "0,2 0.5,4 1,0" (time,value pairs)
//   - Linear: "2..8"; sine: "sin(1 2 0 0)"
//
// Empty fields keep the emitter default.
type EmitterPreset struct {
	Name string `yaml:"name"`

	// Spawn properties
	MaxParticles *int          `yaml:"max_particles,omitempty"` // 0 is a valid cap
	SpawnRate    string        `yaml:"spawn_rate,omitempty"` // particles per second over the cycle
	Duration     string        `yaml:"duration,omitempty"`   // cycle length in seconds
	Looping      *bool         `yaml:"looping,omitempty"`    // default true
	Bursts       []BurstPreset `yaml:"bursts,omitempty"`     // ascending by time
	Playing      *bool         `yaml:"playing,omitempty"`    // default true

	// Emitter placement
	Position string      `yaml:"position,omitempty"` // "x y z"
	Rotation string      `yaml:"rotation,omitempty"` // roll around Z, radians
	Shape    ShapePreset `yaml:"shape,omitempty"`

	// Particle kinematics
	InitialSpeed              string `yaml:"initial_speed,omitempty"`
	InitialScale              string `yaml:"initial_scale,omitempty"`
	InitialRotation           string `yaml:"initial_rotation,omitempty"`
	RotationSpeed             string `yaml:"rotation_speed,omitempty"`
	RotateToMovementDirection bool   `yaml:"rotate_to_movement_direction,omitempty"`
	ZValueOverride            string `yaml:"z_value_override,omitempty"`
	Lifetime                  string `yaml:"lifetime,omitempty"`
	MaxDistance               string `yaml:"max_distance,omitempty"` // linear world units

	// Appearance over the particle lifetime
	Color     string           `yaml:"color,omitempty"`
	Scale     string           `yaml:"scale,omitempty"`
	Texture   TexturePreset    `yaml:"texture,omitempty"`
	Modifiers []ModifierPreset `yaml:"modifiers,omitempty"`

	// Lifecycle
	Space                      string `yaml:"space,omitempty"` // "world" (default) or "local"
	UseScaledTime              *bool  `yaml:"use_scaled_time,omitempty"`
	DespawnOnFinish            bool   `yaml:"despawn_on_finish,omitempty"`
	DespawnParticlesWithSystem bool   `yaml:"despawn_particles_with_system,omitempty"`
}

// BurstPreset is a one-off spawn of Count particles at Time seconds into the
// cycle.
type BurstPreset struct {
	Time  float32 `yaml:"time"`
	Count int     `yaml:"count"`
}

// ShapePreset selects and parameterises the emitter shape.
// Type is one of "circle", "line", "sphere", "cone".
type ShapePreset struct {
	Type string `yaml:"type,omitempty"`

	Radius         string `yaml:"radius,omitempty"`          // circle, sphere, cone
	OpeningAngle   string `yaml:"opening_angle,omitempty"`   // circle, radians
	DirectionAngle string `yaml:"direction_angle,omitempty"` // circle, radians
	Length         string `yaml:"length,omitempty"`          // line
	Angle          string `yaml:"angle,omitempty"`           // line rotation, cone deflection
	Center         string `yaml:"center,omitempty"`          // sphere
	Direction      string `yaml:"direction,omitempty"`       // cone axis, sphere fixed facing
	Facing         string `yaml:"facing,omitempty"`          // sphere: outward, randomized, fixed
	Randomness     string `yaml:"randomness,omitempty"`      // sphere randomized facing
}

// TexturePreset is an opaque texture handle. Atlas textures pick a frame
// with Index: "3", "random(0 1 2)" or "animated(1..7 0.1)".
type TexturePreset struct {
	Sprite string `yaml:"sprite,omitempty"`
	Atlas  string `yaml:"atlas,omitempty"`
	Index  string `yaml:"index,omitempty"`
}

// ModifierPreset describes one velocity modifier.
// Type is one of "acceleration" (Value is a vector), "scalar_acceleration",
// "drag", "noise2d", "noise3d", "perlin".
type ModifierPreset struct {
	Type       string `yaml:"type"`
	Value      string `yaml:"value,omitempty"`
	Frequency  string `yaml:"frequency,omitempty"`
	Amplitude  string `yaml:"amplitude,omitempty"`
	TimeFactor string `yaml:"time_factor,omitempty"`
	Seed       int64  `yaml:"seed,omitempty"`
	Flat       bool   `yaml:"flat,omitempty"`
}
