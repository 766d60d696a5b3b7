package components

import (
	"fmt"
	"math"

	"github.com/decker502/embers/internal/particle"
)

// TextureID is an opaque texture handle resolved by the renderer.
type TextureID string

// AtlasIndex selects a frame from a texture atlas. Implementations:
// AtlasConstant, AtlasRandom and AtlasAnimated.
type AtlasIndex interface {
	atlasIndex()
}

// AtlasConstant always uses the same frame.
type AtlasConstant int

// AtlasRandom picks one of the frames at spawn and keeps it.
type AtlasRandom []int

// AtlasAnimated steps through Indices every TimeStep seconds of particle age
// and wraps around.
type AtlasAnimated struct {
	Indices  []int
	TimeStep float32
}

func (AtlasConstant) atlasIndex() {}
func (AtlasRandom) atlasIndex()   {}
func (AtlasAnimated) atlasIndex() {}

// AnimatedRange returns an AtlasAnimated over frames first..last inclusive.
func AnimatedRange(first, last int, step float32) AtlasAnimated {
	a := AtlasAnimated{TimeStep: step}
	for i := first; i <= last; i++ {
		a.Indices = append(a.Indices, i)
	}
	return a
}

// Frame returns the frame for a particle of the given age.
func (a AtlasAnimated) Frame(age float32) int {
	if len(a.Indices) == 0 {
		return 0
	}
	if !(a.TimeStep > 0) || !(age > 0) {
		return a.Indices[0]
	}
	step := int(math.Floor(float64(age / a.TimeStep)))
	return a.Indices[step%len(a.Indices)]
}

// ParticleTexture is the texture reference copied into each particle.
// Either Sprite is set, or Atlas with Index; the zero value means untextured.
type ParticleTexture struct {
	Sprite TextureID
	Atlas  TextureID
	Index  AtlasIndex
}

// SpriteTexture returns a single-image texture.
func SpriteTexture(id TextureID) ParticleTexture {
	return ParticleTexture{Sprite: id}
}

// AtlasTexture returns an atlas texture with the given frame selection.
func AtlasTexture(id TextureID, index AtlasIndex) ParticleTexture {
	return ParticleTexture{Atlas: id, Index: index}
}

// Handle returns the texture to draw with.
func (t ParticleTexture) Handle() TextureID {
	if t.Atlas != "" {
		return t.Atlas
	}
	return t.Sprite
}

// IsAtlas reports whether frames are selected from an atlas.
func (t ParticleTexture) IsAtlas() bool {
	return t.Atlas != ""
}

// SpawnFrame resolves the frame chosen when a particle is spawned.
// Random selections consume r; the others do not.
func (t ParticleTexture) SpawnFrame(r particle.Rand) int {
	switch idx := t.Index.(type) {
	case AtlasConstant:
		return int(idx)
	case AtlasRandom:
		return particle.Choose(r, []int(idx))
	case AtlasAnimated:
		return idx.Frame(0)
	default:
		return 0
	}
}

// Validate checks the texture reference.
func (t ParticleTexture) Validate() error {
	if t.Sprite != "" && t.Atlas != "" {
		return fmt.Errorf("texture sets both sprite %q and atlas %q", t.Sprite, t.Atlas)
	}
	switch idx := t.Index.(type) {
	case AtlasRandom:
		if len(idx) == 0 {
			return fmt.Errorf("random atlas index has no frames")
		}
	case AtlasAnimated:
		if len(idx.Indices) == 0 {
			return fmt.Errorf("animated atlas index has no frames")
		}
		if !(idx.TimeStep > 0) {
			return fmt.Errorf("animated atlas index needs a positive time step, got %v", idx.TimeStep)
		}
	}
	return nil
}
