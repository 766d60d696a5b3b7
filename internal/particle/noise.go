package particle

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// Noise2D pushes particles through a cheap periodic flow field in the XY
// plane. It is a fixed sin/cos mix, not gradient noise.
type Noise2D struct {
	Frequency  float32
	Amplitude  float32
	TimeFactor float32
}

// NewNoise2D returns a field with the given amplitude and time factor at
// unit frequency.
func NewNoise2D(amplitude, timeFactor float32) Noise2D {
	return Noise2D{Frequency: 1, Amplitude: amplitude, TimeFactor: timeFactor}
}

func (Noise2D) velocityModifier() {}

// Sample returns the field at position p and time t.
func (n Noise2D) Sample(p mgl32.Vec3, t float32) mgl32.Vec3 {
	x := float64(p.X() * n.Frequency)
	y := float64(p.Y() * n.Frequency)
	tt := float64(t * n.TimeFactor)
	fx := math.Sin(y*1.7+tt) + 0.5*math.Cos(x*0.9-tt*1.3)
	fy := math.Cos(x*1.3+tt*0.7) + 0.5*math.Sin(y*1.1-tt)
	return mgl32.Vec3{float32(fx), float32(fy), 0}.Mul(n.Amplitude)
}

// Apply implements VelocityModifier.
func (n Noise2D) Apply(k *Kinematics) {
	k.Velocity = k.Velocity.Add(n.Sample(k.Position, k.Elapsed).Mul(k.Delta))
}

// Noise3D is Noise2D extended to all three axes.
type Noise3D struct {
	Frequency  float32
	Amplitude  float32
	TimeFactor float32
}

// NewNoise3D returns a field with the given amplitude and time factor at
// unit frequency.
func NewNoise3D(amplitude, timeFactor float32) Noise3D {
	return Noise3D{Frequency: 1, Amplitude: amplitude, TimeFactor: timeFactor}
}

func (Noise3D) velocityModifier() {}

// Sample returns the field at position p and time t.
func (n Noise3D) Sample(p mgl32.Vec3, t float32) mgl32.Vec3 {
	x := float64(p.X() * n.Frequency)
	y := float64(p.Y() * n.Frequency)
	z := float64(p.Z() * n.Frequency)
	tt := float64(t * n.TimeFactor)
	fx := math.Sin(y*1.7+tt) + 0.5*math.Cos(z*0.9-tt*1.3)
	fy := math.Sin(z*1.3+tt*0.7) + 0.5*math.Cos(x*1.1-tt)
	fz := math.Sin(x*1.5-tt*0.9) + 0.5*math.Cos(y*0.7+tt*1.1)
	return mgl32.Vec3{float32(fx), float32(fy), float32(fz)}.Mul(n.Amplitude)
}

// Apply implements VelocityModifier.
func (n Noise3D) Apply(k *Kinematics) {
	k.Velocity = k.Velocity.Add(n.Sample(k.Position, k.Elapsed).Mul(k.Delta))
}

// Perlin noise parameters used by NewPerlinNoise.
const (
	perlinAlpha  = 2
	perlinBeta   = 2
	perlinOctave = 3
)

// PerlinNoise pushes particles through a gradient-noise field. Each axis
// samples the field at a different offset so the axes are uncorrelated.
// Flat restricts the push to the XY plane.
type PerlinNoise struct {
	Frequency  float32
	Amplitude  float32
	TimeFactor float32
	Flat       bool

	field *perlin.Perlin
}

// NewPerlinNoise builds a field from seed. The generator tables are read-only
// after construction, so one PerlinNoise can be shared by every particle.
func NewPerlinNoise(seed int64, frequency, amplitude, timeFactor float32) PerlinNoise {
	return PerlinNoise{
		Frequency:  frequency,
		Amplitude:  amplitude,
		TimeFactor: timeFactor,
		field:      perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctave, seed),
	}
}

func (PerlinNoise) velocityModifier() {}

// Sample returns the field at position p and time t. A PerlinNoise not built
// with NewPerlinNoise has no field and samples zero.
func (n PerlinNoise) Sample(p mgl32.Vec3, t float32) mgl32.Vec3 {
	if n.field == nil {
		return mgl32.Vec3{}
	}
	x := float64(p.X() * n.Frequency)
	y := float64(p.Y() * n.Frequency)
	z := float64(p.Z()*n.Frequency + t*n.TimeFactor)
	v := mgl32.Vec3{
		float32(n.field.Noise3D(x, y, z)),
		float32(n.field.Noise3D(x+31.416, y+47.853, z)),
		0,
	}
	if !n.Flat {
		v[2] = float32(n.field.Noise3D(x+12.791, y-23.07, z+5.3))
	}
	return v.Mul(n.Amplitude)
}

// Apply implements VelocityModifier.
func (n PerlinNoise) Apply(k *Kinematics) {
	k.Velocity = k.Velocity.Add(n.Sample(k.Position, k.Elapsed).Mul(k.Delta))
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
