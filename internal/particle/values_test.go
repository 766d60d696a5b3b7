package particle

import (
	"math"
	"testing"
)

// countingRand wraps a Rand and counts draws
type countingRand struct {
	r     Rand
	calls int
}

func (c *countingRand) Float32() float32 {
	c.calls++
	return c.r.Float32()
}

func (c *countingRand) IntN(n int) int {
	c.calls++
	return c.r.IntN(n)
}

func (c *countingRand) NormFloat64() float64 {
	c.calls++
	return c.r.NormFloat64()
}

// TestJitteredValue_Bounds tests that 10k samples stay in [base+lo, base+hi)
// and spread evenly across the range
func TestJitteredValue_Bounds(t *testing.T) {
	const (
		samples = 10000
		buckets = 10
	)
	j := Jittered(5, -1, 3)
	lo, hi := j.Bounds()
	if lo != 4 || hi != 8 {
		t.Fatalf("Bounds() = %v, %v; want 4, 8", lo, hi)
	}

	r := NewRand(42)
	var counts [buckets]int
	for i := 0; i < samples; i++ {
		v := j.Sample(r)
		if v < lo || v >= hi {
			t.Fatalf("sample %d = %v outside [%v, %v)", i, v, lo, hi)
		}
		counts[int((v-lo)/(hi-lo)*buckets)]++
	}

	// 每个桶期望 1000，允许 ±20%
	for i, n := range counts {
		if n < 800 || n > 1200 {
			t.Errorf("bucket %d has %d samples, want about %d", i, n, samples/buckets)
		}
	}
}

// TestJitteredValue_NoJitterConsumesNothing tests that fixed values never
// touch the random source
func TestJitteredValue_NoJitterConsumesNothing(t *testing.T) {
	r := &countingRand{r: NewRand(1)}
	tests := []JitteredValue{
		Fixed(3),
		Jittered(3, 0, 0),
		Jittered(3, 2, 2),
	}
	for _, j := range tests {
		j.Sample(r)
	}
	if r.calls != 0 {
		t.Errorf("fixed samples consumed %d random draws", r.calls)
	}
	if got := Jittered(3, 2, 2).Sample(r); got != 5 {
		t.Errorf("degenerate jitter sample = %v, want 5", got)
	}
}

// TestRandomInRange tests the half-open range helper
func TestRandomInRange(t *testing.T) {
	r := NewRand(3)
	for i := 0; i < 1000; i++ {
		if v := RandomInRange(r, -2, -1); v < -2 || v >= -1 {
			t.Fatalf("RandomInRange(-2, -1) = %v", v)
		}
	}
	if v := RandomInRange(r, 5, 1); v != 5 {
		t.Errorf("RandomInRange(5, 1) = %v, want 5", v)
	}
	if got := Choose[int](r, nil); got != 0 {
		t.Errorf("Choose(nil) = %v, want 0", got)
	}
}

// TestValueOverTime tests the closed-form value models
func TestValueOverTime(t *testing.T) {
	tests := []struct {
		name string
		v    ValueOverTime
		pct  float32
		want float32
	}{
		{"Constant", Constant(4), 0.3, 4},
		{"Lerp start", Lerp{A: 2, B: 8}, 0, 2},
		{"Lerp mid", Lerp{A: 2, B: 8}, 0.5, 5},
		{"Lerp clamped", Lerp{A: 2, B: 8}, 3, 8},
		{"Sin quarter", NewSinWave(), 0.25, 1},
		{"Sin three quarters", NewSinWave(), 0.75, -1},
		{"Sin shifted", SinWave{Amplitude: 2, Period: 1, VerticalShift: 1}, 0.25, 3},
		{"Sin phase", SinWave{Amplitude: 1, Period: 1, PhaseShift: math.Pi / 2}, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvalValue(tt.v, tt.pct, nil); !approxEqual(got, tt.want, 1e-5) {
				t.Errorf("At(%v) = %v, want %v", tt.pct, got, tt.want)
			}
		})
	}
	if got := EvalValue(nil, 0.5, nil); got != 0 {
		t.Errorf("EvalValue(nil) = %v, want 0", got)
	}
}

// TestColorConversions tests hex and HSV color construction
func TestColorConversions(t *testing.T) {
	c, err := ColorFromHex("#ff000080")
	if err != nil {
		t.Fatalf("ColorFromHex error: %v", err)
	}
	if c.R != 1 || c.G != 0 || c.B != 0 || !approxEqual(c.A, 128.0/255, 1e-6) {
		t.Errorf("ColorFromHex = %v", c)
	}
	if _, err := ColorFromHex("#abc"); err == nil {
		t.Error("ColorFromHex(#abc) should fail")
	}

	red, err := ColorFromHSV(0, 1, 1, 0.5)
	if err != nil {
		t.Fatalf("ColorFromHSV error: %v", err)
	}
	if red != (Color{1, 0, 0, 0.5}) {
		t.Errorf("ColorFromHSV(0, 1, 1) = %v, want red", red)
	}
}
