package config

import (
	"fmt"
	"log"
	"math"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/decker502/embers/internal/particle"
	"github.com/decker502/embers/pkg/components"
	"github.com/decker502/embers/pkg/embedded"
)

// PresetDir 内置预设所在目录（embedded 资源路径）
const PresetDir = "data/presets"

// EmitterPresetSet 一个预设文件构建出的完整场景
type EmitterPresetSet struct {
	Name     string
	Emitters []BuiltEmitter
}

// BuiltEmitter 由预设构建出的发射器
//
// Emitter 已通过 Validate 检查，可以直接交给 ParticleSystem.AddEmitter。
type BuiltEmitter struct {
	Name      string
	Emitter   components.EmitterComponent
	Transform components.TransformComponent
	Playing   bool
}

// PresetPath 返回内置预设名对应的资源路径
// 例如 "basic" -> "data/presets/basic.yaml"
func PresetPath(name string) string {
	return PresetDir + "/" + name + ".yaml"
}

// ListBuiltinPresets 列出当前资源文件系统中的预设名（按字母排序）
func ListBuiltinPresets() ([]string, error) {
	matches, err := embedded.Glob(PresetDir + "/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("无法列出预设: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".yaml"))
	}
	slices.Sort(names)
	return names, nil
}

// LoadEmitterPresets 从资源文件系统加载并构建预设
//
// 参数:
//   - path: 资源路径，必须以 "data/" 开头（见 PresetPath）
//
// 返回:
//   - 构建完成的场景；任何发射器解析或验证失败都会返回错误
func LoadEmitterPresets(path string) (*EmitterPresetSet, error) {
	file, err := particle.LoadPresetFile(path)
	if err != nil {
		return nil, err
	}
	set, err := BuildPresetFile(file)
	if err != nil {
		return nil, fmt.Errorf("预设文件 %s 验证失败: %w", path, err)
	}
	log.Printf("[Config] 已加载预设 %s: %d 个发射器", path, len(set.Emitters))
	return set, nil
}

// ParseEmitterPresets 解析 YAML 数据并构建预设
func ParseEmitterPresets(data []byte) (*EmitterPresetSet, error) {
	file, err := particle.ParsePresetFile(data)
	if err != nil {
		return nil, err
	}
	return BuildPresetFile(file)
}

// BuildPresetFile 构建预设文件中的所有发射器
func BuildPresetFile(file *particle.PresetFile) (*EmitterPresetSet, error) {
	set := &EmitterPresetSet{Name: file.Name}
	for i, p := range file.Emitters {
		built, err := BuildEmitter(p)
		if err != nil {
			name := p.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, fmt.Errorf("发射器 %q: %w", name, err)
		}
		set.Emitters = append(set.Emitters, built)
	}
	return set, nil
}

// BuildEmitter 将一个发射器预设转换为组件
//
// 未填写的字段保留 components.DefaultEmitter() 的默认值。
// 构建完成后调用 EmitterComponent.Validate，错误包装 components.ErrInvalidEmitter。
func BuildEmitter(p particle.EmitterPreset) (BuiltEmitter, error) {
	e := components.DefaultEmitter()
	out := BuiltEmitter{
		Name:      p.Name,
		Transform: components.IdentityTransform(),
		Playing:   true,
	}

	// 1. 发射参数
	if p.MaxParticles != nil {
		e.MaxParticles = *p.MaxParticles
	}
	if err := setValueOverTime(&e.SpawnRate, "spawn_rate", p.SpawnRate); err != nil {
		return out, err
	}
	if p.Duration != "" {
		d, err := parseFixed("duration", p.Duration)
		if err != nil {
			return out, err
		}
		e.Duration = d
	}
	if p.Looping != nil {
		e.Looping = *p.Looping
	}
	if p.Playing != nil {
		out.Playing = *p.Playing
	}
	for _, b := range p.Bursts {
		e.Bursts = append(e.Bursts, components.ParticleBurst{Time: b.Time, Count: b.Count})
	}

	// 2. 发射器位置
	if p.Position != "" {
		pos, err := particle.ParseVector(p.Position)
		if err != nil {
			return out, fmt.Errorf("position: %w", err)
		}
		out.Transform.Translation = pos
	}
	if p.Rotation != "" {
		roll, err := parseFixed("rotation", p.Rotation)
		if err != nil {
			return out, err
		}
		out.Transform.Rotation = mgl32.QuatRotate(roll, particle.AxisZ)
	}
	if p.Shape.Type != "" {
		shape, err := buildShape(p.Shape)
		if err != nil {
			return out, fmt.Errorf("shape: %w", err)
		}
		e.Shape = shape
	}

	// 3. 初始运动参数
	jittered := []struct {
		name  string
		value string
		dst   *particle.JitteredValue
	}{
		{"initial_speed", p.InitialSpeed, &e.InitialSpeed},
		{"initial_scale", p.InitialScale, &e.InitialScale},
		{"initial_rotation", p.InitialRotation, &e.InitialRotation},
		{"rotation_speed", p.RotationSpeed, &e.RotationSpeed},
		{"lifetime", p.Lifetime, &e.Lifetime},
	}
	for _, f := range jittered {
		if err := setJittered(f.dst, f.name, f.value); err != nil {
			return out, err
		}
	}
	e.RotateToMovementDirection = p.RotateToMovementDirection
	if p.ZValueOverride != "" {
		z, err := particle.ParseJittered(p.ZValueOverride)
		if err != nil {
			return out, fmt.Errorf("z_value_override: %w", err)
		}
		e.ZValueOverride = &z
	}
	if p.MaxDistance != "" {
		d, err := parseFixed("max_distance", p.MaxDistance)
		if err != nil {
			return out, err
		}
		e.MaxDistance = components.Distance(d)
	}

	// 4. 外观
	if p.Color != "" {
		c, err := particle.ParseColorOverTime(p.Color)
		if err != nil {
			return out, fmt.Errorf("color: %w", err)
		}
		e.Color = c
	}
	if err := setValueOverTime(&e.Scale, "scale", p.Scale); err != nil {
		return out, err
	}
	tex, err := buildTexture(p.Texture)
	if err != nil {
		return out, fmt.Errorf("texture: %w", err)
	}
	e.Texture = tex
	for i, m := range p.Modifiers {
		mod, err := buildModifier(m)
		if err != nil {
			return out, fmt.Errorf("modifier %d (%s): %w", i, m.Type, err)
		}
		e.VelocityModifiers = append(e.VelocityModifiers, mod)
	}

	// 5. 生命周期
	switch strings.ToLower(p.Space) {
	case "", "world":
		e.Space = components.SpaceWorld
	case "local":
		e.Space = components.SpaceLocal
	default:
		return out, fmt.Errorf("未知的 space %q（应为 world 或 local）", p.Space)
	}
	if p.UseScaledTime != nil {
		e.UseScaledTime = *p.UseScaledTime
	}
	e.DespawnOnFinish = p.DespawnOnFinish
	e.DespawnParticlesWithSystem = p.DespawnParticlesWithSystem

	if err := e.Validate(); err != nil {
		return out, err
	}
	out.Emitter = e
	return out, nil
}

// buildShape 根据 type 构建发射形状
func buildShape(s particle.ShapePreset) (particle.EmitterShape, error) {
	radius, err := jitteredOr("radius", s.Radius, particle.Fixed(0))
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(s.Type) {
	case "circle":
		c := particle.CircleSegment{Radius: radius, OpeningAngle: 2 * math.Pi}
		if s.OpeningAngle != "" {
			if c.OpeningAngle, err = parseFixed("opening_angle", s.OpeningAngle); err != nil {
				return nil, err
			}
		}
		if s.DirectionAngle != "" {
			if c.DirectionAngle, err = parseFixed("direction_angle", s.DirectionAngle); err != nil {
				return nil, err
			}
		}
		return c, nil

	case "line":
		l := particle.Line{}
		if s.Length != "" {
			if l.Length, err = parseFixed("length", s.Length); err != nil {
				return nil, err
			}
		}
		if l.Angle, err = jitteredOr("angle", s.Angle, particle.Fixed(0)); err != nil {
			return nil, err
		}
		return l, nil

	case "sphere":
		sp := particle.Sphere{Radius: radius}
		if s.Center != "" {
			if sp.Center, err = particle.ParseVector(s.Center); err != nil {
				return nil, fmt.Errorf("center: %w", err)
			}
		}
		switch strings.ToLower(s.Facing) {
		case "", "outward":
			sp.Direction.Facing = particle.FaceOutward
		case "randomized":
			sp.Direction.Facing = particle.FaceRandomized
			sp.Direction.Randomness = 1
			if s.Randomness != "" {
				if sp.Direction.Randomness, err = parseFixed("randomness", s.Randomness); err != nil {
					return nil, err
				}
			}
		case "fixed":
			sp.Direction.Facing = particle.FaceFixed
			if sp.Direction.Fixed, err = particle.ParseVector(s.Direction); err != nil {
				return nil, fmt.Errorf("direction: %w", err)
			}
		default:
			return nil, fmt.Errorf("未知的 facing %q", s.Facing)
		}
		return sp, nil

	case "cone":
		c := particle.Cone{Direction: particle.AxisZ, Radius: radius}
		if s.Direction != "" {
			if c.Direction, err = particle.ParseVector(s.Direction); err != nil {
				return nil, fmt.Errorf("direction: %w", err)
			}
		}
		if c.Angle, err = jitteredOr("angle", s.Angle, particle.Fixed(0)); err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("未知的形状类型 %q", s.Type)
}

// buildModifier 构建速度修改器
func buildModifier(m particle.ModifierPreset) (particle.VelocityModifier, error) {
	switch strings.ToLower(m.Type) {
	case "acceleration":
		v, err := particle.ParseVectorOverTime(m.Value)
		if err != nil {
			return nil, err
		}
		return particle.VectorAcceleration{Curve: v}, nil
	case "scalar_acceleration":
		v, err := particle.ParseValueOverTime(m.Value)
		if err != nil {
			return nil, err
		}
		return particle.ScalarAcceleration{Curve: v}, nil
	case "drag":
		v, err := particle.ParseValueOverTime(m.Value)
		if err != nil {
			return nil, err
		}
		return particle.Drag{Curve: v}, nil
	}

	freq, err := floatOr("frequency", m.Frequency, 1)
	if err != nil {
		return nil, err
	}
	amp, err := floatOr("amplitude", m.Amplitude, 1)
	if err != nil {
		return nil, err
	}
	tf, err := floatOr("time_factor", m.TimeFactor, 1)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(m.Type) {
	case "noise2d":
		return particle.Noise2D{Frequency: freq, Amplitude: amp, TimeFactor: tf}, nil
	case "noise3d":
		return particle.Noise3D{Frequency: freq, Amplitude: amp, TimeFactor: tf}, nil
	case "perlin":
		n := particle.NewPerlinNoise(m.Seed, freq, amp, tf)
		n.Flat = m.Flat
		return n, nil
	}
	return nil, fmt.Errorf("未知的修改器类型 %q", m.Type)
}

// buildTexture 解析纹理引用
//
// Index 支持三种写法：
//   - "3": 固定帧
//   - "random(0 1 2)": 生成时随机选一帧
//   - "animated(1..7 0.1)": 每 0.1 秒前进一帧，循环播放
func buildTexture(t particle.TexturePreset) (components.ParticleTexture, error) {
	tex := components.ParticleTexture{
		Sprite: components.TextureID(t.Sprite),
		Atlas:  components.TextureID(t.Atlas),
	}
	index := strings.TrimSpace(t.Index)
	if index == "" {
		return tex, nil
	}
	if t.Atlas == "" {
		return tex, fmt.Errorf("index %q 需要 atlas", t.Index)
	}

	if args, ok := callArgs(index, "random"); ok {
		frames := make(components.AtlasRandom, 0, len(args))
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return tex, fmt.Errorf("无效的帧号 %q: %w", a, err)
			}
			frames = append(frames, n)
		}
		tex.Index = frames
		return tex, nil
	}

	if args, ok := callArgs(index, "animated"); ok {
		if len(args) != 2 {
			return tex, fmt.Errorf("animated 需要 2 个参数，得到 %d", len(args))
		}
		first, last, found := strings.Cut(args[0], "..")
		if !found {
			return tex, fmt.Errorf("无效的帧范围 %q（应为 a..b）", args[0])
		}
		lo, err := strconv.Atoi(first)
		if err != nil {
			return tex, fmt.Errorf("无效的帧号 %q: %w", first, err)
		}
		hi, err := strconv.Atoi(last)
		if err != nil {
			return tex, fmt.Errorf("无效的帧号 %q: %w", last, err)
		}
		step, err := parseFixed("time step", args[1])
		if err != nil {
			return tex, err
		}
		tex.Index = components.AnimatedRange(lo, hi, step)
		return tex, nil
	}

	n, err := strconv.Atoi(index)
	if err != nil {
		return tex, fmt.Errorf("无效的 index %q", t.Index)
	}
	tex.Index = components.AtlasConstant(n)
	return tex, nil
}

// callArgs 匹配 "name(a b c)" 并返回参数
func callArgs(s, name string) ([]string, bool) {
	inner, ok := strings.CutPrefix(s, name+"(")
	if !ok {
		return nil, false
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return nil, false
	}
	return strings.Fields(strings.ReplaceAll(inner, ",", " ")), true
}

func setJittered(dst *particle.JitteredValue, field, s string) error {
	if s == "" {
		return nil
	}
	v, err := particle.ParseJittered(s)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = v
	return nil
}

func setValueOverTime(dst *particle.ValueOverTime, field, s string) error {
	if s == "" {
		return nil
	}
	v, err := particle.ParseValueOverTime(s)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = v
	return nil
}

func jitteredOr(field, s string, def particle.JitteredValue) (particle.JitteredValue, error) {
	if err := setJittered(&def, field, s); err != nil {
		return particle.JitteredValue{}, err
	}
	return def, nil
}

func floatOr(field, s string, def float32) (float32, error) {
	if s == "" {
		return def, nil
	}
	return parseFixed(field, s)
}

// parseFixed 解析不带抖动的单个数值
func parseFixed(field, s string) (float32, error) {
	v, err := particle.ParseJittered(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if v.HasJitter() {
		return 0, fmt.Errorf("%s: %q 不能带抖动范围", field, s)
	}
	return v.Value, nil
}
