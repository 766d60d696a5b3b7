package game

import (
	"math"
)

// Time 帧时钟
//
// 同时维护两条时间线：
//   - 真实时间（raw）：每帧按宿主循环提供的 dt 前进
//   - 虚拟时间（scaled）：raw dt × 时间缩放，暂停时为 0
//
// 发射器和粒子根据 UseScaledTime 选择读取哪一条时间线。
type Time struct {
	scale  float32
	paused bool

	rawDelta    float32
	scaledDelta float32

	// 累计时间用 float64，避免长时间运行后的精度损失
	rawElapsed    float64
	scaledElapsed float64
}

// NewTime 创建时间缩放为 1 的时钟
func NewTime() *Time {
	return &Time{scale: 1}
}

// Advance 推进一帧
// realDt 为负数或非有限值时视为 0
func (t *Time) Advance(realDt float32) {
	if !(realDt > 0) || math.IsInf(float64(realDt), 0) {
		realDt = 0
	}
	t.rawDelta = realDt
	t.rawElapsed += float64(realDt)

	t.scaledDelta = 0
	if !t.paused {
		t.scaledDelta = realDt * t.scale
	}
	t.scaledElapsed += float64(t.scaledDelta)
}

// Delta 返回本帧的时间增量（秒）
func (t *Time) Delta(scaled bool) float32 {
	if scaled {
		return t.scaledDelta
	}
	return t.rawDelta
}

// Elapsed 返回累计时间（秒）
func (t *Time) Elapsed(scaled bool) float32 {
	if scaled {
		return float32(t.scaledElapsed)
	}
	return float32(t.rawElapsed)
}

// SetTimeScale 设置虚拟时间缩放，负数和非有限值按 0 处理
func (t *Time) SetTimeScale(scale float32) {
	if !(scale > 0) || math.IsInf(float64(scale), 0) {
		scale = 0
	}
	t.scale = scale
}

// TimeScale 返回虚拟时间缩放
func (t *Time) TimeScale() float32 {
	return t.scale
}

// Pause 暂停虚拟时间（真实时间继续）
func (t *Time) Pause() { t.paused = true }

// Resume 恢复虚拟时间
func (t *Time) Resume() { t.paused = false }

// TogglePause 切换暂停状态并返回新状态
func (t *Time) TogglePause() bool {
	t.paused = !t.paused
	return t.paused
}

// Paused 返回虚拟时间是否暂停
func (t *Time) Paused() bool {
	return t.paused
}
