package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/decker502/embers/pkg/embedded"
)

// TestRun_Oneshot 测试一次性爆发预设的统计
func TestRun_Oneshot(t *testing.T) {
	embedded.Init(nil)

	var out bytes.Buffer
	sum, err := run(&out, "oneshot", runOptions{ticks: 120, dt: 1.0 / 60, scale: 1, seed: 1, every: 30, workers: 1})
	if err != nil {
		t.Fatalf("run 失败: %v", err)
	}

	if sum.spawned != 1000 || sum.burst != 1000 {
		t.Errorf("spawned/burst = %d/%d, 期望 1000/1000", sum.spawned, sum.burst)
	}
	if sum.peak != 1000 {
		t.Errorf("peak = %d, 期望 1000", sum.peak)
	}
	// 生命周期 1 秒，两秒后全部消失
	if sum.final != 0 {
		t.Errorf("final = %d, 期望 0", sum.final)
	}

	text := out.String()
	if !strings.Contains(text, "== oneshot (1 emitters)") {
		t.Errorf("输出缺少标题:\n%s", text)
	}
	// 表头 + 每 30 帧一行
	if rows := strings.Count(text, "\n"); rows != 1+1+4 {
		t.Errorf("输出 %d 行, 期望 6:\n%s", rows, text)
	}
}

// TestRun_UnknownPreset 测试未知预设返回错误
func TestRun_UnknownPreset(t *testing.T) {
	embedded.Init(nil)
	if _, err := run(&bytes.Buffer{}, "missing", runOptions{ticks: 1, dt: 0.1, scale: 1}); err == nil {
		t.Error("未知预设应返回错误")
	}
}

// TestRun_SummaryOnly 测试 every=0 时不输出逐帧统计
func TestRun_SummaryOnly(t *testing.T) {
	embedded.Init(nil)

	var out bytes.Buffer
	sum, err := run(&out, "directional", runOptions{ticks: 60, dt: 1.0 / 60, scale: 1, seed: 3})
	if err != nil {
		t.Fatalf("run 失败: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("every=0 时不应有输出, 得到:\n%s", out.String())
	}
	// 25 个/秒，一秒后约 25 个
	if sum.spawned < 20 || sum.spawned > 26 {
		t.Errorf("spawned = %d, 期望约 25", sum.spawned)
	}

	var summary bytes.Buffer
	printSummaries(&summary, []runSummary{sum}, 60)
	if !strings.Contains(summary.String(), "directional") {
		t.Errorf("汇总缺少预设名:\n%s", summary.String())
	}
}
