package embedded

import (
	"strings"
	"testing"
	"testing/fstest"
)

// TestBuiltinPresets 测试内置预设可以被读取
func TestBuiltinPresets(t *testing.T) {
	Init(nil)

	if IsCustom() {
		t.Fatal("Expected builtin filesystem after Init(nil)")
	}

	matches, err := Glob("data/presets/*.yaml")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("Expected builtin presets under data/presets")
	}

	for _, name := range []string{"basic", "oneshot", "velocity_modifiers"} {
		path := "data/presets/" + name + ".yaml"
		if !Exists(path) {
			t.Errorf("Expected %s to exist", path)
		}
	}
}

// TestInvalidPrefix 测试无效路径前缀
func TestInvalidPrefix(t *testing.T) {
	Init(nil)

	tests := []struct {
		name string
		call func() error
	}{
		{"Open", func() error { _, err := Open("invalid/path.yaml"); return err }},
		{"ReadFile", func() error { _, err := ReadFile("invalid/path.yaml"); return err }},
		{"Glob", func() error { _, err := Glob("invalid/*.yaml"); return err }},
		{"ReadDir", func() error { _, err := ReadDir("invalid"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if err == nil {
				t.Fatal("Expected error for invalid path prefix")
			}
			if !strings.Contains(err.Error(), "must start with 'data/'") {
				t.Errorf("Unexpected error message: %v", err)
			}
		})
	}
}

// TestPathNormalization 测试路径规范化
func TestPathNormalization(t *testing.T) {
	Init(fstest.MapFS{
		"data/presets/a.yaml": {Data: []byte("name: a")},
	})
	defer Init(nil)

	data, err := ReadFile("./data/presets/a.yaml")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "name: a" {
		t.Errorf("ReadFile() = %q", data)
	}
}

// TestInitOverride 测试注入自定义文件系统
func TestInitOverride(t *testing.T) {
	Init(fstest.MapFS{
		"data/presets/custom.yaml": {Data: []byte("name: custom")},
	})
	defer Init(nil)

	if !IsCustom() {
		t.Error("Expected IsCustom() to be true after Init(fsys)")
	}
	if !Exists("data/presets/custom.yaml") {
		t.Error("Expected custom preset to exist")
	}
	if Exists("data/presets/basic.yaml") {
		t.Error("Builtin presets should be hidden by the custom filesystem")
	}

	entries, err := ReadDir("data/presets")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("ReadDir() returned %d entries, want 1", len(entries))
	}
}
