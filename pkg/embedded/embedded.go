// Package embedded 提供内置预设资源的统一访问接口
//
// 内置的发射器预设位于 data/presets/*.yaml，随模块一起编译。
// 调用 Init() 可以替换为其他文件系统（例如 os.DirFS 指向工作目录，
// 便于实时编辑预设），未调用时使用内置资源。
package embedded

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed data
var builtinFS embed.FS

var (
	mu     sync.RWMutex
	dataFS fs.FS = builtinFS
	custom bool
)

// Init 替换资源文件系统
// fsys 的根目录下应包含 data/ 目录；传入 nil 恢复内置资源
func Init(fsys fs.FS) {
	mu.Lock()
	defer mu.Unlock()
	if fsys == nil {
		dataFS = builtinFS
		custom = false
		return
	}
	dataFS = fsys
	custom = true
}

// IsCustom 返回当前是否使用 Init() 注入的文件系统
func IsCustom() bool {
	mu.RLock()
	defer mu.RUnlock()
	return custom
}

func current() fs.FS {
	mu.RLock()
	defer mu.RUnlock()
	return dataFS
}

// normalize 标准化路径并检查前缀
// 路径必须以 "data/" 开头
func normalize(path string) (string, error) {
	// 标准化路径分隔符为正斜杠（fs.FS 使用正斜杠）
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	if !strings.HasPrefix(path, "data/") && path != "data" {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return path, nil
}

// Open 打开资源文件
func Open(path string) (fs.File, error) {
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return current().Open(path)
}

// ReadFile 读取资源文件内容
func ReadFile(path string) ([]byte, error) {
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(current(), path)
}

// Exists 检查资源文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配资源文件
func Glob(pattern string) ([]string, error) {
	pattern, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(current(), pattern)
}

// ReadDir 读取资源目录内容
func ReadDir(path string) ([]fs.DirEntry, error) {
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(current(), path)
}
