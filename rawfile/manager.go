// Package rawfile 提供应用资源 (rawfile) 的只读访问
//
// 资源树通过 Manager 句柄访问，而不是普通文件路径。本包的函数只借用
// Manager，不会关闭它；由创建者负责 Close。
package rawfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/getcharzp/speech-addon"
	"github.com/klauspost/compress/zip"
)

// Manager 只读资源树的句柄
type Manager interface {
	// Open 打开一个资源文件
	Open(name string) (fs.File, error)
	// IsDirectory 判断 name 是否为目录
	IsDirectory(name string) bool
	// ListEntries 列出目录下的条目名 (不含路径前缀)
	ListEntries(name string) ([]string, error)
}

// FSManager 基于 fs.FS 的资源管理器，适用于 embed.FS、os.DirFS 和应用包
type FSManager struct {
	fsys   fs.FS
	closer io.Closer
}

// NewFSManager 使用任意 fs.FS 创建资源管理器
func NewFSManager(fsys fs.FS) *FSManager {
	return &FSManager{fsys: fsys}
}

// NewDirManager 使用本地目录创建资源管理器
func NewDirManager(dir string) (*FSManager, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("打开资源目录 %s 失败: %w: %w", dir, addon.ErrResourceNotFound, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s 不是目录: %w", dir, addon.ErrResourceNotFound)
	}
	return NewFSManager(os.DirFS(dir)), nil
}

// OpenHap 打开应用包 (zip 格式)，以 root 目录作为资源树的根
//
// # Params:
//
//	hapPath: 应用包路径
//	root: 包内 rawfile 根目录, 为空时使用 resources/rawfile
func OpenHap(hapPath string, root string) (*FSManager, error) {
	rc, err := zip.OpenReader(hapPath)
	if err != nil {
		return nil, fmt.Errorf("打开应用包 %s 失败: %w: %w", hapPath, addon.ErrResourceNotFound, err)
	}

	m, err := newZipManager(&rc.Reader, root)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	m.closer = rc
	return m, nil
}

// NewHapManager 使用内存中的应用包创建资源管理器
func NewHapManager(r io.ReaderAt, size int64, root string) (*FSManager, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("解析应用包失败: %w: %w", addon.ErrResourceNotFound, err)
	}
	return newZipManager(zr, root)
}

func newZipManager(zr *zip.Reader, root string) (*FSManager, error) {
	if root == "" {
		root = addon.DefaultRawfileRoot
	}
	root = cleanPath(root)
	if root == "" {
		return NewFSManager(zr), nil
	}

	sub, err := fs.Sub(zr, root)
	if err != nil {
		return nil, fmt.Errorf("无效的 rawfile 根目录 %s: %w: %w", root, addon.ErrResourceNotFound, err)
	}
	info, err := fs.Stat(sub, ".")
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("应用包内不存在目录 %s: %w", root, addon.ErrResourceNotFound)
	}
	return NewFSManager(sub), nil
}

// Open 打开一个资源文件
func (m *FSManager) Open(name string) (fs.File, error) {
	return m.fsys.Open(fsPath(name))
}

// IsDirectory 判断 name 是否为目录
func (m *FSManager) IsDirectory(name string) bool {
	info, err := fs.Stat(m.fsys, fsPath(name))
	return err == nil && info.IsDir()
}

// ListEntries 列出目录下的条目名，顺序与 fs.ReadDir 一致 (按文件名排序)
func (m *FSManager) ListEntries(name string) ([]string, error) {
	entries, err := fs.ReadDir(m.fsys, fsPath(name))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// Close 释放底层应用包
func (m *FSManager) Close() error {
	if m.closer == nil {
		return nil
	}
	err := m.closer.Close()
	m.closer = nil
	if err != nil && !errors.Is(err, fs.ErrClosed) {
		return err
	}
	return nil
}

// cleanPath 规范化资源路径: 使用 / 分隔, 去掉首尾 /, 根目录为 ""
func cleanPath(p string) string {
	return strings.Trim(path.Clean("/"+p), "/")
}

func fsPath(name string) string {
	if name = cleanPath(name); name == "" {
		return "."
	}
	return name
}
