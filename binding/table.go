package binding

import (
	"sync"

	"github.com/getcharzp/speech-addon/circular"
)

// Handle 暴露给脚本的环形缓冲区句柄, 0 为无效句柄
type Handle int64

// Table 句柄到环形缓冲区的映射，释放的句柄会被复用
type Table struct {
	entries  []*circular.Buffer
	freeList []Handle
	mu       sync.RWMutex
}

// NewTable 创建句柄表
func NewTable() *Table {
	return &Table{
		entries:  make([]*circular.Buffer, 0, 16),
		freeList: make([]Handle, 0, 4),
	}
}

// Insert 保存缓冲区并返回句柄
func (t *Table) Insert(b *circular.Buffer) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.freeList); n > 0 {
		h := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = b
		return h
	}

	t.entries = append(t.entries, b)
	return Handle(len(t.entries))
}

// Get 按句柄查找缓冲区
func (t *Table) Get(h Handle) (*circular.Buffer, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if h <= 0 || int(h) > len(t.entries) {
		return nil, false
	}
	b := t.entries[h-1]
	return b, b != nil
}

// Remove 释放句柄
func (t *Table) Remove(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if h <= 0 || int(h) > len(t.entries) || t.entries[h-1] == nil {
		return false
	}
	t.entries[h-1] = nil
	t.freeList = append(t.freeList, h)
	return true
}

// Len 有效句柄数
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries) - len(t.freeList)
}
