// Package circular 提供按绝对下标访问的采样环形缓冲区
package circular

import (
	"fmt"

	"github.com/getcharzp/speech-addon"
	"go.uber.org/zap"
)

// MaxCapacity 单个缓冲区允许的最大容量 (采样数), 即 1 GiB 的 float32
const MaxCapacity = 1 << 28

// Buffer 可自动扩容的 float32 环形缓冲区
//
// 采样使用绝对下标寻址: Head() 为最早保留的采样下标, Head()+Size() 为下一个写入位置。
// 非并发安全。
type Buffer struct {
	data []float32
	head int
	tail int
}

// NewBuffer 创建环形缓冲区
//
// # Params:
//
//	capacity: 初始容量 (采样数), 范围 (0, MaxCapacity], 写满后自动扩容
func NewBuffer(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("容量必须大于 0, 当前为 %d: %w", capacity, addon.ErrInvalidArgument)
	}
	if capacity > MaxCapacity {
		return nil, fmt.Errorf("容量 %d 超过上限 %d: %w", capacity, MaxCapacity, addon.ErrInvalidArgument)
	}
	return &Buffer{data: make([]float32, capacity)}, nil
}

// Push 追加采样，空间不足时扩容到 max(2*容量, 所需大小)
//
// 翻倍后的容量不超过 MaxCapacity, 但总会容纳全部采样。
func (b *Buffer) Push(samples []float32) {
	n := len(samples)
	if n == 0 {
		return
	}

	capacity := len(b.data)
	size := b.Size()
	if size+n > capacity {
		newCapacity := max(min(2*capacity, MaxCapacity), size+n)
		addon.Logger().Warn("circular buffer overflow",
			zap.Int("n", n),
			zap.Int("size", size),
			zap.Int("capacity", capacity),
			zap.Int("new_capacity", newCapacity))
		b.resize(newCapacity)
	}

	start := b.tail % len(b.data)
	k := copy(b.data[start:], samples)
	copy(b.data, samples[k:])
	b.tail += n
}

// Get 复制从绝对下标 start 开始的 n 个采样
func (b *Buffer) Get(start, n int) ([]float32, error) {
	if start < b.head || start > b.tail {
		return nil, fmt.Errorf("无效的起始下标 %d, 有效范围 [%d, %d]: %w", start, b.head, b.tail, addon.ErrInvalidArgument)
	}
	if n < 0 || n > b.tail-start {
		return nil, fmt.Errorf("无效的长度 %d, 最多可读取 %d: %w", n, b.tail-start, addon.ErrInvalidArgument)
	}

	out := make([]float32, n)
	if n == 0 {
		return out, nil
	}
	pos := start % len(b.data)
	k := copy(out, b.data[pos:])
	copy(out[k:], b.data)
	return out, nil
}

// Pop 丢弃最早的 n 个采样
func (b *Buffer) Pop(n int) error {
	if n < 0 || n > b.Size() {
		return fmt.Errorf("无法弹出 %d 个采样, 当前大小 %d: %w", n, b.Size(), addon.ErrInvalidArgument)
	}
	b.head += n
	return nil
}

// Size 当前保留的采样数
func (b *Buffer) Size() int {
	return b.tail - b.head
}

// Head 最早保留采样的绝对下标
func (b *Buffer) Head() int {
	return b.head
}

// Tail 下一个写入采样的绝对下标
func (b *Buffer) Tail() int {
	return b.tail
}

// Capacity 当前容量
func (b *Buffer) Capacity() int {
	return len(b.data)
}

// Reset 清空缓冲区并将下标归零
func (b *Buffer) Reset() {
	b.head = 0
	b.tail = 0
}

func (b *Buffer) resize(capacity int) {
	data := make([]float32, capacity)
	old := len(b.data)
	for i := b.head; i < b.tail; i++ {
		data[i%capacity] = b.data[i%old]
	}
	b.data = data
}
