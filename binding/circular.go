package binding

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/getcharzp/speech-addon"
	"github.com/getcharzp/speech-addon/circular"
)

func (a *Addon) bufferArg(call goja.FunctionCall, i int) *circular.Buffer {
	h := Handle(a.intArg(call, i))
	b, ok := a.buffers.Get(h)
	if !ok {
		a.throwError(fmt.Errorf("无效的环形缓冲区句柄 %d: %w", h, addon.ErrInvalidArgument))
	}
	return b
}

// createCircularBuffer(capacity: number) -> number
func (a *Addon) createCircularBuffer(call goja.FunctionCall) goja.Value {
	a.checkArgc(call, 1, 1)
	b, err := circular.NewBuffer(a.intArg(call, 0))
	if err != nil {
		a.throwError(err)
	}
	return a.vm.ToValue(int64(a.buffers.Insert(b)))
}

// circularBufferPush(handle: number, samples: Float32Array)
func (a *Addon) circularBufferPush(call goja.FunctionCall) goja.Value {
	a.checkArgc(call, 2, 2)
	b := a.bufferArg(call, 0)
	b.Push(a.float32ArrayArg(call, 1))
	return goja.Undefined()
}

// circularBufferGet(handle: number, index: number, n: number, enableExternalBuffer: boolean = true) -> Float32Array
func (a *Addon) circularBufferGet(call goja.FunctionCall) goja.Value {
	a.checkArgc(call, 3, 4)
	b := a.bufferArg(call, 0)
	start := a.intArg(call, 1)
	n := a.intArg(call, 2)
	external := a.optionalBoolArg(call, 3, a.external)

	samples, err := b.Get(start, n)
	if err != nil {
		a.throwError(err)
	}
	// Get 已返回独立副本, 共享内存时无需再次复制
	return a.newFloat32Array(samples, external)
}

// circularBufferPop(handle: number, n: number)
func (a *Addon) circularBufferPop(call goja.FunctionCall) goja.Value {
	a.checkArgc(call, 2, 2)
	b := a.bufferArg(call, 0)
	if err := b.Pop(a.intArg(call, 1)); err != nil {
		a.throwError(err)
	}
	return goja.Undefined()
}

// circularBufferSize(handle: number) -> number
func (a *Addon) circularBufferSize(call goja.FunctionCall) goja.Value {
	a.checkArgc(call, 1, 1)
	return a.vm.ToValue(a.bufferArg(call, 0).Size())
}

// circularBufferHead(handle: number) -> number
func (a *Addon) circularBufferHead(call goja.FunctionCall) goja.Value {
	a.checkArgc(call, 1, 1)
	return a.vm.ToValue(a.bufferArg(call, 0).Head())
}

// circularBufferReset(handle: number)
func (a *Addon) circularBufferReset(call goja.FunctionCall) goja.Value {
	a.checkArgc(call, 1, 1)
	a.bufferArg(call, 0).Reset()
	return goja.Undefined()
}

// circularBufferFree(handle: number)
func (a *Addon) circularBufferFree(call goja.FunctionCall) goja.Value {
	a.checkArgc(call, 1, 1)
	h := Handle(a.intArg(call, 0))
	if !a.buffers.Remove(h) {
		a.throwError(fmt.Errorf("无效的环形缓冲区句柄 %d: %w", h, addon.ErrInvalidArgument))
	}
	return goja.Undefined()
}
