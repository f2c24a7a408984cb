package binding

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/getcharzp/speech-addon"
	"go.uber.org/zap"
)

// Addon 已注册到某个运行时的绑定
type Addon struct {
	vm       *goja.Runtime
	buffers  *Table
	external bool
}

// Option 绑定选项
type Option func(*Addon)

// WithExternalBuffer 设置 enableExternalBuffer 参数缺省时的取值
func WithExternalBuffer(enable bool) Option {
	return func(a *Addon) {
		a.external = enable
	}
}

// WithTable 使用共享的句柄表 (多个运行时共享环形缓冲区时使用)
func WithTable(t *Table) Option {
	return func(a *Addon) {
		if t != nil {
			a.buffers = t
		}
	}
}

// Register 将所有函数注册到 exports 对象
//
// # Params:
//
//	vm: 脚本运行时
//	exports: 导出对象, 例如 vm.GlobalObject() 或模块的 exports
//	opts: 绑定选项
func Register(vm *goja.Runtime, exports *goja.Object, opts ...Option) (*Addon, error) {
	a := &Addon{
		vm:       vm,
		buffers:  NewTable(),
		external: true,
	}
	for _, opt := range opts {
		opt(a)
	}

	funcs := map[string]func(goja.FunctionCall) goja.Value{
		"readWave":             a.readWave,
		"readRawFile":          a.readRawFile,
		"listFiles":            a.listFiles,
		"createCircularBuffer": a.createCircularBuffer,
		"circularBufferPush":   a.circularBufferPush,
		"circularBufferGet":    a.circularBufferGet,
		"circularBufferPop":    a.circularBufferPop,
		"circularBufferSize":   a.circularBufferSize,
		"circularBufferHead":   a.circularBufferHead,
		"circularBufferReset":  a.circularBufferReset,
		"circularBufferFree":   a.circularBufferFree,
	}
	for name, fn := range funcs {
		if err := exports.Set(name, fn); err != nil {
			return nil, fmt.Errorf("注册 %s 失败: %w", name, err)
		}
	}

	addon.Logger().Debug("addon registered", zap.Int("functions", len(funcs)))
	return a, nil
}

// Install 将所有函数注册为全局函数
func Install(vm *goja.Runtime, opts ...Option) (*Addon, error) {
	return Register(vm, vm.GlobalObject(), opts...)
}

// Buffers 返回环形缓冲区句柄表
func (a *Addon) Buffers() *Table {
	return a.buffers
}
