package binding

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/dop251/goja"
	"github.com/getcharzp/speech-addon"
	"go.uber.org/zap"
)

// throwTypeError 以 TypeError 中断当前脚本调用
func (a *Addon) throwTypeError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	addon.Logger().Debug("invalid argument", zap.Error(fmt.Errorf("%s: %w", msg, addon.ErrInvalidArgument)))
	panic(a.vm.NewTypeError("%s", msg))
}

// throwError 以 Error 中断当前脚本调用
func (a *Addon) throwError(err error) {
	addon.Logger().Error("addon call failed", zap.Error(err))
	panic(a.vm.NewGoError(err))
}

func (a *Addon) checkArgc(call goja.FunctionCall, minArgs, maxArgs int) {
	n := len(call.Arguments)
	if n > maxArgs {
		a.throwTypeError("Expect only %d %s. Given: %d", maxArgs, plural(maxArgs, "argument"), n)
	}
	if n < minArgs {
		a.throwTypeError("Expect at least %d %s. Given: %d", minArgs, plural(minArgs, "argument"), n)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func (a *Addon) stringArg(call goja.FunctionCall, i int) string {
	s, ok := call.Argument(i).Export().(string)
	if !ok {
		a.throwTypeError("Argument %d should be a string", i)
	}
	return s
}

// optionalBoolArg 参数缺省或为 undefined 时返回 def
func (a *Addon) optionalBoolArg(call goja.FunctionCall, i int, def bool) bool {
	v := call.Argument(i)
	if goja.IsUndefined(v) {
		return def
	}
	b, ok := v.Export().(bool)
	if !ok {
		a.throwTypeError("Argument %d should be a boolean", i)
	}
	return b
}

func (a *Addon) intArg(call goja.FunctionCall, i int) int {
	switch v := call.Argument(i).Export().(type) {
	case int64:
		return int(v)
	case float64:
		// 超出 int64 范围的整数值转换结果未定义
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int(v)
		}
	}
	a.throwTypeError("Argument %d should be an integer", i)
	return 0
}

// float32ArrayArg 复制 Float32Array 参数中的采样
//
// 只接受真正的 Float32Array, 形似 Float32Array 的普通对象会被拒绝。
func (a *Addon) float32ArrayArg(call goja.FunctionCall, i int) []float32 {
	v := call.Argument(i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		a.throwTypeError("Argument %d should be a Float32Array", i)
	}
	view, ok := v.Export().([]float32)
	if !ok {
		a.throwTypeError("Argument %d should be a Float32Array", i)
	}
	return append([]float32(nil), view...)
}

// newFloat32Array 创建 Float32Array
//
// external 为 true 时数组直接引用 samples 的内存，否则复制一份。
func (a *Addon) newFloat32Array(samples []float32, external bool) goja.Value {
	if !external {
		samples = append([]float32(nil), samples...)
	}
	ab := a.vm.NewArrayBuffer(float32Bytes(samples))
	arr, err := a.vm.New(a.vm.Get("Float32Array"), a.vm.ToValue(ab))
	if err != nil {
		a.throwError(fmt.Errorf("创建 Float32Array 失败: %w", err))
	}
	return arr
}

// float32Bytes 以字节视图访问 float32 切片 (本机字节序, 与 TypedArray 一致)
func float32Bytes(s []float32) []byte {
	if len(s) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
}
