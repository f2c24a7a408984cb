package binding

import (
	"github.com/dop251/goja"
	"github.com/getcharzp/speech-addon/rawfile"
)

// resourceManager 脚本侧的资源管理器对象，不向脚本暴露任何字段
type resourceManager struct {
	mgr rawfile.Manager
}

// NewResourceManager 将资源管理器包装为脚本对象，作为 readRawFile/listFiles 的 mgr 参数
//
// 绑定层只借用 mgr，不会关闭它。
func NewResourceManager(vm *goja.Runtime, mgr rawfile.Manager) goja.Value {
	return vm.ToValue(&resourceManager{mgr: mgr})
}

func (a *Addon) managerArg(call goja.FunctionCall, i int) rawfile.Manager {
	switch v := call.Argument(i).Export().(type) {
	case *resourceManager:
		return v.mgr
	case rawfile.Manager:
		return v
	}
	a.throwTypeError("Argument %d should be a resource manager", i)
	return nil
}

// readRawFile(mgr: object, filename: string) -> ArrayBuffer
func (a *Addon) readRawFile(call goja.FunctionCall) goja.Value {
	if n := len(call.Arguments); n != 2 {
		a.throwTypeError("Expect only 2 arguments. Given: %d", n)
	}
	mgr := a.managerArg(call, 0)
	name := a.stringArg(call, 1)

	data, err := rawfile.ReadFile(mgr, name)
	if err != nil {
		a.throwError(err)
	}
	return a.vm.ToValue(a.vm.NewArrayBuffer(data))
}

// listFiles(mgr: object, path: string = "") -> string[]
func (a *Addon) listFiles(call goja.FunctionCall) goja.Value {
	a.checkArgc(call, 1, 2)
	mgr := a.managerArg(call, 0)
	dir := ""
	if !goja.IsUndefined(call.Argument(1)) {
		dir = a.stringArg(call, 1)
	}

	files, err := rawfile.ListFiles(mgr, dir)
	if err != nil {
		a.throwError(err)
	}

	values := make([]any, len(files))
	for i, f := range files {
		values[i] = f
	}
	return a.vm.NewArray(values...)
}
