package binding

import (
	"github.com/dop251/goja"
	"github.com/getcharzp/speech-addon/wave"
)

// readWave(filename: string, enableExternalBuffer: boolean = true)
func (a *Addon) readWave(call goja.FunctionCall) goja.Value {
	a.checkArgc(call, 1, 2)
	filename := a.stringArg(call, 0)
	external := a.optionalBoolArg(call, 1, a.external)

	w, err := wave.ReadWave(filename)
	if err != nil {
		a.throwError(err)
	}

	obj := a.vm.NewObject()
	_ = obj.Set("samples", a.newFloat32Array(w.Samples, external))
	_ = obj.Set("sampleRate", w.SampleRate)
	return obj
}
