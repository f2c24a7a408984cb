// Package binding 将 WAV 读取、rawfile 访问和环形缓冲区注册到 goja 脚本运行时
//
// 注册后脚本可调用:
//
//	readWave(filename, enableExternalBuffer = true) -> {samples: Float32Array, sampleRate: number}
//	readRawFile(mgr, filename) -> ArrayBuffer
//	listFiles(mgr, path = "") -> string[]
//	createCircularBuffer(capacity) -> number
//	circularBufferPush(handle, samples)
//	circularBufferGet(handle, startIndex, n, enableExternalBuffer = true) -> Float32Array
//	circularBufferPop(handle, n)
//	circularBufferSize(handle) -> number
//	circularBufferHead(handle) -> number
//	circularBufferReset(handle)
//	circularBufferFree(handle)
//
// 参数个数或类型错误时抛出 TypeError，其余失败抛出 Error。
// mgr 由 NewResourceManager 创建，绑定层只借用其中的 rawfile.Manager。
package binding
