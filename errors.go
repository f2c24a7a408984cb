package addon

import "errors"

var (
	// ErrResourceNotFound 资源管理器无效或路径不存在
	ErrResourceNotFound = errors.New("resource not found")
	// ErrInvalidArgument 脚本侧传入的参数个数或类型不正确
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDecode 音频文件无法解码
	ErrDecode = errors.New("decode error")
)
