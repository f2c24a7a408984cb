package rawfile

import (
	"fmt"
	"io"

	"github.com/getcharzp/speech-addon"
	"go.uber.org/zap"
)

// ReadFile 读取整个资源文件
//
// # Params:
//
//	mgr: 资源管理器, 仅借用
//	name: 资源文件路径
func ReadFile(mgr Manager, name string) ([]byte, error) {
	if mgr == nil {
		return nil, fmt.Errorf("资源管理器为空: %w", addon.ErrResourceNotFound)
	}

	log := addon.Logger()
	name = cleanPath(name)
	log.Debug("read rawfile", zap.String("name", name))

	f, err := mgr.Open(name)
	if err != nil {
		log.Error("read rawfile failed", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("打开 rawfile %q 失败: %w: %w", name, addon.ErrResourceNotFound, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("获取 rawfile %q 信息失败: %w", name, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("rawfile %q 是目录: %w", name, addon.ErrResourceNotFound)
	}

	data := make([]byte, info.Size())
	n, err := io.ReadFull(f, data)
	if err != nil {
		log.Error("read rawfile failed",
			zap.String("name", name),
			zap.Int("read", n),
			zap.Int64("expected", info.Size()),
			zap.Error(err))
		return nil, fmt.Errorf("读取 rawfile %q 失败. 已读取 %d 字节, 期望 %d 字节: %w", name, n, info.Size(), err)
	}

	log.Debug("read rawfile done", zap.String("name", name), zap.Int("bytes", n))
	return data, nil
}
