package rawfile

import (
	"fmt"

	"github.com/getcharzp/speech-addon"
)

// ListFiles 递归列出 dir 下的所有文件
//
// 返回的路径均指向文件 (不含目录)，顺序与 Manager 的枚举顺序一致。
// dir 非空时每个结果带有 dir/ 前缀。子目录打开失败时整个调用失败，
// 不返回部分结果。
//
// # Params:
//
//	mgr: 资源管理器, 仅借用
//	dir: 起始目录, "" 表示根目录
func ListFiles(mgr Manager, dir string) ([]string, error) {
	if mgr == nil {
		return nil, fmt.Errorf("资源管理器为空: %w", addon.ErrResourceNotFound)
	}

	dir = cleanPath(dir)
	files, err := listDir(mgr, dir)
	if err != nil {
		return nil, err
	}
	if dir != "" {
		for i, f := range files {
			files[i] = dir + "/" + f
		}
	}
	return files, nil
}

// listDir 返回相对于 dir 的文件路径
func listDir(mgr Manager, dir string) ([]string, error) {
	entries, err := mgr.ListEntries(dir)
	if err != nil {
		return nil, fmt.Errorf("打开目录 %q 失败: %w: %w", dir, addon.ErrResourceNotFound, err)
	}

	files := make([]string, 0, len(entries))
	for _, name := range entries {
		p := name
		if dir != "" {
			p = dir + "/" + name
		}

		if !mgr.IsDirectory(p) {
			files = append(files, name)
			continue
		}

		sub, err := listDir(mgr, p)
		if err != nil {
			return nil, err
		}
		for _, f := range sub {
			files = append(files, name+"/"+f)
		}
	}
	return files, nil
}
