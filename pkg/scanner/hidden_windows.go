//go:build windows

package scanner

import "golang.org/x/sys/windows"

// hasHiddenAttribute 查询 Windows 文件隐藏属性
// 查询失败（路径编码、文件已删除等）时按不隐藏处理
func hasHiddenAttribute(path string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}

	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}

	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
