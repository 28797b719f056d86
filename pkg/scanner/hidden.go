//go:build !windows

package scanner

// 非 Windows 平台只依赖点号前缀约定，没有隐藏属性位
func hasHiddenAttribute(path string) bool {
	return false
}
