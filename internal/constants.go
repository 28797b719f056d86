package internal

const (
	// 无扩展名文件的归类目录
	NoExtDir = "no_ext"

	// 移动/复制重复文件时的目标后缀
	DuplicateSuffix = ".DUPLICATE"

	// 哈希计算的分块大小
	DefaultHashBufferSize = 64 * 1024

	// 默认哈希工作线程数
	DefaultWorkers = 4

	// 目标文件名冲突时的最大重命名尝试次数
	MaxRenameAttempts = 100
)
