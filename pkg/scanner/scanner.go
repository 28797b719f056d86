package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/eteb/Smart-File-Tool/pkg/logger"
)

// FileEntry 遍历得到的一个普通文件
type FileEntry struct {
	Path string
	Info os.FileInfo
}

type FileWalker struct {
	Fs         afero.Fs
	SkipHidden bool
}

func NewFileWalker(fs afero.Fs, skipHidden bool) *FileWalker {
	return &FileWalker{
		Fs:         fs,
		SkipHidden: skipHidden,
	}
}

// Walk 递归遍历 root 下的所有普通文件
// 遍历顺序由底层文件系统决定，调用方不应依赖顺序的跨平台一致性。
// 单个目录项的访问错误会被跳过，不会中断整个遍历。
func (w *FileWalker) Walk(root string, callback func(path string, info os.FileInfo) error) error {
	return afero.Walk(w.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Get().Debug().Err(err).Msgf("访问路径出错，跳过: %s", path)
			return nil
		}

		if info.IsDir() {
			// 跳过隐藏目录时整棵子树都不再下降
			if w.SkipHidden && path != root && w.IsHidden(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if w.SkipHidden && w.IsHidden(path) {
			return nil
		}

		return callback(path, info)
	})
}

// Collect 收集 root 下的全部文件，按遍历顺序返回。
// 整理操作移动文件前必须先收集完整列表，避免把刚建好的子目录再扫一遍。
func (w *FileWalker) Collect(root string) ([]FileEntry, error) {
	var entries []FileEntry
	err := w.Walk(root, func(path string, info os.FileInfo) error {
		entries = append(entries, FileEntry{Path: path, Info: info})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (w *FileWalker) CountFiles(dirs []string) (int, error) {
	logger.Get().Info().Msgf("开始统计文件数量，共 %d 个目录", len(dirs))

	count := 0
	for _, dir := range dirs {
		logger.Get().Debug().Msgf("扫描目录: %s", dir)
		err := w.Walk(dir, func(path string, info os.FileInfo) error {
			count++
			return nil
		})
		if err != nil {
			logger.Get().Error().Err(err).Msgf("扫描目录失败: %s", dir)
			return 0, err
		}
	}

	logger.Get().Info().Msgf("文件统计完成，共找到 %d 个文件", count)
	return count, nil
}

// IsHidden 判断文件是否为隐藏文件
// 所有平台都检查点号前缀命名约定；Windows 上额外检查隐藏属性位。
// 属性查询失败按"不隐藏"处理，不影响调用方。
func (w *FileWalker) IsHidden(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	return hasHiddenAttribute(path)
}
