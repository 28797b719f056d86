package organizer

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/eteb/Smart-File-Tool/internal"
	"github.com/eteb/Smart-File-Tool/pkg/classifier"
	"github.com/eteb/Smart-File-Tool/pkg/fileops"
	"github.com/eteb/Smart-File-Tool/pkg/logger"
	"github.com/eteb/Smart-File-Tool/pkg/scanner"
)

type Organizer struct {
	fs     afero.Fs
	walker *scanner.FileWalker
	dryRun bool
}

func New(fs afero.Fs, skipHidden, dryRun bool) *Organizer {
	return &Organizer{
		fs:     fs,
		walker: scanner.NewFileWalker(fs, skipHidden),
		dryRun: dryRun,
	}
}

// Organize 把 root 下的文件移入按分组键命名的子目录
// 目标路径等于源路径的文件原地跳过，重复执行不会产生新的移动（幂等）。
// 未知的 mode 在遍历开始前报错。单个文件的移动失败会被记录并计数，
// 整理继续处理后面的文件。
func (o *Organizer) Organize(root string, mode internal.OrganizeMode, stats *internal.ProcessStats) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: 未知的整理模式 %q，支持 type、date、mime", internal.ErrInvalidArgument, mode)
	}

	// 先收集完整文件列表再移动，避免把刚建好的子目录再扫一遍
	entries, err := o.walker.Collect(root)
	if err != nil {
		return fmt.Errorf("遍历目录失败: %w", err)
	}

	stats.TotalScanned += len(entries)
	logger.Get().Info().Msgf("共找到 %d 个文件，整理模式: %s", len(entries), mode)

	// 预览模式下用它记住已报告的目标名，冲突序号与真实执行保持一致
	planned := make(map[string]bool)

	for _, entry := range entries {
		if err := o.organizeFile(root, mode, entry, planned, stats); err != nil {
			logger.Get().Error().Err(err).Msgf("处理文件失败: %s", entry.Path)
			stats.Errors++
		}
	}

	return nil
}

func (o *Organizer) organizeFile(root string, mode internal.OrganizeMode, entry scanner.FileEntry, planned map[string]bool, stats *internal.ProcessStats) error {
	key, err := classifier.Key(o.fs, mode, entry.Path, entry.Info)
	if err != nil {
		return err
	}

	targetDir := filepath.Join(root, key)
	target := filepath.Join(targetDir, filepath.Base(entry.Path))

	if target == entry.Path {
		// 文件已经在正确的位置
		stats.InPlace++
		return nil
	}

	if o.dryRun {
		// 报告的目标名要和真实执行一致，包括冲突时的序号后缀
		target, err = fileops.UniquePathExcluding(o.fs, target, planned)
		if err != nil {
			return err
		}
		planned[target] = true
		logger.Get().Info().Msgf("[预览] 移动 %s -> %s", entry.Path, target)
		stats.Moved++
		return nil
	}

	if err := o.fs.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("%w: 创建分类目录失败: %v", internal.ErrFilesystem, err)
	}

	// 目标已有同名文件时追加序号，绝不覆盖
	target, err = fileops.UniquePath(o.fs, target)
	if err != nil {
		return err
	}

	if err := fileops.Move(o.fs, entry.Path, target); err != nil {
		return err
	}

	logger.Get().Info().Msgf("移动 %s -> %s", entry.Path, target)
	stats.Moved++
	return nil
}
