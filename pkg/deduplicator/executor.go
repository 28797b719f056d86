package deduplicator

import (
	"fmt"

	"github.com/eteb/Smart-File-Tool/internal"
	"github.com/eteb/Smart-File-Tool/pkg/fileops"
	"github.com/eteb/Smart-File-Tool/pkg/logger"
	"github.com/eteb/Smart-File-Tool/pkg/scanner"
)

// HandleDuplicates 对每个分组的非保留成员执行动作
// 未知的 action 在任何修改发生前报错。dry-run 只记录将要执行的动作，
// 与真实执行产生完全相同的动作集合。单个文件的执行失败会被记录并计数，
// 批处理继续执行后面的文件。
func (d *Deduplicator) HandleDuplicates(groups []Group, action internal.Action, dryRun bool, stats *internal.ProcessStats) error {
	if !action.Valid() {
		return fmt.Errorf("%w: 未知的处理动作 %q，支持 delete、move、copy", internal.ErrInvalidArgument, action)
	}

	for _, group := range groups {
		survivor := group.Survivor()
		logger.Get().Debug().Msgf("分组 %s: 保留 %s，%d 个重复", group.Key, survivor.Path, len(group.Duplicates()))

		for i, dup := range group.Duplicates() {
			// 同组第二个及以后的重复追加序号，避免挤占同一个目标名
			target := survivor.Path + internal.DuplicateSuffix
			if i > 0 {
				target = fmt.Sprintf("%s.%d", target, i)
			}

			switch action {
			case internal.ActionDelete:
				d.deleteDuplicate(dup, dryRun, stats)
			case internal.ActionMove:
				d.moveDuplicate(dup, target, dryRun, stats)
			case internal.ActionCopy:
				d.copyDuplicate(dup, target, dryRun, stats)
			}
		}
	}

	return nil
}

func (d *Deduplicator) deleteDuplicate(dup scanner.FileEntry, dryRun bool, stats *internal.ProcessStats) {
	if dryRun {
		logger.Get().Info().Msgf("[预览] 删除 %s", dup.Path)
		stats.Deleted++
		stats.FreedSpace += dup.Info.Size()
		return
	}

	if err := d.fs.Remove(dup.Path); err != nil {
		logger.Get().Error().Err(err).Msgf("删除重复文件失败: %s", dup.Path)
		stats.Errors++
		return
	}

	logger.Get().Info().Msgf("删除 %s", dup.Path)
	stats.Deleted++
	stats.FreedSpace += dup.Info.Size()
}

func (d *Deduplicator) moveDuplicate(dup scanner.FileEntry, target string, dryRun bool, stats *internal.ProcessStats) {
	if dryRun {
		logger.Get().Info().Msgf("[预览] 移动 %s -> %s", dup.Path, target)
		stats.Moved++
		return
	}

	if err := fileops.Move(d.fs, dup.Path, target); err != nil {
		logger.Get().Error().Err(err).Msgf("移动重复文件失败: %s", dup.Path)
		stats.Errors++
		return
	}

	logger.Get().Info().Msgf("移动 %s -> %s", dup.Path, target)
	stats.Moved++
}

func (d *Deduplicator) copyDuplicate(dup scanner.FileEntry, target string, dryRun bool, stats *internal.ProcessStats) {
	if dryRun {
		logger.Get().Info().Msgf("[预览] 复制 %s -> %s", dup.Path, target)
		stats.Copied++
		return
	}

	if err := fileops.Copy(d.fs, dup.Path, target); err != nil {
		logger.Get().Error().Err(err).Msgf("复制重复文件失败: %s", dup.Path)
		stats.Errors++
		return
	}

	logger.Get().Info().Msgf("复制 %s -> %s", dup.Path, target)
	stats.Copied++
}
