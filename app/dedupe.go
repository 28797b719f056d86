package app

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/eteb/Smart-File-Tool/internal"
	"github.com/eteb/Smart-File-Tool/pkg/deduplicator"
	"github.com/eteb/Smart-File-Tool/pkg/logger"
	"github.com/eteb/Smart-File-Tool/pkg/scanner"
)

type DedupeOptions struct {
	Dir        string
	Method     string
	Action     string
	SkipHidden bool
	DryRun     bool
	Workers    int
	BufferSize int
	Progress   bool
}

// RunDedupe 执行一次重复文件扫描和处理
func RunDedupe(opts *DedupeOptions) (*internal.ProcessStats, error) {
	method := internal.Method(opts.Method)
	action := internal.Action(opts.Action)

	// 参数校验在任何文件 I/O 之前完成
	if !method.Valid() {
		return nil, fmt.Errorf("%w: 未知的检测方法 %q，支持 checksum、name-size", internal.ErrInvalidArgument, method)
	}
	if !action.Valid() {
		return nil, fmt.Errorf("%w: 未知的处理动作 %q，支持 delete、move、copy", internal.ErrInvalidArgument, action)
	}

	logger.Get().Info().Msgf("重复扫描目录: %s", opts.Dir)
	logger.Get().Info().Msgf("检测方法: %s，处理动作: %s", method, action)
	if opts.DryRun {
		logger.Get().Info().Msg("=== 预览模式，不会实际修改文件 ===")
	}

	fs := afero.NewOsFs()
	stats := &internal.ProcessStats{StartTime: time.Now()}

	walker := scanner.NewFileWalker(fs, opts.SkipHidden)

	// 预扫一遍统计总数，再收集完整文件列表
	if _, err := walker.CountFiles([]string{opts.Dir}); err != nil {
		return nil, fmt.Errorf("统计文件数量失败: %w", err)
	}

	entries, err := walker.Collect(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("遍历目录失败: %w", err)
	}
	stats.TotalScanned = len(entries)

	dedup := deduplicator.New(fs, opts.Workers, opts.BufferSize, opts.Progress)

	groups, skipped, err := dedup.FindDuplicates(entries, method)
	if err != nil {
		return nil, err
	}
	stats.Skipped = skipped

	if len(groups) == 0 {
		logger.Get().Info().Msg("没有发现重复文件")
		stats.EndTime = time.Now()
		return stats, nil
	}

	if err := dedup.HandleDuplicates(groups, action, opts.DryRun, stats); err != nil {
		return nil, err
	}

	stats.EndTime = time.Now()
	return stats, nil
}
