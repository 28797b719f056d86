package app

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/eteb/Smart-File-Tool/internal"
	"github.com/eteb/Smart-File-Tool/pkg/logger"
	"github.com/eteb/Smart-File-Tool/pkg/organizer"
)

type OrganizeOptions struct {
	Dir        string
	By         string
	SkipHidden bool
	DryRun     bool
}

// RunOrganize 执行一次目录整理
func RunOrganize(opts *OrganizeOptions) (*internal.ProcessStats, error) {
	logger.Get().Info().Msgf("整理目录: %s", opts.Dir)
	if opts.DryRun {
		logger.Get().Info().Msg("=== 预览模式，不会实际修改文件 ===")
	}

	fs := afero.NewOsFs()
	stats := &internal.ProcessStats{StartTime: time.Now()}

	org := organizer.New(fs, opts.SkipHidden, opts.DryRun)
	if err := org.Organize(opts.Dir, internal.OrganizeMode(opts.By), stats); err != nil {
		return nil, fmt.Errorf("目录整理失败: %w", err)
	}

	stats.EndTime = time.Now()
	return stats, nil
}
